package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"typerush/internal/model"
	"typerush/internal/quest"
)

// DefaultPhrases returns the built-in phrase catalog used when no
// phrases.toml exists.
func DefaultPhrases() []model.Phrase {
	return []model.Phrase{
		{ID: "fox", Text: "the quick brown fox jumps over the lazy dog"},
		{ID: "go-proverb-1", Text: "do not communicate by sharing memory"},
		{ID: "go-proverb-2", Text: "share memory by communicating"},
		{ID: "go-proverb-3", Text: "clear is better than clever"},
		{ID: "go-proverb-4", Text: "errors are values"},
		{ID: "go-proverb-5", Text: "a little copying is better than a little dependency"},
		{ID: "lorem-1", Text: "pack my box with five dozen liquor jugs"},
		{ID: "lorem-2", Text: "how vexingly quick daft zebras jump"},
		{ID: "lorem-3", Text: "sphinx of black quartz judge my vow"},
		{ID: "lorem-4", Text: "the five boxing wizards jump quickly"},
	}
}

// DefaultQuests returns the built-in quest catalog used when no
// quests.toml exists.
func DefaultQuests() []quest.Definition {
	return []quest.Definition{
		{
			ID:          "clean-streak",
			Kind:        quest.KindNoMiss,
			Description: "Finish 3 phrases in a row without a miss",
			Condition:   quest.Condition{Count: 3},
			Reward:      quest.Reward{ScoreBonus: 150},
		},
		{
			ID:          "combo-10",
			Kind:        quest.KindComboThreshold,
			Description: "Reach a 10 combo",
			Condition:   quest.Condition{Target: 10},
			Reward:      quest.Reward{ScoreBonus: 100},
		},
		{
			ID:          "combo-25",
			Kind:        quest.KindComboThreshold,
			Description: "Reach a 25 combo",
			Condition:   quest.Condition{Target: 25},
			Reward:      quest.Reward{ScoreBonus: 250},
		},
		{
			ID:          "marathon",
			Kind:        quest.KindPhraseCountThreshold,
			Description: "Complete 5 phrases",
			Condition:   quest.Condition{Count: 5},
			Reward:      quest.Reward{ScoreBonus: 200},
		},
		{
			ID:          "sharpshooter",
			Kind:        quest.KindAccuracyThreshold,
			Description: "Finish with 95% accuracy or better",
			Condition:   quest.Condition{Target: 95},
			Reward:      quest.Reward{ScoreBonus: 300},
		},
		{
			ID:          "daredevil",
			Kind:        quest.KindDifficultyMatch,
			Description: "Finish a game on lunatic",
			Condition:   quest.Condition{Difficulty: model.DifficultyLunatic},
			Reward:      quest.Reward{ScoreBonus: 400},
		},
	}
}

// WriteDefaultCatalogs writes editable copies of the built-in catalogs to
// the given paths. Existing files are left untouched.
func WriteDefaultCatalogs(phrasePath, questPath string) error {
	if err := writeIfMissing(phrasePath, renderPhraseCatalog(DefaultPhrases())); err != nil {
		return err
	}
	return writeIfMissing(questPath, renderQuestCatalog(DefaultQuests()))
}

func writeIfMissing(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func renderPhraseCatalog(phrases []model.Phrase) string {
	out := "# typerush phrase catalog\n"
	for _, p := range phrases {
		out += fmt.Sprintf("\n[[phrases]]\nid = %q\ntext = %q\n", p.ID, p.Text)
	}
	return out
}

func renderQuestCatalog(defs []quest.Definition) string {
	out := "# typerush quest catalog\n"
	for _, d := range defs {
		out += fmt.Sprintf("\n[[quests]]\nid = %q\ntype = %q\ndescription = %q\n", d.ID, d.Kind.String(), d.Description)
		out += "[quests.condition]\n"
		switch d.Kind {
		case quest.KindNoMiss, quest.KindPhraseCountThreshold:
			out += fmt.Sprintf("count = %d\n", d.Condition.Count)
		case quest.KindComboThreshold, quest.KindAccuracyThreshold:
			out += fmt.Sprintf("target = %g\n", d.Condition.Target)
		case quest.KindDifficultyMatch:
			out += fmt.Sprintf("difficulty = %q\n", string(d.Condition.Difficulty))
		}
		out += fmt.Sprintf("[quests.reward]\nscore-bonus = %g\n", d.Reward.ScoreBonus)
	}
	return out
}
