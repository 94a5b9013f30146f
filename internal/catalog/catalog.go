// Package catalog loads phrase and quest catalogs from TOML files.
package catalog

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"typerush/internal/model"
	"typerush/internal/quest"
)

// ErrEmptyCatalog reports a catalog that decoded fine but has no usable entries.
var ErrEmptyCatalog = errors.New("catalog contains no entries")

type phraseFile struct {
	Phrases []phraseEntry `toml:"phrases"`
}

type phraseEntry struct {
	ID   string `toml:"id"`
	Text string `toml:"text"`
}

type questFile struct {
	Quests []questEntry `toml:"quests"`
}

type questEntry struct {
	ID          string         `toml:"id"`
	Type        string         `toml:"type"`
	Description string         `toml:"description"`
	Condition   conditionEntry `toml:"condition"`
	Reward      rewardEntry    `toml:"reward"`
}

type conditionEntry struct {
	Count      int     `toml:"count"`
	Target     float64 `toml:"target"`
	Difficulty string  `toml:"difficulty"`
}

type rewardEntry struct {
	ScoreBonus float64 `toml:"score-bonus"`
}

// LoadPhrases reads the phrase catalog at path. A missing file yields the
// built-in default catalog; a present but malformed file is a hard error.
func LoadPhrases(path string) ([]model.Phrase, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return DefaultPhrases(), nil
		}
		return nil, fmt.Errorf("failed to stat phrase catalog: %w", err)
	}
	var file phraseFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("failed to decode phrase catalog: %w", err)
	}
	if len(file.Phrases) == 0 {
		return nil, fmt.Errorf("phrase catalog %s: %w", path, ErrEmptyCatalog)
	}
	phrases := make([]model.Phrase, 0, len(file.Phrases))
	for i, entry := range file.Phrases {
		if entry.ID == "" {
			return nil, fmt.Errorf("phrase catalog %s: entry %d has no id", path, i)
		}
		if entry.Text == "" {
			return nil, fmt.Errorf("phrase catalog %s: phrase %q has no text", path, entry.ID)
		}
		phrases = append(phrases, model.Phrase{ID: entry.ID, Text: entry.Text})
	}
	return phrases, nil
}

// LoadQuests reads the quest catalog at path. A missing file yields the
// built-in default catalog; a present but malformed file is a hard error.
func LoadQuests(path string) ([]quest.Definition, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return DefaultQuests(), nil
		}
		return nil, fmt.Errorf("failed to stat quest catalog: %w", err)
	}
	var file questFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("failed to decode quest catalog: %w", err)
	}
	if len(file.Quests) == 0 {
		return nil, fmt.Errorf("quest catalog %s: %w", path, ErrEmptyCatalog)
	}
	defs := make([]quest.Definition, 0, len(file.Quests))
	for i, entry := range file.Quests {
		def, err := buildQuest(entry)
		if err != nil {
			return nil, fmt.Errorf("quest catalog %s: entry %d: %w", path, i, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func buildQuest(entry questEntry) (quest.Definition, error) {
	if entry.ID == "" {
		return quest.Definition{}, fmt.Errorf("quest has no id")
	}
	kind, err := parseKind(entry.Type)
	if err != nil {
		return quest.Definition{}, fmt.Errorf("quest %q: %w", entry.ID, err)
	}
	cond := quest.Condition{
		Count:  entry.Condition.Count,
		Target: entry.Condition.Target,
	}
	switch kind {
	case quest.KindNoMiss, quest.KindPhraseCountThreshold:
		if cond.Count <= 0 {
			return quest.Definition{}, fmt.Errorf("quest %q: condition.count must be > 0", entry.ID)
		}
	case quest.KindComboThreshold, quest.KindAccuracyThreshold:
		if cond.Target <= 0 {
			return quest.Definition{}, fmt.Errorf("quest %q: condition.target must be > 0", entry.ID)
		}
	case quest.KindDifficultyMatch:
		d, err := model.ParseDifficulty(entry.Condition.Difficulty)
		if err != nil {
			return quest.Definition{}, fmt.Errorf("quest %q: %w", entry.ID, err)
		}
		cond.Difficulty = d
	}
	return quest.Definition{
		ID:          entry.ID,
		Kind:        kind,
		Description: entry.Description,
		Condition:   cond,
		Reward:      quest.Reward{ScoreBonus: entry.Reward.ScoreBonus},
	}, nil
}

func parseKind(s string) (quest.Kind, error) {
	switch s {
	case "no_miss":
		return quest.KindNoMiss, nil
	case "combo_threshold":
		return quest.KindComboThreshold, nil
	case "phrase_count_threshold":
		return quest.KindPhraseCountThreshold, nil
	case "accuracy_threshold":
		return quest.KindAccuracyThreshold, nil
	case "difficulty_match":
		return quest.KindDifficultyMatch, nil
	default:
		return 0, fmt.Errorf("unknown quest type %q", s)
	}
}
