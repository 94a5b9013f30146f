package session

import (
	"math"
	"strings"
	"testing"

	"typerush/internal/model"
	"typerush/internal/quest"
	"typerush/internal/scoring"
)

func testConfig() Config {
	return Config{
		DurationSeconds: 60,
		Difficulty:      model.DifficultyNormal,
		QuestCount:      0,
		Rules:           scoring.DefaultRules(),
	}
}

func startEngine(t *testing.T, cfg Config, phrases []model.Phrase, defs []quest.Definition) *Engine {
	t.Helper()
	e := New(cfg, phrases, defs, 1)
	if err := e.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	return e
}

func TestStartFailsOnEmptyCatalog(t *testing.T) {
	e := New(testConfig(), nil, nil, 1)
	if err := e.Start(); err != ErrNoPhrases {
		t.Fatalf("expected ErrNoPhrases, got %v", err)
	}
	if e.Status() != StatusReady {
		t.Fatalf("expected machine to stay Ready, got %v", e.Status())
	}
}

func TestComboGrowsWithCorrectSequence(t *testing.T) {
	phrase := model.Phrase{ID: "p", Text: "abcdefgh"}
	e := startEngine(t, testConfig(), []model.Phrase{phrase}, nil)
	text := []rune(phrase.Text)
	var want float64
	rules := scoring.DefaultRules()
	for i := 1; i < len(text); i++ { // stop short of completing the phrase
		e.HandleChange(string(text[:i]))
		want += rules.CharDelta(true, i, model.DifficultyNormal)
		if hud := e.HUD(); hud.Combo != i {
			t.Fatalf("expected combo %d, got %d", i, hud.Combo)
		}
	}
	if hud := e.HUD(); hud.Score != int(math.Round(want)) {
		t.Fatalf("expected closed-form score %d, got %d", int(math.Round(want)), hud.Score)
	}
}

func TestMissResetsComboAndAppliesFlatPenalty(t *testing.T) {
	phrase := model.Phrase{ID: "p", Text: "abcdef"}
	e := startEngine(t, testConfig(), []model.Phrase{phrase}, nil)
	e.HandleChange("a")
	e.HandleChange("ab")
	e.HandleChange("abc")
	before := e.HUD()
	e.HandleChange("abcX")
	after := e.HUD()
	if after.Combo != 0 {
		t.Fatalf("expected combo reset, got %d", after.Combo)
	}
	if before.Score-after.Score != 15 {
		t.Fatalf("expected flat 15-point penalty, got %d", before.Score-after.Score)
	}
	if after.Misses != 1 {
		t.Fatalf("expected 1 miss, got %d", after.Misses)
	}
}

func TestMistypeThenCorrectAndAdvance(t *testing.T) {
	phrases := []model.Phrase{{ID: "cat", Text: "cat"}, {ID: "dog", Text: "dog"}}
	defs := []quest.Definition{
		{ID: "nm", Kind: quest.KindNoMiss, Condition: quest.Condition{Count: 1}, Reward: quest.Reward{ScoreBonus: 50}},
	}
	cfg := testConfig()
	cfg.QuestCount = 1
	e := New(cfg, phrases, defs, 1)
	if err := e.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	first := e.Phrase()
	target := []rune(first.Text)
	e.HandleChange(string(target[:1]))
	e.HandleChange(string(target[:2]))
	e.HandleChange(string(target[:2]) + "X") // wrong third char
	e.HandleChange(string(target[:2]))      // backspace
	e.HandleChange(first.Text)              // correct, completes the phrase

	if e.Phrase().ID == first.ID {
		t.Fatalf("expected phrase advance away from %s", first.ID)
	}
	hud := e.HUD()
	if hud.Misses != 1 {
		t.Fatalf("expected 1 miss, got %d", hud.Misses)
	}
	// 3 correct + 1 wrong: the wrong char and its correction both count.
	rec := e.snapshotTotals()
	if rec.typed != 4 || rec.correct != 3 {
		t.Fatalf("expected 4 typed / 3 correct, got %d / %d", rec.typed, rec.correct)
	}
	// The missed phrase must not advance the no-miss streak.
	for _, p := range e.Quests() {
		if p.Definition.ID == "nm" && (p.Completed || p.Progress != 0) {
			t.Fatalf("no-miss quest should not progress after a missed phrase: %+v", p)
		}
	}
}

type totals struct{ typed, correct int }

func (e *Engine) snapshotTotals() totals {
	return totals{typed: e.totalTyped, correct: e.totalCorrect}
}

func TestTypedEqualsCorrectIffNoMisses(t *testing.T) {
	phrase := model.Phrase{ID: "p", Text: "abc def"}
	e := startEngine(t, testConfig(), []model.Phrase{phrase}, nil)
	e.HandleChange("a")
	e.HandleChange("ab")
	tot := e.snapshotTotals()
	if tot.typed != tot.correct {
		t.Fatalf("expected typed == correct with zero misses, got %d / %d", tot.typed, tot.correct)
	}
	e.HandleChange("abX")
	tot = e.snapshotTotals()
	if tot.typed <= tot.correct {
		t.Fatalf("expected typed > correct after a miss, got %d / %d", tot.typed, tot.correct)
	}
}

func TestPhraseBonusAppliedOnCompletion(t *testing.T) {
	phrase := model.Phrase{ID: "p", Text: "ab"}
	e := startEngine(t, testConfig(), []model.Phrase{phrase}, nil)
	rules := scoring.DefaultRules()
	e.HandleChange("a")
	e.HandleChange("ab")
	want := rules.CharDelta(true, 1, model.DifficultyNormal) +
		rules.CharDelta(true, 2, model.DifficultyNormal) +
		rules.TimeBonus(60, 60)
	if hud := e.HUD(); hud.Score != int(math.Round(want)) {
		t.Fatalf("expected score %d with time bonus, got %d", int(math.Round(want)), hud.Score)
	}
}

func TestCommitAdvancesOnlyOnExactMatch(t *testing.T) {
	phrases := []model.Phrase{{ID: "a", Text: "cat"}, {ID: "b", Text: "dog"}}
	e := startEngine(t, testConfig(), phrases, nil)
	first := e.Phrase()
	e.HandleCommit("not the phrase")
	if e.Phrase().ID != first.ID {
		t.Fatalf("expected no advance on mismatched commit")
	}
	e.HandleCommit(first.Text)
	if e.Phrase().ID == first.ID {
		t.Fatalf("expected advance on exact commit")
	}
}

func TestNoImmediatePhraseRepeat(t *testing.T) {
	phrases := []model.Phrase{{ID: "a", Text: "aa"}, {ID: "b", Text: "bb"}, {ID: "c", Text: "cc"}}
	e := startEngine(t, testConfig(), phrases, nil)
	prev := e.Phrase().ID
	for i := 0; i < 200; i++ {
		e.HandleCommit(e.Phrase().Text)
		cur := e.Phrase().ID
		if cur == prev {
			t.Fatalf("advance %d selected the same phrase %s twice in a row", i, cur)
		}
		prev = cur
	}
}

func TestTimerArmsOnFirstQualifyingCharacterOnly(t *testing.T) {
	phrase := model.Phrase{ID: "p", Text: " lead"}
	e := startEngine(t, testConfig(), []model.Phrase{phrase}, nil)
	if e.TimerArmed() {
		t.Fatalf("timer must not be armed at start")
	}
	e.HandleChange("")
	if e.TimerArmed() {
		t.Fatalf("empty buffer must not arm the timer")
	}
	e.HandleChange(" ")
	if e.TimerArmed() {
		t.Fatalf("whitespace-only buffer must not arm the timer")
	}
	e.HandleChange(" l")
	if !e.TimerArmed() {
		t.Fatalf("expected timer armed on first qualifying character")
	}
}

func TestTickCountdownFinishesExactlyOnce(t *testing.T) {
	phrase := model.Phrase{ID: "p", Text: "zzz"}
	e := startEngine(t, testConfig(), []model.Phrase{phrase}, nil)
	gen := e.TimerGeneration()
	if e.Tick(gen) {
		t.Fatalf("tick before arming must be a no-op")
	}
	e.HandleChange("z")
	var finishes int
	for i := 0; i < 61; i++ {
		if e.Tick(gen) {
			finishes++
		}
	}
	if finishes != 1 {
		t.Fatalf("expected exactly one finishing tick, got %d", finishes)
	}
	if e.Status() != StatusFinished {
		t.Fatalf("expected Finished, got %v", e.Status())
	}
	if hud := e.HUD(); hud.TimeRemaining != 0 {
		t.Fatalf("expected time 0, got %d", hud.TimeRemaining)
	}
}

func TestStaleTickIgnoredAfterRestart(t *testing.T) {
	phrase := model.Phrase{ID: "p", Text: "zz"}
	e := startEngine(t, testConfig(), []model.Phrase{phrase}, nil)
	e.HandleChange("z")
	old := e.TimerGeneration()
	if err := e.Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	e.HandleChange("z")
	before := e.HUD().TimeRemaining
	if e.Tick(old) {
		t.Fatalf("stale tick must not finish the game")
	}
	if e.HUD().TimeRemaining != before {
		t.Fatalf("stale tick must not decrement the countdown")
	}
}

func TestInputIgnoredOnceFinished(t *testing.T) {
	phrase := model.Phrase{ID: "p", Text: "ab"}
	e := startEngine(t, testConfig(), []model.Phrase{phrase}, nil)
	e.HandleChange("a")
	gen := e.TimerGeneration()
	for i := 0; i < 60; i++ {
		e.Tick(gen)
	}
	if e.Status() != StatusFinished {
		t.Fatalf("expected Finished")
	}
	rec, ok := e.Result()
	if !ok {
		t.Fatalf("expected result record")
	}
	e.HandleChange("ab")
	e.HandleCommit("ab")
	rec2, _ := e.Result()
	if rec2.Score != rec.Score || rec2.Phrases != rec.Phrases {
		t.Fatalf("input after Finished mutated the result: %+v vs %+v", rec, rec2)
	}
}

func TestGameEndWithZeroTyped(t *testing.T) {
	phrase := model.Phrase{ID: "p", Text: "ab"}
	e := startEngine(t, testConfig(), []model.Phrase{phrase}, nil)
	// The countdown only arms after input, so a zero-typed finish can
	// only come from a direct end-of-game; accuracy must not divide by zero.
	e.finish()
	rec, ok := e.Result()
	if !ok {
		t.Fatalf("expected result")
	}
	if rec.Accuracy != 0 {
		t.Fatalf("expected 0 accuracy with zero typed, got %.2f", rec.Accuracy)
	}
	if rec.WPM != 0 {
		t.Fatalf("expected 0 WPM with zero typed, got %.2f", rec.WPM)
	}
}

func TestGameEndAccuracyZeroWithOnlyMisses(t *testing.T) {
	phrase := model.Phrase{ID: "p", Text: "ab"}
	cfg := testConfig()
	e := startEngine(t, cfg, []model.Phrase{phrase}, nil)
	e.HandleChange("x")
	gen := e.TimerGeneration()
	for i := 0; i < cfg.DurationSeconds; i++ {
		e.Tick(gen)
	}
	rec, ok := e.Result()
	if !ok {
		t.Fatalf("expected result")
	}
	if rec.Accuracy != 0 || rec.WPM != 0 {
		t.Fatalf("expected 0 accuracy and WPM with only misses, got %.2f / %.2f", rec.Accuracy, rec.WPM)
	}
	if rec.Misses != 1 {
		t.Fatalf("expected 1 miss recorded, got %d", rec.Misses)
	}
}

func TestComboThresholdQuestFiresOnceWithReward(t *testing.T) {
	phrase := model.Phrase{ID: "p", Text: strings.Repeat("a", 30)}
	defs := []quest.Definition{
		{ID: "combo5", Kind: quest.KindComboThreshold, Condition: quest.Condition{Target: 5}, Reward: quest.Reward{ScoreBonus: 100}},
	}
	cfg := testConfig()
	cfg.QuestCount = 1
	e := New(cfg, []model.Phrase{phrase}, defs, 1)
	if err := e.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	rules := scoring.DefaultRules()
	var want float64
	for i := 1; i <= 5; i++ {
		e.HandleChange(strings.Repeat("a", i))
		want += rules.CharDelta(true, i, model.DifficultyNormal)
	}
	want += 100 // quest bonus applied after the per-character delta
	if hud := e.HUD(); hud.Score != int(math.Round(want)) {
		t.Fatalf("expected score %d including quest bonus, got %d", int(math.Round(want)), hud.Score)
	}
	done := e.TakeCompleted()
	if len(done) != 1 || done[0].ID != "combo5" {
		t.Fatalf("expected combo5 completion, got %v", done)
	}
	// Break the combo, climb back past 5: the quest must not re-fire.
	e.HandleChange(strings.Repeat("a", 5) + "X")
	for i := 7; i <= 13; i++ {
		e.HandleChange(strings.Repeat("a", 5) + "X" + strings.Repeat("a", i-6))
	}
	if extra := e.TakeCompleted(); len(extra) != 0 {
		t.Fatalf("completed quest re-fired: %v", extra)
	}
}

func TestCancelReleasesTimerAndReturnsToReady(t *testing.T) {
	phrase := model.Phrase{ID: "p", Text: "ab"}
	e := startEngine(t, testConfig(), []model.Phrase{phrase}, nil)
	e.HandleChange("a")
	gen := e.TimerGeneration()
	e.Cancel()
	if e.Status() != StatusReady {
		t.Fatalf("expected Ready after cancel, got %v", e.Status())
	}
	if e.Tick(gen) {
		t.Fatalf("tick after cancel must be a no-op")
	}
	if _, ok := e.Result(); ok {
		t.Fatalf("cancel must not preserve a result")
	}
}

func TestFreshQuestSubsetPerStart(t *testing.T) {
	defs := []quest.Definition{
		{ID: "q1", Kind: quest.KindPhraseCountThreshold, Condition: quest.Condition{Count: 1}, Reward: quest.Reward{ScoreBonus: 10}},
		{ID: "q2", Kind: quest.KindPhraseCountThreshold, Condition: quest.Condition{Count: 2}, Reward: quest.Reward{ScoreBonus: 10}},
	}
	cfg := testConfig()
	cfg.QuestCount = 2
	e := New(cfg, []model.Phrase{{ID: "p", Text: "ab"}}, defs, 1)
	if err := e.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	e.HandleCommit("ab")
	if err := e.Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	for _, p := range e.Quests() {
		if p.Completed || p.Progress != 0 {
			t.Fatalf("expected fresh quest progress after restart, got %+v", p)
		}
	}
}
