package quest

import (
	"fmt"
	"testing"

	"typerush/internal/model"
)

func defs() []Definition {
	return []Definition{
		{ID: "nm", Kind: KindNoMiss, Condition: Condition{Count: 2}, Reward: Reward{ScoreBonus: 50}},
		{ID: "cb", Kind: KindComboThreshold, Condition: Condition{Target: 5}, Reward: Reward{ScoreBonus: 100}},
		{ID: "pc", Kind: KindPhraseCountThreshold, Condition: Condition{Count: 3}, Reward: Reward{ScoreBonus: 80}},
		{ID: "ac", Kind: KindAccuracyThreshold, Condition: Condition{Target: 95}, Reward: Reward{ScoreBonus: 120}},
		{ID: "dm", Kind: KindDifficultyMatch, Condition: Condition{Difficulty: model.DifficultyHard}, Reward: Reward{ScoreBonus: 60}},
	}
}

func engineWithAll(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine(defs(), 1)
	e.Reset(len(defs()))
	return e
}

func findActive(t *testing.T, e *Engine, id string) Progress {
	t.Helper()
	for _, p := range e.Active() {
		if p.Definition.ID == id {
			return p
		}
	}
	t.Fatalf("quest %s not active", id)
	return Progress{}
}

func TestComboThresholdFiresOnceOnly(t *testing.T) {
	e := engineWithAll(t)
	if got := e.Check(Event{Type: EventStatUpdate, Combo: 4}); len(got) != 0 {
		t.Fatalf("expected no completion below threshold, got %v", got)
	}
	got := e.Check(Event{Type: EventStatUpdate, Combo: 5})
	if len(got) != 1 || got[0].ID != "cb" {
		t.Fatalf("expected cb to complete, got %v", got)
	}
	// Combo drops and climbs back; quest stays completed.
	if got := e.Check(Event{Type: EventStatUpdate, Combo: 5}); len(got) != 0 {
		t.Fatalf("expected no re-fire, got %v", got)
	}
}

func TestNoMissStreakResetsOnMissedPhrase(t *testing.T) {
	e := engineWithAll(t)
	if got := e.Check(Event{Type: EventPhraseComplete, Misses: 0}); len(got) != 0 {
		t.Fatalf("expected no completion after one clean phrase, got %v", got)
	}
	if p := findActive(t, e, "nm"); p.Progress != 1 {
		t.Fatalf("expected streak 1, got %d", p.Progress)
	}
	e.Check(Event{Type: EventPhraseComplete, Misses: 2})
	if p := findActive(t, e, "nm"); p.Progress != 0 {
		t.Fatalf("expected streak reset, got %d", p.Progress)
	}
	e.Check(Event{Type: EventPhraseComplete, Misses: 0})
	got := e.Check(Event{Type: EventPhraseComplete, Misses: 0})
	for _, d := range got {
		if d.ID == "nm" {
			return
		}
	}
	t.Fatalf("expected nm to complete after two consecutive clean phrases, got %v", got)
}

func TestPhraseCountThresholdAlwaysIncrements(t *testing.T) {
	e := engineWithAll(t)
	e.Check(Event{Type: EventPhraseComplete, Misses: 5})
	e.Check(Event{Type: EventPhraseComplete, Misses: 0})
	got := e.Check(Event{Type: EventPhraseComplete, Misses: 1})
	found := false
	for _, d := range got {
		if d.ID == "pc" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected pc to complete after three phrases, got %v", got)
	}
}

func TestGameEndKinds(t *testing.T) {
	e := engineWithAll(t)
	got := e.Check(Event{Type: EventGameEnd, Accuracy: 96.5, Difficulty: model.DifficultyHard})
	ids := map[string]bool{}
	for _, d := range got {
		ids[d.ID] = true
	}
	if !ids["ac"] || !ids["dm"] {
		t.Fatalf("expected ac and dm to complete, got %v", got)
	}
}

func TestGameEndBelowThresholds(t *testing.T) {
	e := engineWithAll(t)
	got := e.Check(Event{Type: EventGameEnd, Accuracy: 80, Difficulty: model.DifficultyEasy})
	if len(got) != 0 {
		t.Fatalf("expected no completions, got %v", got)
	}
}

func TestResetSubsetDeterministicForSeed(t *testing.T) {
	all := make([]Definition, 0, 10)
	for i := 0; i < 10; i++ {
		all = append(all, Definition{ID: fmt.Sprintf("q%d", i), Kind: KindPhraseCountThreshold, Condition: Condition{Count: 1}})
	}
	a := NewEngine(all, 42)
	b := NewEngine(all, 42)
	a.Reset(3)
	b.Reset(3)
	pa, pb := a.Active(), b.Active()
	if len(pa) != 3 || len(pb) != 3 {
		t.Fatalf("expected 3 active quests, got %d and %d", len(pa), len(pb))
	}
	for i := range pa {
		if pa[i].Definition.ID != pb[i].Definition.ID {
			t.Fatalf("expected identical subsets for same seed, got %s vs %s", pa[i].Definition.ID, pb[i].Definition.ID)
		}
	}
}

func TestResetClearsPriorProgress(t *testing.T) {
	e := NewEngine(defs(), 7)
	e.Reset(len(defs()))
	e.Check(Event{Type: EventStatUpdate, Combo: 10})
	e.Reset(len(defs()))
	for _, p := range e.Active() {
		if p.Completed || p.Progress != 0 {
			t.Fatalf("expected fresh progress after reset, got %+v", p)
		}
	}
}

func TestResetCountClampedToDefinitions(t *testing.T) {
	e := NewEngine(defs(), 1)
	e.Reset(99)
	if len(e.Active()) != len(defs()) {
		t.Fatalf("expected %d active quests, got %d", len(defs()), len(e.Active()))
	}
	e.Reset(0)
	if len(e.Active()) != 0 {
		t.Fatalf("expected no active quests, got %d", len(e.Active()))
	}
}
