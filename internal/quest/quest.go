// Package quest evaluates session-scoped side objectives.
package quest

import (
	"math/rand"

	"typerush/internal/model"
)

// Kind is the closed set of quest condition types.
type Kind int

// Quest kinds.
const (
	KindNoMiss Kind = iota
	KindComboThreshold
	KindPhraseCountThreshold
	KindAccuracyThreshold
	KindDifficultyMatch
)

// String returns the catalog name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNoMiss:
		return "no_miss"
	case KindComboThreshold:
		return "combo_threshold"
	case KindPhraseCountThreshold:
		return "phrase_count_threshold"
	case KindAccuracyThreshold:
		return "accuracy_threshold"
	case KindDifficultyMatch:
		return "difficulty_match"
	default:
		return "unknown"
	}
}

// Condition holds the kind-specific completion parameters.
type Condition struct {
	Count      int
	Target     float64
	Difficulty model.Difficulty
}

// Reward is granted once when a quest completes.
type Reward struct {
	ScoreBonus float64
}

// Definition is an immutable quest loaded from the catalog.
type Definition struct {
	ID          string
	Kind        Kind
	Description string
	Condition   Condition
	Reward      Reward
}

// Progress wraps a definition with per-game completion state.
// Completion is one-directional; a completed quest never re-evaluates.
type Progress struct {
	Definition Definition
	Progress   int
	Completed  bool
}

// EventType identifies what triggered a quest check.
type EventType int

// Quest trigger events.
const (
	EventStatUpdate EventType = iota
	EventPhraseStart
	EventPhraseComplete
	EventGameEnd
)

// Event carries the payload for a quest check.
type Event struct {
	Type       EventType
	Misses     int
	Combo      int
	Accuracy   float64
	Difficulty model.Difficulty
	PhraseText string
}

// Engine holds the quest definitions and per-game progress.
type Engine struct {
	defs   []Definition
	active []*Progress
	rnd    *rand.Rand
}

// NewEngine builds a quest engine over the loaded definitions. The seed
// makes subset selection reproducible.
func NewEngine(defs []Definition, seed int64) *Engine {
	return &Engine{
		defs: defs,
		rnd:  rand.New(rand.NewSource(seed)),
	}
}

// Reset discards prior progress and selects count quests for a new game.
// Selection is the first count entries of a seeded permutation of the
// definition list, so a fixed seed yields a fixed subset.
func (e *Engine) Reset(count int) {
	if count > len(e.defs) {
		count = len(e.defs)
	}
	e.active = make([]*Progress, 0, count)
	if count <= 0 {
		return
	}
	for _, idx := range e.rnd.Perm(len(e.defs))[:count] {
		e.active = append(e.active, &Progress{Definition: e.defs[idx]})
	}
}

// Active returns a snapshot of the current quest progress set.
func (e *Engine) Active() []Progress {
	out := make([]Progress, 0, len(e.active))
	for _, p := range e.active {
		out = append(out, *p)
	}
	return out
}

// Check evaluates the event against every still-active quest and returns
// the definitions that completed on this call. The caller applies rewards.
func (e *Engine) Check(ev Event) []Definition {
	var completed []Definition
	for _, p := range e.active {
		if p.Completed {
			continue
		}
		if satisfies(p, ev) {
			p.Completed = true
			completed = append(completed, p.Definition)
		}
	}
	return completed
}

func satisfies(p *Progress, ev Event) bool {
	cond := p.Definition.Condition
	switch p.Definition.Kind {
	case KindNoMiss:
		if ev.Type != EventPhraseComplete {
			return false
		}
		if ev.Misses != 0 {
			p.Progress = 0
			return false
		}
		p.Progress++
		return p.Progress >= cond.Count
	case KindComboThreshold:
		return ev.Type == EventStatUpdate && float64(ev.Combo) >= cond.Target
	case KindPhraseCountThreshold:
		if ev.Type != EventPhraseComplete {
			return false
		}
		p.Progress++
		return p.Progress >= cond.Count
	case KindAccuracyThreshold:
		return ev.Type == EventGameEnd && ev.Accuracy >= cond.Target
	case KindDifficultyMatch:
		return ev.Type == EventGameEnd && ev.Difficulty == cond.Difficulty
	default:
		return false
	}
}
