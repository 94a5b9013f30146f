// Package session owns the game lifecycle: phrase progression, the
// countdown, and scoring/quest orchestration for a single game.
package session

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"typerush/internal/model"
	"typerush/internal/quest"
	"typerush/internal/scoring"
)

// ErrNoPhrases reports an attempt to start a game with an empty phrase catalog.
var ErrNoPhrases = errors.New("no phrases available")

// Status is the game lifecycle state.
type Status int

// Lifecycle states. Finished is terminal for a game; Start builds a fresh one.
const (
	StatusReady Status = iota
	StatusPlaying
	StatusFinished
)

// Config holds the per-game parameters, read once at start.
type Config struct {
	DurationSeconds int
	Difficulty      model.Difficulty
	QuestCount      int
	Rules           scoring.Rules
}

// HUD is the display snapshot consumed by the presentation layer.
type HUD struct {
	TimeRemaining int
	Score         int
	Misses        int
	Combo         int
}

// Engine is the session state machine. All mutation happens synchronously
// inside a single callback (change, commit, or tick); it has no internal
// concurrency.
type Engine struct {
	cfg     Config
	phrases []model.Phrase
	quests  *quest.Engine
	rnd     *rand.Rand

	status        Status
	currentIdx    int
	input         []rune
	timeRemaining int
	timerArmed    bool
	timerGen      int
	score         float64
	combo         int
	bestCombo     int
	phraseMisses  int
	totalMisses   int
	totalTyped    int
	totalCorrect  int
	phrasesDone   int
	questsDone    int
	startedAt     time.Time
	result        model.GameRecord
	hasResult     bool
	justCompleted []quest.Definition
}

// New builds an engine over the loaded catalogs. The seed drives both
// phrase selection and quest subset selection, so a fixed seed replays
// the same game layout.
func New(cfg Config, phrases []model.Phrase, questDefs []quest.Definition, seed int64) *Engine {
	return &Engine{
		cfg:        cfg,
		phrases:    phrases,
		quests:     quest.NewEngine(questDefs, seed),
		rnd:        rand.New(rand.NewSource(seed)),
		currentIdx: -1,
	}
}

// Start transitions Ready (or any prior state) into Playing on a fresh
// game. The countdown is not armed yet; that happens on the first
// qualifying input. A restart mid-game invalidates the prior timer.
func (e *Engine) Start() error {
	if len(e.phrases) == 0 {
		e.status = StatusReady
		return ErrNoPhrases
	}
	e.timerGen++
	e.status = StatusPlaying
	e.currentIdx = -1
	e.input = nil
	e.timeRemaining = e.cfg.DurationSeconds
	e.timerArmed = false
	e.score = 0
	e.combo = 0
	e.bestCombo = 0
	e.phraseMisses = 0
	e.totalMisses = 0
	e.totalTyped = 0
	e.totalCorrect = 0
	e.phrasesDone = 0
	e.questsDone = 0
	e.startedAt = time.Now()
	e.hasResult = false
	e.justCompleted = nil
	e.quests.Reset(e.cfg.QuestCount)
	e.advancePhrase()
	return nil
}

// Cancel abandons the current game and returns to Ready, releasing the
// timer. No partial result is kept.
func (e *Engine) Cancel() {
	e.timerGen++
	e.timerArmed = false
	e.status = StatusReady
	e.hasResult = false
}

// Status returns the current lifecycle state.
func (e *Engine) Status() Status {
	return e.status
}

// Phrase returns the phrase being transcribed.
func (e *Engine) Phrase() model.Phrase {
	if e.currentIdx < 0 || e.currentIdx >= len(e.phrases) {
		return model.Phrase{}
	}
	return e.phrases[e.currentIdx]
}

// Input returns a copy of the current input buffer runes.
func (e *Engine) Input() []rune {
	out := make([]rune, len(e.input))
	copy(out, e.input)
	return out
}

// HUD returns the display snapshot. Score is rounded here only; it
// accumulates as a real number internally.
func (e *Engine) HUD() HUD {
	return HUD{
		TimeRemaining: e.timeRemaining,
		Score:         int(math.Round(e.score)),
		Misses:        e.totalMisses,
		Combo:         e.combo,
	}
}

// Quests returns the current quest progress snapshot.
func (e *Engine) Quests() []quest.Progress {
	return e.quests.Active()
}

// TakeCompleted drains the quests completed since the last call, for
// one-shot presentation effects.
func (e *Engine) TakeCompleted() []quest.Definition {
	out := e.justCompleted
	e.justCompleted = nil
	return out
}

// TimerArmed reports whether the countdown has started.
func (e *Engine) TimerArmed() bool {
	return e.timerArmed
}

// TimerGeneration returns the token that ticks must carry to be applied.
// It changes on every start, cancel, and finish, so stale ticks from a
// prior game are no-ops.
func (e *Engine) TimerGeneration() int {
	return e.timerGen
}

// Result returns the final record once the game is Finished.
func (e *Engine) Result() (model.GameRecord, bool) {
	return e.result, e.hasResult
}

// HandleChange processes a normalized buffer change. Outside Playing it
// is a silent no-op (stray events after time-out are expected).
func (e *Engine) HandleChange(text string) {
	if e.status != StatusPlaying {
		return
	}
	next := []rune(text)
	for i := len(e.input); i < len(next); i++ {
		e.classify(next[i], i)
	}
	e.input = next
	if !e.timerArmed && strings.TrimSpace(text) != "" {
		e.timerArmed = true
	}
	if string(e.input) == e.Phrase().Text {
		e.completePhrase()
	}
}

// HandleCommit processes an explicit submit of the buffer. Only an exact
// match advances the phrase; anything else is ignored.
func (e *Engine) HandleCommit(text string) {
	if e.status != StatusPlaying {
		return
	}
	if text != e.Phrase().Text {
		return
	}
	e.input = []rune(text)
	e.completePhrase()
}

// Tick advances the countdown by one second. Ticks from a stale
// generation, before arming, or outside Playing are no-ops. Returns true
// when this tick finished the game.
func (e *Engine) Tick(generation int) bool {
	if e.status != StatusPlaying || generation != e.timerGen || !e.timerArmed {
		return false
	}
	e.timeRemaining--
	if e.timeRemaining <= 0 {
		e.timeRemaining = 0
		e.finish()
		return true
	}
	return false
}

func (e *Engine) classify(r rune, idx int) {
	target := []rune(e.Phrase().Text)
	correct := idx < len(target) && r == target[idx]
	e.totalTyped++
	if correct {
		e.combo++
		if e.combo > e.bestCombo {
			e.bestCombo = e.combo
		}
		e.totalCorrect++
	} else {
		e.combo = 0
		e.phraseMisses++
		e.totalMisses++
	}
	// Combo is incremented before scoring: the char extending the combo
	// to N is worth the N-combo delta.
	e.score += e.cfg.Rules.CharDelta(correct, e.combo, e.cfg.Difficulty)
	e.applyRewards(e.quests.Check(quest.Event{Type: quest.EventStatUpdate, Combo: e.combo}))
}

func (e *Engine) completePhrase() {
	e.score += e.cfg.Rules.TimeBonus(e.timeRemaining, e.cfg.DurationSeconds)
	e.phrasesDone++
	e.applyRewards(e.quests.Check(quest.Event{Type: quest.EventPhraseComplete, Misses: e.phraseMisses}))
	e.phraseMisses = 0
	e.input = nil
	e.advancePhrase()
}

func (e *Engine) advancePhrase() {
	next := e.rnd.Intn(len(e.phrases))
	if len(e.phrases) > 1 && e.currentIdx >= 0 {
		// Uniform over the catalog minus the phrase just shown.
		next = e.rnd.Intn(len(e.phrases) - 1)
		if next >= e.currentIdx {
			next++
		}
	}
	e.currentIdx = next
	e.applyRewards(e.quests.Check(quest.Event{Type: quest.EventPhraseStart, PhraseText: e.Phrase().Text}))
}

func (e *Engine) applyRewards(completed []quest.Definition) {
	for _, def := range completed {
		e.score += def.Reward.ScoreBonus
		e.questsDone++
	}
	e.justCompleted = append(e.justCompleted, completed...)
}

func (e *Engine) finish() {
	e.status = StatusFinished
	e.timerGen++
	e.timerArmed = false

	accuracy := 0.0
	if e.totalTyped > 0 {
		accuracy = float64(e.totalCorrect) / float64(e.totalTyped) * 100
	}
	wpm := 0.0
	if e.cfg.DurationSeconds > 0 {
		minutes := float64(e.cfg.DurationSeconds) / 60.0
		wpm = (float64(e.totalCorrect) / 5.0) / minutes
	}
	e.applyRewards(e.quests.Check(quest.Event{
		Type:       quest.EventGameEnd,
		Accuracy:   accuracy,
		Difficulty: e.cfg.Difficulty,
	}))

	e.result = model.GameRecord{
		ID:              uuid.NewString(),
		StartedAt:       e.startedAt,
		EndedAt:         time.Now(),
		Difficulty:      e.cfg.Difficulty,
		DurationSeconds: e.cfg.DurationSeconds,
		Score:           int(math.Round(e.score)),
		Accuracy:        accuracy,
		WPM:             wpm,
		Phrases:         e.phrasesDone,
		Misses:          e.totalMisses,
		BestCombo:       e.bestCombo,
		QuestsCompleted: e.questsDone,
	}
	e.hasResult = true
}
