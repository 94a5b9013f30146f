// Package scoring computes per-character score deltas and bonuses.
package scoring

import (
	"math"

	"typerush/internal/model"
)

// Default scoring constants. All of them can be overridden from the config file.
const (
	DefaultBasePoints      = 10.0
	DefaultMissPenalty     = 15.0
	DefaultComboMultiplier = 0.02
	DefaultTimeBonusFactor = 200.0
)

// Rules holds the tunable scoring constants for a game.
type Rules struct {
	BasePoints       float64
	MissPenalty      float64
	ComboMultiplier  float64
	TimeBonusFactor  float64
	DifficultyFactor map[model.Difficulty]float64
}

// DefaultRules returns the stock rule set.
func DefaultRules() Rules {
	return Rules{
		BasePoints:      DefaultBasePoints,
		MissPenalty:     DefaultMissPenalty,
		ComboMultiplier: DefaultComboMultiplier,
		TimeBonusFactor: DefaultTimeBonusFactor,
		DifficultyFactor: map[model.Difficulty]float64{
			model.DifficultyEasy:    0.8,
			model.DifficultyNormal:  1.0,
			model.DifficultyHard:    1.2,
			model.DifficultyLunatic: 1.5,
		},
	}
}

// Factor returns the multiplier for a difficulty, defaulting to 1.
func (r Rules) Factor(d model.Difficulty) float64 {
	if f, ok := r.DifficultyFactor[d]; ok {
		return f
	}
	return 1.0
}

// CharDelta returns the score change for one classified character.
// The combo argument is the post-increment value: the character that
// extends the combo to N is scored with N.
func (r Rules) CharDelta(correct bool, combo int, d model.Difficulty) float64 {
	if !correct {
		return -r.MissPenalty
	}
	return r.BasePoints * r.Factor(d) * (1 + float64(combo)*r.ComboMultiplier)
}

// TimeBonus returns the phrase-completion bonus, floored to an integer value.
func (r Rules) TimeBonus(timeRemaining, duration int) float64 {
	if duration <= 0 || timeRemaining <= 0 {
		return 0
	}
	return math.Floor(float64(timeRemaining) / float64(duration) * r.TimeBonusFactor)
}
