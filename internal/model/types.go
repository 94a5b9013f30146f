// Package model defines shared data structures.
package model

import (
	"fmt"
	"time"
)

// Difficulty selects the score multiplier tier for a game.
type Difficulty string

// Known difficulty levels.
const (
	DifficultyEasy    Difficulty = "easy"
	DifficultyNormal  Difficulty = "normal"
	DifficultyHard    Difficulty = "hard"
	DifficultyLunatic Difficulty = "lunatic"
)

// Difficulties lists all levels in ascending order.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyLunatic}
}

// ParseDifficulty validates a difficulty name.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyLunatic:
		return Difficulty(s), nil
	}
	return "", fmt.Errorf("unknown difficulty %q (easy, normal, hard, lunatic)", s)
}

// Phrase is a single catalog entry the player transcribes.
type Phrase struct {
	ID   string
	Text string
}

// GameRecord captures a finished game for persistence and display.
type GameRecord struct {
	ID              string
	StartedAt       time.Time
	EndedAt         time.Time
	Difficulty      Difficulty
	DurationSeconds int
	Score           int
	Accuracy        float64
	WPM             float64
	Phrases         int
	Misses          int
	BestCombo       int
	QuestsCompleted int
}

// HistoryConfig defines filters for history output.
type HistoryConfig struct {
	Difficulty  string
	Since       *time.Time
	Last        int
	CurveWindow int
}
