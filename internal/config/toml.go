// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Game    GameConfig    `toml:"game"`
	Scoring ScoringConfig `toml:"scoring"`
}

// GameConfig maps game-related settings.
type GameConfig struct {
	Duration   *int    `toml:"duration"`
	Difficulty *string `toml:"difficulty"`
	Quests     *int    `toml:"quests"`
}

// ScoringConfig maps tunable scoring constants.
type ScoringConfig struct {
	BasePoints       *float64           `toml:"base-points"`
	MissPenalty      *float64           `toml:"miss-penalty"`
	ComboMultiplier  *float64           `toml:"combo-multiplier"`
	TimeBonusFactor  *float64           `toml:"time-bonus-factor"`
	DifficultyFactor map[string]float64 `toml:"difficulty-factor"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
