// Package main provides the CLI entrypoint for typerush.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"typerush/internal/catalog"
	"typerush/internal/config"
	"typerush/internal/historyui"
	"typerush/internal/model"
	"typerush/internal/scoring"
	"typerush/internal/session"
	"typerush/internal/stats"
	"typerush/internal/store"
	"typerush/internal/tui"
)

const (
	defaultDuration    = 60
	defaultDifficulty  = "normal"
	defaultQuestCount  = 3
	defaultCurveWindow = 10
)

var (
	playDuration   int
	playDifficulty string
	playQuests     int
	playSeed       int64

	historyDifficulty string
	historySince      string
	historyLast       int
	historyWindow     int
	historyPlain      bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typerush",
		Short:         "Timed typing game with combos and quests",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().IntVar(&playDuration, "duration", defaultDuration, "game duration in seconds")
	rootCmd.Flags().StringVar(&playDifficulty, "difficulty", defaultDifficulty, "difficulty (easy, normal, hard, lunatic)")
	rootCmd.Flags().IntVar(&playQuests, "quests", defaultQuestCount, "number of quests per game")
	rootCmd.Flags().Int64Var(&playSeed, "seed", 0, "random seed for phrase/quest selection (0 = time-based)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCatalogCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "duration", &playDuration, fileCfg.Game.Duration)
	applyStringConfig(cmd, "difficulty", &playDifficulty, fileCfg.Game.Difficulty)
	applyIntConfig(cmd, "quests", &playQuests, fileCfg.Game.Quests)

	if playDuration <= 0 {
		return fmt.Errorf("--duration must be > 0")
	}
	if playQuests < 0 {
		return fmt.Errorf("--quests must be >= 0")
	}
	difficulty, err := model.ParseDifficulty(playDifficulty)
	if err != nil {
		return err
	}
	rules := buildRules(fileCfg.Scoring)

	phrases, err := catalog.LoadPhrases(config.DefaultPhraseCatalogPath())
	if err != nil {
		return fmt.Errorf("failed to load phrase catalog: %w", err)
	}
	questDefs, err := catalog.LoadQuests(config.DefaultQuestCatalogPath())
	if err != nil {
		return fmt.Errorf("failed to load quest catalog: %w", err)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	seed := playSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	engine := session.New(session.Config{
		DurationSeconds: playDuration,
		Difficulty:      difficulty,
		QuestCount:      playQuests,
		Rules:           rules,
	}, phrases, questDefs, seed)
	if err := engine.Start(); err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}

	playModel := tui.NewModel(engine, st)
	program := tea.NewProgram(playModel, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func buildRules(cfg config.ScoringConfig) scoring.Rules {
	rules := scoring.DefaultRules()
	if cfg.BasePoints != nil {
		rules.BasePoints = *cfg.BasePoints
	}
	if cfg.MissPenalty != nil {
		rules.MissPenalty = *cfg.MissPenalty
	}
	if cfg.ComboMultiplier != nil {
		rules.ComboMultiplier = *cfg.ComboMultiplier
	}
	if cfg.TimeBonusFactor != nil {
		rules.TimeBonusFactor = *cfg.TimeBonusFactor
	}
	for name, factor := range cfg.DifficultyFactor {
		if d, err := model.ParseDifficulty(name); err == nil {
			rules.DifficultyFactor[d] = factor
		}
	}
	return rules
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Write editable phrase and quest catalogs",
		Args:  cobra.NoArgs,
		RunE:  runCatalogCmd,
	}
}

func runCatalogCmd(cmd *cobra.Command, _ []string) error {
	phrasePath := config.DefaultPhraseCatalogPath()
	questPath := config.DefaultQuestCatalogPath()
	if err := catalog.WriteDefaultCatalogs(phrasePath, questPath); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Phrases: %s\nQuests:  %s\n", phrasePath, questPath); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past games",
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyDifficulty, "difficulty", "", "difficulty filter")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N games")
	cmd.Flags().IntVar(&historyWindow, "window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print a plain summary instead of the interactive view")
	return cmd
}

func runHistoryCmd(_ *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if historyDifficulty != "" {
		if _, err := model.ParseDifficulty(historyDifficulty); err != nil {
			return err
		}
	}

	cfg := model.HistoryConfig{
		Difficulty:  historyDifficulty,
		Since:       sinceTime,
		Last:        historyLast,
		CurveWindow: historyWindow,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if historyPlain {
		records, err := st.ListGames(context.Background(), cfg)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		return stats.RenderHistory(os.Stdout, records, cfg.CurveWindow, 0, false)
	}

	historyModel := historyui.NewModel(st, cfg)
	program := tea.NewProgram(historyModel, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typerush configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# duration = %d          # Game duration in seconds
# difficulty = %q   # easy, normal, hard, lunatic
# quests = %d            # Quests per game

[scoring]
# base-points = %.1f       # Points per correct character before multipliers
# miss-penalty = %.1f      # Flat penalty per incorrect character
# combo-multiplier = %.2f  # Per-combo-step bonus factor
# time-bonus-factor = %.1f # Phrase-completion bonus scale

# [scoring.difficulty-factor]
# easy = 0.8
# normal = 1.0
# hard = 1.2
# lunatic = 1.5
`,
		defaultDuration,
		defaultDifficulty,
		defaultQuestCount,
		scoring.DefaultBasePoints,
		scoring.DefaultMissPenalty,
		scoring.DefaultComboMultiplier,
		scoring.DefaultTimeBonusFactor,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
