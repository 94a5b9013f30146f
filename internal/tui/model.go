// Package tui provides the Bubble Tea play interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"typerush/internal/input"
	"typerush/internal/quest"
	"typerush/internal/session"
	"typerush/internal/store"
)

const maxQuestFlashes = 3

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	hudStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	questStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	questDoneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	flashStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	resultStyle    = lipgloss.NewStyle().
			Padding(1, 3).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

type tickMsg struct {
	generation int
}

// Model implements the Bubble Tea play UI around the session engine.
type Model struct {
	engine *session.Engine
	norm   *input.Normalizer
	store  *store.Store

	buffer  []rune
	width   int
	height  int
	ticking bool
	flashes []string
	saved   bool
}

// NewModel wires a play model to an already started session engine.
func NewModel(engine *session.Engine, st *store.Store) *Model {
	m := &Model{
		engine: engine,
		store:  st,
	}
	m.norm = input.NewNormalizer(engine.HandleChange, engine.HandleCommit)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		return m.handleTick(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	finished := m.engine.Tick(msg.generation)
	m.collectFlashes()
	if finished {
		m.ticking = false
		m.persistResult()
		return m, nil
	}
	if msg.generation != m.engine.TimerGeneration() {
		// Stale timer from a prior game; let it die. The flag is only
		// cleared when no live chain can exist, so a later keystroke
		// does not double-arm the countdown.
		if !m.engine.TimerArmed() {
			m.ticking = false
		}
		return m, nil
	}
	return m, tickCmd(msg.generation)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.engine.Cancel()
		return m, tea.Quit
	}
	if m.engine.Status() == session.StatusFinished {
		switch msg.String() {
		case "r", "enter":
			return m.restart()
		case "q", "esc":
			return m, tea.Quit
		}
		return m, nil
	}
	switch msg.Type {
	case tea.KeyEsc:
		m.engine.Cancel()
		return m, tea.Quit
	case tea.KeyBackspace, tea.KeyDelete:
		if len(m.buffer) > 0 {
			m.buffer = m.buffer[:len(m.buffer)-1]
			m.norm.RawChange(string(m.buffer))
		}
	case tea.KeyEnter:
		m.norm.Commit(string(m.buffer))
	case tea.KeySpace:
		m.buffer = append(m.buffer, ' ')
		m.norm.RawChange(string(m.buffer))
	case tea.KeyRunes:
		m.buffer = append(m.buffer, msg.Runes...)
		m.norm.RawChange(string(m.buffer))
	default:
		return m, nil
	}
	// The engine clears its buffer on phrase advance; mirror it.
	m.buffer = m.engine.Input()
	m.collectFlashes()
	if m.engine.TimerArmed() && !m.ticking {
		m.ticking = true
		return m, tickCmd(m.engine.TimerGeneration())
	}
	return m, nil
}

func (m *Model) restart() (tea.Model, tea.Cmd) {
	if err := m.engine.Start(); err != nil {
		logErrf("failed to restart: %v\n", err)
		return m, tea.Quit
	}
	m.buffer = nil
	m.ticking = false
	m.flashes = nil
	m.saved = false
	return m, nil
}

func (m *Model) collectFlashes() {
	for _, def := range m.engine.TakeCompleted() {
		bonus := fmt.Sprintf("Quest complete: %s (+%g)", def.Description, def.Reward.ScoreBonus)
		m.flashes = append(m.flashes, bonus)
	}
	if len(m.flashes) > maxQuestFlashes {
		m.flashes = m.flashes[len(m.flashes)-maxQuestFlashes:]
	}
}

func (m *Model) persistResult() {
	if m.saved || m.store == nil {
		return
	}
	rec, ok := m.engine.Result()
	if !ok {
		return
	}
	if err := m.store.InsertGame(context.Background(), rec); err != nil {
		logErrf("failed to save game: %v\n", err)
		return
	}
	m.saved = true
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.engine.Status() == session.StatusFinished {
		return m.viewResults()
	}
	return m.viewPlaying()
}

func (m *Model) viewPlaying() string {
	phrase := m.engine.Phrase()
	if phrase.Text == "" {
		return ""
	}
	hud := m.engine.HUD()
	hudLine := hudStyle.Render(fmt.Sprintf("Time %ds  Score %d  Combo %d  Misses %d",
		hud.TimeRemaining, hud.Score, hud.Combo, hud.Misses))

	targetRunes := []rune(phrase.Text)
	inputRunes := m.engine.Input()
	cursorIndex := -1
	if len(inputRunes) < len(targetRunes) {
		cursorIndex = len(inputRunes)
	}
	styled := buildStyledRunes(targetRunes, inputRunes, cursorIndex)

	var phraseBlock string
	contentWidth := 0
	if m.width > 0 {
		contentWidth = int(float64(m.width) * 0.70)
		if contentWidth < 1 {
			contentWidth = 1
		}
		phraseBlock = lipgloss.NewStyle().Width(contentWidth).Render(wrapStyledRunes(styled, contentWidth))
	} else {
		phraseBlock = renderStyledRunes(styled)
	}

	sections := []string{hudLine, "", phraseBlock, "", m.renderQuests()}
	if len(m.flashes) > 0 {
		sections = append(sections, flashStyle.Render(strings.Join(m.flashes, "\n")))
	}
	sections = append(sections, "", footerStyle.Render("enter submit · esc abandon"))
	content := strings.Join(sections, "\n")
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) renderQuests() string {
	progress := m.engine.Quests()
	if len(progress) == 0 {
		return ""
	}
	lines := make([]string, 0, len(progress))
	for _, p := range progress {
		line := describeQuest(p)
		if p.Completed {
			lines = append(lines, questDoneStyle.Render("[x] "+line))
		} else {
			lines = append(lines, questStyle.Render("[ ] "+line))
		}
	}
	return strings.Join(lines, "\n")
}

func describeQuest(p quest.Progress) string {
	def := p.Definition
	switch def.Kind {
	case quest.KindNoMiss, quest.KindPhraseCountThreshold:
		return fmt.Sprintf("%s (%d/%d)", def.Description, p.Progress, def.Condition.Count)
	default:
		return def.Description
	}
}

func (m *Model) viewResults() string {
	rec, ok := m.engine.Result()
	if !ok {
		return ""
	}
	lines := []string{
		"Time's up!",
		"",
		fmt.Sprintf("Score     %d", rec.Score),
		fmt.Sprintf("Accuracy  %.1f%%", rec.Accuracy),
		fmt.Sprintf("WPM       %.1f", rec.WPM),
		fmt.Sprintf("Phrases   %d", rec.Phrases),
		fmt.Sprintf("Best Combo %d", rec.BestCombo),
		fmt.Sprintf("Quests    %d", rec.QuestsCompleted),
		"",
		footerStyle.Render("r restart · q quit"),
	}
	card := resultStyle.Render(strings.Join(lines, "\n"))
	if m.width == 0 || m.height == 0 {
		return card
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}

func tickCmd(generation int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{generation: generation}
	})
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
