// Package historyui provides the Bubble Tea history browser.
package historyui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"typerush/internal/model"
	"typerush/internal/stats"
	"typerush/internal/store"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// Model implements the Bubble Tea history UI.
type Model struct {
	store *store.Store
	cfg   model.HistoryConfig

	records []model.GameRecord
	errMsg  string

	gamesTable table.Model
	sparkView  viewport.Model

	width  int
	height int
}

// NewModel constructs a history UI model over the game store.
func NewModel(st *store.Store, cfg model.HistoryConfig) *Model {
	m := &Model{store: st, cfg: cfg}
	m.initTable()
	m.sparkView = viewport.New(0, 1)
	m.refresh()
	return m
}

func (m *Model) initTable() {
	columns := []table.Column{
		{Title: "Date", Width: 16},
		{Title: "Difficulty", Width: 10},
		{Title: "Score", Width: 8},
		{Title: "Accuracy", Width: 9},
		{Title: "WPM", Width: 6},
		{Title: "Phrases", Width: 8},
		{Title: "Quests", Width: 7},
	}
	m.gamesTable = table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("#C89A3A"))
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	m.gamesTable.SetStyles(styles)
}

func (m *Model) refresh() {
	records, err := m.store.ListGames(context.Background(), m.cfg)
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to load history: %v", err)
		return
	}
	m.records = records
	rows := make([]table.Row, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- { // newest first
		r := records[i]
		rows = append(rows, table.Row{
			r.EndedAt.Format("2006-01-02 15:04"),
			string(r.Difficulty),
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%.1f%%", r.Accuracy),
			fmt.Sprintf("%.1f", r.WPM),
			fmt.Sprintf("%d", r.Phrases),
			fmt.Sprintf("%d", r.QuestsCompleted),
		})
	}
	m.gamesTable.SetRows(rows)
	scores := make([]float64, len(records))
	for i, r := range records {
		scores[i] = float64(r.Score)
	}
	m.sparkView.SetContent("Score trend: " + stats.Sparkline(scores))
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
		tableHeight := m.height - 8
		if tableHeight < 3 {
			tableHeight = 3
		}
		m.gamesTable.SetHeight(tableHeight)
		m.sparkView.Width = m.width
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.gamesTable, cmd = m.gamesTable.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.errMsg != "" {
		return errorStyle.Render(m.errMsg)
	}
	if len(m.records) == 0 {
		return headerStyle.Render("No games recorded yet. Play one with: typerush")
	}
	cards := lipgloss.JoinHorizontal(lipgloss.Top, m.summaryCards()...)
	sections := []string{
		cards,
		m.sparkView.View(),
		m.gamesTable.View(),
		headerStyle.Render("↑/↓ scroll · q quit"),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) summaryCards() []string {
	var totalScore, totalAcc, totalWPM float64
	best := 0
	for _, r := range m.records {
		totalScore += float64(r.Score)
		totalAcc += r.Accuracy
		totalWPM += r.WPM
		if r.Score > best {
			best = r.Score
		}
	}
	count := float64(len(m.records))
	return []string{
		renderCard("Games", fmt.Sprintf("%d", len(m.records))),
		renderCard("Best Score", fmt.Sprintf("%d", best)),
		renderCard("Avg Score", fmt.Sprintf("%.0f", totalScore/count)),
		renderCard("Avg Accuracy", fmt.Sprintf("%.1f%%", totalAcc/count)),
		renderCard("Avg WPM", fmt.Sprintf("%.1f", totalWPM/count)),
	}
}

func renderCard(title, value string) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		cardTitleStyle.Render(title),
		cardValueStyle.Render(value),
	)
	return cardStyle.Render(content)
}
