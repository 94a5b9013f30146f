package stats

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"typerush/internal/model"
)

// RenderHistory prints a plain-text summary of past games: aggregate
// numbers, a recent-games table, and score/WPM learning curves.
func RenderHistory(w io.Writer, records []model.GameRecord, window, totalWidth int, useColor bool) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No games found.")
		return err
	}

	var totalScore, totalAcc, totalWPM float64
	bestScore := records[0].Score
	for _, r := range records {
		totalScore += float64(r.Score)
		totalAcc += r.Accuracy
		totalWPM += r.WPM
		if r.Score > bestScore {
			bestScore = r.Score
		}
	}
	count := float64(len(records))
	if _, err := fmt.Fprintf(w, "Games: %d\nAvg Score: %.1f\nBest Score: %d\nAvg Accuracy: %.1f%%\nAvg WPM: %.1f\n\n",
		len(records), totalScore/count, bestScore, totalAcc/count, totalWPM/count); err != nil {
		return err
	}

	headers := []string{"Date", "Difficulty", "Score", "Accuracy", "WPM", "Phrases", "Quests"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.EndedAt.Format("2006-01-02 15:04"),
			string(r.Difficulty),
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%.1f%%", r.Accuracy),
			fmt.Sprintf("%.1f", r.WPM),
			fmt.Sprintf("%d", r.Phrases),
			fmt.Sprintf("%d", r.QuestsCompleted),
		})
	}
	rightAlign := map[int]bool{2: true, 3: true, 4: true, 5: true, 6: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}

	scores := make([]float64, len(records))
	wpms := make([]float64, len(records))
	for i, r := range records {
		scores[i] = float64(r.Score)
		wpms[i] = r.WPM
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Learning Curves", []Series{
		{Name: "Score", Values: MovingAverage(scores, window)},
		{Name: "WPM", Values: MovingAverage(wpms, window)},
	}, width, 0, useColor)
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = utf8.RuneCountInString(header)
	}
	for _, row := range rows {
		for i := range widths {
			if i < len(row) {
				if w := utf8.RuneCountInString(row[i]); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, formatRow(headers, widths, rightAlignCols))
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i, width := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		pad := width - utf8.RuneCountInString(cell)
		if pad < 0 {
			pad = 0
		}
		if rightAlignCols[i] {
			b.WriteString(strings.Repeat(" ", pad) + cell)
		} else {
			b.WriteString(cell + strings.Repeat(" ", pad))
		}
	}
	return b.String()
}
