package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"typerush/internal/model"
)

func TestRenderHistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHistory(&buf, nil, 5, 80, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No games found.") {
		t.Fatalf("expected empty-history notice, got %q", buf.String())
	}
}

func TestRenderHistorySummaryAndCurves(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	records := []model.GameRecord{
		{EndedAt: base, Difficulty: model.DifficultyNormal, Score: 100, Accuracy: 90, WPM: 40, Phrases: 3, QuestsCompleted: 1},
		{EndedAt: base.Add(time.Hour), Difficulty: model.DifficultyHard, Score: 300, Accuracy: 95, WPM: 55, Phrases: 5, QuestsCompleted: 2},
	}
	var buf bytes.Buffer
	if err := RenderHistory(&buf, records, 2, 80, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Games: 2", "Best Score: 300", "Learning Curves", "Legend:", "hard"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestPlotSeriesOutputShape(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Test Plot", []Series{
		{Name: "A", Values: []float64{1, 2, 3, 2, 1}},
		{Name: "B", Values: []float64{1, 1, 2, 3, 4}},
	}, 12, 4)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Test Plot") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "Scaled per series") {
		t.Fatalf("expected scale note in output")
	}
	if !strings.Contains(out, "Legend:") {
		t.Fatalf("expected legend in output")
	}
}

func TestPlotWidthFor(t *testing.T) {
	if got := PlotWidthFor(80); got >= 80 || got < minPlotWidth {
		t.Fatalf("unexpected width %d", got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width for zero total, got %d", got)
	}
}
