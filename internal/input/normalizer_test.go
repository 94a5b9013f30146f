package input

import "testing"

type recorder struct {
	changes []string
	commits []string
}

func (r *recorder) normalizer() *Normalizer {
	return NewNormalizer(
		func(text string) { r.changes = append(r.changes, text) },
		func(text string) { r.commits = append(r.commits, text) },
	)
}

func TestRawChangePassesThrough(t *testing.T) {
	var rec recorder
	n := rec.normalizer()
	n.RawChange("t")
	n.RawChange("th")
	n.RawChange("the")
	if len(rec.changes) != 3 || rec.changes[2] != "the" {
		t.Fatalf("unexpected changes: %v", rec.changes)
	}
}

func TestRawChangeSuppressedWhileComposing(t *testing.T) {
	var rec recorder
	n := rec.normalizer()
	n.CompositionOpen()
	n.RawChange("ｋ")
	n.RawChange("か")
	if len(rec.changes) != 0 {
		t.Fatalf("expected suppression mid-composition, got %v", rec.changes)
	}
	n.CompositionClose("か")
	if len(rec.changes) != 1 || rec.changes[0] != "か" {
		t.Fatalf("expected one flush on close, got %v", rec.changes)
	}
}

func TestCompositionCloseFlushesEvenWithoutFollowUp(t *testing.T) {
	var rec recorder
	n := rec.normalizer()
	n.CompositionOpen()
	n.CompositionClose("漢字")
	if len(rec.changes) != 1 || rec.changes[0] != "漢字" {
		t.Fatalf("expected flush with final buffer, got %v", rec.changes)
	}
	if n.Composing() {
		t.Fatalf("expected composition to be closed")
	}
}

func TestCommitIgnoredWhileComposing(t *testing.T) {
	var rec recorder
	n := rec.normalizer()
	n.CompositionOpen()
	n.Commit("partial")
	if len(rec.commits) != 0 {
		t.Fatalf("expected commit suppression, got %v", rec.commits)
	}
	n.CompositionClose("done")
	n.Commit("done")
	if len(rec.commits) != 1 || rec.commits[0] != "done" {
		t.Fatalf("unexpected commits: %v", rec.commits)
	}
}

func TestEmptyBufferForwardedVerbatim(t *testing.T) {
	var rec recorder
	n := rec.normalizer()
	n.RawChange("")
	n.RawChange(" ")
	if len(rec.changes) != 2 || rec.changes[0] != "" || rec.changes[1] != " " {
		t.Fatalf("expected verbatim pass-through, got %q", rec.changes)
	}
}

func TestNilCallbacks(t *testing.T) {
	n := NewNormalizer(nil, nil)
	n.RawChange("x")
	n.Commit("x")
	if n.Last() != "x" {
		t.Fatalf("expected last buffer recorded, got %q", n.Last())
	}
}
