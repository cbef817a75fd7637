package history

import (
	"testing"

	"github.com/example/roomedit/internal/shape"
)

func marks(n int) shape.Marks {
	var m shape.Marks
	for i := 0; i < n; i++ {
		m.BrushStrokes = append(m.BrushStrokes, shape.Segment(shape.Pt(float64(i), 0), shape.Black, 20))
	}
	return m
}

func TestNewHoldsEmptySnapshot(t *testing.T) {
	h := New()
	if h.Len() != 1 || h.Index() != 0 {
		t.Fatalf("len=%d index=%d", h.Len(), h.Index())
	}
	if !h.Current().Empty() {
		t.Fatal("initial snapshot should be empty")
	}
	if _, ok := h.Undo(); ok {
		t.Fatal("undo on fresh history should be a no-op")
	}
	if _, ok := h.Redo(); ok {
		t.Fatal("redo on fresh history should be a no-op")
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	h := New()
	for i := 1; i <= 3; i++ {
		h.Save(marks(i))
	}
	for i := 2; i >= 0; i-- {
		m, ok := h.Undo()
		if !ok || !m.Equal(marks(i)) {
			t.Fatalf("undo to %d gave %d strokes", i, len(m.BrushStrokes))
		}
	}
	for i := 1; i <= 3; i++ {
		m, ok := h.Redo()
		if !ok || !m.Equal(marks(i)) {
			t.Fatalf("redo to %d gave %d strokes", i, len(m.BrushStrokes))
		}
	}
	if h.CanRedo() {
		t.Fatal("redo should be exhausted")
	}
}

func TestSaveTruncatesRedo(t *testing.T) {
	h := New()
	h.Save(marks(1))
	h.Save(marks(2))
	h.Undo()
	h.Save(marks(5))
	if h.Len() != 3 || h.Index() != 2 {
		t.Fatalf("len=%d index=%d", h.Len(), h.Index())
	}
	if h.CanRedo() {
		t.Fatal("save after undo must discard redo entries")
	}
	if !h.Current().Equal(marks(5)) {
		t.Fatal("current snapshot is not the latest save")
	}
}

func TestSnapshotsAreIsolated(t *testing.T) {
	h := New()
	m := marks(1)
	h.Save(m)
	m.BrushStrokes[0].Points[0] = shape.Pt(42, 42)
	got := h.Current()
	if got.BrushStrokes[0].Points[0] != shape.Pt(0, 0) {
		t.Fatal("history shares memory with caller")
	}
	got.BrushStrokes[0].Points[0] = shape.Pt(7, 7)
	if h.Current().BrushStrokes[0].Points[0] != shape.Pt(0, 0) {
		t.Fatal("Current returned shared memory")
	}
}

func TestReset(t *testing.T) {
	h := New()
	h.Save(marks(2))
	h.Reset()
	if h.Len() != 1 || h.Index() != 0 || !h.Current().Empty() {
		t.Fatal("reset should leave a single empty snapshot")
	}
}
