package shape

// Marks is the full set of committed vector marks. It is the unit stored in
// undo history.
type Marks struct {
	BrushStrokes []BrushStroke
	PenPaths     []PenPath
	LineStrokes  []LineStroke
}

// Empty reports whether nothing has been drawn.
func (m Marks) Empty() bool {
	return len(m.BrushStrokes) == 0 && len(m.PenPaths) == 0 && len(m.LineStrokes) == 0
}

// Len is the number of committed marks of every kind.
func (m Marks) Len() int {
	return len(m.BrushStrokes) + len(m.PenPaths) + len(m.LineStrokes)
}

// Clone deep copies m.
func (m Marks) Clone() Marks {
	var out Marks
	if len(m.BrushStrokes) > 0 {
		out.BrushStrokes = make([]BrushStroke, len(m.BrushStrokes))
		for i, s := range m.BrushStrokes {
			out.BrushStrokes[i] = s.Clone()
		}
	}
	if len(m.PenPaths) > 0 {
		out.PenPaths = make([]PenPath, len(m.PenPaths))
		for i, p := range m.PenPaths {
			out.PenPaths[i] = p.Clone()
		}
	}
	if len(m.LineStrokes) > 0 {
		out.LineStrokes = make([]LineStroke, len(m.LineStrokes))
		for i, l := range m.LineStrokes {
			out.LineStrokes[i] = l.Clone()
		}
	}
	return out
}

// Equal compares two mark sets by value. Nil and empty slices are equal.
func (m Marks) Equal(o Marks) bool {
	if len(m.BrushStrokes) != len(o.BrushStrokes) ||
		len(m.PenPaths) != len(o.PenPaths) ||
		len(m.LineStrokes) != len(o.LineStrokes) {
		return false
	}
	for i, s := range m.BrushStrokes {
		t := o.BrushStrokes[i]
		if s.Kind != t.Kind || s.Color != t.Color || s.Size != t.Size || !equalPoints(s.Points, t.Points) {
			return false
		}
	}
	for i, p := range m.PenPaths {
		q := o.PenPaths[i]
		if p.Kind != q.Kind || p.Color != q.Color || p.Closed != q.Closed || !equalPoints(p.Points, q.Points) {
			return false
		}
	}
	for i, l := range m.LineStrokes {
		k := o.LineStrokes[i]
		if l.Color != k.Color || !equalPoints(l.Points, k.Points) {
			return false
		}
	}
	return true
}

func equalPoints(a, b []Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Hit identifies a pen path handle.
type Hit struct {
	Path   int
	Anchor int
}

// HitAnchor finds the first closed path handle within tol of p. Paths are
// scanned in order, handles in anchor order.
func (m Marks) HitAnchor(p Point, tol float64) (Hit, bool) {
	for i, pp := range m.PenPaths {
		if !pp.Closed {
			continue
		}
		for j, a := range pp.Anchors() {
			if a.Dist(p) <= tol {
				return Hit{Path: i, Anchor: j}, true
			}
		}
	}
	return Hit{}, false
}
