package geom

// Rect is an axis-aligned rectangle. Min is the top-left corner in the
// y-down screen convention.
type Rect struct {
	Min, Max Vec2
}

// R is shorthand for Rect{V2(x0, y0), V2(x1, y1)}.
func R(x0, y0, x1, y1 float32) Rect {
	return Rect{V2(x0, y0), V2(x1, y1)}
}

// Dx returns the width of r.
func (r Rect) Dx() float32 { return r.Max.X - r.Min.X }

// Dy returns the height of r.
func (r Rect) Dy() float32 { return r.Max.Y - r.Min.Y }

// Size returns the width and height of r.
func (r Rect) Size() Vec2 { return r.Max.Sub(r.Min) }

// Center returns the midpoint of r.
func (r Rect) Center() Vec2 { return r.Min.Add(r.Max).Mul(0.5) }

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y }

// Contains reports whether p lies inside r. The max edges are exclusive.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Add translates r by v.
func (r Rect) Add(v Vec2) Rect { return Rect{r.Min.Add(v), r.Max.Add(v)} }

// Union returns the smallest rectangle containing r and s.
func (r Rect) Union(s Rect) Rect {
	if r.Empty() {
		return s
	}
	if s.Empty() {
		return r
	}
	return Rect{
		V2(min(r.Min.X, s.Min.X), min(r.Min.Y, s.Min.Y)),
		V2(max(r.Max.X, s.Max.X), max(r.Max.Y, s.Max.Y)),
	}
}
