package tri

import (
	"github.com/gogpu/tri/batch"
	"github.com/gogpu/tri/ease"
	"github.com/gogpu/tri/geom"
	"github.com/gogpu/tri/sprite"
)

// Trail is a ribbon that follows a moving origin. Points are laid down at
// MinDist spacing as the origin moves on the simulation tick; the newest
// segment runs to the origin interpolated at the render cycle's t.
type Trail struct {
	// MinDist is the spacing between recorded points.
	MinDist float32
	// MaxPoints bounds the number of recorded points; the oldest are
	// dropped first.
	MaxPoints int
	// Width is the full width at the head.
	Width float32
	// Taper shapes the width from tail (0) to head (1). The zero Kind
	// narrows linearly to nothing at the tail.
	Taper ease.Kind

	// StartColor is the tail color and EndColor the head color.
	StartColor, EndColor Color

	points       []geom.Vec2
	curr, future geom.Vec2
	started      bool
}

type stripPoint struct {
	pos, normal geom.Vec2
	dist        float32
}

// SetOrigin stages the origin position for the next tick.
func (tr *Trail) SetOrigin(pos geom.Vec2) {
	tr.future = pos
	if !tr.started {
		tr.curr = pos
		tr.started = true
	}
}

// Tick ends a simulation tick: the staged origin becomes current and new
// points are recorded along the path from the last point.
func (tr *Trail) Tick() {
	tr.curr = tr.future
	if len(tr.points) == 0 {
		tr.points = append(tr.points, tr.curr)
		return
	}
	if tr.MinDist > 0 {
		last := tr.points[len(tr.points)-1]
		diff := tr.curr.Sub(last)
		dist := diff.Length()
		dir := diff.Normalize()
		for d := tr.MinDist; d <= dist; d += tr.MinDist {
			tr.points = append(tr.points, last.Add(dir.Mul(d)))
		}
	}
	if tr.MaxPoints > 0 && len(tr.points) > tr.MaxPoints {
		n := copy(tr.points, tr.points[len(tr.points)-tr.MaxPoints:])
		tr.points = tr.points[:n]
	}
}

// Points returns the recorded points, oldest first.
func (tr *Trail) Points() []geom.Vec2 { return tr.points }

// Reset forgets every point.
func (tr *Trail) Reset() {
	tr.points = tr.points[:0]
	tr.started = false
}

// SubmitTrail appends the trail as a strip of quads to the transparent
// list, textured with img along its length.
func (r *Renderer) SubmitTrail(tr *Trail, img sprite.Handle, cameras uint32, depth int8) error {
	info, err := r.resolve(img)
	if err != nil {
		return err
	}
	head := tr.curr.Lerp(tr.future, r.cams.T())

	r.strip = r.strip[:0]
	for _, p := range tr.points {
		r.strip = append(r.strip, stripPoint{pos: p})
	}
	if n := len(r.strip); n == 0 || r.strip[n-1].pos != head {
		r.strip = append(r.strip, stripPoint{pos: head})
	}
	if len(r.strip) < 2 {
		return nil
	}

	var total float32
	for i := range r.strip {
		if i > 0 {
			total += r.strip[i].pos.Sub(r.strip[i-1].pos).Length()
		}
		r.strip[i].dist = total
		prev := r.strip[max(i-1, 0)].pos
		next := r.strip[min(i+1, len(r.strip)-1)].pos
		r.strip[i].normal = next.Sub(prev).Normalize().Perp()
	}
	if total == 0 {
		return nil
	}

	a := attrs(info, batch.Unclipped, cameras)
	uvSpan := info.UVMax.Sub(info.UVMin)
	for i := 0; i < len(r.strip)-1; i++ {
		p0, p1 := r.strip[i], r.strip[i+1]
		u0, u1 := p0.dist/total, p1.dist/total
		w0 := tr.Width * tr.Taper.Apply(u0) / 2
		w1 := tr.Width * tr.Taper.Apply(u1) / 2
		c0 := tr.StartColor.Lerp(tr.EndColor, u0).vec()
		c1 := tr.StartColor.Lerp(tr.EndColor, u1).vec()
		uv := func(u, v float32) geom.Vec2 { return info.UVMin.Add(geom.V2(u, v).MulV(uvSpan)) }

		v := [4]batch.Vertex{
			vertex(p0.pos.Add(p0.normal.Mul(w0)), uv(u0, 1), c0, 0),
			vertex(p0.pos.Sub(p0.normal.Mul(w0)), uv(u0, 0), c0, 0),
			vertex(p1.pos.Add(p1.normal.Mul(w1)), uv(u1, 1), c1, 0),
			vertex(p1.pos.Sub(p1.normal.Mul(w1)), uv(u1, 0), c1, 0),
		}
		if err := r.addVertices(batch.Transparent, v, a, depth); err != nil {
			return err
		}
	}
	return nil
}
