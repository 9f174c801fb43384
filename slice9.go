package tri

import (
	"github.com/gogpu/tri/batch"
	"github.com/gogpu/tri/ease"
	"github.com/gogpu/tri/geom"
	"github.com/gogpu/tri/sprite"
)

// Cell indices of a NineSlice, row by row.
const (
	SliceTopLeft = iota
	SliceTop
	SliceTopRight
	SliceLeft
	SliceMiddle
	SliceRight
	SliceBottomLeft
	SliceBottom
	SliceBottomRight
)

// NineSlice draws a 3x3 grid of images stretched to a requested size.
// Corners keep their natural size, top and bottom edges stretch
// horizontally, left and right edges vertically, and the middle both
// ways. Column widths come from the top-left, middle and bottom-right
// images; row heights likewise.
type NineSlice struct {
	Images  [9]sprite.Handle
	Cameras uint32
	Depth   int8

	Start, End           Transform
	StartSize, EndSize   geom.Vec2
	StartColor, EndColor Color
	// Pivot is the offset from the grid's center to its draw position.
	Pivot geom.Vec2

	Clip batch.StencilGroup
	Ease ease.Kind
}

// SliceLayout is the local placement of one cell, relative to the grid
// center before the parent transform.
type SliceLayout struct {
	Center, Size geom.Vec2
}

// LayoutNineSlice places the nine cells for a total size. Requests
// smaller than the fixed borders shrink the middle row or column to zero,
// never below, so corners touch but do not overlap.
func LayoutNineSlice(topLeft, middle, bottomRight, size geom.Vec2) [9]SliceLayout {
	left, top := topLeft.X, topLeft.Y
	right, bottom := bottomRight.X, bottomRight.Y
	midW := max(0, size.X-left-right)
	midH := max(0, size.Y-top-bottom)

	xs := [3]float32{-midW/2 - left/2, 0, midW/2 + right/2}
	ws := [3]float32{left, midW, right}
	ys := [3]float32{-midH/2 - top/2, 0, midH/2 + bottom/2}
	hs := [3]float32{top, midH, bottom}

	var out [9]SliceLayout
	for row := range 3 {
		for col := range 3 {
			out[row*3+col] = SliceLayout{
				Center: geom.V2(xs[col], ys[row]),
				Size:   geom.V2(ws[col], hs[row]),
			}
		}
	}
	return out
}

// Submit9Slice appends the nine cells of s to the batch. The middle cell's
// natural size does not affect placement. If any image fails to resolve,
// or a list cannot take every cell, nothing is drawn.
func (r *Renderer) Submit9Slice(s NineSlice) error {
	var infos [9]sprite.Info
	for i, h := range s.Images {
		info, err := r.resolve(h)
		if err != nil {
			return err
		}
		infos[i] = info
	}

	t := r.t(s.Ease)
	tf := s.Start.Lerp(s.End, t)
	col := s.StartColor.Lerp(s.EndColor, t)
	size := s.StartSize.Lerp(s.EndSize, t)
	cells := LayoutNineSlice(infos[SliceTopLeft].Size, infos[SliceMiddle].Size, infos[SliceBottomRight].Size, size)

	var (
		kinds [9]batch.Kind
		need  [len(batch.Kinds)]int
	)
	for i, info := range infos {
		kind, err := route(info, col, false, s.Clip)
		if err != nil {
			return err
		}
		kinds[i] = kind
		need[kind] += 2
	}
	for k, n := range need {
		if n > 0 && !r.batch.Room(batch.Kind(k), n) {
			r.logger().Debug("triangle list full, 9-slice dropped", "list", batch.Kind(k))
			return r.accept(0, batch.ErrListFull)
		}
	}

	for i, cell := range cells {
		info := infos[i]
		var pos [4]geom.Vec2
		for j, c := range unitCorners {
			pos[j] = tf.apply(cell.Center.Add(c.MulV(cell.Size)).Sub(s.Pivot))
		}
		if err := r.addQuad(kinds[i], pos, info.UVMin, info.UVMax, col, 0, attrs(info, s.Clip, s.Cameras), s.Depth); err != nil {
			return err
		}
	}
	return nil
}
