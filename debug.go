package tri

import (
	"math"

	"github.com/gogpu/tri/batch"
	"github.com/gogpu/tri/geom"
)

// DebugDepth is the depth layer of debug geometry: in front of everything.
const DebugDepth int8 = math.MaxInt8

const debugWidth float32 = 1

// SubmitDebugLine draws a one unit wide opaque line with the default
// texture. The color's alpha is ignored.
func (r *Renderer) SubmitDebugLine(a, b geom.Vec2, c Color, cameras uint32) error {
	n := b.Sub(a).Normalize().Perp().Mul(debugWidth / 2)
	if n == (geom.Vec2{}) {
		n = geom.V2(0, debugWidth/2)
	}
	pos := [4]geom.Vec2{a.Add(n), b.Add(n), a.Sub(n), b.Sub(n)}
	attrs := batch.Attrs{CameraMask: cameras}
	return r.addQuad(batch.Opaque, pos, geom.Vec2{}, geom.One, c.WithAlpha(1), 0, attrs, DebugDepth)
}

// SubmitDebugRect draws the outline of rect.
func (r *Renderer) SubmitDebugRect(rect geom.Rect, c Color, cameras uint32) error {
	tl, br := rect.Min, rect.Max
	tr, bl := geom.V2(br.X, tl.Y), geom.V2(tl.X, br.Y)
	for _, e := range [4][2]geom.Vec2{{tl, tr}, {tr, br}, {br, bl}, {bl, tl}} {
		if err := r.SubmitDebugLine(e[0], e[1], c, cameras); err != nil {
			return err
		}
	}
	return nil
}

// SubmitDebugCircle draws a circle outline as segments lines. Fewer than
// three segments draws nothing.
func (r *Renderer) SubmitDebugCircle(center geom.Vec2, radius float32, segments int, c Color, cameras uint32) error {
	if segments < 3 {
		return nil
	}
	step := 2 * math.Pi / float32(segments)
	prev := center.Add(geom.V2(radius, 0))
	for i := 1; i <= segments; i++ {
		next := center.Add(geom.V2(radius, 0).Rotate(step * float32(i)))
		if err := r.SubmitDebugLine(prev, next, c, cameras); err != nil {
			return err
		}
		prev = next
	}
	return nil
}
