package tri

import "github.com/gogpu/tri/geom"

// culled reports whether culling is on and no active camera sharing a flag
// with mask can see the triangle or quad pts. Quads use batch corner order.
func (r *Renderer) culled(pts []geom.Vec2, mask uint32) bool {
	if !r.opts.culling {
		return false
	}
	var ndc [4]geom.Vec2
	for _, v := range r.views {
		if v.flags&mask == 0 {
			continue
		}
		for i, p := range pts {
			x, y, _ := v.vp.Project(p, 0)
			ndc[i] = geom.V2(x, y)
		}
		if overlapsClip(ndc[0], ndc[1], ndc[2]) || (len(pts) == 4 && overlapsClip(ndc[1], ndc[2], ndc[3])) {
			return false
		}
	}
	r.stats.Culled++
	return true
}

// overlapsClip is a separating axis test of a triangle against the
// [-1, 1] clip square.
func overlapsClip(a, b, c geom.Vec2) bool {
	if max(a.X, b.X, c.X) < -1 || min(a.X, b.X, c.X) > 1 ||
		max(a.Y, b.Y, c.Y) < -1 || min(a.Y, b.Y, c.Y) > 1 {
		return false
	}
	for _, e := range [3][2]geom.Vec2{{a, b}, {b, c}, {c, a}} {
		n := e[1].Sub(e[0]).Perp()
		pa, pb, pc := n.Dot(a), n.Dot(b), n.Dot(c)
		radius := geom.Abs(n.X) + geom.Abs(n.Y)
		if min(pa, pb, pc) > radius || max(pa, pb, pc) < -radius {
			return false
		}
	}
	return true
}
