package camera

import "github.com/gogpu/tri/geom"

// SetRenderSize changes the render area and invalidates every projection.
func (r *Registry) SetRenderSize(width, height float32) {
	r.width, r.height = width, height
	for i := range r.slots {
		r.slots[i].projOK = false
	}
}

// RenderSize returns the render area in pixels.
func (r *Registry) RenderSize() (width, height float32) {
	return r.width, r.height
}

// SetCentered selects the projection of camera i. A centered camera puts
// its pose at the middle of the render area; otherwise the pose is the
// upper-left corner.
func (r *Registry) SetCentered(i int, centered bool) {
	s := r.at(i)
	if s.centered != centered {
		s.centered = centered
		s.projOK = false
	}
}

// Projection returns the orthographic projection of camera i. Screen y
// grows downward.
func (r *Registry) Projection(i int) geom.Mat4 {
	s := r.at(i)
	if !s.projOK {
		if s.centered {
			hw, hh := r.width/2, r.height/2
			s.proj = geom.Ortho(-hw, hw, hh, -hh, DepthBack, DepthFront)
		} else {
			s.proj = geom.Ortho(0, r.width, r.height, 0, DepthBack, DepthFront)
		}
		s.projOK = true
	}
	return s.proj
}
