package tri

import (
	"fmt"

	"github.com/gogpu/tri/batch"
	"github.com/gogpu/tri/render"
)

// deviceState tracks what the device has bound within one camera pass so
// redundant state changes are skipped.
type deviceState struct {
	stencilSet bool
	mode       render.StencilMode
	group      int

	bound bool
	kind  batch.Kind
	mat   batch.Material
}

// Render composites the batch: it sorts the lists, uploads every list's
// vertices once, and draws each active camera in ascending slot order.
// Per camera the depth and stencil buffers are cleared, then stencil
// writes, opaque runs and transparent runs are drawn. A run whose material
// fails to bind is logged and skipped.
func (r *Renderer) Render() error {
	r.batch.Sort()
	if err := r.dev.BeginFrame(); err != nil {
		return fmt.Errorf("tri: begin frame: %w", err)
	}
	for _, k := range batch.Kinds {
		l := r.batch.List(k)
		if l.Len() == 0 {
			continue
		}
		if err := r.dev.UploadVertices(k, l.Vertices()); err != nil {
			return fmt.Errorf("tri: upload %s vertices: %w", k, err)
		}
	}
	for cam := range r.cams.Active() {
		r.drawCamera(cam)
	}
	if err := r.dev.EndFrame(); err != nil {
		return fmt.Errorf("tri: end frame: %w", err)
	}
	return nil
}

func (r *Renderer) drawCamera(cam int) {
	flags := r.cams.Flags(cam)
	r.runs, r.indices = r.runs[:0], r.indices[:0]
	for _, k := range batch.Kinds {
		r.runs, r.indices = r.batch.List(k).AppendRuns(r.runs, r.indices, flags)
	}

	r.dev.ClearDepth()
	r.dev.SetViewProjection(cam, r.cams.ViewProjection(cam))
	r.state = deviceState{}
	for _, run := range r.runs {
		r.drawRun(cam, run)
	}
}

func (r *Renderer) drawRun(cam int, run batch.Run) {
	mode, group := stencilState(run)
	if s := &r.state; !s.stencilSet || s.mode != mode || s.group != group {
		r.dev.SetStencilMode(mode, group)
		s.stencilSet, s.mode, s.group = true, mode, group
		r.stats.StencilChanges++
	}

	if s := &r.state; !s.bound || s.kind != run.Kind || s.mat != run.Material {
		if err := r.dev.BindMaterial(run.Kind, run.Material); err != nil {
			r.logger().Debug("material bind failed, run skipped",
				"camera", cam, "list", run.Kind, "shader", run.Material.Shader,
				"texture", run.Material.Texture, "error", err)
			s.bound = false
			r.stats.SkippedRuns++
			return
		}
		s.bound, s.kind, s.mat = true, run.Kind, run.Material
		r.stats.Binds++
	}

	r.dev.DrawIndexedRun(run.Kind, r.indices[run.First:run.First+run.Count])
	r.stats.Draws++
}

// stencilState maps a run to the device stencil mode: stencil-list runs
// paint their group, clipped runs test against theirs, and the rest draw
// unrestricted.
func stencilState(run batch.Run) (render.StencilMode, int) {
	switch {
	case run.Kind == batch.Stencil:
		return render.StencilWrite, run.Stencil.Index()
	case run.Stencil != batch.Unclipped:
		return render.StencilTest, run.Stencil.Index()
	}
	return render.StencilOff, -1
}
