package tri

import (
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/tri/batch"
	"github.com/gogpu/tri/camera"
	"github.com/gogpu/tri/ease"
	"github.com/gogpu/tri/geom"
	"github.com/gogpu/tri/glyph"
	"github.com/gogpu/tri/render"
)

// Stats counts what happened during the current render cycle. Begin
// resets it.
type Stats struct {
	// Triangles accepted into the batch.
	Triangles int
	// Dropped submissions because a list was full.
	Dropped int
	// Culled submissions that no active camera could see.
	Culled int

	Draws          int
	Binds          int
	StencilChanges int
	// SkippedRuns failed to bind their material.
	SkippedRuns int
}

// camView is an active camera snapshotted for culling.
type camView struct {
	flags uint32
	vp    geom.Mat4
}

// Renderer is the renderer context: it owns the camera registry and the
// geometry batch, and drives one device. Independent Renderers share no
// state. A Renderer is not safe for concurrent use.
type Renderer struct {
	dev   render.Device
	cams  *camera.Registry
	batch *batch.Batch
	opts  options
	stats Stats
	log   atomic.Pointer[slog.Logger]

	// Scratch reused every cycle.
	views   []camView
	runs    []batch.Run
	indices []uint32
	glyphs  []glyph.Quad
	strip   []stripPoint
	state   deviceState
}

// New creates a Renderer drawing to dev.
func New(dev render.Device, opts ...Option) *Renderer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	r := &Renderer{
		dev:   dev,
		cams:  camera.NewRegistry(o.renderSize.X, o.renderSize.Y),
		batch: batch.New(o.capacity),
		opts:  o,
	}
	r.SetLogger(o.logger)
	return r
}

// Cameras returns the camera registry.
func (r *Renderer) Cameras() *camera.Registry { return r.cams }

// Batch returns the geometry batch.
func (r *Renderer) Batch() *batch.Batch { return r.batch }

// Device returns the device the renderer draws to.
func (r *Renderer) Device() render.Device { return r.dev }

// Stats returns the counters of the current render cycle.
func (r *Renderer) Stats() Stats { return r.stats }

// Begin starts a render cycle: it clears the batch and snapshots the
// active cameras. Call it before any submission.
func (r *Renderer) Begin() {
	r.batch.Clear()
	r.stats = Stats{}
	r.views = r.views[:0]
	if !r.opts.culling {
		return
	}
	for i := range r.cams.Active() {
		r.views = append(r.views, camView{flags: r.cams.Flags(i), vp: r.cams.ViewProjection(i)})
	}
}

// t returns the eased interpolation parameter of the current cycle.
func (r *Renderer) t(k ease.Kind) float32 {
	return k.Apply(r.cams.T())
}
