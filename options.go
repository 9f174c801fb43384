package tri

import (
	"log/slog"

	"github.com/gogpu/tri/batch"
	"github.com/gogpu/tri/geom"
	"github.com/gogpu/tri/glyph"
	"github.com/gogpu/tri/sprite"
)

// Resolver maps image handles to draw metadata. *sprite.Registry
// implements it.
type Resolver interface {
	Resolve(sprite.Handle) (sprite.Info, bool)
}

// FontProvider maps font IDs to baked fonts. *glyph.Registry implements it.
type FontProvider interface {
	Font(glyph.FontID) (*glyph.Font, bool)
}

// Option configures a Renderer during creation.
//
// Example:
//
//	r := tri.New(dev,
//	    tri.WithRenderSize(1280, 720),
//	    tri.WithResolver(images),
//	    tri.WithCulling(true),
//	)
type Option func(*options)

type options struct {
	capacity   batch.Capacity
	culling    bool
	renderSize geom.Vec2
	resolver   Resolver
	fonts      FontProvider
	logger     *slog.Logger
}

func defaultOptions() options {
	return options{
		capacity:   batch.DefaultCapacity,
		renderSize: geom.V2(1280, 720),
	}
}

// WithCapacity sets the triangle capacity of each list.
func WithCapacity(c batch.Capacity) Option {
	return func(o *options) { o.capacity = c }
}

// WithCulling enables dropping triangles that no active camera can see.
// Off by default.
func WithCulling(on bool) Option {
	return func(o *options) { o.culling = on }
}

// WithRenderSize sets the render area in pixels used by camera
// projections.
func WithRenderSize(width, height float32) Option {
	return func(o *options) { o.renderSize = geom.V2(width, height) }
}

// WithResolver sets the image resolver used by image submissions.
func WithResolver(r Resolver) Option {
	return func(o *options) { o.resolver = r }
}

// WithFonts sets the font provider used by SubmitText.
func WithFonts(f FontProvider) Option {
	return func(o *options) { o.fonts = f }
}

// WithLogger sets the renderer's logger, which is also handed to the
// device. Without it the renderer uses the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}
