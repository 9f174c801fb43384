// Package sprite resolves image handles to texture, size, pivot and
// transparency metadata for the draw submission layer.
//
// Handles carry a generation counter: releasing an image bumps its slot's
// generation, so a handle kept past Release fails to resolve instead of
// silently aliasing whatever image reuses the slot.
package sprite

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/gogpu/tri/batch"
	"github.com/gogpu/tri/geom"
	"github.com/gogpu/tri/render"
)

var (
	// ErrStale is returned for handles that were released or never issued.
	ErrStale = errors.New("sprite: stale or invalid handle")
	// ErrFull is returned when the registry has no free slot.
	ErrFull = errors.New("sprite: registry full")
	// ErrEmptyImage is returned when loading an image with no pixels.
	ErrEmptyImage = errors.New("sprite: empty image")
)

// DefaultCapacity is the default maximum number of live images.
const DefaultCapacity = 512

// Handle names a registered image. The zero Handle is never valid.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool { return h.gen == 0 }

func (h Handle) String() string {
	return fmt.Sprintf("sprite#%d.%d", h.index, h.gen)
}

// Info is what the submission layer needs to draw an image.
type Info struct {
	Texture batch.TextureID
	// Size is the natural size in pixels.
	Size geom.Vec2
	// Pivot is the offset from the image center to the point placed at the
	// draw position, in pixels.
	Pivot        geom.Vec2
	UVMin, UVMax geom.Vec2
	// Transparent is set when the image has partially transparent pixels
	// and must be drawn in the blended list.
	Transparent bool
	Shader      batch.Shader
	Extra       batch.TextureID
	// Param is the material constant runs are grouped by, such as an SDF
	// edge width.
	Param float32
}

type entry struct {
	info Info
	gen  uint32
	live bool
	// pix holds the source pixels; origin is this image's corner in pix.
	pix    *image.RGBA
	origin image.Point
}

// Registry owns images and the device textures backing them.
// A Registry is not safe for concurrent use.
type Registry struct {
	factory render.TextureFactory
	entries []entry
	free    []uint32
	max     int
	// refs counts live images per texture; sheets share one texture.
	refs map[batch.TextureID]int
}

// Option configures a Registry.
type Option func(*Registry)

// WithCapacity sets the maximum number of live images.
func WithCapacity(n int) Option {
	return func(r *Registry) { r.max = n }
}

// NewRegistry creates a Registry that uploads textures through f.
func NewRegistry(f render.TextureFactory, opts ...Option) *Registry {
	r := &Registry{
		factory: f,
		max:     DefaultCapacity,
		refs:    make(map[batch.TextureID]int),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Len returns the number of live images.
func (r *Registry) Len() int {
	return len(r.entries) - len(r.free)
}

// Load uploads img as a texture and registers it.
func (r *Registry) Load(img image.Image) (Handle, error) {
	b := img.Bounds()
	if b.Empty() {
		return Handle{}, ErrEmptyImage
	}
	if r.Len() >= r.max {
		return Handle{}, ErrFull
	}
	rgba := toRGBA(img)
	tex, err := r.factory.CreateTexture(rgba)
	if err != nil {
		return Handle{}, fmt.Errorf("sprite: create texture: %w", err)
	}
	return r.add(Info{
		Texture:     tex,
		Size:        geom.V2(float32(b.Dx()), float32(b.Dy())),
		UVMin:       geom.Vec2{},
		UVMax:       geom.One,
		Transparent: hasPartialAlpha(rgba, rgba.Bounds()),
	}, rgba, image.Point{}), nil
}

// SplitSheet registers sub-images of a loaded image. Each rectangle is in
// the sheet's pixel space; the sub-images share the sheet's texture.
func (r *Registry) SplitSheet(sheet Handle, rects []image.Rectangle) ([]Handle, error) {
	pe, err := r.lookup(sheet)
	if err != nil {
		return nil, err
	}
	// add may grow r.entries, so work from a copy.
	e := *pe
	if r.Len()+len(rects) > r.max {
		return nil, ErrFull
	}
	w, h := e.info.Size.X, e.info.Size.Y
	bounds := image.Rect(0, 0, int(w), int(h))

	out := make([]Handle, 0, len(rects))
	for _, rc := range rects {
		if rc.Empty() || !rc.In(bounds) {
			return out, fmt.Errorf("sprite: sheet rect %v outside %v", rc, bounds)
		}
		uvMin := geom.V2(float32(rc.Min.X)/w, float32(rc.Min.Y)/h)
		uvMax := geom.V2(float32(rc.Max.X)/w, float32(rc.Max.Y)/h)
		origin := e.origin.Add(rc.Min)
		out = append(out, r.add(Info{
			Texture:     e.info.Texture,
			Size:        geom.V2(float32(rc.Dx()), float32(rc.Dy())),
			UVMin:       e.info.UVMin.Add(uvMin.MulV(e.info.UVMax.Sub(e.info.UVMin))),
			UVMax:       e.info.UVMin.Add(uvMax.MulV(e.info.UVMax.Sub(e.info.UVMin))),
			Transparent: hasPartialAlpha(e.pix, rc.Add(e.origin)),
			Shader:      e.info.Shader,
			Extra:       e.info.Extra,
			Param:       e.info.Param,
		}, e.pix, origin))
	}
	return out, nil
}

// Resolve returns the draw metadata of h.
func (r *Registry) Resolve(h Handle) (Info, bool) {
	e, err := r.lookup(h)
	if err != nil {
		return Info{}, false
	}
	return e.info, true
}

// SetPivot sets the offset from the image center to its draw position.
func (r *Registry) SetPivot(h Handle, pivot geom.Vec2) error {
	e, err := r.lookup(h)
	if err != nil {
		return err
	}
	e.info.Pivot = pivot
	return nil
}

// SetShader selects the material used to draw h. extra is the secondary
// texture read by ShaderAlphaMappedSDF and is otherwise ignored.
func (r *Registry) SetShader(h Handle, s batch.Shader, extra batch.TextureID) error {
	e, err := r.lookup(h)
	if err != nil {
		return err
	}
	e.info.Shader = s
	e.info.Extra = extra
	return nil
}

// SetParam sets the material constant of h.
func (r *Registry) SetParam(h Handle, p float32) error {
	e, err := r.lookup(h)
	if err != nil {
		return err
	}
	e.info.Param = p
	return nil
}

// SetTransparent overrides the detected transparency of h.
func (r *Registry) SetTransparent(h Handle, transparent bool) error {
	e, err := r.lookup(h)
	if err != nil {
		return err
	}
	e.info.Transparent = transparent
	return nil
}

// Release frees h. The backing texture is destroyed once no image uses it.
func (r *Registry) Release(h Handle) error {
	e, err := r.lookup(h)
	if err != nil {
		return err
	}
	tex := e.info.Texture
	e.live = false
	e.info = Info{}
	e.pix = nil
	e.gen++
	r.free = append(r.free, h.index)

	r.refs[tex]--
	if r.refs[tex] <= 0 {
		delete(r.refs, tex)
		r.factory.DestroyTexture(tex)
	}
	return nil
}

func (r *Registry) add(info Info, pix *image.RGBA, origin image.Point) Handle {
	r.refs[info.Texture]++
	if n := len(r.free); n > 0 {
		idx := r.free[n-1]
		r.free = r.free[:n-1]
		e := &r.entries[idx]
		e.info = info
		e.live = true
		e.pix = pix
		e.origin = origin
		return Handle{index: idx, gen: e.gen}
	}
	r.entries = append(r.entries, entry{info: info, gen: 1, live: true, pix: pix, origin: origin})
	return Handle{index: uint32(len(r.entries) - 1), gen: 1}
}

func (r *Registry) lookup(h Handle) (*entry, error) {
	if h.IsZero() || int(h.index) >= len(r.entries) {
		return nil, ErrStale
	}
	e := &r.entries[h.index]
	if !e.live || e.gen != h.gen {
		return nil, ErrStale
	}
	return e, nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// hasPartialAlpha reports whether any pixel in rc has 0 < alpha < 255.
// Fully transparent pixels are discarded by the shaders, so they do not
// require blending.
func hasPartialAlpha(img *image.RGBA, rc image.Rectangle) bool {
	rc = rc.Intersect(img.Rect)
	for y := rc.Min.Y; y < rc.Max.Y; y++ {
		row := img.Pix[img.PixOffset(rc.Min.X, y):img.PixOffset(rc.Max.X, y)]
		for i := 3; i < len(row); i += 4 {
			if a := row[i]; a != 0 && a != 0xff {
				return true
			}
		}
	}
	return false
}
