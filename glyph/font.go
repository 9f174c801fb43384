// Package glyph provides glyph metrics and atlas textures for text
// submission.
//
// A Font bakes a fixed rune set into one alpha atlas at construction time,
// so the texture handle a Font reports never changes while quads that
// reference it are in flight. Runes outside the baked set draw as the
// fallback rune.
package glyph

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"

	gtfont "github.com/go-text/typesetting/font"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/tri/batch"
	"github.com/gogpu/tri/cache"
	"github.com/gogpu/tri/geom"
	"github.com/gogpu/tri/render"
)

// ErrNoGlyphs is returned when a face yields no glyph for any rune of the
// requested set.
var ErrNoGlyphs = errors.New("glyph: face has no glyphs for rune set")

// DefaultRunes is printable ASCII followed by printable Latin-1.
var DefaultRunes = runeRange(' ', '~') + runeRange('\u00a1', '\u00ff')

const (
	defaultAtlasWidth = 256

	defaultLayoutCache = 128
	atlasPadding       = 1
)

// Glyph is the baked placement of one rune.
type Glyph struct {
	// Offset is the bitmap's top-left corner relative to the pen position
	// on the baseline.
	Offset       geom.Vec2
	Size         geom.Vec2
	Advance      float32
	UVMin, UVMax geom.Vec2
	// Blank glyphs advance the pen but emit no quad.
	Blank bool
}

// Font is a baked face ready for layout.
// A Font is not safe for concurrent use.
type Font struct {
	factory  render.TextureFactory
	face     font.Face
	tex      batch.TextureID
	glyphs   map[rune]Glyph
	fallback rune

	ascent, descent, lineHeight float32

	shaper  *shaper
	layouts *cache.LRU[layoutKey, []Quad]
	// scratch buffers reused across Layout calls.
	runes []rune
	adv   []float32
}

type options struct {
	runes      string
	atlasWidth int
	fallback   rune
	layouts    int
}

// Option configures a Font.
type Option func(*options)

// WithRunes sets the runes baked into the atlas.
func WithRunes(runes string) Option {
	return func(o *options) { o.runes = runes }
}

// WithAtlasWidth sets the atlas width in pixels.
func WithAtlasWidth(w int) Option {
	return func(o *options) { o.atlasWidth = w }
}

// WithLayoutCache keeps the quads of the n most recent Layout calls,
// keyed by text, box size and alignment. n <= 0 disables the cache.
func WithLayoutCache(n int) Option {
	return func(o *options) { o.layouts = n }
}

// WithFallback sets the rune drawn for runes missing from the atlas.
func WithFallback(r rune) Option {
	return func(o *options) { o.fallback = r }
}

// NewFont bakes face into an atlas uploaded through f.
func NewFont(f render.TextureFactory, face font.Face, opts ...Option) (*Font, error) {
	o := options{runes: DefaultRunes, atlasWidth: defaultAtlasWidth, fallback: '?', layouts: defaultLayoutCache}
	for _, opt := range opts {
		opt(&o)
	}

	m := face.Metrics()
	fn := &Font{
		factory:    f,
		face:       face,
		glyphs:     make(map[rune]Glyph),
		fallback:   o.fallback,
		ascent:     fixedToFloat(m.Ascent),
		descent:    fixedToFloat(m.Descent),
		lineHeight: fixedToFloat(m.Height),
	}
	if o.layouts > 0 {
		fn.layouts = cache.New[layoutKey, []Quad](o.layouts)
	}
	if fn.lineHeight == 0 {
		fn.lineHeight = fn.ascent + fn.descent
	}
	if err := fn.bake(o); err != nil {
		return nil, err
	}
	return fn, nil
}

// LoadTTF parses TrueType or OpenType data and bakes it at size pixels.
// Advances and kerning come from HarfBuzz shaping.
func LoadTTF(f render.TextureFactory, data []byte, size float64, opts ...Option) (*Font, error) {
	otf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("glyph: parse font: %w", err)
	}
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("glyph: create face: %w", err)
	}
	shapeFace, err := gtfont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("glyph: parse font for shaping: %w", err)
	}
	fn, err := NewFont(f, face, opts...)
	if err != nil {
		return nil, err
	}
	fn.shaper = newShaper(shapeFace, size)
	return fn, nil
}

type placed struct {
	r   rune
	at  image.Point
	dr  image.Rectangle
	adv float32
}

func (fn *Font) bake(o options) error {
	pk := shelfPacker{width: o.atlasWidth, pad: atlasPadding}
	var list []placed
	for _, r := range o.runes {
		if _, dup := fn.glyphs[r]; dup {
			continue
		}
		dr, _, _, adv, ok := fn.face.Glyph(fixed.Point26_6{}, r)
		if !ok {
			continue
		}
		at, ok := pk.place(dr.Dx(), dr.Dy())
		if !ok {
			return fmt.Errorf("glyph: rune %q (%dx%d) wider than atlas", r, dr.Dx(), dr.Dy())
		}
		list = append(list, placed{r: r, at: at, dr: dr, adv: fixedToFloat(adv)})
		fn.glyphs[r] = Glyph{}
	}
	if len(list) == 0 {
		return ErrNoGlyphs
	}

	atlas := image.NewRGBA(image.Rect(0, 0, pk.width, max(pk.height(), 1)))
	size := geom.V2(float32(atlas.Rect.Dx()), float32(atlas.Rect.Dy()))
	white := image.NewUniform(color.White)
	for _, p := range list {
		// Faces may reuse their mask buffer, so draw before the next call.
		dr, mask, maskp, _, _ := fn.face.Glyph(fixed.Point26_6{}, p.r)
		dst := image.Rectangle{Min: p.at, Max: p.at.Add(dr.Size())}
		if mask != nil {
			draw.DrawMask(atlas, dst, white, image.Point{}, mask, maskp, draw.Over)
		}
		fn.glyphs[p.r] = Glyph{
			Offset:  geom.V2(float32(dr.Min.X), float32(dr.Min.Y)),
			Size:    geom.V2(float32(dr.Dx()), float32(dr.Dy())),
			Advance: p.adv,
			UVMin:   geom.V2(float32(dst.Min.X), float32(dst.Min.Y)).MulV(geom.V2(1/size.X, 1/size.Y)),
			UVMax:   geom.V2(float32(dst.Max.X), float32(dst.Max.Y)).MulV(geom.V2(1/size.X, 1/size.Y)),
			Blank:   dr.Empty() || blank(atlas, dst),
		}
	}

	tex, err := fn.factory.CreateTexture(atlas)
	if err != nil {
		return fmt.Errorf("glyph: upload atlas: %w", err)
	}
	fn.tex = tex
	return nil
}

// Texture returns the atlas texture.
func (fn *Font) Texture() batch.TextureID { return fn.tex }

// LineHeight returns the distance between consecutive baselines.
func (fn *Font) LineHeight() float32 { return fn.lineHeight }

// Ascent returns the distance from the top of a line to its baseline.
func (fn *Font) Ascent() float32 { return fn.ascent }

// Glyph returns the baked glyph for r, or the fallback glyph.
func (fn *Font) Glyph(r rune) (Glyph, bool) {
	if g, ok := fn.glyphs[r]; ok {
		return g, true
	}
	g, ok := fn.glyphs[fn.fallback]
	return g, ok
}

// LayoutStats reports the layout cache counters. It is zero when the cache
// is disabled.
func (fn *Font) LayoutStats() cache.Stats {
	if fn.layouts == nil {
		return cache.Stats{}
	}
	return fn.layouts.Stats()
}

// Close destroys the atlas texture.
func (fn *Font) Close() {
	if fn.tex != 0 {
		fn.factory.DestroyTexture(fn.tex)
		fn.tex = 0
	}
}

func blank(img *image.RGBA, r image.Rectangle) bool {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := img.Pix[img.PixOffset(r.Min.X, y):img.PixOffset(r.Max.X, y)]
		for i := 3; i < len(row); i += 4 {
			if row[i] != 0 {
				return false
			}
		}
	}
	return true
}

func runeRange(lo, hi rune) string {
	rs := make([]rune, 0, hi-lo+1)
	for r := lo; r <= hi; r++ {
		rs = append(rs, r)
	}
	return string(rs)
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
