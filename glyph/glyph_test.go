package glyph

import (
	"errors"
	"image"
	"testing"

	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/tri/cache"
	"github.com/gogpu/tri/geom"
	"github.com/gogpu/tri/render"
)

// basicfont.Face7x13: advance 7, ascent 11, line height 13.
func newTestFont(t *testing.T) (*Font, *render.Recorder) {
	t.Helper()
	rec := render.NewRecorder()
	fn, err := NewFont(rec, basicfont.Face7x13)
	if err != nil {
		t.Fatalf("NewFont: %v", err)
	}
	return fn, rec
}

func TestNewFontUploadsAtlas(t *testing.T) {
	fn, rec := newTestFont(t)
	img, ok := rec.Texture(fn.Texture())
	if !ok {
		t.Fatal("atlas texture not created")
	}
	if img.Bounds().Dx() != defaultAtlasWidth || img.Bounds().Dy() == 0 {
		t.Errorf("atlas bounds = %v", img.Bounds())
	}
	if fn.LineHeight() != 13 || fn.Ascent() != 11 {
		t.Errorf("metrics = %v/%v, want 13/11", fn.LineHeight(), fn.Ascent())
	}

	fn.Close()
	if _, ok := rec.Texture(fn.Texture()); ok {
		t.Error("atlas survives Close")
	}
}

// basicfont.Face7x13 masks are 6 pixels wide inside a 7 pixel advance.
func TestGlyphs(t *testing.T) {
	fn, _ := newTestFont(t)
	a, ok := fn.Glyph('A')
	if !ok || a.Blank {
		t.Fatalf("Glyph('A') = %+v, %v", a, ok)
	}
	if a.Advance != 7 || a.Size != geom.V2(6, 13) || a.Offset != geom.V2(0, -11) {
		t.Errorf("A = %+v", a)
	}
	if a.UVMin.X >= a.UVMax.X || a.UVMin.Y >= a.UVMax.Y {
		t.Errorf("A uv = %v..%v", a.UVMin, a.UVMax)
	}
	if sp, _ := fn.Glyph(' '); !sp.Blank {
		t.Error("space is not blank")
	}
	// Runes outside the baked set fall back to '?'.
	q, _ := fn.Glyph('?')
	if g, ok := fn.Glyph('世'); !ok || g != q {
		t.Error("missing rune does not fall back")
	}
}

func TestLayoutAlignment(t *testing.T) {
	fn, _ := newTestFont(t)
	box := geom.R(0, 0, 100, 50)
	tests := []struct {
		name  string
		align Align
		x, y  float32 // top-left of the first quad
	}{
		{"top left", Align{Left, Top}, 0, 0},
		{"center", Align{Center, Top}, 43, 0},
		{"right", Align{Right, Top}, 86, 0},
		{"middle", Align{Left, Middle}, 0, 18.5},
		{"bottom", Align{Left, Bottom}, 0, 37},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quads := fn.Layout(nil, "ab", box, tt.align)
			if len(quads) != 2 {
				t.Fatalf("got %d quads, want 2", len(quads))
			}
			if got := quads[0].Bounds.Min; got != geom.V2(tt.x, tt.y) {
				t.Errorf("first quad at %v, want (%v,%v)", got, tt.x, tt.y)
			}
			if d := quads[1].Bounds.Min.X - quads[0].Bounds.Min.X; d != 7 {
				t.Errorf("advance = %v, want 7", d)
			}
		})
	}
}

func TestLayoutWrap(t *testing.T) {
	fn, _ := newTestFont(t)
	quads := fn.Layout(nil, "aa bb", geom.R(0, 0, 20, 100), Align{})
	if len(quads) != 4 {
		t.Fatalf("got %d quads, want 4", len(quads))
	}
	if quads[2].Bounds.Min != geom.V2(0, 13) {
		t.Errorf("second line starts at %v, want (0,13)", quads[2].Bounds.Min)
	}
	if got := fn.Measure("aa bb", 20); got != geom.V2(14, 26) {
		t.Errorf("Measure = %v, want (14,26)", got)
	}
	if got := fn.Measure("aa bb", 0); got != geom.V2(35, 13) {
		t.Errorf("unwrapped Measure = %v, want (35,13)", got)
	}
}

func TestLayoutNewlineAndOverflow(t *testing.T) {
	fn, _ := newTestFont(t)
	quads := fn.Layout(nil, "a\nbcdef", geom.R(0, 0, 14, 100), Align{})
	if len(quads) != 6 {
		t.Fatalf("got %d quads, want 6", len(quads))
	}
	// A word wider than the box stays whole on its own line.
	if quads[5].Bounds.Min != geom.V2(28, 13) {
		t.Errorf("last quad at %v, want (28,13)", quads[5].Bounds.Min)
	}
}

func TestLayoutNormalizes(t *testing.T) {
	fn, _ := newTestFont(t)
	// e + combining acute composes to U+00E9, which is baked.
	quads := fn.Layout(nil, "e\u0301", geom.R(0, 0, 100, 20), Align{})
	if len(quads) != 1 {
		t.Fatalf("got %d quads, want 1", len(quads))
	}
	want, _ := fn.Glyph('\u00e9')
	if quads[0].UVMin != want.UVMin {
		t.Error("composed rune not used")
	}
}

func TestLayoutReusesDst(t *testing.T) {
	fn, _ := newTestFont(t)
	buf := make([]Quad, 0, 16)
	out := fn.Layout(buf, "abc", geom.R(0, 0, 100, 20), Align{})
	if len(out) != 3 || &out[0] != &buf[:1][0] {
		t.Error("Layout did not append into dst")
	}
}

func TestLayoutCache(t *testing.T) {
	fn, _ := newTestFont(t)
	first := fn.Layout(nil, "ab", geom.R(0, 0, 100, 20), Align{H: Center})
	moved := fn.Layout(nil, "ab", geom.R(10, 30, 110, 50), Align{H: Center})
	if len(first) != 2 || len(moved) != 2 {
		t.Fatalf("got %d and %d quads, want 2", len(first), len(moved))
	}
	for i := range first {
		if want := first[i].Bounds.Add(geom.V2(10, 30)); moved[i].Bounds != want {
			t.Errorf("quad %d = %v, want %v", i, moved[i].Bounds, want)
		}
	}
	if s := fn.LayoutStats(); s.Hits != 1 || s.Misses != 1 {
		t.Errorf("stats = %+v, want 1 hit 1 miss", s)
	}

	rec := render.NewRecorder()
	nocache, err := NewFont(rec, basicfont.Face7x13, WithLayoutCache(0))
	if err != nil {
		t.Fatalf("NewFont: %v", err)
	}
	if got := nocache.Layout(nil, "ab", geom.R(0, 0, 100, 20), Align{H: Center}); got[0] != first[0] {
		t.Errorf("uncached quad = %+v, want %+v", got[0], first[0])
	}
	if s := nocache.LayoutStats(); s != (cache.Stats{}) {
		t.Errorf("disabled cache stats = %+v", s)
	}
}

func TestLoadTTF(t *testing.T) {
	rec := render.NewRecorder()
	fn, err := LoadTTF(rec, goregular.TTF, 16)
	if err != nil {
		t.Fatalf("LoadTTF: %v", err)
	}
	quads := fn.Layout(nil, "Hi", geom.R(0, 0, 200, 40), Align{})
	if len(quads) != 2 {
		t.Fatalf("got %d quads, want 2", len(quads))
	}
	if quads[1].Bounds.Min.X <= quads[0].Bounds.Min.X {
		t.Error("shaped advance did not move the pen")
	}
	if _, err := LoadTTF(rec, []byte("not a font"), 16); err == nil {
		t.Error("expected error for garbage data")
	}
}

func TestRegistry(t *testing.T) {
	fn, rec := newTestFont(t)
	var reg Registry
	id := reg.Add(fn)
	if got, ok := reg.Font(id); !ok || got != fn {
		t.Fatal("Font did not resolve")
	}
	tex := fn.Texture()
	if err := reg.Release(id); err != nil {
		t.Fatal(err)
	}
	if _, ok := rec.Texture(tex); ok {
		t.Error("Release did not close the font")
	}
	if _, ok := reg.Font(id); ok {
		t.Error("released id resolves")
	}
	if err := reg.Release(id); !errors.Is(err, ErrStale) {
		t.Errorf("err = %v, want ErrStale", err)
	}

	fn2, _ := NewFont(rec, basicfont.Face7x13)
	id2 := reg.Add(fn2)
	if id2 == id {
		t.Error("reused slot kept generation")
	}
	if _, ok := reg.Font(FontID{}); ok {
		t.Error("zero id resolves")
	}
}

func TestShelfPacker(t *testing.T) {
	p := shelfPacker{width: 12, pad: 1}
	a, _ := p.place(4, 3)
	b, _ := p.place(4, 5)
	c, _ := p.place(4, 2)
	if a != image.Pt(1, 1) || b != image.Pt(7, 1) {
		t.Errorf("a=%v b=%v", a, b)
	}
	if c != image.Pt(1, 8) {
		t.Errorf("c = %v, want (1,8)", c)
	}
	if p.height() != 11 {
		t.Errorf("height = %d, want 11", p.height())
	}
	if _, ok := p.place(11, 1); ok {
		t.Error("oversized rect placed")
	}
}
