package sprite

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/tri/batch"
	"github.com/gogpu/tri/geom"
	"github.com/gogpu/tri/render"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestLoadResolve(t *testing.T) {
	rec := render.NewRecorder()
	reg := NewRegistry(rec)

	h, err := reg.Load(solid(8, 4, color.RGBA{255, 0, 0, 255}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	info, ok := reg.Resolve(h)
	if !ok {
		t.Fatal("Resolve failed for fresh handle")
	}
	if info.Size != geom.V2(8, 4) {
		t.Errorf("Size = %v, want (8,4)", info.Size)
	}
	if info.Texture == 0 {
		t.Error("Texture = 0, want a created texture")
	}
	if info.Transparent {
		t.Error("opaque image detected as transparent")
	}
	if info.UVMin != (geom.Vec2{}) || info.UVMax != geom.One {
		t.Errorf("UV = %v..%v, want full range", info.UVMin, info.UVMax)
	}
}

func TestLoadEmpty(t *testing.T) {
	reg := NewRegistry(render.NewRecorder())
	if _, err := reg.Load(image.NewRGBA(image.Rectangle{})); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("err = %v, want ErrEmptyImage", err)
	}
}

func TestTransparencyDetection(t *testing.T) {
	tests := []struct {
		name  string
		alpha uint8
		want  bool
	}{
		{"opaque", 255, false},
		{"fully transparent", 0, false},
		{"partial", 128, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry(render.NewRecorder())
			h, err := reg.Load(solid(2, 2, color.RGBA{0, 0, 0, tt.alpha}))
			if err != nil {
				t.Fatal(err)
			}
			info, _ := reg.Resolve(h)
			if info.Transparent != tt.want {
				t.Errorf("Transparent = %v, want %v", info.Transparent, tt.want)
			}
		})
	}
}

func TestReleaseStale(t *testing.T) {
	rec := render.NewRecorder()
	reg := NewRegistry(rec)

	a, _ := reg.Load(solid(2, 2, color.RGBA{A: 255}))
	info, _ := reg.Resolve(a)
	if err := reg.Release(a); err != nil {
		t.Fatal(err)
	}
	if _, ok := reg.Resolve(a); ok {
		t.Error("released handle still resolves")
	}
	if _, ok := rec.Texture(info.Texture); ok {
		t.Error("texture not destroyed after last release")
	}
	if err := reg.Release(a); !errors.Is(err, ErrStale) {
		t.Errorf("double release err = %v, want ErrStale", err)
	}

	// The slot is reused with a new generation.
	b, _ := reg.Load(solid(2, 2, color.RGBA{A: 255}))
	if b == a {
		t.Fatal("reused slot returned identical handle")
	}
	if _, ok := reg.Resolve(a); ok {
		t.Error("old handle resolves to reused slot")
	}
	if _, ok := reg.Resolve(b); !ok {
		t.Error("new handle does not resolve")
	}
	if _, ok := reg.Resolve(Handle{}); ok {
		t.Error("zero handle resolves")
	}
}

func TestSplitSheet(t *testing.T) {
	rec := render.NewRecorder()
	reg := NewRegistry(rec)

	sheet := solid(4, 2, color.RGBA{A: 255})
	// Right half is half transparent.
	for y := 0; y < 2; y++ {
		for x := 2; x < 4; x++ {
			sheet.SetRGBA(x, y, color.RGBA{A: 100})
		}
	}
	sh, err := reg.Load(sheet)
	if err != nil {
		t.Fatal(err)
	}
	subs, err := reg.SplitSheet(sh, Grid(4, 2, 2, 2))
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 2 {
		t.Fatalf("got %d sub-images, want 2", len(subs))
	}
	left, _ := reg.Resolve(subs[0])
	right, _ := reg.Resolve(subs[1])
	sheetInfo, _ := reg.Resolve(sh)

	if left.Texture != sheetInfo.Texture || right.Texture != sheetInfo.Texture {
		t.Error("sub-images do not share the sheet texture")
	}
	if left.UVMin != geom.V2(0, 0) || left.UVMax != geom.V2(0.5, 1) {
		t.Errorf("left UV = %v..%v", left.UVMin, left.UVMax)
	}
	if right.UVMin != geom.V2(0.5, 0) || right.UVMax != geom.V2(1, 1) {
		t.Errorf("right UV = %v..%v", right.UVMin, right.UVMax)
	}
	if left.Transparent || !right.Transparent {
		t.Errorf("transparency left=%v right=%v, want false/true", left.Transparent, right.Transparent)
	}
	if left.Size != geom.V2(2, 2) {
		t.Errorf("left size = %v", left.Size)
	}

	// The texture survives until every image sharing it is released.
	_ = reg.Release(sh)
	_ = reg.Release(subs[0])
	if _, ok := rec.Texture(sheetInfo.Texture); !ok {
		t.Fatal("shared texture destroyed early")
	}
	_ = reg.Release(subs[1])
	if _, ok := rec.Texture(sheetInfo.Texture); ok {
		t.Error("shared texture leaked")
	}
}

func TestSplitSheetOutOfBounds(t *testing.T) {
	reg := NewRegistry(render.NewRecorder())
	sh, _ := reg.Load(solid(4, 4, color.RGBA{A: 255}))
	if _, err := reg.SplitSheet(sh, []image.Rectangle{image.Rect(2, 2, 6, 6)}); err == nil {
		t.Error("expected error for rect outside sheet")
	}
}

func TestCapacity(t *testing.T) {
	reg := NewRegistry(render.NewRecorder(), WithCapacity(2))
	for i := 0; i < 2; i++ {
		if _, err := reg.Load(solid(1, 1, color.RGBA{A: 255})); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := reg.Load(solid(1, 1, color.RGBA{A: 255})); !errors.Is(err, ErrFull) {
		t.Errorf("err = %v, want ErrFull", err)
	}
	if reg.Len() != 2 {
		t.Errorf("Len = %d, want 2", reg.Len())
	}
}

func TestSetters(t *testing.T) {
	reg := NewRegistry(render.NewRecorder())
	h, _ := reg.Load(solid(2, 2, color.RGBA{A: 255}))

	if err := reg.SetPivot(h, geom.V2(1, -1)); err != nil {
		t.Fatal(err)
	}
	if err := reg.SetShader(h, batch.ShaderSDF, 0); err != nil {
		t.Fatal(err)
	}
	if err := reg.SetTransparent(h, true); err != nil {
		t.Fatal(err)
	}
	if err := reg.SetParam(h, 0.25); err != nil {
		t.Fatal(err)
	}
	info, _ := reg.Resolve(h)
	if info.Pivot != geom.V2(1, -1) || info.Shader != batch.ShaderSDF || !info.Transparent || info.Param != 0.25 {
		t.Errorf("info = %+v", info)
	}

	_ = reg.Release(h)
	if err := reg.SetPivot(h, geom.Vec2{}); !errors.Is(err, ErrStale) {
		t.Errorf("SetPivot on stale handle err = %v", err)
	}
}

func TestGrid(t *testing.T) {
	got := Grid(5, 4, 2, 2)
	want := []image.Rectangle{
		image.Rect(0, 0, 2, 2), image.Rect(2, 0, 4, 2),
		image.Rect(0, 2, 2, 4), image.Rect(2, 2, 4, 4),
	}
	if len(got) != len(want) {
		t.Fatalf("got %d cells, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cell %d = %v, want %v", i, got[i], want[i])
		}
	}
	if Grid(4, 4, 0, 2) != nil {
		t.Error("zero cell width should yield nil")
	}
}
