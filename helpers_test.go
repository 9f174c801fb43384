package tri

import (
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/tri/geom"
	"github.com/gogpu/tri/render"
	"github.com/gogpu/tri/sprite"
)

type fixture struct {
	r      *Renderer
	rec    *render.Recorder
	images *sprite.Registry
}

// newFixture returns a renderer recording into a Recorder with camera 0
// active on flag 1. Before any FinalizeTick the cycle's t is 1.
func newFixture(t *testing.T, opts ...Option) fixture {
	t.Helper()
	rec := render.NewRecorder()
	images := sprite.NewRegistry(rec)
	r := New(rec, append([]Option{WithResolver(images), WithRenderSize(800, 600)}, opts...)...)
	r.Cameras().SetFlags(0, 1)
	r.Begin()
	return fixture{r: r, rec: rec, images: images}
}

func (f fixture) image(t *testing.T, w, h int, alpha uint8) sprite.Handle {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{alpha, alpha, alpha, alpha})
		}
	}
	hnd, err := f.images.Load(img)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return hnd
}

func (f fixture) quad(t *testing.T, img sprite.Handle, cams uint32, pos geom.Vec2, c Color) {
	t.Helper()
	if err := f.r.SubmitQuad(Sprite(img, cams, 0, At(pos), At(pos), c)); err != nil {
		t.Fatalf("SubmitQuad: %v", err)
	}
}

func (f fixture) render(t *testing.T) {
	t.Helper()
	if err := f.r.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}
}

func vertexPos(v [3]float32) geom.Vec2 { return geom.V2(v[0], v[1]) }
