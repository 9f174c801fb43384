// Command tridemo renders a small animated scene with the tri renderer.
//
// By default it picks the best available backend: the wgpu HAL device when
// a GPU is present, otherwise the headless recorder, whose device calls can
// be printed with -log.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"log/slog"
	"math"
	"os"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/tri"
	"github.com/gogpu/tri/backend"
	"github.com/gogpu/tri/batch"
	"github.com/gogpu/tri/camera"
	"github.com/gogpu/tri/ease"
	"github.com/gogpu/tri/geom"
	"github.com/gogpu/tri/glyph"
	"github.com/gogpu/tri/pointer"
	"github.com/gogpu/tri/sprite"
)

const (
	worldCam = 1 << 0
	uiCam    = 1 << 1
)

type scene struct {
	r      *tri.Renderer
	fonts  *glyph.Registry
	font   glyph.FontID
	box    sprite.Handle
	ball   sprite.Handle
	panel  [9]sprite.Handle
	trail  tri.Trail
	ballAt [2]geom.Vec2
	clip   batch.StencilGroup
}

func main() {
	var (
		name    = flag.String("backend", "", "backend name (default: best available)")
		width   = flag.Int("width", 800, "render width")
		height  = flag.Int("height", 600, "render height")
		ticks   = flag.Int("ticks", 10, "simulation ticks")
		frames  = flag.Int("frames", 3, "render cycles per tick")
		output  = flag.String("output", "", "write the last frame to this PNG (wgpu only)")
		showLog = flag.Bool("log", false, "print the recorder's call log of the last frame")
		verbose = flag.Bool("v", false, "debug logging")
		x11     = flag.Bool("x11", false, "hit-test the X11 pointer against the scene")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	tri.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	dev, used, err := openDevice(*name, *width, *height)
	if err != nil {
		log.Fatalf("open device: %v", err)
	}
	defer dev.Close()
	tri.Logger().Info("device opened", "backend", used)

	s, err := newScene(dev, float32(*width), float32(*height))
	if err != nil {
		log.Fatalf("scene: %v", err)
	}

	var regions *pointer.Regions
	var src *pointer.X11Source
	if *x11 {
		if src, err = pointer.NewX11Source(0); err != nil {
			log.Fatalf("x11: %v", err)
		}
		defer src.Close()
		regions = pointer.NewRegions(pointer.Mouse)
		regions.Add(geom.R(40, 40, 200, 120), uiCam)
	}

	const tickDuration = 1.0 / 10
	cams := s.r.Cameras()
	var events []pointer.RegionEvent
	for tick := 0; tick < *ticks; tick++ {
		s.advance(tick)
		cams.FinalizeTick(tickDuration)
		for f := 0; f < *frames; f++ {
			if rec, ok := dev.(backend.RecorderDevice); ok {
				rec.Reset()
			}
			cams.Tick(tickDuration / float32(*frames))
			if err := s.draw(); err != nil {
				log.Fatalf("draw: %v", err)
			}
			if err := s.r.Render(); err != nil {
				log.Fatalf("render: %v", err)
			}
			if regions != nil {
				events, err = regions.Poll(events[:0], cams, src)
				if err != nil {
					log.Fatalf("pointer: %v", err)
				}
				for _, e := range events {
					tri.Logger().Info("pointer", "region", e.Region, "event", e.Event)
				}
			}
		}
	}

	st := s.r.Stats()
	fmt.Printf("backend=%s triangles=%d draws=%d binds=%d stencil=%d culled=%d dropped=%d\n",
		used, st.Triangles, st.Draws, st.Binds, st.StencilChanges, st.Culled, st.Dropped)

	if rec, ok := dev.(backend.RecorderDevice); ok && *showLog {
		fmt.Print(rec.String())
	}
	if *output != "" {
		if err := writePNG(dev, *output); err != nil {
			log.Fatalf("output: %v", err)
		}
	}
}

func openDevice(name string, w, h int) (backend.Device, string, error) {
	if name == "" {
		return backend.OpenDefault(w, h)
	}
	dev, err := backend.Open(name, w, h)
	return dev, name, err
}

func newScene(dev backend.Device, w, h float32) (*scene, error) {
	images := sprite.NewRegistry(dev)
	fonts := &glyph.Registry{}
	s := &scene{fonts: fonts}
	s.r = tri.New(dev,
		tri.WithResolver(images),
		tri.WithFonts(fonts),
		tri.WithRenderSize(w, h),
		tri.WithCulling(true),
	)

	cams := s.r.Cameras()
	cams.SetFlags(0, worldCam)
	cams.SetCentered(0, true)
	cams.SnapPose(0, camera.Pose{Scale: geom.One})
	cams.SetFlags(1, uiCam)
	cams.SnapPose(1, camera.Pose{Scale: geom.One})

	var err error
	if s.box, err = images.Load(checker(32, color.RGBA{200, 80, 40, 255}, color.RGBA{240, 200, 60, 255})); err != nil {
		return nil, err
	}
	if s.ball, err = images.Load(disc(32)); err != nil {
		return nil, err
	}
	frame, err := images.Load(checker(24, color.RGBA{40, 60, 90, 255}, color.RGBA{60, 90, 130, 255}))
	if err != nil {
		return nil, err
	}
	cells, err := images.SplitSheet(frame, sprite.Grid(24, 24, 8, 8))
	if err != nil {
		return nil, err
	}
	copy(s.panel[:], cells)

	fn, err := glyph.LoadTTF(dev, goregular.TTF, 16)
	if err != nil {
		return nil, err
	}
	s.font = fonts.Add(fn)

	s.trail = tri.Trail{
		MinDist:    8,
		MaxPoints:  24,
		Width:      12,
		StartColor: tri.White.WithAlpha(0),
		EndColor:   tri.Hex("#7fd4ff"),
	}
	s.clip = batch.Group(0)
	return s, nil
}

// advance runs one simulation tick.
func (s *scene) advance(tick int) {
	angle := float64(tick) * 0.4
	next := geom.V2(float32(math.Cos(angle))*180, float32(math.Sin(angle))*120)
	s.ballAt[0] = s.ballAt[1]
	s.ballAt[1] = next
	s.trail.SetOrigin(next)
	s.trail.Tick()

	cams := s.r.Cameras()
	cams.MovePose(0, geom.V2(2, 0), geom.Vec2{})
}

// draw submits one render cycle.
func (s *scene) draw() error {
	r := s.r
	r.Begin()

	for i := range 5 {
		pos := geom.V2(float32(i-2)*70, 150)
		q := tri.Sprite(s.box, worldCam, 0, tri.At(pos), tri.Transform{Pos: pos, Scale: geom.One, Rotation: 0.3}, tri.White)
		q.Ease = ease.InOutQuad
		if err := r.SubmitQuad(q); err != nil {
			return err
		}
	}

	ball := tri.Sprite(s.ball, worldCam, 2, tri.At(s.ballAt[0]), tri.At(s.ballAt[1]), tri.White)
	if err := r.SubmitQuad(ball); err != nil {
		return err
	}
	if err := r.SubmitTrail(&s.trail, s.ball, worldCam, 1); err != nil {
		return err
	}

	// UI: a 9-slice panel whose contents are clipped to a stencil mask.
	panel := tri.NineSlice{
		Images:     s.panel,
		Cameras:    uiCam,
		Depth:      10,
		Start:      tri.At(geom.V2(120, 80)),
		End:        tri.At(geom.V2(120, 80)),
		StartSize:  geom.V2(160, 80),
		EndSize:    geom.V2(160, 80),
		StartColor: tri.White,
		EndColor:   tri.White,
	}
	if err := r.Submit9Slice(panel); err != nil {
		return err
	}
	mask := tri.Sprite(s.box, uiCam, 0, tri.Transform{Pos: geom.V2(120, 80), Scale: geom.V2(4, 2)}, tri.Transform{Pos: geom.V2(120, 80), Scale: geom.V2(4, 2)}, tri.White)
	mask.Clip, mask.StencilWrite = s.clip, true
	if err := r.SubmitQuad(mask); err != nil {
		return err
	}
	err := r.SubmitText(tri.Text{
		Text:    "tri: batched, interpolated triangles",
		Font:    s.font,
		Box:     geom.R(48, 48, 192, 112),
		Align:   glyph.Align{H: glyph.Center, V: glyph.Middle},
		Color:   tri.White,
		Cameras: uiCam,
		Depth:   11,
		Clip:    s.clip,
	})
	if err != nil {
		return err
	}

	return r.SubmitDebugRect(geom.R(40, 40, 200, 120), tri.Green, uiCam)
}

func checker(size int, a, b color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cell := max(size/4, 1)
	for y := range size {
		for x := range size {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func disc(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	r := float64(size) / 2
	for y := range size {
		for x := range size {
			dx, dy := float64(x)+0.5-r, float64(y)+0.5-r
			a := math.Max(0, math.Min(1, r-math.Hypot(dx, dy)))
			v := uint8(255 * a)
			img.SetRGBA(x, y, color.RGBA{v, v, v, v})
		}
	}
	return img
}

// pixelReader is implemented by devices with an offscreen target.
type pixelReader interface {
	ReadPixels() (*image.RGBA, error)
}

func writePNG(dev backend.Device, path string) error {
	pr, ok := dev.(pixelReader)
	if !ok {
		return fmt.Errorf("backend cannot read pixels")
	}
	img, err := pr.ReadPixels()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
