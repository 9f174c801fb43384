// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/tri/backend"
	"github.com/gogpu/tri/batch"
	"github.com/gogpu/tri/geom"
	"github.com/gogpu/tri/render"
)

// createNoopDevice creates a noop device and queue for testing.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return openDev.Device, openDev.Queue
}

func newNoopDevice(t *testing.T, opts ...Option) *Device {
	t.Helper()
	device, queue := createNoopDevice(t)
	d, err := NewFromHAL(device, queue, append([]Option{WithSize(64, 32)}, opts...)...)
	if err != nil {
		t.Fatalf("NewFromHAL: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func quadVertices() []batch.Vertex {
	return []batch.Vertex{
		{Pos: [3]float32{0, 0, 0}, Color: [4]float32{1, 1, 1, 1}},
		{Pos: [3]float32{10, 0, 0}, UV: [2]float32{1, 0}, Color: [4]float32{1, 1, 1, 1}},
		{Pos: [3]float32{0, 10, 0}, UV: [2]float32{0, 1}, Color: [4]float32{1, 1, 1, 1}},
		{Pos: [3]float32{10, 10, 0}, UV: [2]float32{1, 1}, Color: [4]float32{1, 1, 1, 1}},
	}
}

func TestNewFromHAL(t *testing.T) {
	d := newNoopDevice(t)
	if w, h := d.Size(); w != 64 || h != 32 {
		t.Errorf("Size() = %dx%d, want 64x32", w, h)
	}
	if _, ok := d.textures[defaultTexture]; !ok {
		t.Error("default texture missing")
	}
	if d.nextTexture != 1 {
		t.Errorf("nextTexture = %d, want 1", d.nextTexture)
	}
	for i, g := range d.viewGroups {
		if g == nil {
			t.Fatalf("view bind group %d is nil", i)
		}
	}
}

func TestNewFromProviderRejectsNull(t *testing.T) {
	_, err := NewFromProvider(render.NullDeviceHandle{})
	if !errors.Is(err, ErrNoHAL) {
		t.Errorf("err = %v, want ErrNoHAL", err)
	}
}

func TestTextures(t *testing.T) {
	d := newNoopDevice(t)
	id, err := d.CreateTexture(solidImage(4, 4, color.RGBA{255, 0, 0, 255}))
	if err != nil {
		t.Fatal(err)
	}
	if id == defaultTexture {
		t.Fatal("texture reused the default id")
	}
	if _, err := d.material(batch.Material{Texture: id}); err != nil {
		t.Fatal(err)
	}
	if len(d.materials) != 1 {
		t.Fatalf("materials = %d, want 1", len(d.materials))
	}

	d.DestroyTexture(id)
	if len(d.materials) != 0 {
		t.Error("material bind group survived its texture")
	}
	if err := d.BindMaterial(batch.Opaque, batch.Material{Texture: id}); !errors.Is(err, render.ErrUnknownTexture) {
		t.Errorf("err = %v, want ErrUnknownTexture", err)
	}

	d.DestroyTexture(defaultTexture)
	if _, ok := d.textures[defaultTexture]; !ok {
		t.Error("default texture destroyed")
	}
}

func TestTightPixels(t *testing.T) {
	img := solidImage(4, 4, color.RGBA{1, 2, 3, 4})
	sub := img.SubImage(image.Rect(1, 1, 3, 3)).(*image.RGBA)
	got := tightPixels(sub)
	if len(got) != 2*2*4 {
		t.Fatalf("len = %d, want 16", len(got))
	}
	if got[0] != 1 || got[3] != 4 {
		t.Errorf("first pixel = %v", got[:4])
	}
	if p := tightPixels(img); &p[0] != &img.Pix[0] {
		t.Error("tight image was copied")
	}
}

func TestEncodeVertices(t *testing.T) {
	verts := quadVertices()
	got := encodeVertices(nil, verts)
	if len(got) != len(verts)*batch.VertexStride {
		t.Fatalf("len = %d, want %d", len(got), len(verts)*batch.VertexStride)
	}
	// Second vertex, x at offset 0: 10.0 = 0x41200000.
	off := batch.VertexStride
	if got[off+3] != 0x41 || got[off+2] != 0x20 {
		t.Errorf("x bytes = % x", got[off:off+4])
	}
}

func TestDepthStencilState(t *testing.T) {
	tests := []struct {
		key       pipelineKey
		write     bool
		compare   gputypes.CompareFunction
		readMask  uint32
		writeMask uint32
	}{
		{pipelineKey{kind: batch.Opaque, mode: render.StencilOff, group: -1}, true, gputypes.CompareFunctionLess, 0, 0},
		{pipelineKey{kind: batch.Transparent, mode: render.StencilOff, group: -1}, false, gputypes.CompareFunctionLess, 0, 0},
		{pipelineKey{kind: batch.Stencil, mode: render.StencilWrite, group: 3}, false, gputypes.CompareFunctionAlways, 0, 1 << 3},
		{pipelineKey{kind: batch.Opaque, mode: render.StencilTest, group: 5}, true, gputypes.CompareFunctionLess, 1 << 5, 0},
	}
	for _, tt := range tests {
		ds := depthStencilState(tt.key)
		if ds.DepthWriteEnabled != tt.write || ds.DepthCompare != tt.compare {
			t.Errorf("%+v: depth write %v compare %v", tt.key, ds.DepthWriteEnabled, ds.DepthCompare)
		}
		if uint32(ds.StencilReadMask) != tt.readMask || uint32(ds.StencilWriteMask) != tt.writeMask {
			t.Errorf("%+v: masks read %#x write %#x", tt.key, ds.StencilReadMask, ds.StencilWriteMask)
		}
	}
	if f := stencilFace(render.StencilWrite); f.PassOp != hal.StencilOperationReplace {
		t.Errorf("write pass op = %v", f.PassOp)
	}
	if f := stencilFace(render.StencilTest); f.Compare != gputypes.CompareFunctionEqual {
		t.Errorf("test compare = %v", f.Compare)
	}
}

func TestFrame(t *testing.T) {
	d := newNoopDevice(t, WithClearColor(0.1, 0.2, 0.3, 1))
	tex, err := d.CreateTexture(solidImage(2, 2, color.RGBA{255, 255, 255, 255}))
	if err != nil {
		t.Fatal(err)
	}

	if err := d.BeginFrame(); err != nil {
		t.Fatal(err)
	}
	if err := d.UploadVertices(batch.Opaque, quadVertices()); err != nil {
		t.Fatal(err)
	}
	if err := d.UploadVertices(batch.Stencil, quadVertices()); err != nil {
		t.Fatal(err)
	}
	for cam := range 2 {
		d.ClearDepth()
		d.SetViewProjection(cam, geom.Ortho(0, 64, 32, 0, -1000, 1000))
		d.SetStencilMode(render.StencilWrite, 2)
		if err := d.BindMaterial(batch.Stencil, batch.Material{Texture: tex}); err != nil {
			t.Fatal(err)
		}
		d.DrawIndexedRun(batch.Stencil, []uint32{0, 1, 2})
		d.SetStencilMode(render.StencilTest, 2)
		if err := d.BindMaterial(batch.Opaque, batch.Material{Texture: tex}); err != nil {
			t.Fatal(err)
		}
		d.DrawIndexedRun(batch.Opaque, []uint32{0, 1, 2, 1, 3, 2})
	}
	if got := len(d.frame.passes); got != 2 {
		t.Fatalf("passes = %d, want 2", got)
	}
	if got := len(d.frame.indices); got != 18 {
		t.Errorf("staged indices = %d, want 18", got)
	}
	if dc := d.frame.passes[1].draws[1]; dc.first != 12 || dc.count != 6 {
		t.Errorf("second pass draw = first %d count %d, want 12 and 6", dc.first, dc.count)
	}
	if got := len(d.pipelines); got != 2 {
		t.Errorf("pipelines = %d, want 2 cached across cameras", got)
	}
	if err := d.EndFrame(); err != nil {
		t.Fatalf("EndFrame: %v", err)
	}

	img, err := d.ReadPixels()
	if err != nil {
		t.Fatalf("ReadPixels: %v", err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 32 {
		t.Errorf("readback size = %v", img.Bounds())
	}
}

func TestEmptyFrame(t *testing.T) {
	d := newNoopDevice(t)
	if err := d.BeginFrame(); err != nil {
		t.Fatal(err)
	}
	if err := d.EndFrame(); err != nil {
		t.Fatalf("EndFrame: %v", err)
	}
	if err := d.EndFrame(); err == nil {
		t.Error("second EndFrame without BeginFrame succeeded")
	}
}

func TestFrameErrorReported(t *testing.T) {
	d := newNoopDevice(t)
	if err := d.BeginFrame(); err != nil {
		t.Fatal(err)
	}
	d.ClearDepth()
	d.SetViewProjection(99, geom.Identity4())
	if err := d.EndFrame(); err == nil || !strings.Contains(err.Error(), "camera 99") {
		t.Errorf("err = %v, want camera range error", err)
	}
}

func TestClose(t *testing.T) {
	device, queue := createNoopDevice(t)
	d, err := NewFromHAL(device, queue)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if err := d.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("second Close = %v, want ErrClosed", err)
	}
	if err := d.BeginFrame(); !errors.Is(err, ErrClosed) {
		t.Errorf("BeginFrame after Close = %v, want ErrClosed", err)
	}
}

func TestRegistered(t *testing.T) {
	if !backend.IsRegistered(backend.NameWGPU) {
		t.Error("wgpu backend not registered")
	}
}
