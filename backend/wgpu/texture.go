// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/tri/batch"
	"github.com/gogpu/tri/render"
)

// materialUniformSize is the byte size of the material uniform:
// param (f32) + 3 x f32 padding.
const materialUniformSize = 16

type gpuTexture struct {
	tex  hal.Texture
	view hal.TextureView
}

// materialKey identifies a material bind group. The shader tag selects the
// pipeline, not the bind group.
type materialKey struct {
	texture, extra batch.TextureID
	param          float32
}

type materialGroup struct {
	group   hal.BindGroup
	uniform hal.Buffer
}

// CreateTexture uploads img, whose pixels are premultiplied, as an RGBA8
// texture.
func (d *Device) CreateTexture(img *image.RGBA) (batch.TextureID, error) {
	if d.device == nil {
		return 0, ErrClosed
	}
	b := img.Bounds()
	if b.Empty() {
		return 0, fmt.Errorf("wgpu: empty texture %v", b)
	}
	w, h := uint32(b.Dx()), uint32(b.Dy()) //nolint:gosec // image sizes are positive

	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         fmt.Sprintf("tri_texture_%d", d.nextTexture),
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return 0, fmt.Errorf("wgpu: create texture: %w", err)
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "tri_texture_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return 0, fmt.Errorf("wgpu: create texture view: %w", err)
	}

	d.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex, MipLevel: 0},
		tightPixels(img),
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: w * 4, RowsPerImage: h},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)

	id := d.nextTexture
	d.nextTexture++
	d.textures[id] = &gpuTexture{tex: tex, view: view}
	return id, nil
}

// tightPixels returns img's pixels without row padding.
func tightPixels(img *image.RGBA) []byte {
	b := img.Bounds()
	row := b.Dx() * 4
	if img.Stride == row && b.Min == (image.Point{}) {
		return img.Pix[:row*b.Dy()]
	}
	out := make([]byte, 0, row*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		out = append(out, img.Pix[off:off+row]...)
	}
	return out
}

// DestroyTexture releases a texture and every material bind group that
// references it. The default texture and unknown IDs are ignored.
func (d *Device) DestroyTexture(id batch.TextureID) {
	t, ok := d.textures[id]
	if !ok || id == defaultTexture {
		return
	}
	for k, m := range d.materials {
		if k.texture == id || k.extra == id {
			d.destroyMaterial(m)
			delete(d.materials, k)
		}
	}
	d.device.DestroyTextureView(t.view)
	d.device.DestroyTexture(t.tex)
	delete(d.textures, id)
}

// material returns the bind group for m, creating it on first use.
func (d *Device) material(m batch.Material) (hal.BindGroup, error) {
	key := materialKey{texture: m.Texture, extra: m.Extra, param: m.Param}
	if g, ok := d.materials[key]; ok {
		return g.group, nil
	}
	tex, ok := d.textures[m.Texture]
	if !ok {
		return nil, fmt.Errorf("%w: texture %d", render.ErrUnknownTexture, m.Texture)
	}
	extra, ok := d.textures[m.Extra]
	if !ok {
		return nil, fmt.Errorf("%w: extra texture %d", render.ErrUnknownTexture, m.Extra)
	}

	uniform, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "tri_material_uniform",
		Size:  materialUniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create material uniform: %w", err)
	}
	var data [materialUniformSize]byte
	binary.LittleEndian.PutUint32(data[0:], math.Float32bits(m.Param))
	d.queue.WriteBuffer(uniform, 0, data[:])

	group, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "tri_material_bind",
		Layout: d.materialLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{TextureView: tex.view.NativeHandle()}},
			{Binding: 1, Resource: gputypes.SamplerBinding{Sampler: d.sampler.NativeHandle()}},
			{Binding: 2, Resource: gputypes.TextureViewBinding{TextureView: extra.view.NativeHandle()}},
			{Binding: 3, Resource: gputypes.BufferBinding{
				Buffer: uniform.NativeHandle(), Offset: 0, Size: materialUniformSize,
			}},
		},
	})
	if err != nil {
		d.device.DestroyBuffer(uniform)
		return nil, fmt.Errorf("create material bind group: %w", err)
	}
	d.materials[key] = &materialGroup{group: group, uniform: uniform}
	return group, nil
}

func (d *Device) destroyMaterial(m *materialGroup) {
	d.device.DestroyBindGroup(m.group)
	d.device.DestroyBuffer(m.uniform)
}

// createDefaultTexture creates texture 0, an opaque white pixel.
func (d *Device) createDefaultTexture() error {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	copy(img.Pix, []byte{0xFF, 0xFF, 0xFF, 0xFF})
	d.nextTexture = defaultTexture
	if _, err := d.CreateTexture(img); err != nil {
		return fmt.Errorf("create default texture: %w", err)
	}
	return nil
}

func (d *Device) destroyTextures() {
	for k, m := range d.materials {
		d.destroyMaterial(m)
		delete(d.materials, k)
	}
	for id, t := range d.textures {
		d.device.DestroyTextureView(t.view)
		d.device.DestroyTexture(t.tex)
		delete(d.textures, id)
	}
}
