// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// renderTarget is the offscreen color texture and the depth/stencil texture
// every pass draws with.
type renderTarget struct {
	colorTex    hal.Texture
	colorView   hal.TextureView
	stencilTex  hal.Texture
	stencilView hal.TextureView
	width       uint32
	height      uint32
	format      gputypes.TextureFormat
}

// ensure (re)creates the textures when the size or format changed.
func (t *renderTarget) ensure(device hal.Device, w, h uint32, format gputypes.TextureFormat) error {
	if t.colorTex != nil && t.width == w && t.height == h && t.format == format {
		return nil
	}
	t.destroy(device)
	size := hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}

	colorTex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "tri_color",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create color texture: %w", err)
	}
	t.colorTex = colorTex

	colorView, err := device.CreateTextureView(colorTex, &hal.TextureViewDescriptor{Label: "tri_color_view"})
	if err != nil {
		t.destroy(device)
		return fmt.Errorf("create color view: %w", err)
	}
	t.colorView = colorView

	stencilTex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "tri_depth_stencil",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatDepth24PlusStencil8,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		t.destroy(device)
		return fmt.Errorf("create depth/stencil texture: %w", err)
	}
	t.stencilTex = stencilTex

	stencilView, err := device.CreateTextureView(stencilTex, &hal.TextureViewDescriptor{Label: "tri_depth_stencil_view"})
	if err != nil {
		t.destroy(device)
		return fmt.Errorf("create depth/stencil view: %w", err)
	}
	t.stencilView = stencilView

	t.width, t.height, t.format = w, h, format
	return nil
}

// destroy releases the textures. Safe on a partially created target.
func (t *renderTarget) destroy(device hal.Device) {
	if t.stencilView != nil {
		device.DestroyTextureView(t.stencilView)
		t.stencilView = nil
	}
	if t.stencilTex != nil {
		device.DestroyTexture(t.stencilTex)
		t.stencilTex = nil
	}
	if t.colorView != nil {
		device.DestroyTextureView(t.colorView)
		t.colorView = nil
	}
	if t.colorTex != nil {
		device.DestroyTexture(t.colorTex)
		t.colorTex = nil
	}
	t.width, t.height = 0, 0
}

// growBuffer is a GPU buffer that is recreated larger when data outgrows it.
type growBuffer struct {
	buf   hal.Buffer
	size  uint64
	usage gputypes.BufferUsage
	label string
}

// minBufferSize is the smallest vertex or index buffer allocated.
const minBufferSize = 64 << 10

// write uploads data, growing the buffer to the next power of two first if
// needed.
func (b *growBuffer) write(device hal.Device, queue hal.Queue, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	need := uint64(len(data))
	if b.buf == nil || need > b.size {
		size := uint64(minBufferSize)
		for size < need {
			size *= 2
		}
		b.destroy(device)
		buf, err := device.CreateBuffer(&hal.BufferDescriptor{
			Label: b.label,
			Size:  size,
			Usage: b.usage,
		})
		if err != nil {
			return fmt.Errorf("create %s: %w", b.label, err)
		}
		b.buf, b.size = buf, size
	}
	queue.WriteBuffer(b.buf, 0, data)
	return nil
}

func (b *growBuffer) destroy(device hal.Device) {
	if b.buf != nil {
		device.DestroyBuffer(b.buf)
		b.buf, b.size = nil, 0
	}
}
