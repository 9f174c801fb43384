// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// copyPitchAlignment is the required BytesPerRow alignment of texture to
// buffer copies.
const copyPitchAlignment = 256

// ReadPixels copies the offscreen target of the last frame to an image.
// Pixels are premultiplied.
func (d *Device) ReadPixels() (*image.RGBA, error) {
	if d.device == nil {
		return nil, ErrClosed
	}
	w, h := d.target.width, d.target.height
	bytesPerRow := w * 4
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	size := uint64(alignedBytesPerRow) * uint64(h)

	staging, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "tri_staging",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create staging buffer: %w", err)
	}
	defer d.device.DestroyBuffer(staging)

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "tri_readback"})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("tri_readback"); err != nil {
		return nil, fmt.Errorf("wgpu: begin encoding: %w", err)
	}
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: d.target.colorTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(d.target.colorTex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: d.target.colorTex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: d.target.colorTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	fence, err := d.device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("wgpu: create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, fmt.Errorf("wgpu: submit: %w", err)
	}
	ok, err := d.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !ok {
		return nil, fmt.Errorf("wgpu: wait for GPU: ok=%v err=%w", ok, err)
	}

	data := make([]byte, size)
	if err := d.queue.ReadBuffer(staging, 0, data); err != nil {
		return nil, fmt.Errorf("wgpu: readback: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	bgra := d.target.format == gputypes.TextureFormatBGRA8Unorm
	for y := 0; y < int(h); y++ {
		src := data[y*int(alignedBytesPerRow) : y*int(alignedBytesPerRow)+int(bytesPerRow)]
		dst := img.Pix[y*img.Stride : y*img.Stride+int(bytesPerRow)]
		copy(dst, src)
		if bgra {
			for i := 0; i < len(dst); i += 4 {
				dst[i], dst[i+2] = dst[i+2], dst[i]
			}
		}
	}
	return img, nil
}
