// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import "github.com/gogpu/gputypes"

type options struct {
	width, height uint32
	clear         gputypes.Color
	spirv         bool
	format        gputypes.TextureFormat
}

func defaultOptions() options {
	return options{
		width:  1280,
		height: 720,
		clear:  gputypes.Color{R: 0, G: 0, B: 0, A: 1},
		format: gputypes.TextureFormatRGBA8Unorm,
	}
}

// Option configures a Device.
type Option func(*options)

// WithSize sets the size of the offscreen color target.
// Default: 1280x720.
func WithSize(width, height int) Option {
	return func(o *options) {
		if width > 0 && height > 0 {
			o.width, o.height = uint32(width), uint32(height) //nolint:gosec // checked positive
		}
	}
}

// WithClearColor sets the color the first pass of each frame clears to.
// Components are premultiplied. Default: opaque black.
func WithClearColor(r, g, b, a float64) Option {
	return func(o *options) {
		o.clear = gputypes.Color{R: r, G: g, B: b, A: a}
	}
}

// WithSPIRV compiles the shaders to SPIR-V with naga instead of handing
// WGSL to the HAL.
func WithSPIRV() Option {
	return func(o *options) {
		o.spirv = true
	}
}

// WithFormat sets the color target format. NewFromProvider uses the host's
// surface format unless this option overrides it.
func WithFormat(f gputypes.TextureFormat) Option {
	return func(o *options) {
		o.format = f
	}
}
