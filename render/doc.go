// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render defines the graphics-device contract the compositor drives.
//
// The compositor never talks to a GPU API directly. It issues a small set of
// state changes and indexed draws through [Device], and creates textures
// through [TextureFactory]. Implementations:
//
//   - backend/wgpu.Device: gogpu/wgpu HAL device with depth/stencil pipelines
//   - Recorder: records every call, used by tests and by cmd/tridemo
//
// # Integration
//
// The host application owns the GPU device ([DeviceHandle]) and hands it
// to a backend:
//
//	dev, err := wgpu.NewFromProvider(app.DeviceProvider())
//	r := tri.New(dev)
package render
