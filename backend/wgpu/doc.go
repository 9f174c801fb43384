// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

// Package wgpu implements render.Device on the gogpu/wgpu HAL.
//
// Each camera draws in its own render pass. The first pass of a frame clears
// the color target with the clear color; later passes load it. Depth and
// stencil are cleared at the start of every pass.
//
// Pipelines are cached per (list kind, shader, stencil mode, stencil group):
//
//   - opaque: depth test Less with depth writes, no blending
//   - transparent: depth test Less without depth writes, premultiplied blend
//   - stencil: no color or depth output, writes the group's bit
//
// Draw calls are recorded while the compositor runs and encoded in
// EndFrame, after vertex, index and uniform data have been written.
//
// Build with -tags nogpu to exclude this package.
package wgpu
