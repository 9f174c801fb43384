// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/tri/batch"
	"github.com/gogpu/tri/geom"
)

// DeviceHandle provides GPU device access from the host application.
//
// The host (e.g. a gogpu window) owns the GPU device and passes it to the
// renderer; the renderer never creates one. DeviceHandle is an alias for
// gpucontext.DeviceProvider so any gpucontext host can be used directly.
type DeviceHandle = gpucontext.DeviceProvider

// NullDeviceHandle is a DeviceHandle with no GPU behind it. Backends
// reject it; it is useful for wiring code paths that run headless.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}

// ErrUnknownTexture is returned by BindMaterial when a texture handle does
// not resolve to a live device texture.
var ErrUnknownTexture = errors.New("render: unknown texture")

// StencilMode selects how draws interact with the stencil buffer.
type StencilMode uint8

const (
	// StencilOff draws unclipped.
	StencilOff StencilMode = iota
	// StencilWrite paints the group's bit into the stencil buffer with no
	// color or depth output.
	StencilWrite
	// StencilTest restricts drawing to pixels where the group's bit is set.
	StencilTest
)

func (m StencilMode) String() string {
	switch m {
	case StencilOff:
		return "off"
	case StencilWrite:
		return "write"
	case StencilTest:
		return "test"
	default:
		return fmt.Sprintf("StencilMode(%d)", m)
	}
}

// Device is the graphics device the compositor drives. Calls arrive in
// this order each render cycle:
//
//	BeginFrame
//	UploadVertices (once per list)
//	for each active camera:
//	    ClearDepth, SetViewProjection
//	    { SetStencilMode | BindMaterial | DrawIndexedRun }...
//	EndFrame
//
// SetStencilMode and BindMaterial are only called when the state changes.
// Index slices passed to DrawIndexedRun are only valid during the call.
type Device interface {
	// BeginFrame starts a render cycle.
	BeginFrame() error

	// UploadVertices replaces the vertex data of one list for this frame.
	UploadVertices(kind batch.Kind, verts []batch.Vertex) error

	// ClearDepth clears depth and stencil before a camera draws.
	ClearDepth()

	// SetViewProjection sets the transform used by subsequent draws.
	SetViewProjection(camera int, vp geom.Mat4)

	// SetStencilMode sets the stencil state for subsequent draws.
	// group is in [0, 8) for StencilWrite and StencilTest.
	SetStencilMode(mode StencilMode, group int)

	// BindMaterial binds the shader and textures for subsequent draws from
	// list kind. It returns an error wrapping ErrUnknownTexture when a
	// texture does not resolve; the caller skips the run.
	BindMaterial(kind batch.Kind, m batch.Material) error

	// DrawIndexedRun draws triangles from list kind's vertex data.
	DrawIndexedRun(kind batch.Kind, indices []uint32)

	// EndFrame finishes and submits the render cycle.
	EndFrame() error
}

// TextureFactory creates device textures from CPU images.
type TextureFactory interface {
	CreateTexture(img *image.RGBA) (batch.TextureID, error)
	DestroyTexture(id batch.TextureID)
}
