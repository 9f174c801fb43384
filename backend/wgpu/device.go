// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/tri/batch"
	"github.com/gogpu/tri/camera"
	"github.com/gogpu/tri/render"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

var (
	// ErrClosed is returned by operations on a closed Device.
	ErrClosed = errors.New("wgpu: device closed")

	// ErrNoHAL is returned by NewFromProvider when the host does not
	// expose HAL device and queue handles.
	ErrNoHAL = errors.New("wgpu: provider does not expose HAL types")

	// ErrNoAdapter is returned by New when no GPU adapter is found.
	ErrNoAdapter = errors.New("wgpu: no GPU adapters found")
)

const defaultTexture batch.TextureID = 0

// viewSlotSize is the stride of one camera's view uniform. Uniform buffer
// offsets must be 256-byte aligned.
const viewSlotSize = 256

// viewUniformSize is the byte size of one view uniform: mat4x4<f32>.
const viewUniformSize = 64

// Device draws tri batches with the gogpu/wgpu HAL. It implements
// render.Device and render.TextureFactory. A Device is not safe for
// concurrent use.
type Device struct {
	opts   options
	logger atomic.Pointer[slog.Logger]

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	external bool

	shader         hal.ShaderModule
	viewLayout     hal.BindGroupLayout
	materialLayout hal.BindGroupLayout
	pipeLayout     hal.PipelineLayout
	sampler        hal.Sampler
	pipelines      map[pipelineKey]hal.RenderPipeline

	textures    map[batch.TextureID]*gpuTexture
	nextTexture batch.TextureID
	materials   map[materialKey]*materialGroup

	target  renderTarget
	surface hal.TextureView

	viewBuf    hal.Buffer
	viewGroups [camera.NumSlots]hal.BindGroup
	views      [camera.NumSlots * viewSlotSize]byte

	vertexBufs  [len(batch.Kinds)]growBuffer
	indexBuf    growBuffer
	vertexBytes []byte
	indexBytes  []byte

	frame frame
}

var (
	_ render.Device         = (*Device)(nil)
	_ render.TextureFactory = (*Device)(nil)
)

// New opens the first discrete or integrated GPU through the Vulkan HAL
// and renders into an offscreen target.
func New(opts ...Option) (*Device, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("wgpu: vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("wgpu: open device: %w", err)
	}

	d, err := NewFromHAL(openDev.Device, openDev.Queue, opts...)
	if err != nil {
		openDev.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	d.instance = instance
	d.external = false
	d.log().Info("wgpu: device initialized", "adapter", selected.Info.Name)
	return d, nil
}

// NewFromProvider renders with the host's GPU device. The provider must
// implement HalDevice() any and HalQueue() any returning hal.Device and
// hal.Queue, as gogpu windows do. The device is not destroyed by Close.
func NewFromProvider(h render.DeviceHandle, opts ...Option) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := h.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHAL)
	}
	if f := h.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
		opts = append([]Option{WithFormat(f)}, opts...)
	}
	return NewFromHAL(device, queue, opts...)
}

// NewFromHAL renders with an existing HAL device and queue, which the
// caller keeps ownership of.
func NewFromHAL(device hal.Device, queue hal.Queue, opts ...Option) (*Device, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	d := &Device{
		opts:      o,
		device:    device,
		queue:     queue,
		external:  true,
		pipelines: make(map[pipelineKey]hal.RenderPipeline),
		textures:  make(map[batch.TextureID]*gpuTexture),
		materials: make(map[materialKey]*materialGroup),
	}
	d.SetLogger(nil)
	for _, k := range batch.Kinds {
		d.vertexBufs[k] = growBuffer{
			label: fmt.Sprintf("tri_%v_vertices", k),
			usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
		}
	}
	d.indexBuf = growBuffer{
		label: "tri_indices",
		usage: gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst,
	}

	steps := []func() error{
		d.createShader,
		d.createLayouts,
		d.createViewUniforms,
		d.createDefaultTexture,
		func() error { return d.target.ensure(d.device, o.width, o.height, o.format) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			d.release()
			return nil, fmt.Errorf("wgpu: %w", err)
		}
	}
	return d, nil
}

// createViewUniforms creates the view uniform buffer and one bind group per
// camera slot.
func (d *Device) createViewUniforms() error {
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "tri_view_uniform",
		Size:  uint64(len(d.views)),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create view uniform: %w", err)
	}
	d.viewBuf = buf
	for i := range d.viewGroups {
		g, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label:  fmt.Sprintf("tri_view_bind_%d", i),
			Layout: d.viewLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: 0, Resource: gputypes.BufferBinding{
					Buffer: buf.NativeHandle(), Offset: uint64(i * viewSlotSize), Size: viewUniformSize,
				}},
			},
		})
		if err != nil {
			return fmt.Errorf("create view bind group %d: %w", i, err)
		}
		d.viewGroups[i] = g
	}
	return nil
}

// Size returns the color target size.
func (d *Device) Size() (width, height int) {
	return int(d.target.width), int(d.target.height)
}

// Resize changes the offscreen target size. It takes effect at the next
// BeginFrame.
func (d *Device) Resize(width, height int) {
	if width > 0 && height > 0 {
		d.opts.width, d.opts.height = uint32(width), uint32(height) //nolint:gosec // checked positive
	}
}

// SetSurfaceView renders subsequent frames into view, a host-owned surface
// texture of the current size, instead of the offscreen target. Pass nil to
// return to the offscreen target.
func (d *Device) SetSurfaceView(view hal.TextureView) {
	d.surface = view
}

// Close releases every GPU object the device created. A device opened with
// New is destroyed too.
func (d *Device) Close() error {
	if d.device == nil {
		return ErrClosed
	}
	d.release()
	return nil
}

func (d *Device) release() {
	if d.device == nil {
		return
	}
	d.destroyTextures()
	d.destroyPipelines()
	for i, g := range d.viewGroups {
		if g != nil {
			d.device.DestroyBindGroup(g)
			d.viewGroups[i] = nil
		}
	}
	if d.viewBuf != nil {
		d.device.DestroyBuffer(d.viewBuf)
		d.viewBuf = nil
	}
	for i := range d.vertexBufs {
		d.vertexBufs[i].destroy(d.device)
	}
	d.indexBuf.destroy(d.device)
	d.target.destroy(d.device)

	if !d.external {
		d.device.Destroy()
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	d.device, d.queue, d.instance = nil, nil, nil
}
