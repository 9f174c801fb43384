// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/tri/batch"
	"github.com/gogpu/tri/geom"
	"github.com/gogpu/tri/render"
)

// fenceTimeout bounds the wait for a submitted frame.
const fenceTimeout = 5 * time.Second

// drawCmd is one recorded DrawIndexedRun.
type drawCmd struct {
	pipeline hal.RenderPipeline
	material hal.BindGroup
	kind     batch.Kind
	first    uint32
	count    uint32
}

// pass is the work of one camera.
type pass struct {
	camera int
	draws  []drawCmd
}

// frame is the state recorded between BeginFrame and EndFrame.
type frame struct {
	active   bool
	passes   []pass
	indices  []uint32
	mode     render.StencilMode
	group    int
	shader   batch.Shader
	material hal.BindGroup
	err      error
}

// BeginFrame starts recording a frame.
func (d *Device) BeginFrame() error {
	if d.device == nil {
		return ErrClosed
	}
	if err := d.target.ensure(d.device, d.opts.width, d.opts.height, d.opts.format); err != nil {
		return fmt.Errorf("wgpu: %w", err)
	}
	f := &d.frame
	f.active = true
	f.passes = f.passes[:0]
	f.indices = f.indices[:0]
	f.mode, f.group = render.StencilOff, -1
	f.material = nil
	f.err = nil
	return nil
}

// UploadVertices encodes a list's vertices for upload in EndFrame.
func (d *Device) UploadVertices(kind batch.Kind, verts []batch.Vertex) error {
	if !d.frame.active {
		return fmt.Errorf("wgpu: UploadVertices outside a frame")
	}
	if int(kind) >= len(d.vertexBufs) {
		return fmt.Errorf("wgpu: unknown list %v", kind)
	}
	d.vertexBytes = encodeVertices(d.vertexBytes[:0], verts)
	if err := d.vertexBufs[kind].write(d.device, d.queue, d.vertexBytes); err != nil {
		return fmt.Errorf("wgpu: %w", err)
	}
	return nil
}

// encodeVertices appends verts in the vertex buffer layout.
func encodeVertices(dst []byte, verts []batch.Vertex) []byte {
	var buf [batch.VertexStride]byte
	for i := range verts {
		v := &verts[i]
		fs := [...]float32{
			v.Pos[0], v.Pos[1], v.Pos[2],
			v.UV[0], v.UV[1],
			v.Color[0], v.Color[1], v.Color[2], v.Color[3],
			v.Param,
		}
		for j, f := range fs {
			binary.LittleEndian.PutUint32(buf[j*4:], math.Float32bits(f))
		}
		dst = append(dst, buf[:]...)
	}
	return dst
}

// ClearDepth starts the next camera's pass. Depth and stencil are cleared
// when the pass begins.
func (d *Device) ClearDepth() {
	d.frame.passes = append(d.frame.passes, pass{})
	d.frame.mode, d.frame.group = render.StencilOff, -1
	d.frame.material = nil
}

// SetViewProjection stores the view-projection of a camera slot and binds
// it to the current pass.
func (d *Device) SetViewProjection(camera int, vp geom.Mat4) {
	if camera < 0 || camera >= len(d.viewGroups) {
		d.fail(fmt.Errorf("camera %d out of range", camera))
		return
	}
	off := camera * viewSlotSize
	for i, f := range vp {
		binary.LittleEndian.PutUint32(d.views[off+i*4:], math.Float32bits(f))
	}
	if n := len(d.frame.passes); n > 0 {
		d.frame.passes[n-1].camera = camera
	}
}

// SetStencilMode selects the stencil variant of subsequent pipelines.
func (d *Device) SetStencilMode(mode render.StencilMode, group int) {
	if mode == render.StencilOff {
		group = -1
	}
	d.frame.mode, d.frame.group = mode, group
}

// BindMaterial selects the shader and bind group of subsequent draws.
func (d *Device) BindMaterial(_ batch.Kind, m batch.Material) error {
	g, err := d.material(m)
	if err != nil {
		return err
	}
	d.frame.shader = m.Shader
	d.frame.material = g
	return nil
}

// DrawIndexedRun records a draw of indices from list kind.
func (d *Device) DrawIndexedRun(kind batch.Kind, indices []uint32) {
	f := &d.frame
	if len(indices) == 0 || len(f.passes) == 0 {
		return
	}
	if f.material == nil {
		d.fail(fmt.Errorf("draw without material"))
		return
	}
	key := pipelineKey{kind: kind, shader: f.shader, mode: f.mode, group: f.group}
	if kind == batch.Stencil {
		key.shader = batch.ShaderSprite
	}
	p, err := d.pipeline(key)
	if err != nil {
		d.fail(err)
		return
	}
	first := uint32(len(f.indices)) //nolint:gosec // index counts fit uint32
	f.indices = append(f.indices, indices...)
	cur := &f.passes[len(f.passes)-1]
	cur.draws = append(cur.draws, drawCmd{
		pipeline: p,
		material: f.material,
		kind:     kind,
		first:    first,
		count:    uint32(len(indices)), //nolint:gosec // index counts fit uint32
	})
}

// fail records the first error of the frame; EndFrame returns it.
func (d *Device) fail(err error) {
	if d.frame.err == nil {
		d.frame.err = err
	}
	d.log().Warn("wgpu: frame error", "err", err)
}

// EndFrame uploads indices and view uniforms, encodes one render pass per
// camera and submits the frame.
func (d *Device) EndFrame() error {
	f := &d.frame
	if !f.active {
		return fmt.Errorf("wgpu: EndFrame without BeginFrame")
	}
	f.active = false
	if f.err != nil {
		return fmt.Errorf("wgpu: %w", f.err)
	}

	d.indexBytes = d.indexBytes[:0]
	for _, i := range f.indices {
		d.indexBytes = binary.LittleEndian.AppendUint32(d.indexBytes, i)
	}
	if err := d.indexBuf.write(d.device, d.queue, d.indexBytes); err != nil {
		return fmt.Errorf("wgpu: %w", err)
	}
	d.queue.WriteBuffer(d.viewBuf, 0, d.views[:])

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "tri_encoder"})
	if err != nil {
		return fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("tri_frame"); err != nil {
		return fmt.Errorf("wgpu: begin encoding: %w", err)
	}

	passes := f.passes
	if len(passes) == 0 {
		// No active camera: the frame is only cleared.
		passes = []pass{{}}
	}
	draws := 0
	for i := range passes {
		d.encodePass(encoder, &passes[i], i == 0)
		draws += len(passes[i].draws)
	}

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("wgpu: create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("wgpu: submit: %w", err)
	}
	ok, err := d.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !ok {
		return fmt.Errorf("wgpu: wait for GPU: ok=%v err=%w", ok, err)
	}
	d.log().Debug("wgpu: frame submitted", "passes", len(passes), "draws", draws, "indices", len(f.indices))
	return nil
}

func (d *Device) encodePass(encoder hal.CommandEncoder, p *pass, first bool) {
	view := d.target.colorView
	if d.surface != nil {
		view = d.surface
	}
	load := gputypes.LoadOpLoad
	if first {
		load = gputypes.LoadOpClear
	}
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "tri_camera_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     load,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: d.opts.clear,
		}},
		DepthStencilAttachment: &hal.RenderPassDepthStencilAttachment{
			View:              d.target.stencilView,
			DepthLoadOp:       gputypes.LoadOpClear,
			DepthStoreOp:      gputypes.StoreOpDiscard,
			DepthClearValue:   1.0,
			StencilLoadOp:     gputypes.LoadOpClear,
			StencilStoreOp:    gputypes.StoreOpDiscard,
			StencilClearValue: 0,
		},
	})
	defer rp.End()
	if len(p.draws) == 0 {
		return
	}

	rp.SetStencilReference(stencilRef)
	rp.SetBindGroup(0, d.viewGroups[p.camera], nil)
	rp.SetIndexBuffer(d.indexBuf.buf, gputypes.IndexFormatUint32, 0)

	var (
		pipeline hal.RenderPipeline
		material hal.BindGroup
		kind     = batch.Kind(255)
	)
	for _, dc := range p.draws {
		if dc.pipeline != pipeline {
			rp.SetPipeline(dc.pipeline)
			pipeline = dc.pipeline
		}
		if dc.material != material {
			rp.SetBindGroup(1, dc.material, nil)
			material = dc.material
		}
		if dc.kind != kind {
			rp.SetVertexBuffer(0, d.vertexBufs[dc.kind].buf, 0)
			kind = dc.kind
		}
		rp.DrawIndexed(dc.count, 1, dc.first, 0, 0)
	}
}
