// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/tri/batch"
	"github.com/gogpu/tri/render"
)

// stencilRef is the reference value of every pass. Writes replace the
// group's bit with 1; tests compare the group's bit against 1.
const stencilRef = 0xFF

// pipelineKey identifies one cached render pipeline. group is -1 when the
// stencil mode is off.
type pipelineKey struct {
	kind   batch.Kind
	shader batch.Shader
	mode   render.StencilMode
	group  int
}

// createLayouts creates the bind group layouts, pipeline layout and sampler
// shared by every pipeline.
//
//	group(0): view uniform (vertex)
//	group(1): texture, sampler, extra texture, material uniform (fragment)
func (d *Device) createLayouts() error {
	viewLayout, err := d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "tri_view_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create view layout: %w", err)
	}
	d.viewLayout = viewLayout

	texEntry := func(binding uint32) gputypes.BindGroupLayoutEntry {
		return gputypes.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: gputypes.ShaderStageFragment,
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		}
	}
	materialLayout, err := d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "tri_material_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			texEntry(0),
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
			texEntry(2),
			{
				Binding:    3,
				Visibility: gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create material layout: %w", err)
	}
	d.materialLayout = materialLayout

	pipeLayout, err := d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "tri_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{d.viewLayout, d.materialLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	d.pipeLayout = pipeLayout

	sampler, err := d.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "tri_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return fmt.Errorf("create sampler: %w", err)
	}
	d.sampler = sampler
	return nil
}

// vertexLayout matches batch.Vertex.
func vertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: batch.VertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
				{Format: gputypes.VertexFormatFloat32x4, Offset: 20, ShaderLocation: 2},
				{Format: gputypes.VertexFormatFloat32, Offset: 36, ShaderLocation: 3},
			},
		},
	}
}

// stencilFace returns the stencil test and operation for a mode.
func stencilFace(mode render.StencilMode) hal.StencilFaceState {
	switch mode {
	case render.StencilWrite:
		return hal.StencilFaceState{
			Compare:     gputypes.CompareFunctionAlways,
			FailOp:      hal.StencilOperationKeep,
			DepthFailOp: hal.StencilOperationKeep,
			PassOp:      hal.StencilOperationReplace,
		}
	case render.StencilTest:
		return hal.StencilFaceState{
			Compare:     gputypes.CompareFunctionEqual,
			FailOp:      hal.StencilOperationKeep,
			DepthFailOp: hal.StencilOperationKeep,
			PassOp:      hal.StencilOperationKeep,
		}
	default:
		return hal.StencilFaceState{
			Compare:     gputypes.CompareFunctionAlways,
			FailOp:      hal.StencilOperationKeep,
			DepthFailOp: hal.StencilOperationKeep,
			PassOp:      hal.StencilOperationKeep,
		}
	}
}

// depthStencilState builds the depth/stencil state of a pipeline key.
func depthStencilState(k pipelineKey) *hal.DepthStencilState {
	ds := &hal.DepthStencilState{
		Format:       gputypes.TextureFormatDepth24PlusStencil8,
		DepthCompare: gputypes.CompareFunctionLess,
		StencilFront: stencilFace(k.mode),
		StencilBack:  stencilFace(k.mode),
	}
	switch k.kind {
	case batch.Opaque:
		ds.DepthWriteEnabled = true
	case batch.Stencil:
		ds.DepthCompare = gputypes.CompareFunctionAlways
	}
	if k.group >= 0 {
		bit := uint32(1) << uint(k.group)
		switch k.mode {
		case render.StencilWrite:
			ds.StencilWriteMask = bit
		case render.StencilTest:
			ds.StencilReadMask = bit
		}
	}
	return ds
}

// pipeline returns the cached pipeline for k, creating it on first use.
func (d *Device) pipeline(k pipelineKey) (hal.RenderPipeline, error) {
	if p, ok := d.pipelines[k]; ok {
		return p, nil
	}

	entry := stencilEntry
	target := gputypes.ColorTargetState{
		Format:    d.opts.format,
		WriteMask: gputypes.ColorWriteMaskNone,
	}
	if k.kind != batch.Stencil {
		if k.shader >= batch.NumShaders {
			return nil, fmt.Errorf("unknown shader %v", k.shader)
		}
		entry = fragmentEntry[k.shader]
		target.WriteMask = gputypes.ColorWriteMaskAll
		if k.kind == batch.Transparent {
			blend := gputypes.BlendStatePremultiplied()
			target.Blend = &blend
		}
	}

	p, err := d.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  fmt.Sprintf("tri_%v_%v_%v_%d", k.kind, k.shader, k.mode, k.group),
		Layout: d.pipeLayout,
		Vertex: hal.VertexState{
			Module:     d.shader,
			EntryPoint: "vs_main",
			Buffers:    vertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     d.shader,
			EntryPoint: entry,
			Targets:    []gputypes.ColorTargetState{target},
		},
		DepthStencil: depthStencilState(k),
		Multisample:  gputypes.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create pipeline %+v: %w", k, err)
	}
	d.pipelines[k] = p
	d.log().Debug("wgpu: pipeline created", "kind", k.kind, "shader", k.shader, "stencil", k.mode, "group", k.group)
	return p, nil
}

// destroyPipelines releases every pipeline object in reverse creation order.
func (d *Device) destroyPipelines() {
	for k, p := range d.pipelines {
		d.device.DestroyRenderPipeline(p)
		delete(d.pipelines, k)
	}
	if d.sampler != nil {
		d.device.DestroySampler(d.sampler)
		d.sampler = nil
	}
	if d.pipeLayout != nil {
		d.device.DestroyPipelineLayout(d.pipeLayout)
		d.pipeLayout = nil
	}
	if d.materialLayout != nil {
		d.device.DestroyBindGroupLayout(d.materialLayout)
		d.materialLayout = nil
	}
	if d.viewLayout != nil {
		d.device.DestroyBindGroupLayout(d.viewLayout)
		d.viewLayout = nil
	}
	if d.shader != nil {
		d.device.DestroyShaderModule(d.shader)
		d.shader = nil
	}
}
