// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/tri/batch"
)

//go:embed shaders/tri.wgsl
var triShaderSource string

// fragmentEntry maps a shader tag to its fragment entry point.
var fragmentEntry = [batch.NumShaders]string{
	batch.ShaderSprite:         "fs_sprite",
	batch.ShaderFont:           "fs_font",
	batch.ShaderSDF:            "fs_sdf",
	batch.ShaderImageSDF:       "fs_image_sdf",
	batch.ShaderOutlinedSDF:    "fs_outlined_sdf",
	batch.ShaderAlphaMappedSDF: "fs_alpha_mapped_sdf",
}

const stencilEntry = "fs_stencil"

// compileSPIRV compiles WGSL source to SPIR-V words.
func compileSPIRV(wgsl string) ([]uint32, error) {
	code, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("naga compile: %w", err)
	}
	if len(code)%4 != 0 {
		return nil, fmt.Errorf("naga compile: SPIR-V length %d is not a multiple of 4", len(code))
	}
	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = uint32(code[i*4]) |
			uint32(code[i*4+1])<<8 |
			uint32(code[i*4+2])<<16 |
			uint32(code[i*4+3])<<24
	}
	return words, nil
}

func (d *Device) createShader() error {
	src := hal.ShaderSource{WGSL: triShaderSource}
	if d.opts.spirv {
		words, err := compileSPIRV(triShaderSource)
		if err != nil {
			return err
		}
		src = hal.ShaderSource{SPIRV: words}
	}
	shader, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "tri_shader",
		Source: src,
	})
	if err != nil {
		return fmt.Errorf("compile tri shader: %w", err)
	}
	d.shader = shader
	return nil
}
