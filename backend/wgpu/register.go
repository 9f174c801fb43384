// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import "github.com/gogpu/tri/backend"

func init() {
	backend.Register(backend.NameWGPU, func(width, height int) (backend.Device, error) {
		return New(WithSize(width, height))
	})
}
