// Package backend selects the graphics device a tri renderer draws with.
//
// Backends register a Factory by name from init() functions. The headless
// recorder backend is always registered; the GPU backend registers when
// its package is imported:
//
//	import _ "github.com/gogpu/tri/backend/wgpu"
//
// # Backend Selection
//
// Use OpenDefault to get the best available device, or Open to request a
// specific backend by name:
//
//	dev, name, err := backend.OpenDefault(1280, 720)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer dev.Close()
//	r := tri.New(dev)
//
// # Available Backends
//
//   - "wgpu": gogpu/wgpu HAL with depth/stencil pipelines
//   - "recorder": records every device call, no GPU required
package backend
