// Package tri is a batched, temporally interpolated 2D triangle renderer.
//
// # Overview
//
// A Renderer turns per-frame draw requests (sprites, 9-slice sprites, text,
// debug lines, raw triangles) into a short sequence of device draw calls.
// Simulation advances on a fixed tick while frames are presented at any
// rate: every draw request carries a start and an end value for each
// interpolatable attribute, and the renderer blends them with the shared
// render-cycle parameter t from the camera registry.
//
// # Render cycle
//
//	r := tri.New(dev, tri.WithResolver(images), tri.WithFonts(fonts))
//	cams := r.Cameras()
//	cams.SetFlags(0, 1)
//
//	// once per simulation tick
//	cams.FinalizeTick(1.0 / 60)
//
//	// once per presented frame
//	cams.Tick(dt)
//	r.Begin()
//	r.SubmitQuad(tri.Quad{Image: ship, Cameras: 1, Start: prev, End: next, ...})
//	r.Render()
//
// Submission is append-only and deferred. Nothing reaches the device until
// Render, which sorts the batch, uploads vertices once, and draws each
// active camera in ascending slot order: stencil writes, then opaque runs,
// then transparent runs back to front.
//
// # Ordering
//
// Every submission gets a synthesized z from its depth layer and a frame
// ordinal, so explicit layers win and ties keep submission order. Opaque
// geometry relies on the depth test; transparent geometry is sorted by z.
//
// # Coordinate system
//
// World units are pixels at camera scale 1. The origin is top-left, x grows
// right and y grows down. Angles are radians.
//
// # Concurrency
//
// A Renderer is single-threaded. Submission for a cycle must finish before
// Render runs.
package tri
