// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"image"
	"slices"
	"strings"

	"github.com/gogpu/tri/batch"
	"github.com/gogpu/tri/geom"
)

// Op identifies a recorded device call.
type Op uint8

// Recorded operations.
const (
	OpBeginFrame Op = iota
	OpUpload
	OpClearDepth
	OpViewProjection
	OpStencilMode
	OpBindMaterial
	OpDraw
	OpEndFrame
)

var opNames = [...]string{"begin", "upload", "clear-depth", "view-proj", "stencil", "bind", "draw", "end"}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", o)
}

// Command is one recorded device call. Only the fields relevant to Op are
// set.
type Command struct {
	Op       Op
	Kind     batch.Kind
	Camera   int
	VP       geom.Mat4
	Mode     StencilMode
	Group    int
	Material batch.Material
	Vertices int
	Indices  []uint32
}

func (c Command) String() string {
	switch c.Op {
	case OpUpload:
		return fmt.Sprintf("upload %s vertices=%d", c.Kind, c.Vertices)
	case OpViewProjection:
		return fmt.Sprintf("view-proj camera=%d", c.Camera)
	case OpStencilMode:
		return fmt.Sprintf("stencil %s group=%d", c.Mode, c.Group)
	case OpBindMaterial:
		return fmt.Sprintf("bind %s shader=%s texture=%d extra=%d", c.Kind, c.Material.Shader, c.Material.Texture, c.Material.Extra)
	case OpDraw:
		return fmt.Sprintf("draw %s triangles=%d", c.Kind, len(c.Indices)/3)
	default:
		return c.Op.String()
	}
}

// Recorder is a Device and TextureFactory that records every call instead
// of rendering. BindMaterial fails for textures that were never created
// through the recorder, or were destroyed, so unresolvable materials behave
// as they do on a GPU backend.
type Recorder struct {
	Commands []Command

	images  map[batch.TextureID]*image.RGBA
	nextTex batch.TextureID
	camera  int
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{images: make(map[batch.TextureID]*image.RGBA)}
}

// Reset discards recorded commands. Textures are kept.
func (r *Recorder) Reset() {
	r.Commands = r.Commands[:0]
}

// Draws returns the recorded draw commands in order.
func (r *Recorder) Draws() []Command {
	var out []Command
	for _, c := range r.Commands {
		if c.Op == OpDraw {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many commands with op were recorded.
func (r *Recorder) Count(op Op) int {
	n := 0
	for _, c := range r.Commands {
		if c.Op == op {
			n++
		}
	}
	return n
}

// String renders the command log one call per line.
func (r *Recorder) String() string {
	var sb strings.Builder
	for _, c := range r.Commands {
		if c.Op == OpDraw || c.Op == OpBindMaterial || c.Op == OpStencilMode {
			sb.WriteString("  ")
		}
		sb.WriteString(c.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Texture returns the image a texture was created from.
func (r *Recorder) Texture(id batch.TextureID) (*image.RGBA, bool) {
	img, ok := r.images[id]
	return img, ok
}

// CreateTexture implements TextureFactory.
func (r *Recorder) CreateTexture(img *image.RGBA) (batch.TextureID, error) {
	r.nextTex++
	r.images[r.nextTex] = img
	return r.nextTex, nil
}

// DestroyTexture implements TextureFactory.
func (r *Recorder) DestroyTexture(id batch.TextureID) {
	delete(r.images, id)
}

// BeginFrame implements Device.
func (r *Recorder) BeginFrame() error {
	r.Commands = append(r.Commands, Command{Op: OpBeginFrame})
	return nil
}

// UploadVertices implements Device.
func (r *Recorder) UploadVertices(kind batch.Kind, verts []batch.Vertex) error {
	r.Commands = append(r.Commands, Command{Op: OpUpload, Kind: kind, Vertices: len(verts)})
	return nil
}

// ClearDepth implements Device.
func (r *Recorder) ClearDepth() {
	r.Commands = append(r.Commands, Command{Op: OpClearDepth})
}

// SetViewProjection implements Device.
func (r *Recorder) SetViewProjection(camera int, vp geom.Mat4) {
	r.camera = camera
	r.Commands = append(r.Commands, Command{Op: OpViewProjection, Camera: camera, VP: vp})
}

// SetStencilMode implements Device.
func (r *Recorder) SetStencilMode(mode StencilMode, group int) {
	r.Commands = append(r.Commands, Command{Op: OpStencilMode, Camera: r.camera, Mode: mode, Group: group})
}

// BindMaterial implements Device.
func (r *Recorder) BindMaterial(kind batch.Kind, m batch.Material) error {
	for _, id := range [2]batch.TextureID{m.Texture, m.Extra} {
		if _, ok := r.images[id]; id != 0 && !ok {
			return fmt.Errorf("bind %s texture %d: %w", m.Shader, id, ErrUnknownTexture)
		}
	}
	r.Commands = append(r.Commands, Command{Op: OpBindMaterial, Kind: kind, Camera: r.camera, Material: m})
	return nil
}

// DrawIndexedRun implements Device. The indices are copied.
func (r *Recorder) DrawIndexedRun(kind batch.Kind, indices []uint32) {
	r.Commands = append(r.Commands, Command{Op: OpDraw, Kind: kind, Camera: r.camera, Indices: slices.Clone(indices)})
}

// EndFrame implements Device.
func (r *Recorder) EndFrame() error {
	r.Commands = append(r.Commands, Command{Op: OpEndFrame})
	return nil
}

var (
	_ Device         = (*Recorder)(nil)
	_ TextureFactory = (*Recorder)(nil)
)
