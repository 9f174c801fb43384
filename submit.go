package tri

import (
	"errors"
	"fmt"

	"github.com/gogpu/tri/batch"
	"github.com/gogpu/tri/ease"
	"github.com/gogpu/tri/geom"
	"github.com/gogpu/tri/sprite"
)

// ErrNoStencilGroup is returned for a stencil write without a group.
var ErrNoStencilGroup = errors.New("tri: stencil write needs a stencil group")

// Transform places geometry in world space.
type Transform struct {
	Pos geom.Vec2
	// Scale multiplies the natural size. The zero Scale collapses the
	// geometry; use At or geom.One for natural size.
	Scale    geom.Vec2
	Rotation float32
}

// At returns an unrotated transform at pos with natural size.
func At(pos geom.Vec2) Transform {
	return Transform{Pos: pos, Scale: geom.One}
}

// Lerp interpolates between tf and to. Rotation takes the shortest arc.
func (tf Transform) Lerp(to Transform, t float32) Transform {
	return Transform{
		Pos:      tf.Pos.Lerp(to.Pos, t),
		Scale:    tf.Scale.Lerp(to.Scale, t),
		Rotation: geom.LerpAngle(tf.Rotation, to.Rotation, t),
	}
}

// apply maps a point in local space to world space.
func (tf Transform) apply(p geom.Vec2) geom.Vec2 {
	return p.MulV(tf.Scale).Rotate(tf.Rotation).Add(tf.Pos)
}

// Quad draws one image. Every interpolatable attribute has a start and
// an end value blended with the render cycle's t.
type Quad struct {
	Image sprite.Handle
	// Cameras is the mask of camera flags that draw the quad.
	Cameras uint32
	Depth   int8

	Start, End           Transform
	StartColor, EndColor Color
	// StartValue and EndValue feed the shader's per-vertex scalar, such as
	// an outline strength.
	StartValue, EndValue float32

	// Clip restricts drawing to pixels painted with this group. With
	// StencilWrite set, the quad paints the group instead of drawing.
	Clip         batch.StencilGroup
	StencilWrite bool

	// Ease shapes t for this quad.
	Ease ease.Kind
}

// Sprite returns a Quad that moves from start to end with a constant
// color.
func Sprite(img sprite.Handle, cameras uint32, depth int8, start, end Transform, c Color) Quad {
	return Quad{
		Image:      img,
		Cameras:    cameras,
		Depth:      depth,
		Start:      start,
		End:        end,
		StartColor: c,
		EndColor:   c,
	}
}

// unit quad corners in batch order: top-left, top-right, bottom-left,
// bottom-right.
var unitCorners = [4]geom.Vec2{{X: -0.5, Y: -0.5}, {X: 0.5, Y: -0.5}, {X: -0.5, Y: 0.5}, {X: 0.5, Y: 0.5}}

// SubmitQuad appends an image quad to the batch.
func (r *Renderer) SubmitQuad(q Quad) error {
	info, err := r.resolve(q.Image)
	if err != nil {
		return err
	}
	t := r.t(q.Ease)
	tf := q.Start.Lerp(q.End, t)
	col := q.StartColor.Lerp(q.EndColor, t)

	var pos [4]geom.Vec2
	for i, c := range unitCorners {
		pos[i] = tf.apply(c.MulV(info.Size).Sub(info.Pivot))
	}
	kind, err := route(info, col, q.StencilWrite, q.Clip)
	if err != nil {
		return err
	}
	return r.addQuad(kind, pos, info.UVMin, info.UVMax, col, geom.Lerp(q.StartValue, q.EndValue, t),
		attrs(info, q.Clip, q.Cameras), q.Depth)
}

// Tri is a raw triangle in world space.
type Tri struct {
	Kind    batch.Kind
	Pos     [3]geom.Vec2
	UV      [3]geom.Vec2
	Color   [3]Color
	Texture batch.TextureID
	Shader  batch.Shader
	Cameras uint32
	Depth   int8
	Clip    batch.StencilGroup
}

// SubmitTriangle appends a raw triangle to the list named by tri.Kind.
// Nothing is interpolated.
func (r *Renderer) SubmitTriangle(tri Tri) error {
	if tri.Kind == batch.Stencil && tri.Clip == batch.Unclipped {
		return ErrNoStencilGroup
	}
	var v [3]batch.Vertex
	for i := range v {
		v[i] = vertex(tri.Pos[i], tri.UV[i], tri.Color[i].vec(), 0)
	}
	if r.culled(tri.Pos[:], tri.Cameras) {
		return nil
	}
	a := batch.Attrs{
		Material:   batch.Material{Shader: tri.Shader, Texture: tri.Texture},
		Stencil:    tri.Clip,
		CameraMask: tri.Cameras,
	}
	return r.accept(1, r.batch.Add(tri.Kind, v[0], v[1], v[2], a, tri.Depth))
}

func (r *Renderer) resolve(h sprite.Handle) (sprite.Info, error) {
	if r.opts.resolver == nil {
		return sprite.Info{}, ErrNoResolver
	}
	info, ok := r.opts.resolver.Resolve(h)
	if !ok {
		r.logger().Debug("unresolved image, submission skipped", "image", h)
		return sprite.Info{}, fmt.Errorf("%w: %v", ErrInvalidHandle, h)
	}
	return info, nil
}

// route picks the list for a submission: stencil writes go to the stencil
// list; partial alpha, translucent color and the anti-aliased shaders go
// to the transparent list; everything else is opaque.
func route(info sprite.Info, col Color, stencilWrite bool, clip batch.StencilGroup) (batch.Kind, error) {
	switch {
	case stencilWrite:
		if clip == batch.Unclipped {
			return 0, ErrNoStencilGroup
		}
		return batch.Stencil, nil
	case info.Transparent, !col.Opaque(), info.Shader != batch.ShaderSprite:
		return batch.Transparent, nil
	}
	return batch.Opaque, nil
}

func attrs(info sprite.Info, clip batch.StencilGroup, cameras uint32) batch.Attrs {
	return batch.Attrs{
		Material: batch.Material{
			Shader:  info.Shader,
			Texture: info.Texture,
			Extra:   info.Extra,
			Param:   info.Param,
		},
		Stencil:    clip,
		CameraMask: cameras,
	}
}

func vertex(p, uv geom.Vec2, col [4]float32, value float32) batch.Vertex {
	return batch.Vertex{
		Pos:   [3]float32{p.X, p.Y, 0},
		UV:    [2]float32{uv.X, uv.Y},
		Color: col,
		Param: value,
	}
}

// addQuad appends a quad with one color and a UV rectangle.
func (r *Renderer) addQuad(kind batch.Kind, pos [4]geom.Vec2, uvMin, uvMax geom.Vec2, col Color, value float32, a batch.Attrs, depth int8) error {
	uv := [4]geom.Vec2{uvMin, {X: uvMax.X, Y: uvMin.Y}, {X: uvMin.X, Y: uvMax.Y}, uvMax}
	c := col.vec()
	var v [4]batch.Vertex
	for i := range v {
		v[i] = vertex(pos[i], uv[i], c, value)
	}
	return r.addVertices(kind, v, a, depth)
}

func (r *Renderer) addVertices(kind batch.Kind, v [4]batch.Vertex, a batch.Attrs, depth int8) error {
	pos := [4]geom.Vec2{
		{X: v[0].Pos[0], Y: v[0].Pos[1]},
		{X: v[1].Pos[0], Y: v[1].Pos[1]},
		{X: v[2].Pos[0], Y: v[2].Pos[1]},
		{X: v[3].Pos[0], Y: v[3].Pos[1]},
	}
	if r.culled(pos[:], a.CameraMask) {
		return nil
	}
	return r.accept(2, r.batch.AddQuad(kind, v, a, depth))
}

// accept updates the cycle counters for an add of n triangles.
func (r *Renderer) accept(n int, err error) error {
	switch {
	case err == nil:
		r.stats.Triangles += n
	case errors.Is(err, batch.ErrListFull):
		r.stats.Dropped++
	}
	return err
}
