package batch

import "fmt"

// Kind selects one of the three triangle lists.
type Kind uint8

const (
	// Opaque triangles write depth and are drawn without blending.
	Opaque Kind = iota
	// Transparent triangles are blended back to front by synthesized z.
	Transparent
	// Stencil triangles paint their group into the stencil buffer only.
	Stencil

	numKinds
)

// Kinds lists every Kind in the order the compositor draws them.
var Kinds = [numKinds]Kind{Stencil, Opaque, Transparent}

func (k Kind) String() string {
	switch k {
	case Opaque:
		return "opaque"
	case Transparent:
		return "transparent"
	case Stencil:
		return "stencil"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Shader is the material tag of a triangle.
type Shader uint8

const (
	// ShaderSprite samples the texture and multiplies by vertex color.
	ShaderSprite Shader = iota
	// ShaderFont uses only the texture's alpha channel.
	ShaderFont
	// ShaderSDF thresholds a signed distance field stored in alpha.
	ShaderSDF
	// ShaderImageSDF takes color from the texture and coverage from the SDF.
	ShaderImageSDF
	// ShaderOutlinedSDF draws an SDF with an outline whose width is Param.
	ShaderOutlinedSDF
	// ShaderAlphaMappedSDF reads the distance field from the extra texture.
	ShaderAlphaMappedSDF

	// NumShaders is the number of shader tags.
	NumShaders
)

var shaderNames = [NumShaders]string{"sprite", "font", "sdf", "image-sdf", "outlined-sdf", "alpha-mapped-sdf"}

func (s Shader) String() string {
	if s < NumShaders {
		return shaderNames[s]
	}
	return fmt.Sprintf("Shader(%d)", s)
}

// TextureID names a texture owned by the graphics device. Zero is the
// device's default 1x1 white texture.
type TextureID uint32

// NumStencilGroups is the number of independent clip masks.
const NumStencilGroups = 8

// StencilGroup is a clip mask id. The zero value means unclipped.
type StencilGroup uint8

// Unclipped is the zero StencilGroup.
const Unclipped StencilGroup = 0

// Group returns the clip mask with index i. It panics if i is outside
// [0, NumStencilGroups).
func Group(i int) StencilGroup {
	if i < 0 || i >= NumStencilGroups {
		panic(fmt.Sprintf("batch: stencil group %d out of range [0, %d)", i, NumStencilGroups))
	}
	return StencilGroup(i + 1)
}

// Index returns the clip mask index, or -1 when unclipped.
func (g StencilGroup) Index() int {
	return int(g) - 1
}

// Vertex is one GPU vertex. Its memory layout matches the vertex buffer
// layout used by the backends.
type Vertex struct {
	Pos   [3]float32
	UV    [2]float32
	Color [4]float32
	// Param is the material's extra scalar, interpolated per submission.
	Param float32
}

// VertexStride is the byte size of one Vertex in a vertex buffer.
const VertexStride = (3 + 2 + 4 + 1) * 4

// Material is the device state a run of triangles is drawn with.
type Material struct {
	Shader  Shader
	Texture TextureID
	Extra   TextureID
	Param   float32
}

// Attrs are the per-submission attributes shared by every triangle of one
// Add or AddQuad call.
type Attrs struct {
	Material
	Stencil    StencilGroup
	CameraMask uint32
}

// Triangle is a triangle record. Indices refer to the owning list's
// vertex pool.
type Triangle struct {
	Indices [3]uint32
	Z       float32
	Attrs
}
