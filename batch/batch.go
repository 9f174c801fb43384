// Package batch holds the per-frame geometry: three capacity-bounded
// triangle lists (opaque, transparent, stencil) and the submission ordinal
// used to synthesize depth.
//
// A Batch has a strict lifecycle per render cycle: Clear, any number of Add
// and AddQuad calls, then Sort and the compositor's AppendRuns calls. Adds
// from one cycle must not interleave with the rendering of another.
package batch

import (
	"cmp"
	"errors"
	"slices"
)

// ErrListFull is returned when a triangle list has no room for a submission.
// The submission is dropped; this is not fatal.
var ErrListFull = errors.New("batch: triangle list full")

// Capacity is the maximum number of triangles each list accepts per cycle.
type Capacity struct {
	Opaque      int
	Transparent int
	Stencil     int
}

// DefaultCapacity matches the engine's historic limits.
var DefaultCapacity = Capacity{Opaque: 2048, Transparent: 2048, Stencil: 32}

func (c Capacity) of(k Kind) int {
	switch k {
	case Opaque:
		return c.Opaque
	case Transparent:
		return c.Transparent
	default:
		return c.Stencil
	}
}

// List is one triangle list with its own vertex pool.
type List struct {
	kind    Kind
	maxTris int
	verts   []Vertex
	tris    []Triangle
}

// Kind returns which list this is.
func (l *List) Kind() Kind { return l.kind }

// Len returns the number of triangles in the list.
func (l *List) Len() int { return len(l.tris) }

// Cap returns the triangle capacity of the list.
func (l *List) Cap() int { return l.maxTris }

// Vertices returns the vertex pool. The slice is only valid until the next
// Clear.
func (l *List) Vertices() []Vertex { return l.verts }

// Triangles returns the triangle records. The slice is only valid until
// the next Clear.
func (l *List) Triangles() []Triangle { return l.tris }

func (l *List) room(tris int) bool {
	return len(l.tris)+tris <= l.maxTris
}

// Batch owns the three triangle lists of a renderer.
type Batch struct {
	lists   [numKinds]List
	ordinal uint32
	epsilon float32
}

// New creates a Batch with the given per-list triangle capacities.
func New(c Capacity) *Batch {
	b := &Batch{}
	total := 0
	for k := Kind(0); k < numKinds; k++ {
		n := max(c.of(k), 0)
		total += n
		b.lists[k] = List{
			kind:    k,
			maxTris: n,
			verts:   make([]Vertex, 0, n*3),
			tris:    make([]Triangle, 0, n),
		}
	}
	b.epsilon = 1 / float32(total+1)
	return b
}

// List returns the list of kind k.
func (b *Batch) List(k Kind) *List {
	return &b.lists[k]
}

// Len returns the total number of triangles across all lists.
func (b *Batch) Len() int {
	n := 0
	for k := range b.lists {
		n += len(b.lists[k].tris)
	}
	return n
}

// Room reports whether list k can take tris more triangles.
func (b *Batch) Room(k Kind, tris int) bool { return b.lists[k].room(tris) }

// Epsilon is the depth step between consecutive submissions.
func (b *Batch) Epsilon() float32 { return b.epsilon }

// Clear empties every list and resets the submission ordinal.
func (b *Batch) Clear() {
	for k := range b.lists {
		b.lists[k].verts = b.lists[k].verts[:0]
		b.lists[k].tris = b.lists[k].tris[:0]
	}
	b.ordinal = 0
}

// nextZ returns the synthesized z for the next submission on depth layer
// depth. The ordinal is shared by all three lists.
func (b *Batch) nextZ(depth int8) float32 {
	z := float32(depth) + b.epsilon*float32(b.ordinal)
	b.ordinal++
	return z
}

// Add appends one triangle to list kind. The vertices' z components are
// replaced with the synthesized z.
func (b *Batch) Add(kind Kind, v0, v1, v2 Vertex, a Attrs, depth int8) error {
	l := &b.lists[kind]
	if !l.room(1) {
		return b.full(l)
	}
	z := b.nextZ(depth)
	base := uint32(len(l.verts))
	for _, v := range [3]Vertex{v0, v1, v2} {
		v.Pos[2] = z
		l.verts = append(l.verts, v)
	}
	l.tris = append(l.tris, Triangle{Indices: [3]uint32{base, base + 1, base + 2}, Z: z, Attrs: a})
	return nil
}

// AddQuad appends the two triangles (0,1,2) and (1,2,3) of a quad sharing
// four vertices and a single synthesized z. Either both triangles are added
// or neither is.
func (b *Batch) AddQuad(kind Kind, v [4]Vertex, a Attrs, depth int8) error {
	l := &b.lists[kind]
	if !l.room(2) {
		return b.full(l)
	}
	z := b.nextZ(depth)
	base := uint32(len(l.verts))
	for i := range v {
		v[i].Pos[2] = z
	}
	l.verts = append(l.verts, v[:]...)
	l.tris = append(l.tris,
		Triangle{Indices: [3]uint32{base, base + 1, base + 2}, Z: z, Attrs: a},
		Triangle{Indices: [3]uint32{base + 1, base + 2, base + 3}, Z: z, Attrs: a},
	)
	return nil
}

func (b *Batch) full(l *List) error {
	slogger().Debug("triangle list full, submission dropped",
		"list", l.kind, "capacity", l.maxTris)
	return ErrListFull
}

// Sort orders the opaque and stencil lists by material and stencil group
// so equal state forms contiguous runs, and the transparent list by
// synthesized z, back to front. Ties keep submission order.
func (b *Batch) Sort() {
	slices.SortStableFunc(b.lists[Opaque].tris, compareState)
	slices.SortStableFunc(b.lists[Stencil].tris, compareState)
	slices.SortStableFunc(b.lists[Transparent].tris, func(x, y Triangle) int {
		return cmp.Compare(x.Z, y.Z)
	})
}

func compareState(x, y Triangle) int {
	return cmp.Or(
		cmp.Compare(x.Shader, y.Shader),
		cmp.Compare(x.Texture, y.Texture),
		cmp.Compare(x.Extra, y.Extra),
		cmp.Compare(x.Param, y.Param),
		cmp.Compare(x.Stencil, y.Stencil),
	)
}
