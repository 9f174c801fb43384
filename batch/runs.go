package batch

// Run is a contiguous range of indices drawn with one material and one
// stencil group. First and Count index into the index slice the run was
// appended with.
type Run struct {
	Kind     Kind
	Material Material
	Stencil  StencilGroup
	First    int
	Count    int
}

// AppendRuns appends to runs the draw runs of l visible to a camera with
// the given flags, and the corresponding vertex indices to indices.
// A triangle is visible iff its CameraMask intersects flags. A new run
// starts whenever material or stencil group change; runs are never empty.
//
// Both slices are caller-owned and may be reused across cameras and frames.
func (l *List) AppendRuns(runs []Run, indices []uint32, flags uint32) ([]Run, []uint32) {
	open := false
	for i := range l.tris {
		t := &l.tris[i]
		if t.CameraMask&flags == 0 {
			continue
		}
		if !open || runs[len(runs)-1].Material != t.Material || runs[len(runs)-1].Stencil != t.Stencil {
			runs = append(runs, Run{
				Kind:     l.kind,
				Material: t.Material,
				Stencil:  t.Stencil,
				First:    len(indices),
			})
			open = true
		}
		indices = append(indices, t.Indices[0], t.Indices[1], t.Indices[2])
		runs[len(runs)-1].Count += 3
	}
	return runs, indices
}
