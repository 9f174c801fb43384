package tri

import (
	"errors"
	"testing"

	"github.com/gogpu/tri/batch"
	"github.com/gogpu/tri/geom"
	"github.com/gogpu/tri/sprite"
)

func TestLayoutNineSlice(t *testing.T) {
	corner := geom.V2(4, 3)
	mid := geom.V2(2, 2)
	cells := LayoutNineSlice(corner, mid, corner, geom.V2(20, 10))

	if c := cells[SliceMiddle]; c.Center != (geom.Vec2{}) || c.Size != geom.V2(12, 4) {
		t.Errorf("middle = %+v", c)
	}
	if c := cells[SliceTopLeft]; c.Center != geom.V2(-8, -3.5) || c.Size != corner {
		t.Errorf("top-left = %+v", c)
	}
	if c := cells[SliceRight]; c.Center != geom.V2(8, 0) || c.Size != geom.V2(4, 4) {
		t.Errorf("right = %+v", c)
	}
	if c := cells[SliceBottom]; c.Size != geom.V2(12, 3) {
		t.Errorf("bottom = %+v", c)
	}
}

func TestLayoutNineSliceClampsMiddle(t *testing.T) {
	corner := geom.V2(4, 4)
	for _, size := range []geom.Vec2{geom.V2(5, 5), geom.V2(0, 0), geom.V2(-10, 3)} {
		cells := LayoutNineSlice(corner, geom.V2(2, 2), corner, size)
		mid := cells[SliceMiddle].Size
		if mid.X != 0 || mid.Y != 0 {
			t.Errorf("size %v: middle = %v, want zero", size, mid)
		}
		tl, tr := cells[SliceTopLeft], cells[SliceTopRight]
		bl := cells[SliceBottomLeft]
		if tl.Center.X+tl.Size.X/2 > tr.Center.X-tr.Size.X/2 {
			t.Errorf("size %v: top corners overlap", size)
		}
		if tl.Center.Y+tl.Size.Y/2 > bl.Center.Y-bl.Size.Y/2 {
			t.Errorf("size %v: left corners overlap", size)
		}
	}
}

func TestSubmit9Slice(t *testing.T) {
	f := newFixture(t)
	var imgs [9]sprite.Handle
	for i := range imgs {
		imgs[i] = f.image(t, 4, 4, 255)
	}
	tf := At(geom.V2(100, 100))
	s := NineSlice{
		Images:     imgs,
		Cameras:    1,
		Start:      tf,
		End:        tf,
		StartSize:  geom.V2(20, 20),
		EndSize:    geom.V2(40, 40),
		StartColor: White,
		EndColor:   White,
	}
	if err := f.r.Submit9Slice(s); err != nil {
		t.Fatal(err)
	}
	l := f.r.Batch().List(batch.Opaque)
	if l.Len() != 18 {
		t.Fatalf("triangles = %d, want 18", l.Len())
	}
	// t is 1 before the first tick, so the end size applies everywhere:
	// the grid spans [80, 120].
	if lo, hi := vertexBounds(l.Vertices()); !lo.Approx(geom.V2(80, 80), 1e-3) || !hi.Approx(geom.V2(120, 120), 1e-3) {
		t.Errorf("grid bounds = %v..%v", lo, hi)
	}

	f.r.Begin()
	s.Images[SliceMiddle] = sprite.Handle{}
	if err := f.r.Submit9Slice(s); err == nil {
		t.Error("expected error for unresolved cell")
	}
	if f.r.Batch().Len() != 0 {
		t.Error("partial 9-slice submitted")
	}
}

func TestSubmit9SliceUndersized(t *testing.T) {
	f := newFixture(t)
	var imgs [9]sprite.Handle
	for i := range imgs {
		imgs[i] = f.image(t, 4, 4, 255)
	}
	tf := At(geom.V2(100, 100))
	s := NineSlice{
		Images:     imgs,
		Cameras:    1,
		Start:      tf,
		End:        tf,
		StartSize:  geom.V2(2, 2),
		EndSize:    geom.V2(2, 2),
		StartColor: White,
		EndColor:   White,
	}
	if err := f.r.Submit9Slice(s); err != nil {
		t.Fatal(err)
	}
	// Corners keep their 4x4 size and touch; the middle collapses.
	lo, hi := vertexBounds(f.r.Batch().List(batch.Opaque).Vertices())
	if !lo.Approx(geom.V2(96, 96), 1e-3) || !hi.Approx(geom.V2(104, 104), 1e-3) {
		t.Errorf("grid bounds = %v..%v, want 96..104", lo, hi)
	}
}

func TestSubmit9SliceAllOrNothing(t *testing.T) {
	f := newFixture(t, WithCapacity(batch.Capacity{Opaque: 10, Transparent: 10, Stencil: 2}))
	var imgs [9]sprite.Handle
	for i := range imgs {
		imgs[i] = f.image(t, 4, 4, 255)
	}
	tf := At(geom.V2(100, 100))
	s := NineSlice{
		Images:     imgs,
		Cameras:    1,
		Start:      tf,
		End:        tf,
		StartSize:  geom.V2(40, 40),
		EndSize:    geom.V2(40, 40),
		StartColor: White,
		EndColor:   White,
	}
	err := f.r.Submit9Slice(s)
	if !errors.Is(err, batch.ErrListFull) {
		t.Fatalf("err = %v, want ErrListFull", err)
	}
	if n := f.r.Batch().Len(); n != 0 {
		t.Errorf("batch holds %d triangles of a rejected 9-slice", n)
	}
	if f.r.Stats().Dropped != 1 {
		t.Errorf("Dropped = %d, want 1", f.r.Stats().Dropped)
	}
}

// vertexBounds returns the min and max corner of the vertices' positions.
func vertexBounds(verts []batch.Vertex) (lo, hi geom.Vec2) {
	for i, v := range verts {
		p := vertexPos(v.Pos)
		if i == 0 {
			lo, hi = p, p
			continue
		}
		lo = geom.V2(min(lo.X, p.X), min(lo.Y, p.Y))
		hi = geom.V2(max(hi.X, p.X), max(hi.Y, p.Y))
	}
	return lo, hi
}
