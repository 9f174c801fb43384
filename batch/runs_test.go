package batch

import "testing"

func TestAppendRunsCameraMask(t *testing.T) {
	tests := []struct {
		name     string
		mask     uint32
		flags    uint32
		wantTris int
		wantRuns int
	}{
		{"intersects", 0x3, 0x1, 2, 1},
		{"intersects other bit", 0x3, 0x2, 2, 1},
		{"disjoint", 0x4, 0x3, 0, 0},
		{"zero mask hidden everywhere", 0, 0xffffffff, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(DefaultCapacity)
			if err := b.AddQuad(Opaque, quad(), attrs(1, tt.mask), 0); err != nil {
				t.Fatal(err)
			}
			runs, idx := b.List(Opaque).AppendRuns(nil, nil, tt.flags)
			if len(runs) != tt.wantRuns {
				t.Fatalf("runs = %d, want %d", len(runs), tt.wantRuns)
			}
			if len(idx) != tt.wantTris*3 {
				t.Errorf("indices = %d, want %d", len(idx), tt.wantTris*3)
			}
		})
	}
}

func TestAppendRunsSplitsOnState(t *testing.T) {
	b := New(DefaultCapacity)
	add := func(a Attrs) {
		t.Helper()
		if err := b.AddQuad(Opaque, quad(), a, 0); err != nil {
			t.Fatal(err)
		}
	}
	a := attrs(1, 1)
	add(a)
	add(a) // same state, same run
	hidden := attrs(9, 2)
	add(hidden) // filtered out, does not break the run
	add(a)
	clipped := a
	clipped.Stencil = Group(2)
	add(clipped)
	param := a
	param.Param = 0.5
	add(param)

	runs, idx := b.List(Opaque).AppendRuns(nil, nil, 1)
	if len(runs) != 3 {
		t.Fatalf("runs = %d (%+v), want 3", len(runs), runs)
	}
	if runs[0].Count != 18 || runs[1].Count != 6 || runs[2].Count != 6 {
		t.Errorf("run counts = %d, %d, %d, want 18, 6, 6", runs[0].Count, runs[1].Count, runs[2].Count)
	}
	if runs[1].Stencil != Group(2) {
		t.Errorf("run 1 stencil = %v, want group 2", runs[1].Stencil)
	}
	total := 0
	for i, r := range runs {
		if r.First != total {
			t.Errorf("run %d First = %d, want %d", i, r.First, total)
		}
		total += r.Count
	}
	if total != len(idx) {
		t.Errorf("sum of counts = %d, indices = %d", total, len(idx))
	}
	// Indices of the first quad.
	want := []uint32{0, 1, 2, 1, 2, 3}
	for i, w := range want {
		if idx[i] != w {
			t.Fatalf("idx[%d] = %d, want %d", i, idx[i], w)
		}
	}
}

func TestAppendRunsReusesSlices(t *testing.T) {
	b := New(DefaultCapacity)
	_ = b.AddQuad(Opaque, quad(), attrs(1, 1), 0)
	runs, idx := b.List(Opaque).AppendRuns(nil, nil, 1)
	runs, idx = b.List(Opaque).AppendRuns(runs, idx, 1)
	if len(runs) != 2 || runs[1].First != 6 {
		t.Errorf("second append runs = %+v, want second run starting at 6", runs)
	}
	if len(idx) != 12 {
		t.Errorf("indices = %d, want 12", len(idx))
	}
}
