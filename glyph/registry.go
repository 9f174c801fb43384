package glyph

import (
	"errors"
	"fmt"
)

// ErrStale is returned for font IDs that were released or never issued.
var ErrStale = errors.New("glyph: stale or invalid font id")

// FontID names a registered Font. The zero FontID is never valid.
type FontID struct {
	index uint32
	gen   uint32
}

// IsZero reports whether id is the zero FontID.
func (id FontID) IsZero() bool { return id.gen == 0 }

func (id FontID) String() string { return fmt.Sprintf("font#%d.%d", id.index, id.gen) }

type fontSlot struct {
	font *Font
	gen  uint32
}

// Registry maps FontIDs to fonts. Released slots are reused under a new
// generation.
type Registry struct {
	slots []fontSlot
	free  []uint32
}

// Add registers fn and returns its ID.
func (r *Registry) Add(fn *Font) FontID {
	if n := len(r.free); n > 0 {
		idx := r.free[n-1]
		r.free = r.free[:n-1]
		r.slots[idx].font = fn
		return FontID{index: idx, gen: r.slots[idx].gen}
	}
	r.slots = append(r.slots, fontSlot{font: fn, gen: 1})
	return FontID{index: uint32(len(r.slots) - 1), gen: 1}
}

// Font returns the font registered under id.
func (r *Registry) Font(id FontID) (*Font, bool) {
	if id.IsZero() || int(id.index) >= len(r.slots) {
		return nil, false
	}
	s := r.slots[id.index]
	if s.font == nil || s.gen != id.gen {
		return nil, false
	}
	return s.font, true
}

// Release closes the font under id and frees its slot.
func (r *Registry) Release(id FontID) error {
	fn, ok := r.Font(id)
	if !ok {
		return ErrStale
	}
	fn.Close()
	s := &r.slots[id.index]
	s.font = nil
	s.gen++
	r.free = append(r.free, id.index)
	return nil
}
