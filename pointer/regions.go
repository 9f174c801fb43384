package pointer

import (
	"github.com/gogpu/tri/camera"
	"github.com/gogpu/tri/geom"
)

// RegionID names a region in a Regions set. Removed IDs are reused.
type RegionID int

type region struct {
	bounds geom.Rect
	mask   uint32
	live   bool
	t      Tracker
}

// RegionEvent is an event raised for one region.
type RegionEvent struct {
	Region RegionID
	Event  Event
}

type camPoint struct {
	flags uint32
	world geom.Vec2
}

// Regions hit-tests world-space rectangles against the pointer as seen
// through every active camera.
type Regions struct {
	modality Modality
	regions  []region
	free     []RegionID
	// points is rebuilt on every Process call.
	points []camPoint
}

// NewRegions returns an empty set for input of modality m.
func NewRegions(m Modality) *Regions {
	return &Regions{modality: m}
}

// Add registers a world-space rectangle visible to cameras in mask.
func (rs *Regions) Add(bounds geom.Rect, mask uint32) RegionID {
	r := region{bounds: bounds, mask: mask, live: true, t: Tracker{Modality: rs.modality}}
	if n := len(rs.free); n > 0 {
		id := rs.free[n-1]
		rs.free = rs.free[:n-1]
		rs.regions[id] = r
		return id
	}
	rs.regions = append(rs.regions, r)
	return RegionID(len(rs.regions) - 1)
}

// Remove deletes a region. Unknown IDs are ignored.
func (rs *Regions) Remove(id RegionID) {
	if !rs.valid(id) {
		return
	}
	rs.regions[id] = region{}
	rs.free = append(rs.free, id)
}

// SetBounds moves a region.
func (rs *Regions) SetBounds(id RegionID, bounds geom.Rect) {
	if rs.valid(id) {
		rs.regions[id].bounds = bounds
	}
}

// State returns the state of a region; Idle for unknown IDs.
func (rs *Regions) State(id RegionID) State {
	if !rs.valid(id) {
		return Idle
	}
	return rs.regions[id].t.State()
}

func (rs *Regions) valid(id RegionID) bool {
	return id >= 0 && int(id) < len(rs.regions) && rs.regions[id].live
}

// Process updates every region with a pointer at screen position pos and
// appends the resulting events to dst. A region is under the pointer when
// any active camera sharing a flag with its mask maps pos inside it.
func (rs *Regions) Process(dst []RegionEvent, cams *camera.Registry, pos geom.Vec2, down bool) []RegionEvent {
	rs.points = rs.points[:0]
	for i := range cams.Active() {
		rs.points = append(rs.points, camPoint{flags: cams.Flags(i), world: cams.ScreenToWorld(i, pos)})
	}

	for id := range rs.regions {
		r := &rs.regions[id]
		if !r.live {
			continue
		}
		over := false
		for _, p := range rs.points {
			if p.flags&r.mask != 0 && inside(r.bounds, p.world) {
				over = true
				break
			}
		}
		if ev := r.t.Update(over, down); ev != None {
			dst = append(dst, RegionEvent{Region: RegionID(id), Event: ev})
		}
	}
	return dst
}

// Source reports the pointer position in screen pixels and whether the
// primary button is down.
type Source interface {
	Pointer() (pos geom.Vec2, down bool, err error)
}

// Poll samples src and processes the result.
func (rs *Regions) Poll(dst []RegionEvent, cams *camera.Registry, src Source) ([]RegionEvent, error) {
	pos, down, err := src.Pointer()
	if err != nil {
		return dst, err
	}
	return rs.Process(dst, cams, pos, down), nil
}

// inside includes the max edges so a region's border is hittable.
func inside(r geom.Rect, p geom.Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}
