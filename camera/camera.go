// Package camera implements the camera registry: a fixed set of slots, each
// with an interpolated pose, a visibility flag mask and a cached projection.
//
// Poses move on the fixed simulation tick. AdvancePose and MovePose stage the
// next target; FinalizeTick promotes it and restarts the render-cycle clock;
// Tick advances that clock once per presented frame. Every interpolated value
// in a render cycle uses the same t = clamp(clock/tickDuration, 0, 1).
//
// Slot iteration order is ascending slot index, and that order is the
// compositing order: a higher slot draws on top of a lower one.
package camera

import (
	"fmt"
	"iter"

	"github.com/gogpu/tri/geom"
)

// NumSlots is the number of camera slots in a registry.
const NumSlots = 16

// Depth range of every camera projection. Larger z is nearer the viewer.
// Synthesized z of int8 depth layers lies in [-128, 128).
const (
	DepthBack  = -129
	DepthFront = 129
)

// Pose is one interpolation endpoint of a camera.
type Pose struct {
	// Pos is the world position shown at the projection origin.
	Pos geom.Vec2
	// Scale is the zoom factor. The zero value is treated as a pose that
	// renders nothing; use geom.One for an unzoomed camera.
	Scale geom.Vec2
	// Offset is a transient displacement added to Pos for a single tick.
	Offset geom.Vec2
}

// DefaultPose is an unzoomed camera at the origin.
var DefaultPose = Pose{Scale: geom.One}

type slot struct {
	start, end Pose
	flags      uint32

	centered bool
	proj     geom.Mat4
	projOK   bool
}

// Registry owns NumSlots cameras and the shared render-cycle clock.
// A Registry is not safe for concurrent use.
type Registry struct {
	slots [NumSlots]slot

	width, height float32

	clock        float32
	tickDuration float32
}

// NewRegistry returns a registry with every camera inactive at DefaultPose
// and a render area of width x height pixels.
func NewRegistry(width, height float32) *Registry {
	r := &Registry{width: width, height: height}
	for i := range r.slots {
		r.slots[i].start = DefaultPose
		r.slots[i].end = DefaultPose
	}
	return r
}

func (r *Registry) at(i int) *slot {
	if i < 0 || i >= NumSlots {
		panic(fmt.Sprintf("camera: slot %d out of range [0, %d)", i, NumSlots))
	}
	return &r.slots[i]
}

// SetFlags turns on the bits of mask for camera i.
func (r *Registry) SetFlags(i int, mask uint32) {
	r.at(i).flags |= mask
}

// ClearFlags turns off the bits of mask for camera i.
func (r *Registry) ClearFlags(i int, mask uint32) {
	r.at(i).flags &^= mask
}

// Flags returns the visibility flags of camera i. Zero means inactive.
func (r *Registry) Flags(i int) uint32 {
	return r.at(i).flags
}

// Active yields the indices of every camera with non-zero flags in
// ascending order. The sequence may be ranged over any number of times.
func (r *Registry) Active() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := range r.slots {
			if r.slots[i].flags == 0 {
				continue
			}
			if !yield(i) {
				return
			}
		}
	}
}

// AdvancePose sets the pose camera i moves to during the next tick.
// Only the last value before FinalizeTick takes effect.
func (r *Registry) AdvancePose(i int, p Pose) {
	r.at(i).end = p
}

// MovePose sets the next target relative to the current start pose.
// The resulting scale is clamped to be non-negative.
func (r *Registry) MovePose(i int, dPos, dScale geom.Vec2) {
	s := r.at(i)
	s.end.Pos = s.start.Pos.Add(dPos)
	s.end.Scale = s.start.Scale.Add(dScale).MaxZero()
}

// SnapPose places camera i at p immediately, with no interpolation.
func (r *Registry) SnapPose(i int, p Pose) {
	s := r.at(i)
	s.start = p
	s.end = p
}

// SetOffset sets a displacement applied for the next tick only.
func (r *Registry) SetOffset(i int, off geom.Vec2) {
	r.at(i).end.Offset = off
}

// StartPose returns the pose camera i is interpolating from.
func (r *Registry) StartPose(i int) Pose { return r.at(i).start }

// EndPose returns the pose camera i is interpolating to.
func (r *Registry) EndPose(i int) Pose { return r.at(i).end }

// FinalizeTick ends a simulation tick: every camera's end pose becomes its
// start pose, offsets are cleared, and the render-cycle clock restarts with
// tickDuration as the interpolation denominator.
func (r *Registry) FinalizeTick(tickDuration float32) {
	for i := range r.slots {
		s := &r.slots[i]
		s.start = s.end
		s.end.Offset = geom.Vec2{}
	}
	r.clock = 0
	r.tickDuration = tickDuration
}

// Tick advances the render-cycle clock by dt seconds.
func (r *Registry) Tick(dt float32) {
	r.clock += dt
}

// T returns the interpolation parameter for the current render cycle,
// clamped to [0, 1]. Before the first FinalizeTick it is 1.
func (r *Registry) T() float32 {
	if r.tickDuration <= 0 {
		return 1
	}
	return geom.Clamp01(r.clock / r.tickDuration)
}

// Pose returns the interpolated pose of camera i at the current t.
func (r *Registry) Pose(i int) Pose {
	s := r.at(i)
	t := r.T()
	return Pose{
		Pos:    s.start.Pos.Lerp(s.end.Pos, t),
		Scale:  s.start.Scale.Lerp(s.end.Scale, t),
		Offset: s.start.Offset.Lerp(s.end.Offset, t),
	}
}

// View returns the world-to-view matrix of camera i at the current t.
// Camera motion is the inverse of world motion.
func (r *Registry) View(i int) geom.Mat4 {
	p := r.Pose(i)
	eye := p.Pos.Add(p.Offset)
	return geom.Scale4(p.Scale.X, p.Scale.Y, 1).Mul(geom.Translate4(-eye.X, -eye.Y, 0))
}

// ViewProjection returns projection * view for camera i at the current t.
func (r *Registry) ViewProjection(i int) geom.Mat4 {
	return r.Projection(i).Mul(r.View(i))
}

// ScreenToWorld converts a position in render-area pixels to world space
// as seen by camera i at the current t.
func (r *Registry) ScreenToWorld(i int, screen geom.Vec2) geom.Vec2 {
	s := r.at(i)
	p := r.Pose(i)
	if s.centered {
		screen = screen.Sub(geom.V2(r.width/2, r.height/2))
	}
	eye := p.Pos.Add(p.Offset)
	return geom.Vec2{
		X: safeDiv(screen.X, p.Scale.X) + eye.X,
		Y: safeDiv(screen.Y, p.Scale.Y) + eye.Y,
	}
}

// WorldBounds returns the world-space rectangle visible to camera i.
func (r *Registry) WorldBounds(i int) (topLeft, bottomRight geom.Vec2) {
	return r.ScreenToWorld(i, geom.Vec2{}), r.ScreenToWorld(i, geom.V2(r.width, r.height))
}

func safeDiv(a, b float32) float32 {
	if b == 0 {
		return 0
	}
	return a / b
}
