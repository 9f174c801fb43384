package geom

import "math"

// Vec2 is a 2D vector in world or screen units.
type Vec2 struct {
	X, Y float32
}

// V2 is a convenience function to create a Vec2.
func V2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

// One is the unit scale.
var One = Vec2{X: 1, Y: 1}

// Add returns the sum of two vectors.
func (v Vec2) Add(w Vec2) Vec2 {
	return Vec2{X: v.X + w.X, Y: v.Y + w.Y}
}

// Sub returns the difference of two vectors.
func (v Vec2) Sub(w Vec2) Vec2 {
	return Vec2{X: v.X - w.X, Y: v.Y - w.Y}
}

// Mul returns the vector scaled by a scalar.
func (v Vec2) Mul(s float32) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// MulV returns the component-wise product of two vectors.
func (v Vec2) MulV(w Vec2) Vec2 {
	return Vec2{X: v.X * w.X, Y: v.Y * w.Y}
}

// Neg returns the negation of the vector.
func (v Vec2) Neg() Vec2 {
	return Vec2{X: -v.X, Y: -v.Y}
}

// Dot returns the dot product of two vectors.
func (v Vec2) Dot(w Vec2) float32 {
	return v.X*w.X + v.Y*w.Y
}

// Cross returns the z-component of the 3D cross product with z=0.
func (v Vec2) Cross(w Vec2) float32 {
	return v.X*w.Y - v.Y*w.X
}

// Length returns the magnitude of the vector.
func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}

// LengthSq returns the squared magnitude of the vector.
func (v Vec2) LengthSq() float32 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns a unit vector in the same direction.
// Returns the zero vector if v has zero length.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

// Lerp interpolates between v (t=0) and w (t=1).
func (v Vec2) Lerp(w Vec2, t float32) Vec2 {
	return Vec2{
		X: v.X + (w.X-v.X)*t,
		Y: v.Y + (w.Y-v.Y)*t,
	}
}

// Rotate returns the vector rotated by angle radians.
func (v Vec2) Rotate(angle float32) Vec2 {
	sin, cos := math.Sincos(float64(angle))
	return v.rotateSC(float32(sin), float32(cos))
}

func (v Vec2) rotateSC(sin, cos float32) Vec2 {
	return Vec2{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// Perp returns the perpendicular vector (rotated 90 degrees counter-clockwise).
func (v Vec2) Perp() Vec2 {
	return Vec2{X: -v.Y, Y: v.X}
}

// MaxZero clamps each component to be non-negative.
func (v Vec2) MaxZero() Vec2 {
	return Vec2{X: max(v.X, 0), Y: max(v.Y, 0)}
}

// Approx reports whether two vectors are equal within epsilon.
func (v Vec2) Approx(w Vec2, epsilon float32) bool {
	return Abs(v.X-w.X) < epsilon && Abs(v.Y-w.Y) < epsilon
}
