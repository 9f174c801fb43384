package geom

// Mat4 is a 4x4 matrix in column-major order, the layout WGSL expects for
// mat4x4<f32> uniforms.
//
//	| m[0] m[4] m[8]  m[12] |
//	| m[1] m[5] m[9]  m[13] |
//	| m[2] m[6] m[10] m[14] |
//	| m[3] m[7] m[11] m[15] |
type Mat4 [16]float32

// Identity4 returns the identity matrix.
func Identity4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate4 creates a translation matrix.
func Translate4(x, y, z float32) Mat4 {
	m := Identity4()
	m[12], m[13], m[14] = x, y, z
	return m
}

// Scale4 creates a scaling matrix.
func Scale4(x, y, z float32) Mat4 {
	m := Identity4()
	m[0], m[5], m[10] = x, y, z
	return m
}

// Ortho creates an orthographic projection. x in [left, right] maps to
// [-1, 1], y in [bottom, top] maps to [-1, 1], and z maps to depth 0 at
// front and depth 1 at back.
func Ortho(left, right, bottom, top, back, front float32) Mat4 {
	var m Mat4
	m[0] = 2 / (right - left)
	m[5] = 2 / (top - bottom)
	m[10] = 1 / (back - front)
	m[12] = -(right + left) / (right - left)
	m[13] = -(top + bottom) / (top - bottom)
	m[14] = -front / (back - front)
	m[15] = 1
	return m
}

// Mul returns m * o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for c := 0; c < 4; c++ {
		for row := 0; row < 4; row++ {
			var s float32
			for k := 0; k < 4; k++ {
				s += m[k*4+row] * o[c*4+k]
			}
			r[c*4+row] = s
		}
	}
	return r
}

// Project transforms the point (p.X, p.Y, z, 1) and returns the clip-space
// x, y and depth after the perspective divide.
func (m Mat4) Project(p Vec2, z float32) (x, y, depth float32) {
	x = m[0]*p.X + m[4]*p.Y + m[8]*z + m[12]
	y = m[1]*p.X + m[5]*p.Y + m[9]*z + m[13]
	depth = m[2]*p.X + m[6]*p.Y + m[10]*z + m[14]
	w := m[3]*p.X + m[7]*p.Y + m[11]*z + m[15]
	if w != 0 && w != 1 {
		x, y, depth = x/w, y/w, depth/w
	}
	return x, y, depth
}
