package transform

import "math"

// Vec3 is a Cartesian vector in meters. It carries no frame of its own; the
// frame-specific position types convert to and from it explicitly.
type Vec3 struct {
	X, Y, Z float64
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Norm returns the Euclidean length of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Matrix is a row-major 3x3 rotation matrix. It is a value type so that a
// whole pipeline evaluation stays on the stack.
//
// Every Matrix built by this package is orthonormal with determinant +1.
// Products are never renormalized.
type Matrix [3][3]float64

// Identity returns the 3x3 identity matrix.
func Identity() Matrix {
	return Matrix{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// Mul returns the matrix product m·n.
func (m Matrix) Mul(n Matrix) Matrix {
	var out Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][0]*n[0][j] + m[i][1]*n[1][j] + m[i][2]*n[2][j]
		}
	}
	return out
}

// Apply returns m·v.
func (m Matrix) Apply(v Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Transpose returns mᵀ, which is the inverse of any rotation matrix.
func (m Matrix) Transpose() Matrix {
	return Matrix{
		{m[0][0], m[1][0], m[2][0]},
		{m[0][1], m[1][1], m[2][1]},
		{m[0][2], m[1][2], m[2][2]},
	}
}

// The R1/R2/R3 rotations below rotate the coordinate frame by angle a
// (radians) about the X, Y and Z axis respectively. A positive angle turns
// the axes counterclockwise when viewed from the positive end of the
// rotation axis, so a fixed vector appears to turn clockwise.
//
// Reference: Vallado, "Fundamentals of Astrodynamics and Applications", Sec. 3.3.

// R1 rotates the frame about the X axis.
func R1(a float64) Matrix {
	s, c := math.Sincos(a)
	return Matrix{
		{1, 0, 0},
		{0, c, s},
		{0, -s, c},
	}
}

// R2 rotates the frame about the Y axis.
func R2(a float64) Matrix {
	s, c := math.Sincos(a)
	return Matrix{
		{c, 0, -s},
		{0, 1, 0},
		{s, 0, c},
	}
}

// R3 rotates the frame about the Z axis.
func R3(a float64) Matrix {
	s, c := math.Sincos(a)
	return Matrix{
		{c, s, 0},
		{-s, c, 0},
		{0, 0, 1},
	}
}
