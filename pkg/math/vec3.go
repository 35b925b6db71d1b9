// Package math provides the float32 vector type used by mesh accessors.
package math

import "math"

// Vec3 is a 3D vector stored in single precision, matching STL storage.
type Vec3 struct {
	X, Y, Z float32
}

// Vec3From reads a vector from the first three elements of s.
func Vec3From(s []float32) Vec3 {
	return Vec3{s[0], s[1], s[2]}
}

// AppendTo appends the X, Y and Z components to dst.
func (v Vec3) AppendTo(dst []float32) []float32 {
	return append(dst, v.X, v.Y, v.Z)
}

// Length returns the magnitude.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// IsUnit reports whether v has length 1 within eps.
func (v Vec3) IsUnit(eps float32) bool {
	d := v.Length() - 1
	return d < eps && d > -eps
}
