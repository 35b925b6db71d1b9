package stl

import (
	gomath "math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ComputeNormals replaces Normals with one unit normal per triangle derived
// from the vertices with Newell's method, so counter-clockwise winding gives
// outward normals. Degenerate (zero-area) triangles get a zero normal; the
// number of such triangles is returned.
func (m *Mesh) ComputeNormals() int {
	n := len(m.Vertices) / floatsPerFacet
	normals := make([]float32, 0, floatsPerNormal*n)
	degenerate := 0

	for i := 0; i < n; i++ {
		v, ok := newellNormal(m.Vertices[i*floatsPerFacet : (i+1)*floatsPerFacet])
		if !ok {
			degenerate++
		}
		normals = append(normals, float32(v.X), float32(v.Y), float32(v.Z))
	}

	m.Normals = normals
	return degenerate
}

// FacetNormal returns the unit Newell normal of a single triangle given as
// 9 floats. ok is false for a degenerate triangle, which yields zero.
func FacetNormal(v []float32) (r3.Vec, bool) {
	return newellNormal(v[:floatsPerFacet])
}

func newellNormal(v []float32) (r3.Vec, bool) {
	var p [VertexPerFacet]r3.Vec
	for k := range p {
		p[k] = r3.Vec{
			X: float64(v[k*AxisPerVertex]),
			Y: float64(v[k*AxisPerVertex+1]),
			Z: float64(v[k*AxisPerVertex+2]),
		}
	}

	var sum r3.Vec
	for k := range p {
		cur, next := p[k], p[(k+1)%len(p)]
		sum.X += (cur.Y - next.Y) * (cur.Z + next.Z)
		sum.Y += (cur.Z - next.Z) * (cur.X + next.X)
		sum.Z += (cur.X - next.X) * (cur.Y + next.Y)
	}

	l := r3.Norm(sum)
	if l == 0 || gomath.IsNaN(l) || gomath.IsInf(l, 0) {
		return r3.Vec{}, false
	}
	return r3.Scale(1/l, sum), true
}
