// Package analysis computes geometric statistics for STL meshes.
package analysis

import (
	gomath "math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/stlkit/pkg/stl"
)

// Report summarizes a mesh.
type Report struct {
	Triangles  int
	Colored    int
	Degenerate int

	Bounds     r3.Box
	Dimensions r3.Vec

	SurfaceArea float64
	// Volume is the signed enclosed volume. It is only meaningful for
	// closed meshes and is negative when facets wind inward.
	Volume float64

	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
}

// Center returns the middle of the bounding box.
func (r Report) Center() r3.Vec {
	return r3.Scale(0.5, r3.Add(r.Bounds.Min, r.Bounds.Max))
}

// Diagonal returns the length of the bounding box diagonal.
func (r Report) Diagonal() float64 {
	return r3.Norm(r.Dimensions)
}

// Analyze walks every triangle of m. An empty mesh yields a zero Report.
func Analyze(m *stl.Mesh) Report {
	n := len(m.Vertices) / 9
	rep := Report{Triangles: n}
	if n == 0 {
		return rep
	}

	rep.Bounds = r3.Box{
		Min: r3.Vec{X: gomath.Inf(1), Y: gomath.Inf(1), Z: gomath.Inf(1)},
		Max: r3.Vec{X: gomath.Inf(-1), Y: gomath.Inf(-1), Z: gomath.Inf(-1)},
	}
	rep.MinEdgeLength = gomath.Inf(1)

	var edgeSum float64
	for i := 0; i < n; i++ {
		p := triangle(m.Vertices[i*9 : i*9+9])
		for _, v := range p {
			extend(&rep.Bounds, v)
		}

		for k := range p {
			l := r3.Norm(r3.Sub(p[(k+1)%3], p[k]))
			edgeSum += l
			rep.MinEdgeLength = gomath.Min(rep.MinEdgeLength, l)
			rep.MaxEdgeLength = gomath.Max(rep.MaxEdgeLength, l)
		}

		cross := r3.Cross(r3.Sub(p[1], p[0]), r3.Sub(p[2], p[0]))
		area := r3.Norm(cross) / 2
		if area == 0 {
			rep.Degenerate++
		}
		rep.SurfaceArea += area
		rep.Volume += r3.Dot(p[0], r3.Cross(p[1], p[2])) / 6

		if _, _, _, ok := m.Color(i); ok {
			rep.Colored++
		}
	}

	rep.Dimensions = r3.Sub(rep.Bounds.Max, rep.Bounds.Min)
	rep.AvgEdgeLength = edgeSum / float64(3*n)
	return rep
}

func triangle(v []float32) [3]r3.Vec {
	var p [3]r3.Vec
	for k := range p {
		p[k] = r3.Vec{X: float64(v[3*k]), Y: float64(v[3*k+1]), Z: float64(v[3*k+2])}
	}
	return p
}

func extend(b *r3.Box, v r3.Vec) {
	b.Min.X = gomath.Min(b.Min.X, v.X)
	b.Min.Y = gomath.Min(b.Min.Y, v.Y)
	b.Min.Z = gomath.Min(b.Min.Z, v.Z)
	b.Max.X = gomath.Max(b.Max.X, v.X)
	b.Max.Y = gomath.Max(b.Max.Y, v.Y)
	b.Max.Z = gomath.Max(b.Max.Z, v.Z)
}
