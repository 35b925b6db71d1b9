// Package stl reads and writes triangle meshes in the STL format.
//
// Both encodings are supported. Binary files are a fixed little-endian record
// layout:
//
//	UINT8[80]    header
//	UINT32       triangle count
//	per triangle (50 bytes):
//	    REAL32[3] normal
//	    REAL32[3] vertex 1
//	    REAL32[3] vertex 2
//	    REAL32[3] vertex 3
//	    UINT16    attribute
//
// ASCII files follow the grammar
//
//	solid name
//	facet normal ni nj nk
//	    outer loop
//	        vertex v1x v1y v1z
//	        vertex v2x v2y v2z
//	        vertex v3x v3y v3z
//	    endloop
//	endfacet
//	endsolid name
//
// STL has no magic number, so Read decides the encoding from the file size
// (see DetectFormat) before choosing a parser.
package stl

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/stlkit/pkg/encoding"
	"github.com/Faultbox/stlkit/pkg/math"
)

// Binary layout constants.
const (
	HeaderSize       = 80
	CountSize        = 4
	TriangleSize     = 50
	MinBinarySize    = HeaderSize + CountSize
	VertexPerFacet   = 3
	AxisPerVertex    = 3
	floatsPerFacet   = VertexPerFacet * AxisPerVertex
	floatsPerNormal  = AxisPerVertex
	floatsPerColor   = 3
	attributeColored = 0x0001

	// unitTolerance bounds how far a supplied normal's length may stray from 1.
	unitTolerance = 1e-4
)

// Mesh is the geometry buffer shared by every reader and writer.
//
// Vertices holds 9 floats per triangle (three x,y,z triples), Normals holds
// 3 floats per triangle and Colors is either empty or 3 floats (r,g,b in
// [0,1]) per triangle. A read replaces the whole Mesh; on failure the Mesh
// is left untouched. A Mesh must not be mutated concurrently.
type Mesh struct {
	Header        [HeaderSize]byte
	Vertices      []float32
	Normals       []float32
	Colors        []float32
	TriangleCount uint32
}

// Triangle is a view of one facet of a Mesh.
type Triangle struct {
	Normal math.Vec3
	Vertex [VertexPerFacet]math.Vec3
	// Color is only meaningful when HasColor is set.
	Color    [3]float32
	HasColor bool
}

// Reset empties the mesh and zeroes the header.
func (m *Mesh) Reset() {
	*m = Mesh{}
}

// Validate checks the buffer length invariants required before a write.
func (m *Mesh) Validate() error {
	n := int(m.TriangleCount)
	if len(m.Vertices) != floatsPerFacet*n {
		return fmt.Errorf("%w: %d vertex floats for %d triangles (want %d)",
			ErrInvalidGeometry, len(m.Vertices), n, floatsPerFacet*n)
	}
	if len(m.Normals) != 0 && len(m.Normals) != floatsPerNormal*n {
		return fmt.Errorf("%w: %d normal floats for %d triangles (want %d)",
			ErrInvalidGeometry, len(m.Normals), n, floatsPerNormal*n)
	}
	if len(m.Colors) != 0 && len(m.Colors) != floatsPerColor*n {
		return fmt.Errorf("%w: %d color floats for %d triangles (want %d)",
			ErrInvalidGeometry, len(m.Colors), n, floatsPerColor*n)
	}
	return nil
}

// Triangle returns the i-th facet. Missing normals read as zero.
func (m *Mesh) Triangle(i int) Triangle {
	var t Triangle
	v := m.Vertices[i*floatsPerFacet:]
	for k := range t.Vertex {
		t.Vertex[k] = math.Vec3From(v[k*AxisPerVertex:])
	}
	if len(m.Normals) >= (i+1)*floatsPerNormal {
		t.Normal = math.Vec3From(m.Normals[i*floatsPerNormal:])
	}
	if r, g, b, ok := m.Color(i); ok {
		t.Color = [3]float32{r, g, b}
		t.HasColor = true
	}
	return t
}

// AddTriangle appends a facet and increments TriangleCount. A normal that is
// not unit length is replaced by the one implied by the vertex winding. Colors
// are materialized densely once any colored facet is added; earlier facets get
// the "no color" marker.
func (m *Mesh) AddTriangle(t Triangle) {
	n := int(m.TriangleCount)
	if len(m.Normals) < floatsPerNormal*n {
		m.Normals = append(m.Normals, make([]float32, floatsPerNormal*n-len(m.Normals))...)
	}

	start := len(m.Vertices)
	for _, v := range t.Vertex {
		m.Vertices = v.AppendTo(m.Vertices)
	}
	if !t.Normal.IsUnit(unitTolerance) {
		t.Normal = math.Vec3{}
		if nv, ok := FacetNormal(m.Vertices[start:]); ok {
			t.Normal = math.Vec3{X: float32(nv.X), Y: float32(nv.Y), Z: float32(nv.Z)}
		}
	}
	m.Normals = t.Normal.AppendTo(m.Normals)

	switch {
	case t.HasColor:
		for len(m.Colors) < floatsPerColor*n {
			m.Colors = appendNoColor(m.Colors)
		}
		m.Colors = append(m.Colors, t.Color[:]...)
	case len(m.Colors) > 0:
		m.Colors = appendNoColor(m.Colors)
	}
	m.TriangleCount++
}

// Color returns the color of triangle i. ok is false when the mesh carries
// no colors or the triangle was stored without one.
func (m *Mesh) Color(i int) (r, g, b float32, ok bool) {
	if len(m.Colors) < (i+1)*floatsPerColor {
		return 0, 0, 0, false
	}
	c := m.Colors[i*floatsPerColor:]
	if isNoColor(c) {
		return 0, 0, 0, false
	}
	return c[0], c[1], c[2], true
}

// HeaderText returns the binary header as text, stopping at the first null byte.
func (m *Mesh) HeaderText() string {
	return encoding.FixedStringToUTF8(m.Header[:])
}

// SetHeaderText replaces the header with s, truncated to 80 bytes.
func (m *Mesh) SetHeaderText(s string) {
	copy(m.Header[:], encoding.UTF8ToFixedString(s, HeaderSize))
}

// Uncolored facets in a colored mesh are stored as NaN triples.
func appendNoColor(dst []float32) []float32 {
	nan := float32(gomath.NaN())
	return append(dst, nan, nan, nan)
}

func isNoColor(c []float32) bool {
	return c[0] != c[0] || c[1] != c[1] || c[2] != c[2]
}
