// Package mesh holds the in-memory triangle soup produced by the STL
// loader, plus its derived bounding volumes and summary statistics.
//
// All arrays are flat: Positions has 3 floats per vertex (x,y,z) and 9
// per triangle, Normals mirrors it with the face normal replicated for
// each of a triangle's three vertices (flat-shaded source data).
package mesh

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/shixin627/watch-cnc/pkg/geom"
)

// Mesh is an immutable triangle soup. Build one with New; it is
// replaced wholesale on a new load, never mutated in place.
type Mesh struct {
	Positions []float32 // [x0,y0,z0, x1,y1,z1, ...]
	Normals   []float32 // [nx0,ny0,nz0, ...] face normal per vertex

	bounds geom.Box3
	sphere Sphere
}

// Sphere is a bounding sphere centered on the bounding box center.
type Sphere struct {
	Center v3.Vec
	Radius float64
}

// New builds a mesh from flat position and normal buffers and computes
// its bounding box and bounding sphere. A malformed ASCII source can
// legitimately produce fewer normals than positions; New accepts that.
func New(positions, normals []float32) *Mesh {
	m := &Mesh{Positions: positions, Normals: normals}
	m.computeBounds()
	return m
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Positions) / 9
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Positions) == 0
}

// Vertex returns vertex i as a float64 vector.
func (m *Mesh) Vertex(i int) v3.Vec {
	return v3.Vec{
		X: float64(m.Positions[3*i]),
		Y: float64(m.Positions[3*i+1]),
		Z: float64(m.Positions[3*i+2]),
	}
}

// Triangle returns triangle i as a geom value. The stored face normal
// is taken from the triangle's first vertex; if the normals buffer is
// short (permissive ASCII parse) a zero normal is returned.
func (m *Mesh) Triangle(i int) geom.Triangle {
	t := geom.Triangle{
		V1: m.Vertex(3 * i),
		V2: m.Vertex(3*i + 1),
		V3: m.Vertex(3*i + 2),
	}
	if n := 9 * i; n+2 < len(m.Normals) {
		t.Normal = v3.Vec{
			X: float64(m.Normals[n]),
			Y: float64(m.Normals[n+1]),
			Z: float64(m.Normals[n+2]),
		}
	}
	return t
}

// Bounds returns the axis-aligned bounding box computed at build time.
func (m *Mesh) Bounds() geom.Box3 {
	return m.bounds
}

// BoundingSphere returns the bounding sphere computed at build time.
func (m *Mesh) BoundingSphere() Sphere {
	return m.sphere
}

func (m *Mesh) computeBounds() {
	box := geom.EmptyBox3()
	n := m.VertexCount()
	for i := 0; i < n; i++ {
		box.Extend(m.Vertex(i))
	}
	if n == 0 {
		m.bounds = geom.Box3{}
		m.sphere = Sphere{}
		return
	}
	m.bounds = box

	// Sphere center sits on the box center; radius covers the farthest
	// vertex from it.
	center := box.Center()
	r2 := 0.0
	for i := 0; i < n; i++ {
		d := m.Vertex(i).Sub(center)
		if l2 := d.Dot(d); l2 > r2 {
			r2 = l2
		}
	}
	m.sphere = Sphere{Center: center, Radius: math.Sqrt(r2)}
}
