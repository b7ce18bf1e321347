package mesh

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Stats summarizes a loaded mesh for display to an operator.
type Stats struct {
	TriangleCount int
	VertexCount   int
	Extent        v3.Vec
	Center        v3.Vec
	Min           v3.Vec
	Max           v3.Vec
	SphereRadius  float64
}

// Stats computes the summary statistics for the mesh.
func (m *Mesh) Stats() Stats {
	b := m.Bounds()
	return Stats{
		TriangleCount: m.TriangleCount(),
		VertexCount:   m.VertexCount(),
		Extent:        b.Size(),
		Center:        b.Center(),
		Min:           b.Min,
		Max:           b.Max,
		SphereRadius:  m.BoundingSphere().Radius,
	}
}

// String renders the stats as a short multi-line report.
func (s Stats) String() string {
	return fmt.Sprintf(
		"triangles: %d\nvertices: %d\nextent: %.3f x %.3f x %.3f\ncenter: (%.3f, %.3f, %.3f)\nmin: (%.3f, %.3f, %.3f)\nmax: (%.3f, %.3f, %.3f)",
		s.TriangleCount, s.VertexCount,
		s.Extent.X, s.Extent.Y, s.Extent.Z,
		s.Center.X, s.Center.Y, s.Center.Z,
		s.Min.X, s.Min.Y, s.Min.Z,
		s.Max.X, s.Max.Y, s.Max.Z,
	)
}
