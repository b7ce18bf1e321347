// Package surface answers height-field queries against a triangle mesh
// by casting vertical rays from above.
package surface

import (
	"sort"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/shixin627/watch-cnc/pkg/geom"
	"github.com/shixin627/watch-cnc/pkg/mesh"
)

// rayClearance is how far above the query ceiling the ray origin sits.
// It only has to clear any geometry that pokes above the ceiling.
const rayClearance = 1000.0

// Sampler performs point-sampling height queries against one mesh.
// The mesh is read-only for the sampler's lifetime.
type Sampler struct {
	m *mesh.Mesh
}

// NewSampler returns a sampler over m.
func NewSampler(m *mesh.Mesh) *Sampler {
	return &Sampler{m: m}
}

// HeightAt casts a ray straight down from above (x, y) and returns the
// Z coordinate of the first intersection, in increasing distance from
// the ray origin, whose Z lies within [floor, ceiling]. It reports
// false when no such intersection exists.
//
// Note these are first-from-above semantics, not "highest surface below
// the ceiling": when a surface above the window shadows a deeper
// in-window surface, the hits are still walked top-down and the first
// one inside the window wins. The two coincide for non-overhanging
// geometry. Load-bearing behavior; keep as is.
func (s *Sampler) HeightAt(x, y, ceiling, floor float64) (float64, bool) {
	ray := geom.Ray{
		Origin: v3.Vec{X: x, Y: y, Z: ceiling + rayClearance},
		Dir:    v3.Vec{X: 0, Y: 0, Z: -1},
	}

	var dists []float64
	n := s.m.TriangleCount()
	for i := 0; i < n; i++ {
		if d, ok := ray.IntersectTriangle(s.m.Triangle(i)); ok {
			dists = append(dists, d)
		}
	}
	sort.Float64s(dists)

	for _, d := range dists {
		z := ray.Origin.Z - d
		if z >= floor && z <= ceiling {
			return z, true
		}
	}
	return 0, false
}
