package geom

import "math"

// intersectEpsilon bounds the determinant below which a triangle is
// treated as parallel to the ray or degenerate (zero area). Degenerate
// triangles are skipped silently rather than reported.
const intersectEpsilon = 1e-9

// IntersectTriangle computes the ray/triangle intersection using the
// Möller–Trumbore algorithm. It returns the distance along the ray and
// true when the ray hits the facet in front of its origin. Backfaces
// are reported like front faces; callers that care can check the sign
// of Dir against the facet normal.
func (r Ray) IntersectTriangle(t Triangle) (float64, bool) {
	e1 := t.V2.Sub(t.V1)
	e2 := t.V3.Sub(t.V1)

	p := r.Dir.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < intersectEpsilon {
		return 0, false
	}
	inv := 1 / det

	s := r.Origin.Sub(t.V1)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(e1)
	v := r.Dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}

	dist := e2.Dot(q) * inv
	if dist < intersectEpsilon {
		return 0, false
	}
	return dist, true
}
