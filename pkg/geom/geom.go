// Package geom defines the geometric value types shared by the mesh,
// surface and toolpath packages: axis-aligned boxes, triangles and rays.
// Vector math comes from the sdfx v3 package.
package geom

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// MinBoxExtent is the smallest per-axis extent accepted for a selection
// box. Smaller boxes are rejected as degenerate.
const MinBoxExtent = 0.1

// Box3 is an axis-aligned box in 3D space.
type Box3 struct {
	Min v3.Vec
	Max v3.Vec
}

// EmptyBox3 returns a box that contains nothing. Extending it with any
// point yields a box containing exactly that point.
func EmptyBox3() Box3 {
	return Box3{
		Min: v3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)},
		Max: v3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)},
	}
}

// Extend grows the box to include the point p.
func (b *Box3) Extend(p v3.Vec) {
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
}

// Size returns the per-axis extent of the box.
func (b Box3) Size() v3.Vec {
	return b.Max.Sub(b.Min)
}

// Center returns the center point of the box.
func (b Box3) Center() v3.Vec {
	return b.Min.Add(b.Max).MulScalar(0.5)
}

// Contains reports whether p lies inside the box, bounds inclusive.
func (b Box3) Contains(p v3.Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Validate rejects boxes that are inverted or thinner than MinBoxExtent
// on any axis.
func (b Box3) Validate() error {
	s := b.Size()
	if s.X < MinBoxExtent || s.Y < MinBoxExtent || s.Z < MinBoxExtent {
		return fmt.Errorf("box extent %.3f x %.3f x %.3f below minimum %.1f per axis", s.X, s.Y, s.Z, MinBoxExtent)
	}
	return nil
}

// Triangle is a triangular facet with a stored face normal. The normal
// comes straight from the source file and is not renormalized.
type Triangle struct {
	Normal     v3.Vec
	V1, V2, V3 v3.Vec
}

// ComputedNormal derives the facet normal from the winding order,
// ignoring the stored normal.
func (t Triangle) ComputedNormal() v3.Vec {
	e1 := t.V2.Sub(t.V1)
	e2 := t.V3.Sub(t.V1)
	return e1.Cross(e2).Normalize()
}

// Area returns the facet surface area.
func (t Triangle) Area() float64 {
	e1 := t.V2.Sub(t.V1)
	e2 := t.V3.Sub(t.V1)
	return e1.Cross(e2).Length() / 2
}

// Ray is a half-line from Origin in direction Dir. Dir is expected to
// be unit length; intersection distances are measured in its units.
type Ray struct {
	Origin v3.Vec
	Dir    v3.Vec
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) v3.Vec {
	return r.Origin.Add(r.Dir.MulScalar(t))
}
