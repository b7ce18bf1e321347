// Package stock generates synthetic stock and demo meshes from SDF
// primitives using the github.com/deadsy/sdfx CAD library. Solids are
// positioned the way a machinist zeroes a part: XY centered on the
// origin with the top surface at Z=0, so machining depths are negative.
package stock

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/shixin627/watch-cnc/pkg/mesh"
)

// DefaultCells is the marching-cubes resolution used when a caller has
// no reason to pick another one.
const DefaultCells = 128

// Box returns a rectangular stock block spanning [-x/2,x/2] by
// [-y/2,y/2] with its top face at Z=0.
func Box(x, y, z float64, cells int) (*mesh.Mesh, error) {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fmt.Errorf("stock: box: %w", err)
	}
	m := sdf.Translate3d(v3.Vec{X: 0, Y: 0, Z: -z / 2})
	return FromSDF(sdf.Transform3D(s, m), cells), nil
}

// Cylinder returns a vertical cylindrical blank with its top face at
// Z=0.
func Cylinder(height, radius float64, cells int) (*mesh.Mesh, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("stock: cylinder: %w", err)
	}
	m := sdf.Translate3d(v3.Vec{X: 0, Y: 0, Z: -height / 2})
	return FromSDF(sdf.Transform3D(s, m), cells), nil
}

// Dome returns a spherical cap with its apex at Z=0, the convex
// watch-glass profile the original tool was built around.
func Dome(radius float64, cells int) (*mesh.Mesh, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("stock: dome: %w", err)
	}
	m := sdf.Translate3d(v3.Vec{X: 0, Y: 0, Z: -radius})
	return FromSDF(sdf.Transform3D(s, m), cells), nil
}

// FromSDF tessellates an SDF solid into a triangle mesh with uniform
// marching cubes.
func FromSDF(s sdf.SDF3, cells int) *mesh.Mesh {
	if cells <= 0 {
		cells = DefaultCells
	}
	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)

	positions := make([]float32, 0, len(triangles)*9)
	normals := make([]float32, 0, len(triangles)*9)

	for _, tri := range triangles {
		n := tri.Normal()
		nx, ny, nz := float32(n.X), float32(n.Y), float32(n.Z)
		for j := 0; j < 3; j++ {
			v := tri[j]
			positions = append(positions, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
		}
	}

	return mesh.New(positions, normals)
}
