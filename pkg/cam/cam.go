// Package cam is the collaborator-facing surface of the machining
// core. External components (viewers, selection tools, forms) hand it
// plain data — STL bytes in, a selection volume and parameters in —
// and receive a path or a serialized program back. It depends on no
// presentation, input or windowing facility.
package cam

import (
	"context"
	"errors"

	"github.com/shixin627/watch-cnc/pkg/gcode"
	"github.com/shixin627/watch-cnc/pkg/geom"
	"github.com/shixin627/watch-cnc/pkg/mesh"
	"github.com/shixin627/watch-cnc/pkg/stl"
	"github.com/shixin627/watch-cnc/pkg/toolpath"
)

// ErrNoMesh is returned by operations that need a loaded mesh.
var ErrNoMesh = errors.New("cam: no mesh loaded")

// Core bundles the loader, generator and emitter behind one handle.
// Construct one per job; the held mesh is replaced wholesale on each
// LoadMesh call, never mutated.
type Core struct {
	mesh *mesh.Mesh
	gen  *toolpath.Generator
}

// New returns an empty Core.
func New() *Core {
	return &Core{gen: toolpath.New()}
}

// LoadMesh parses STL bytes (either encoding) and replaces the held
// mesh. On a parse error the previously held mesh is kept.
func (c *Core) LoadMesh(data []byte) error {
	m, err := stl.Decode(data)
	if err != nil {
		return err
	}
	c.mesh = m
	return nil
}

// SetMesh installs an already-built mesh, e.g. a generated stock blank.
func (c *Core) SetMesh(m *mesh.Mesh) {
	c.mesh = m
}

// Mesh returns the held mesh, or nil before the first load.
func (c *Core) Mesh() *mesh.Mesh {
	return c.mesh
}

// MeshStats summarizes the held mesh.
func (c *Core) MeshStats() (mesh.Stats, error) {
	if c.mesh == nil {
		return mesh.Stats{}, ErrNoMesh
	}
	return c.mesh.Stats(), nil
}

// GeneratePath runs the layered scan over the held mesh. progress may
// be nil; ctx cancels between layers.
func (c *Core) GeneratePath(ctx context.Context, sel geom.Box3, p toolpath.Params, progress toolpath.ProgressFunc) (*toolpath.Path, error) {
	return c.gen.Generate(ctx, c.mesh, sel, p, progress)
}

// Serialize renders a generated path into motion-program text.
func (c *Core) Serialize(path *toolpath.Path, p toolpath.Params) string {
	return gcode.Emit(path, p)
}
