// Package toolpath turns a mesh, a selection volume and machining
// parameters into a layered zig-zag coverage path.
package toolpath

import (
	"context"
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/shixin627/watch-cnc/pkg/geom"
	"github.com/shixin627/watch-cnc/pkg/mesh"
	"github.com/shixin627/watch-cnc/pkg/surface"
)

// scanStepFraction sets the X sampling resolution of a row as a
// fraction of the tool diameter.
const scanStepFraction = 0.2

// PreconditionError reports inputs rejected before any scanning work
// begins: a missing mesh, invalid parameters, or a degenerate
// selection volume.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return "toolpath: " + e.Reason
}

// ProgressFunc receives the completed fraction (0,1] after each layer.
type ProgressFunc func(fraction float64)

// Generator produces coverage paths. State is instance-local and
// overwritten at the start of each Generate call; callers must
// serialize calls or use independent instances.
type Generator struct {
	sampler *surface.Sampler
	sel     geom.Box3
	path    *Path
}

// New returns a fresh Generator.
func New() *Generator {
	return &Generator{}
}

// Generate scans the selection volume layer by layer and returns the
// coverage path. The mesh and selection are treated as read-only
// snapshots for the duration of the call.
//
// progress may be nil; otherwise it is invoked synchronously after
// each completed layer. ctx is polled at the same layer boundaries:
// cancelling it abandons the run and returns ctx.Err().
func (g *Generator) Generate(ctx context.Context, m *mesh.Mesh, sel geom.Box3, p Params, progress ProgressFunc) (*Path, error) {
	if m == nil || m.IsEmpty() {
		return nil, &PreconditionError{Reason: "no mesh loaded"}
	}
	if err := p.Validate(); err != nil {
		return nil, &PreconditionError{Reason: err.Error()}
	}
	if err := sel.Validate(); err != nil {
		return nil, &PreconditionError{Reason: fmt.Sprintf("selection volume: %v", err)}
	}

	g.sampler = surface.NewSampler(m)
	g.sel = sel
	g.path = &Path{}

	toolRadius := p.ToolDiameter / 2
	stepover := p.ToolDiameter * p.StepoverFraction
	scanStep := p.ToolDiameter * scanStepFraction

	layerCount := int(math.Ceil((sel.Max.Z - sel.Min.Z) / p.Stepdown))

	for k := 0; k < layerCount; k++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		// The first layer sits one stepdown below the selection top;
		// the last is clamped so it lands exactly on the selection
		// bottom even when the fixed stepdown overshoots it.
		z := sel.Max.Z - float64(k+1)*p.Stepdown
		if z < sel.Min.Z {
			z = sel.Min.Z
		}

		layer := Layer{Index: k, Z: z}
		for j := 0; ; j++ {
			y := sel.Min.Y + float64(j)*stepover
			if y > sel.Max.Y {
				break
			}
			row := g.scanRow(y, z, scanStep, toolRadius)
			if j%2 == 1 {
				reverse(row)
			}
			layer.Points = append(layer.Points, row...)
		}
		g.path.Layers = append(g.path.Layers, layer)

		if progress != nil {
			progress(float64(k+1) / float64(layerCount))
		}
	}

	return g.path, nil
}

// scanRow samples one Y row left to right. Points are emitted where
// the surface query finds material inside the selection; everywhere
// else the row simply has gaps, which is how the algorithm discovers
// the parts of the volume with nothing to cut.
func (g *Generator) scanRow(y, zPlane, scanStep, toolRadius float64) []v3.Vec {
	var row []v3.Vec
	for i := 0; ; i++ {
		x := g.sel.Min.X + float64(i)*scanStep
		if x > g.sel.Max.X {
			break
		}
		z, ok := g.sampler.HeightAt(x, y, zPlane, g.sel.Min.Z)
		if !ok {
			continue
		}
		if !g.sel.Contains(v3.Vec{X: x, Y: y, Z: z}) {
			continue
		}
		row = append(row, v3.Vec{X: x, Y: y, Z: z + toolRadius})
	}
	return row
}

func reverse(pts []v3.Vec) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}
