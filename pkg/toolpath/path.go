package toolpath

import v3 "github.com/deadsy/sdfx/vec/v3"

// Layer is one machining depth plane. A layer with zero points is
// valid: it represents "no material inside the selection at this
// depth" and is skipped by the emitter but still counted, so layer
// indices stay contiguous.
type Layer struct {
	Index  int      // 0-based emission order
	Z      float64  // target depth plane
	Points []v3.Vec // boustrophedon point sequence
}

// Path is the ordered sequence of layers produced by a Generator,
// topmost first. It is immutable once handed off to the emitter.
type Path struct {
	Layers []Layer
}

// TotalPoints returns the point count summed over all layers.
func (p *Path) TotalPoints() int {
	n := 0
	for i := range p.Layers {
		n += len(p.Layers[i].Points)
	}
	return n
}

// EstimateTimeMinutes approximates cycle time: the cutting distance
// within each layer plus a fixed safeZ*2 rapid-travel proxy per layer,
// all at the cutting feed rate.
func (p *Path) EstimateTimeMinutes(params Params) float64 {
	if params.FeedRate <= 0 {
		return 0
	}
	dist := 0.0
	for i := range p.Layers {
		pts := p.Layers[i].Points
		for j := 1; j < len(pts); j++ {
			dist += pts[j].Sub(pts[j-1]).Length()
		}
	}
	dist += float64(len(p.Layers)) * params.SafeZ * 2
	return dist / params.FeedRate
}
