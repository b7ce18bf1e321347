package toolpath

import "fmt"

// Params holds the machining parameters consumed by the generator and
// the G-code emitter.
type Params struct {
	ToolDiameter     float64 // cutter width, length units
	StepoverFraction float64 // row spacing as a fraction of ToolDiameter, (0,1]
	Stepdown         float64 // Z increment per layer
	FeedRate         float64 // linear speed for cutting moves, units/min
	SafeZ            float64 // clearance height for non-cutting moves
}

// Default returns the stock parameter set.
func Default() Params {
	return Params{
		ToolDiameter:     1.0,
		StepoverFraction: 0.4,
		Stepdown:         0.1,
		FeedRate:         20,
		SafeZ:            5.0,
	}
}

// Patch is a partial parameter update. Nil fields leave the held value
// untouched.
type Patch struct {
	ToolDiameter     *float64
	StepoverFraction *float64
	Stepdown         *float64
	FeedRate         *float64
	SafeZ            *float64
}

// Apply merges a patch into p and returns the result.
func (p Params) Apply(patch Patch) Params {
	if patch.ToolDiameter != nil {
		p.ToolDiameter = *patch.ToolDiameter
	}
	if patch.StepoverFraction != nil {
		p.StepoverFraction = *patch.StepoverFraction
	}
	if patch.Stepdown != nil {
		p.Stepdown = *patch.Stepdown
	}
	if patch.FeedRate != nil {
		p.FeedRate = *patch.FeedRate
	}
	if patch.SafeZ != nil {
		p.SafeZ = *patch.SafeZ
	}
	return p
}

// Validate checks the numeric constraints on the parameter set.
func (p Params) Validate() error {
	if p.ToolDiameter <= 0 {
		return fmt.Errorf("tool diameter must be positive, got %g", p.ToolDiameter)
	}
	if p.StepoverFraction <= 0 || p.StepoverFraction > 1 {
		return fmt.Errorf("stepover fraction must be in (0,1], got %g", p.StepoverFraction)
	}
	if p.Stepdown <= 0 {
		return fmt.Errorf("stepdown must be positive, got %g", p.Stepdown)
	}
	if p.FeedRate <= 0 {
		return fmt.Errorf("feed rate must be positive, got %g", p.FeedRate)
	}
	return nil
}
