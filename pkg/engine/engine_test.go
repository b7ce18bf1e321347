package engine

import (
	"errors"
	"strings"
	"testing"
)

func TestEvaluateEmptySource(t *testing.T) {
	for _, src := range []string{"", "   \n\t  ", "; just a comment\n"} {
		spec, evalErrs, err := NewEngine().Evaluate(src)
		if err != nil {
			t.Fatalf("Evaluate(%q) fatal error: %v", src, err)
		}
		if len(evalErrs) != 0 {
			t.Fatalf("Evaluate(%q) eval errors: %v", src, evalErrs)
		}
		if spec == nil {
			t.Fatalf("Evaluate(%q) returned nil spec", src)
		}
		if spec.Model != "" || spec.Selection != nil {
			t.Errorf("empty script produced non-empty spec: %+v", spec)
		}
		if spec.Params.ToolDiameter != nil || spec.Params.SafeZ != nil {
			t.Errorf("empty script set params: %+v", spec.Params)
		}
	}
}

func TestEvaluateParams(t *testing.T) {
	src := `(params :tool-diameter 2.5 :stepover 0.3 :feed-rate 30)`
	spec, evalErrs, err := NewEngine().Evaluate(src)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) != 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}

	if spec.Params.ToolDiameter == nil || *spec.Params.ToolDiameter != 2.5 {
		t.Errorf("tool diameter = %v, want 2.5", spec.Params.ToolDiameter)
	}
	if spec.Params.StepoverFraction == nil || *spec.Params.StepoverFraction != 0.3 {
		t.Errorf("stepover = %v, want 0.3", spec.Params.StepoverFraction)
	}
	if spec.Params.FeedRate == nil || *spec.Params.FeedRate != 30 {
		t.Errorf("feed rate = %v, want 30", spec.Params.FeedRate)
	}
	// Omitted keywords stay nil so the caller's values survive the merge.
	if spec.Params.Stepdown != nil {
		t.Errorf("stepdown = %v, want nil", *spec.Params.Stepdown)
	}
	if spec.Params.SafeZ != nil {
		t.Errorf("safe z = %v, want nil", *spec.Params.SafeZ)
	}
}

func TestEvaluateIntegerParams(t *testing.T) {
	// Whole numbers are accepted wherever floats are.
	spec, evalErrs, err := NewEngine().Evaluate(`(params :feed-rate 25 :safe-z 5)`)
	if err != nil || len(evalErrs) != 0 {
		t.Fatalf("unexpected failure: %v / %v", evalErrs, err)
	}
	if spec.Params.FeedRate == nil || *spec.Params.FeedRate != 25 {
		t.Errorf("feed rate = %v, want 25", spec.Params.FeedRate)
	}
	if spec.Params.SafeZ == nil || *spec.Params.SafeZ != 5 {
		t.Errorf("safe z = %v, want 5", spec.Params.SafeZ)
	}
}

func TestEvaluateSelection(t *testing.T) {
	src := `(selection :min (vec3 -5 -5 -2) :max (vec3 5 5 0))`
	spec, evalErrs, err := NewEngine().Evaluate(src)
	if err != nil || len(evalErrs) != 0 {
		t.Fatalf("unexpected failure: %v / %v", evalErrs, err)
	}
	if spec.Selection == nil {
		t.Fatal("selection not set")
	}
	sel := *spec.Selection
	if sel.Min.X != -5 || sel.Min.Y != -5 || sel.Min.Z != -2 {
		t.Errorf("min = %+v", sel.Min)
	}
	if sel.Max.X != 5 || sel.Max.Y != 5 || sel.Max.Z != 0 {
		t.Errorf("max = %+v", sel.Max)
	}
}

func TestEvaluateModel(t *testing.T) {
	spec, evalErrs, err := NewEngine().Evaluate(`(model "watchcase.stl")`)
	if err != nil || len(evalErrs) != 0 {
		t.Fatalf("unexpected failure: %v / %v", evalErrs, err)
	}
	if spec.Model != "watchcase.stl" {
		t.Errorf("model = %q, want %q", spec.Model, "watchcase.stl")
	}
}

func TestEvaluateFullJob(t *testing.T) {
	src := `
; roughing pass for the case back
(model "caseback.stl")
(params :tool-diameter 1.0 :stepover 0.4 :stepdown 0.1
        :feed-rate 20 :safe-z 5)
(selection :min (vec3 -6 -6 -1.5) :max (vec3 6 6 0))
`
	spec, evalErrs, err := NewEngine().Evaluate(src)
	if err != nil || len(evalErrs) != 0 {
		t.Fatalf("unexpected failure: %v / %v", evalErrs, err)
	}
	if spec.Model != "caseback.stl" {
		t.Errorf("model = %q", spec.Model)
	}
	if spec.Selection == nil || spec.Selection.Max.X != 6 {
		t.Errorf("selection = %+v", spec.Selection)
	}
	if spec.Params.Stepdown == nil || *spec.Params.Stepdown != 0.1 {
		t.Errorf("stepdown = %v", spec.Params.Stepdown)
	}
}

func TestEvaluateErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantMsg string
	}{
		{
			name:    "unknown params option",
			source:  `(params :spindle-speed 10000)`,
			wantMsg: "unknown option",
		},
		{
			name:    "selection missing max",
			source:  `(selection :min (vec3 0 0 0))`,
			wantMsg: "requires :max",
		},
		{
			name:    "degenerate selection",
			source:  `(selection :min (vec3 0 0 0) :max (vec3 5 5 0.01))`,
			wantMsg: "selection",
		},
		{
			name:    "vec3 arity",
			source:  `(selection :min (vec3 1 2) :max (vec3 5 5 5))`,
			wantMsg: "vec3",
		},
		{
			name:    "model wants a string",
			source:  `(model 42)`,
			wantMsg: "model",
		},
		{
			name:    "non-numeric param",
			source:  `(params :stepdown "deep")`,
			wantMsg: "expected number",
		},
		{
			name:    "unbalanced parens",
			source:  `(params :stepdown 0.1`,
			wantMsg: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, evalErrs, err := NewEngine().Evaluate(tt.source)
			if err != nil {
				t.Fatalf("fatal error: %v", err)
			}
			if spec != nil {
				t.Fatalf("expected nil spec, got %+v", spec)
			}
			if len(evalErrs) == 0 {
				t.Fatal("expected eval errors, got none")
			}
			if tt.wantMsg != "" && !strings.Contains(evalErrs[0].Message, tt.wantMsg) {
				t.Errorf("error %q does not mention %q", evalErrs[0].Message, tt.wantMsg)
			}
		})
	}
}

func TestEvalErrorString(t *testing.T) {
	e := EvalError{Line: 3, Message: "boom"}
	if got := e.Error(); got != "line 3: boom" {
		t.Errorf("Error() = %q", got)
	}
	e = EvalError{Message: "boom"}
	if got := e.Error(); got != "boom" {
		t.Errorf("Error() = %q", got)
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		msg      string
		wantLine int
		wantMsg  string
	}{
		{"Error on line 7: undefined symbol", 7, "undefined symbol"},
		{"line 2: unexpected token", 2, "unexpected token"},
		{"something went wrong", 0, "something went wrong"},
	}
	for _, tt := range tests {
		errs := parseZygomysError(errors.New(tt.msg))
		if len(errs) != 1 {
			t.Fatalf("parseZygomysError(%q) returned %d errors", tt.msg, len(errs))
		}
		if errs[0].Line != tt.wantLine {
			t.Errorf("parseZygomysError(%q) line = %d, want %d", tt.msg, errs[0].Line, tt.wantLine)
		}
		if errs[0].Message != tt.wantMsg {
			t.Errorf("parseZygomysError(%q) msg = %q, want %q", tt.msg, errs[0].Message, tt.wantMsg)
		}
	}
}
