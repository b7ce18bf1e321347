// Package engine evaluates machining job scripts. A job script is a
// small sandboxed Lisp program that declares machining parameters, a
// selection volume and optionally the model file to machine:
//
//	(model "watchcase.stl")
//	(params :tool-diameter 1.0 :stepover 0.4 :stepdown 0.1
//	        :feed-rate 20 :safe-z 5)
//	(selection :min (vec3 -5 -5 -2) :max (vec3 5 5 0))
//
// Evaluation runs in a fresh zygomys sandbox per call, with a hard
// timeout and panic recovery.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/shixin627/watch-cnc/pkg/geom"
	"github.com/shixin627/watch-cnc/pkg/toolpath"
)

// JobSpec is the result of evaluating a job script. Params is a
// partial update: fields the script never mentioned stay nil and the
// caller merges the patch onto its held configuration.
type JobSpec struct {
	Params    toolpath.Patch
	Selection *geom.Box3 // nil when the script declares no selection
	Model     string     // model file path, "" when not declared
}

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in the script.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter for job-script evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate takes job-script source and produces a JobSpec.
//
// Return semantics:
//   - On success: returns spec + nil errors + nil error
//   - On parse/eval failure: returns nil spec + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*JobSpec, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		spec, evalErrs, err := e.evaluate(source)
		ch <- evalResult{spec: spec, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*JobSpec, []EvalError, error) {
	spec := &JobSpec{}

	// An empty script is a valid job that changes nothing.
	if strings.TrimSpace(source) == "" {
		return spec, nil, nil
	}

	// Sandbox mode prevents scripts from touching the filesystem or
	// making syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, spec)

	err := env.LoadString(preprocessSource(source))
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	_, err = env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	return spec, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError
// values, extracting line numbers from the message where possible.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
