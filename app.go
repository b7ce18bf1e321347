package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/shixin627/watch-cnc/pkg/cam"
	"github.com/shixin627/watch-cnc/pkg/engine"
	"github.com/shixin627/watch-cnc/pkg/geom"
	"github.com/shixin627/watch-cnc/pkg/mesh"
	"github.com/shixin627/watch-cnc/pkg/stock"
	"github.com/shixin627/watch-cnc/pkg/toolpath"
)

// Config is the fully resolved invocation: CLI flags merged over an
// optional job script merged over package defaults.
type Config struct {
	ModelPath string // STL input; empty when Demo is set
	JobPath   string // optional job script
	Demo      string // "", "box", "cylinder" or "dome"
	DemoSize  float64

	Selection *geom.Box3
	Overrides toolpath.Patch // parameters set explicitly on the CLI

	StatsOnly  bool
	OutputPath string // empty writes to stdout
}

// App wires the machining core and the job-script engine together for
// one CLI invocation.
type App struct {
	core   *cam.Core
	engine *engine.Engine
}

// NewApp creates a new App.
func NewApp() *App {
	return &App{
		core:   cam.New(),
		engine: engine.NewEngine(),
	}
}

// Run executes one job: resolve configuration, load or generate the
// model, then either print its stats or scan it and emit the program.
func (a *App) Run(cfg Config) error {
	params := toolpath.Default()
	sel := cfg.Selection
	modelPath := cfg.ModelPath

	if cfg.JobPath != "" {
		src, err := os.ReadFile(cfg.JobPath)
		if err != nil {
			return fmt.Errorf("read job script: %w", err)
		}
		spec, evalErrs, err := a.engine.Evaluate(string(src))
		if err != nil {
			return fmt.Errorf("job script %s: %w", cfg.JobPath, err)
		}
		if len(evalErrs) > 0 {
			for _, e := range evalErrs {
				log.Printf("%s: %v", cfg.JobPath, e)
			}
			return fmt.Errorf("job script %s: %d error(s)", cfg.JobPath, len(evalErrs))
		}
		params = params.Apply(spec.Params)
		if spec.Selection != nil && sel == nil {
			sel = spec.Selection
		}
		if spec.Model != "" && modelPath == "" {
			modelPath = spec.Model
		}
	}

	// Explicit CLI flags win over the script.
	params = params.Apply(cfg.Overrides)

	if err := a.loadModel(cfg, modelPath); err != nil {
		return err
	}

	if cfg.StatsOnly {
		stats, err := a.core.MeshStats()
		if err != nil {
			return err
		}
		fmt.Println(stats)
		return nil
	}

	if sel == nil {
		if cfg.Demo == "" {
			return fmt.Errorf("no selection volume: pass -min/-max or a job script with (selection ...)")
		}
		// Demo mode machines the whole generated blank.
		b := a.core.Mesh().Bounds()
		sel = &b
	}

	path, err := a.core.GeneratePath(context.Background(), *sel, params, func(fraction float64) {
		log.Printf("scanning: %3.0f%%", fraction*100)
	})
	if err != nil {
		return err
	}
	log.Printf("generated %d layers, %d points, est. %.1f min",
		len(path.Layers), path.TotalPoints(), path.EstimateTimeMinutes(params))

	program := a.core.Serialize(path, params)
	if cfg.OutputPath == "" {
		_, err = os.Stdout.WriteString(program)
		return err
	}
	return os.WriteFile(cfg.OutputPath, []byte(program), 0o644)
}

// loadModel installs the mesh to machine: a generated demo blank or an
// STL file from disk.
func (a *App) loadModel(cfg Config, modelPath string) error {
	if cfg.Demo != "" {
		m, err := demoMesh(cfg.Demo, cfg.DemoSize)
		if err != nil {
			return err
		}
		a.core.SetMesh(m)
		return nil
	}

	if modelPath == "" {
		return fmt.Errorf("no model: pass an STL file, -demo, or a job script with (model ...)")
	}
	data, err := os.ReadFile(modelPath)
	if err != nil {
		return fmt.Errorf("read model: %w", err)
	}
	if err := a.core.LoadMesh(data); err != nil {
		return fmt.Errorf("load %s: %w", modelPath, err)
	}
	return nil
}

func demoMesh(shape string, size float64) (*mesh.Mesh, error) {
	if size <= 0 {
		size = 10
	}
	switch shape {
	case "box":
		return stock.Box(size, size, size/2, stock.DefaultCells)
	case "cylinder":
		return stock.Cylinder(size/2, size/2, stock.DefaultCells)
	case "dome":
		return stock.Dome(size, stock.DefaultCells)
	}
	return nil, fmt.Errorf("unknown demo shape %q (want box, cylinder or dome)", shape)
}
