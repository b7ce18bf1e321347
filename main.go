// Command watch-cnc converts a triangulated surface model into a
// layered 2.5D scanning toolpath and serializes it as a G-code
// program.
//
// Usage:
//
//	watch-cnc [flags] model.stl > out.nc
//	watch-cnc -job job.lisp -o out.nc
//	watch-cnc -demo dome -o out.nc
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/shixin627/watch-cnc/pkg/geom"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("watch-cnc: ")

	jobPath := flag.String("job", "", "Job script declaring params/selection/model.")
	minCorner := flag.String("min", "", "Selection volume min corner as x,y,z.")
	maxCorner := flag.String("max", "", "Selection volume max corner as x,y,z.")

	toolDiameter := flag.Float64("tool-diameter", 0, "Cutter diameter in mm.")
	stepover := flag.Float64("stepover", 0, "Row spacing as a fraction of tool diameter, (0,1].")
	stepdown := flag.Float64("stepdown", 0, "Depth increment per layer in mm.")
	feedRate := flag.Float64("feed-rate", 0, "Cutting feed rate in mm/min.")
	safeZ := flag.Float64("safe-z", 0, "Clearance height for rapid moves in mm.")

	statsOnly := flag.Bool("stats", false, "Print mesh statistics and exit.")
	demo := flag.String("demo", "", "Machine a generated blank instead of a file: box, cylinder or dome.")
	demoSize := flag.Float64("demo-size", 10, "Characteristic size of the demo blank in mm.")
	output := flag.String("o", "", "Output file for the program (default stdout).")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: watch-cnc [flags] [model.stl]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := Config{
		JobPath:    *jobPath,
		Demo:       *demo,
		DemoSize:   *demoSize,
		StatsOnly:  *statsOnly,
		OutputPath: *output,
	}

	if args := flag.Args(); len(args) > 0 {
		if len(args) > 1 {
			flag.Usage()
			os.Exit(2)
		}
		cfg.ModelPath = args[0]
	}

	// Only forward parameters the user actually set, so job-script and
	// default values survive.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "tool-diameter":
			cfg.Overrides.ToolDiameter = toolDiameter
		case "stepover":
			cfg.Overrides.StepoverFraction = stepover
		case "stepdown":
			cfg.Overrides.Stepdown = stepdown
		case "feed-rate":
			cfg.Overrides.FeedRate = feedRate
		case "safe-z":
			cfg.Overrides.SafeZ = safeZ
		}
	})

	if (*minCorner == "") != (*maxCorner == "") {
		log.Fatal("-min and -max must be given together")
	}
	if *minCorner != "" {
		minV, err := parseVec3(*minCorner)
		if err != nil {
			log.Fatalf("-min: %v", err)
		}
		maxV, err := parseVec3(*maxCorner)
		if err != nil {
			log.Fatalf("-max: %v", err)
		}
		cfg.Selection = &geom.Box3{Min: minV, Max: maxV}
	}

	if err := NewApp().Run(cfg); err != nil {
		log.Fatal(err)
	}
}

// parseVec3 parses "x,y,z" into a vector.
func parseVec3(s string) (v3.Vec, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return v3.Vec{}, fmt.Errorf("want x,y,z, got %q", s)
	}
	var f [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return v3.Vec{}, fmt.Errorf("component %d of %q: %v", i+1, s, err)
		}
		f[i] = v
	}
	return v3.Vec{X: f[0], Y: f[1], Z: f[2]}, nil
}
