// Package gcode renders a toolpath into a textual motion program using
// the common industrial command vocabulary (G90/G21/G0/G1/M30, comment
// lines behind ";", a "%" bracket on its own line). Token spelling and
// operand order are fixed for controller compatibility.
package gcode

import (
	"fmt"
	"strings"
	"time"

	"github.com/shixin627/watch-cnc/pkg/toolpath"
)

// progressCommentEvery is the cutting-move interval between progress
// comments within a layer.
const progressCommentEvery = 50

var bannerLine = "; " + strings.Repeat("=", 60)

// Emit serializes a path and its parameters into a complete program.
// The output is a pure function of its inputs except for the generation
// timestamp comment in the header.
func Emit(path *toolpath.Path, p toolpath.Params) string {
	var b strings.Builder
	layers := path.Layers
	total := len(layers)

	fmt.Fprintln(&b, "%")
	fmt.Fprintln(&b, bannerLine)
	fmt.Fprintln(&b, "; 2.5D surface scanning toolpath")
	fmt.Fprintf(&b, "; Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&b, "; Tool diameter: %.3f, stepover: %.3f, stepdown: %.3f\n",
		p.ToolDiameter, p.StepoverFraction, p.Stepdown)
	fmt.Fprintf(&b, "; Feed rate: %.3f, safe Z: %.3f\n", p.FeedRate, p.SafeZ)
	fmt.Fprintf(&b, "; Layers: %d, total points: %d\n", total, path.TotalPoints())
	fmt.Fprintln(&b, bannerLine)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "; ---------- initialization ----------")
	fmt.Fprintln(&b, "G90                 ; absolute positioning")
	fmt.Fprintln(&b, "G21                 ; metric units")
	fmt.Fprintln(&b, "G40 G49 G80         ; cancel compensation and canned cycles")
	fmt.Fprintln(&b, "G94                 ; feed per minute")
	fmt.Fprintf(&b, "F%.3f\n", p.FeedRate)
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "G0 Z%.3f\n", p.SafeZ)
	fmt.Fprintln(&b, "G0 X0.000 Y0.000")
	fmt.Fprintln(&b)

	for i := range layers {
		emitLayer(&b, &layers[i], i, total, p)
	}

	fmt.Fprintln(&b, "; ---------- machining complete ----------")
	fmt.Fprintf(&b, "G0 Z%.3f\n", p.SafeZ)
	fmt.Fprintln(&b, "G0 X0.000 Y0.000")
	fmt.Fprintln(&b, "M5                  ; spindle stop")
	fmt.Fprintln(&b, "M30                 ; program end")
	fmt.Fprintln(&b, "%")

	return b.String()
}

func emitLayer(b *strings.Builder, l *toolpath.Layer, i, total int, p toolpath.Params) {
	fmt.Fprintf(b, "; ====== layer %d/%d: Z %.3f (%d points) ======\n",
		i+1, total, l.Z, len(l.Points))
	if len(l.Points) == 0 {
		fmt.Fprintln(b, "; (no material to remove in this layer)")
		fmt.Fprintln(b)
		return
	}

	first := l.Points[0]
	fmt.Fprintf(b, "G0 Z%.3f\n", p.SafeZ)
	fmt.Fprintf(b, "G0 X%.3f Y%.3f\n", first.X, first.Y)
	fmt.Fprintf(b, "G1 Z%.3f\n", first.Z)

	for j := 1; j < len(l.Points); j++ {
		pt := l.Points[j]
		fmt.Fprintf(b, "G1 X%.3f Y%.3f Z%.3f\n", pt.X, pt.Y, pt.Z)
		if (j+1)%progressCommentEvery == 0 {
			fmt.Fprintf(b, "; point %d/%d\n", j+1, len(l.Points))
		}
	}

	fmt.Fprintf(b, "G0 Z%.3f\n", p.SafeZ)
	fmt.Fprintln(b)
}
