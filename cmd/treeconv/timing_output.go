package main

import (
	"fmt"
	"io"

	"treeconv/internal/observ"
)

// printPhaseTimings prints the convert and merge phases; per-unit phases are
// left to the trace.
func printPhaseTimings(out io.Writer, report observ.Report) {
	if out == nil {
		return
	}
	for _, p := range report.Phases {
		if p.Name != "convert" && p.Name != "merge" {
			continue
		}
		line := fmt.Sprintf("%s %.1f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			line += " (" + p.Note + ")"
		}
		fmt.Fprintln(out, line)
	}
}
