package output

import (
	"fmt"
	"io"

	"github.com/si-23/py-import-cycles/internal/graph"
)

// WriteReport prints the human-readable cycle summary. The report goes to
// the given writer (stderr in the CLI) so that machine-readable output on
// stdout stays clean.
func WriteReport(w io.Writer, cycles []graph.Cycle) {
	if len(cycles) == 0 {
		fmt.Fprintln(w, "No import cycles found")
		return
	}

	fmt.Fprintf(w, "Found %d import cycles\n", len(cycles))
	for i, cycle := range cycles {
		fmt.Fprintf(w, "  %d. %s\n", i+1, cycle)
	}
}
