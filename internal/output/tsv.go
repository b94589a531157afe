package output

import (
	"fmt"
	"strings"

	"github.com/si-23/py-import-cycles/internal/graph"
)

// GenerateTSV emits one row per cycle edge, closing edge included.
func GenerateTSV(cycles []graph.Cycle) string {
	var buf strings.Builder

	buf.WriteString("Cycle\tFrom\tTo\n")
	for i, cycle := range cycles {
		closed := cycle.Closed()
		for j := 0; j+1 < len(closed); j++ {
			buf.WriteString(fmt.Sprintf("%d\t%s\t%s\n", i+1, closed[j].Name(), closed[j+1].Name()))
		}
	}

	return buf.String()
}
