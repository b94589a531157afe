package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/si-23/py-import-cycles/internal/graph"
	"github.com/si-23/py-import-cycles/internal/pymodule"
)

// GraphMode selects which edges a DOT export carries.
type GraphMode string

const (
	GraphAll        GraphMode = "all"
	GraphOnlyCycles GraphMode = "only-cycles"
)

func ParseGraphMode(s string) (GraphMode, error) {
	switch GraphMode(s) {
	case GraphAll, GraphOnlyCycles:
		return GraphMode(s), nil
	}
	return "", fmt.Errorf("unknown graph mode %q (expected all or only-cycles)", s)
}

type DOTGenerator struct {
	graph *graph.Graph
	mode  GraphMode
}

func NewDOTGenerator(g *graph.Graph, mode GraphMode) *DOTGenerator {
	return &DOTGenerator{graph: g, mode: mode}
}

func (d *DOTGenerator) Generate(cycles []graph.Cycle) string {
	var buf strings.Builder

	buf.WriteString("digraph imports {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8, penwidth=1.2];\n")
	buf.WriteString("  splines=polyline;\n")
	buf.WriteString("  overlap=false;\n\n")

	cycleEdges := make(map[pymodule.Name]map[pymodule.Name]bool)
	cycleMembers := make(map[pymodule.Name]bool)
	for _, cycle := range cycles {
		closed := cycle.Closed()
		for i := 0; i+1 < len(closed); i++ {
			from := closed[i].Name()
			to := closed[i+1].Name()
			if cycleEdges[from] == nil {
				cycleEdges[from] = make(map[pymodule.Name]bool)
			}
			cycleEdges[from][to] = true
			cycleMembers[from] = true
		}
	}

	for _, name := range d.graph.Names() {
		if d.mode == GraphOnlyCycles && !cycleMembers[name] {
			continue
		}
		buf.WriteString(fmt.Sprintf("  %s;\n", d.node(name)))
	}
	buf.WriteString("\n")

	for _, from := range d.graph.Names() {
		targets := append([]pymodule.Name(nil), d.graph.Imports(from)...)
		sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })
		for _, to := range targets {
			inCycle := cycleEdges[from] != nil && cycleEdges[from][to]
			if d.mode == GraphOnlyCycles && !inCycle {
				continue
			}
			if inCycle {
				buf.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [color=\"red\", penwidth=3.0];\n", from, to))
			} else {
				buf.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\";\n", from, to))
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// node renders a vertex declaration. Packages are boxed so that the
// package/module distinction survives into the rendered graph.
func (d *DOTGenerator) node(name pymodule.Name) string {
	mod, ok := d.graph.Module(name)
	shape := "ellipse"
	if ok {
		switch mod.Kind() {
		case pymodule.KindRegularPackage, pymodule.KindNamespacePackage:
			shape = "box"
		}
	}
	return fmt.Sprintf("\"%s\" [shape=%s]", name, shape)
}
