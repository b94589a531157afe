package graph

import (
	"sort"

	"github.com/si-23/py-import-cycles/internal/pymodule"
)

// Graph is the assembled dependency graph: every discovered module mapped to
// the ordered, deduplicated set of modules it imports. It is built once and
// read-only afterwards; detection strategies may share it freely.
type Graph struct {
	modules map[pymodule.Name]pymodule.Module
	edges   map[pymodule.Name][]pymodule.Name
}

func New() *Graph {
	return &Graph{
		modules: make(map[pymodule.Name]pymodule.Module),
		edges:   make(map[pymodule.Name][]pymodule.Name),
	}
}

// Add records one module together with its resolved imports. Import targets
// are registered as vertices even when they were never scanned themselves,
// so edges into packages discovered only as targets stay visible. Adding is
// idempotent and order-independent in its result.
func (g *Graph) Add(m pymodule.Module, imports []pymodule.Module) {
	g.modules[m.Name()] = m
	if _, ok := g.edges[m.Name()]; !ok {
		g.edges[m.Name()] = nil
	}

	seen := make(map[pymodule.Name]bool, len(g.edges[m.Name()]))
	for _, to := range g.edges[m.Name()] {
		seen[to] = true
	}
	for _, imp := range imports {
		if _, ok := g.modules[imp.Name()]; !ok {
			g.modules[imp.Name()] = imp
		}
		if seen[imp.Name()] {
			continue
		}
		seen[imp.Name()] = true
		g.edges[m.Name()] = append(g.edges[m.Name()], imp.Name())
	}
}

// Names returns all vertices in name order, the deterministic traversal
// order for every strategy.
func (g *Graph) Names() []pymodule.Name {
	names := make([]pymodule.Name, 0, len(g.modules))
	for name := range g.modules {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

func (g *Graph) Module(name pymodule.Name) (pymodule.Module, bool) {
	m, ok := g.modules[name]
	return m, ok
}

// Imports returns the ordered import list of one module.
func (g *Graph) Imports(name pymodule.Name) []pymodule.Name {
	return g.edges[name]
}

// HasEdge reports whether from imports to.
func (g *Graph) HasEdge(from, to pymodule.Name) bool {
	for _, n := range g.edges[from] {
		if n == to {
			return true
		}
	}
	return false
}

func (g *Graph) ModuleCount() int { return len(g.modules) }

func (g *Graph) EdgeCount() int {
	count := 0
	for _, targets := range g.edges {
		count += len(targets)
	}
	return count
}

// successors snapshots the adjacency for the detection strategies.
func (g *Graph) successors() map[pymodule.Name][]pymodule.Name {
	return g.edges
}
