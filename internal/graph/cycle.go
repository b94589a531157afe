package graph

import (
	"sort"
	"strings"

	"github.com/si-23/py-import-cycles/internal/pymodule"
)

// Cycle is an open chain (m0, ..., mk); the closing edge mk -> m0 is
// implicit. Cycles over the same member set are considered the same cycle;
// one representative chain is retained.
type Cycle []pymodule.Module

// Members returns the sorted member names, the canonical identity of the
// cycle.
func (c Cycle) Members() []pymodule.Name {
	members := make([]pymodule.Name, len(c))
	for i, m := range c {
		members[i] = m.Name()
	}
	sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
	return members
}

// Key is the canonical de-duplication key: the sorted member set.
func (c Cycle) Key() string {
	parts := make([]string, len(c))
	for i, name := range c.Members() {
		parts[i] = name.String()
	}
	return strings.Join(parts, "\x00")
}

// Closed returns the chain with the first module repeated at the end, the
// shape reports and serializers work with.
func (c Cycle) Closed() []pymodule.Module {
	if len(c) == 0 {
		return nil
	}
	closed := make([]pymodule.Module, 0, len(c)+1)
	closed = append(closed, c...)
	return append(closed, c[0])
}

func (c Cycle) String() string {
	var b strings.Builder
	for _, m := range c.Closed() {
		if b.Len() > 0 {
			b.WriteString(" -> ")
		}
		b.WriteString(m.String())
	}
	return b.String()
}

// rotateToLeast rotates a closed walk so it starts at its least member,
// preserving the cyclic edge order. It makes representatives independent of
// the traversal entry point.
func rotateToLeast(chain []pymodule.Name) []pymodule.Name {
	if len(chain) == 0 {
		return chain
	}
	least := 0
	for i, name := range chain {
		if name < chain[least] {
			least = i
		}
	}
	rotated := make([]pymodule.Name, 0, len(chain))
	rotated = append(rotated, chain[least:]...)
	return append(rotated, chain[:least]...)
}

// sortCycles orders cycles by (length, member names) for stable output.
func sortCycles(cycles []Cycle) {
	sort.Slice(cycles, func(i, j int) bool {
		if len(cycles[i]) != len(cycles[j]) {
			return len(cycles[i]) < len(cycles[j])
		}
		for k := range cycles[i] {
			if cycles[i][k].Name() != cycles[j][k].Name() {
				return cycles[i][k].Name() < cycles[j][k].Name()
			}
		}
		return false
	})
}
