package graph

import (
	"github.com/si-23/py-import-cycles/internal/errors"
	"github.com/si-23/py-import-cycles/internal/pymodule"
)

type Strategy string

const (
	// StrategyDFS walks every vertex depth-first with an explicit path
	// stack. Correct but non-minimal: the same circuit may surface from
	// several entry points before de-duplication.
	StrategyDFS Strategy = "dfs"
	// StrategyTarjan reports each strongly connected component of size > 1
	// as one cycle.
	StrategyTarjan Strategy = "tarjan"
	// StrategyJohnson enumerates every elementary circuit exactly once.
	// Output-sensitive: densely cyclic graphs can make this the slow path.
	StrategyJohnson Strategy = "johnson"
)

func ParseStrategy(text string) (Strategy, error) {
	switch Strategy(text) {
	case StrategyDFS, StrategyTarjan, StrategyJohnson:
		return Strategy(text), nil
	}
	return "", errors.Newf(errors.CodeValidationError, "unknown strategy %q (want dfs, tarjan or johnson)", text)
}

// Detect runs the selected strategy over the graph and returns the cycles,
// de-duplicated by member set and sorted by (length, member names). An empty
// graph yields no cycles; disconnected graphs are handled transparently.
func Detect(strategy Strategy, g *Graph) ([]Cycle, error) {
	vertices := g.Names()
	succ := g.successors()

	var chains [][]pymodule.Name
	rotate := true
	switch strategy {
	case StrategyDFS:
		chains = depthFirstSearch(vertices, succ)
	case StrategyTarjan:
		// Component members are not necessarily a closed walk, so their
		// discovery order is kept as-is.
		chains = stronglyConnectedCycles(vertices, succ)
		rotate = false
	case StrategyJohnson:
		chains = elementaryCircuits(vertices, succ)
	default:
		return nil, errors.Newf(errors.CodeValidationError, "unknown strategy %q", strategy)
	}

	seen := make(map[string]bool)
	var cycles []Cycle
	for _, chain := range chains {
		if rotate {
			chain = rotateToLeast(chain)
		}
		cycle := make(Cycle, len(chain))
		for i, name := range chain {
			m, ok := g.Module(name)
			if !ok {
				err := errors.New(errors.CodeInternal, "cycle member is not a graph vertex")
				return nil, errors.AddContext(err, errors.CtxModule, string(name))
			}
			cycle[i] = m
		}
		if key := cycle.Key(); !seen[key] {
			seen[key] = true
			cycles = append(cycles, cycle)
		}
	}

	sortCycles(cycles)
	return cycles, nil
}
