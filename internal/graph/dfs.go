package graph

import "github.com/si-23/py-import-cycles/internal/pymodule"

// depthFirstSearch traverses every vertex in name order, keeping the current
// path as an explicit stack. Reaching a neighbor already on the path emits
// the path suffix from that neighbor onward as a cycle without descending
// further. A vertex is marked done only after its whole subtree is explored,
// so it may sit on several active paths before being finalized but is never
// re-explored afterwards.
func depthFirstSearch(vertices []pymodule.Name, succ map[pymodule.Name][]pymodule.Name) [][]pymodule.Name {
	done := make(map[pymodule.Name]bool, len(vertices))
	var cycles [][]pymodule.Name

	var walk func(u pymodule.Name, path []pymodule.Name)
	walk = func(u pymodule.Name, path []pymodule.Name) {
		if done[u] {
			return
		}
		for _, v := range succ[u] {
			if idx := indexOf(path, v); idx >= 0 {
				chain := make([]pymodule.Name, len(path)-idx)
				copy(chain, path[idx:])
				cycles = append(cycles, chain)
				continue
			}
			walk(v, append(path, v))
		}
		done[u] = true
	}

	for _, v := range vertices {
		walk(v, nil)
	}
	return cycles
}

func indexOf(path []pymodule.Name, v pymodule.Name) int {
	for i, n := range path {
		if n == v {
			return i
		}
	}
	return -1
}
