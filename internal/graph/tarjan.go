package graph

import "github.com/si-23/py-import-cycles/internal/pymodule"

// stronglyConnectedCycles runs Tarjan's index/low-link algorithm and returns
// every cyclic component, members in discovery order. A single vertex only
// counts with a self-edge.
func stronglyConnectedCycles(vertices []pymodule.Name, succ map[pymodule.Name][]pymodule.Name) [][]pymodule.Name {
	components := stronglyConnectedComponents(vertices, succ)

	cycles := make([][]pymodule.Name, 0, len(components))
	for _, component := range components {
		if len(component) > 1 || hasSelfEdge(component[0], succ) {
			cycles = append(cycles, component)
		}
	}
	return cycles
}

func hasSelfEdge(v pymodule.Name, succ map[pymodule.Name][]pymodule.Name) bool {
	for _, w := range succ[v] {
		if w == v {
			return true
		}
	}
	return false
}

func stronglyConnectedComponents(vertices []pymodule.Name, succ map[pymodule.Name][]pymodule.Name) [][]pymodule.Name {
	index := 0
	stack := make([]pymodule.Name, 0, len(vertices))
	onStack := make(map[pymodule.Name]bool, len(vertices))
	indexByNode := make(map[pymodule.Name]int, len(vertices))
	lowLink := make(map[pymodule.Name]int, len(vertices))
	components := make([][]pymodule.Name, 0)

	var strongConnect func(v pymodule.Name)
	strongConnect = func(v pymodule.Name) {
		indexByNode[v] = index
		lowLink[v] = index
		index++

		stack = append(stack, v)
		onStack[v] = true

		for _, w := range succ[v] {
			if _, seen := indexByNode[w]; !seen {
				strongConnect(w)
				if lowLink[w] < lowLink[v] {
					lowLink[v] = lowLink[w]
				}
			} else if onStack[w] && indexByNode[w] < lowLink[v] {
				lowLink[v] = indexByNode[w]
			}
		}

		if lowLink[v] != indexByNode[v] {
			return
		}

		component := make([]pymodule.Name, 0)
		for {
			last := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[last] = false
			component = append(component, last)
			if last == v {
				break
			}
		}
		// The stack pops in reverse discovery order.
		for i, j := 0, len(component)-1; i < j; i, j = i+1, j-1 {
			component[i], component[j] = component[j], component[i]
		}
		components = append(components, component)
	}

	for _, v := range vertices {
		if _, seen := indexByNode[v]; !seen {
			strongConnect(v)
		}
	}

	return components
}
