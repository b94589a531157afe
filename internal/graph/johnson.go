package graph

import "github.com/si-23/py-import-cycles/internal/pymodule"

// elementaryCircuits enumerates every simple cycle exactly once (Johnson's
// algorithm). Vertices are processed in name order; for the current least
// vertex s the search is restricted to the strongly connected subgraph
// containing s within the vertices >= s. A blocked set plus a
// blocking-dependency map prevents re-walking paths that cannot currently
// close back to s; finding a circuit through a vertex unblocks it again.
func elementaryCircuits(vertices []pymodule.Name, succ map[pymodule.Name][]pymodule.Name) [][]pymodule.Name {
	var circuits [][]pymodule.Name

	for start := 0; start < len(vertices); start++ {
		s := vertices[start]

		comp := componentContaining(s, vertices[start:], succ)
		if len(comp) == 0 {
			continue
		}
		inComp := make(map[pymodule.Name]bool, len(comp))
		for _, v := range comp {
			inComp[v] = true
		}

		blocked := make(map[pymodule.Name]bool, len(comp))
		blockedOn := make(map[pymodule.Name][]pymodule.Name, len(comp))
		var stack []pymodule.Name

		var unblock func(v pymodule.Name)
		unblock = func(v pymodule.Name) {
			blocked[v] = false
			waiters := blockedOn[v]
			blockedOn[v] = nil
			for _, w := range waiters {
				if blocked[w] {
					unblock(w)
				}
			}
		}

		var circuit func(v pymodule.Name) bool
		circuit = func(v pymodule.Name) bool {
			found := false
			stack = append(stack, v)
			blocked[v] = true

			for _, w := range succ[v] {
				if !inComp[w] {
					continue
				}
				if w == s {
					chain := make([]pymodule.Name, len(stack))
					copy(chain, stack)
					circuits = append(circuits, chain)
					found = true
				} else if !blocked[w] && circuit(w) {
					found = true
				}
			}

			if found {
				unblock(v)
			} else {
				for _, w := range succ[v] {
					if inComp[w] {
						blockedOn[w] = appendMissing(blockedOn[w], v)
					}
				}
			}

			stack = stack[:len(stack)-1]
			return found
		}

		circuit(s)
	}

	return circuits
}

// componentContaining returns the strongly connected component of s within
// the given vertex subset, or nil when s cannot reach itself there.
func componentContaining(s pymodule.Name, subset []pymodule.Name, succ map[pymodule.Name][]pymodule.Name) []pymodule.Name {
	allowed := make(map[pymodule.Name]bool, len(subset))
	for _, v := range subset {
		allowed[v] = true
	}
	restricted := make(map[pymodule.Name][]pymodule.Name, len(subset))
	for _, v := range subset {
		for _, w := range succ[v] {
			if allowed[w] {
				restricted[v] = append(restricted[v], w)
			}
		}
	}

	for _, component := range stronglyConnectedComponents(subset, restricted) {
		for _, v := range component {
			if v == s {
				if len(component) > 1 || hasSelfEdge(s, restricted) {
					return component
				}
				return nil
			}
		}
	}
	return nil
}

func appendMissing(list []pymodule.Name, v pymodule.Name) []pymodule.Name {
	for _, n := range list {
		if n == v {
			return list
		}
	}
	return append(list, v)
}
