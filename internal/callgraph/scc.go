package callgraph

import "pipecheck/internal/model"

// components computes strongly-connected components with Tarjan's
// algorithm. It returns a component index per node and the size of each
// component. One pass over the graph replaces per-edge reachability
// queries: a callee can reach back to its caller exactly when both ends of
// the edge share a non-trivial component.
func (g *Graph) components() (map[model.DefID]int, []int) {
	index := make(map[model.DefID]int, len(g.Nodes))
	lowlink := make(map[model.DefID]int, len(g.Nodes))
	onStack := make(map[model.DefID]bool, len(g.Nodes))
	comp := make(map[model.DefID]int, len(g.Nodes))

	var (
		stack []model.DefID
		sizes []int
		next  int
	)

	var strongconnect func(v model.DefID)
	strongconnect = func(v model.DefID) {
		index[v] = next
		lowlink[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.Edges[v] {
			if _, visited := index[w]; !visited {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] && index[w] < lowlink[v] {
				lowlink[v] = index[w]
			}
		}

		if lowlink[v] == index[v] {
			id := len(sizes)
			size := 0
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				comp[w] = id
				size++
				if w == v {
					break
				}
			}
			sizes = append(sizes, size)
		}
	}

	for _, v := range g.Nodes {
		if _, visited := index[v]; !visited {
			strongconnect(v)
		}
	}
	return comp, sizes
}
