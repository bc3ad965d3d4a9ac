package callgraph

import (
	"sort"

	"pipecheck/internal/model"
)

// Recursion is one call edge that participates in a cycle.
type Recursion struct {
	Caller model.DefID `json:"caller"`
	Callee model.DefID `json:"callee"`
}

// Recursions reports every edge of the graph that lies on a cycle. Unlike
// the loop check this is exhaustive: all offending edges are returned, not
// just the first. Terminating functions are exempt on both ends — the
// builder gave them no outgoing edges, and an edge into one can never
// close a cycle through it.
func Recursions(g *Graph) []Recursion {
	comp, sizes := g.components()

	var out []Recursion
	for _, caller := range g.Nodes {
		for _, callee := range g.Edges[caller] {
			if caller == callee || (comp[caller] == comp[callee] && sizes[comp[caller]] > 1) {
				out = append(out, Recursion{Caller: caller, Callee: callee})
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Caller != out[j].Caller {
			return out[i].Caller < out[j].Caller
		}
		return out[i].Callee < out[j].Callee
	})
	return out
}
