// Package callgraph builds the in-unit call graph and detects function
// recursion, both direct and transitive.
package callgraph

import (
	"sort"

	"pipecheck/internal/model"
)

// Graph is the directed call graph over a unit's function items. Edges
// originate only from non-terminating functions; functions carrying the
// always-terminates fact keep their node but contribute no outgoing edges.
// Built once per verification run, immutable afterwards.
type Graph struct {
	Nodes []model.DefID
	Edges map[model.DefID][]model.DefID
}

// Build enumerates each function item's direct in-unit callees. Call sites
// that resolve outside the unit are trusted and dropped. Adjacency lists
// are sorted and deduplicated so traversal order is reproducible.
func Build(u *model.Unit) *Graph {
	g := &Graph{Edges: make(map[model.DefID][]model.DefID)}

	for _, id := range u.Items() {
		it, ok := u.Item(id)
		if !ok || it.Kind != model.ItemFunction {
			continue
		}
		g.Nodes = append(g.Nodes, id)
		if it.Terminating {
			continue
		}

		seen := make(map[model.DefID]bool)
		collectCallees(u, it.Body, func(callee model.DefID) {
			if !seen[callee] {
				seen[callee] = true
				g.Edges[id] = append(g.Edges[id], callee)
			}
		})
		sort.Slice(g.Edges[id], func(a, b int) bool {
			return g.Edges[id][a] < g.Edges[id][b]
		})
	}
	return g
}

// collectCallees walks an expression tree and reports every call site that
// resolves to an in-unit function. Bodies of terminating closures and const
// blocks are trusted and not descended into, mirroring the loop checker's
// boundary: a call evaluated at compile time is not a runtime callee of the
// enclosing function.
func collectCallees(u *model.Unit, e *model.Expr, emit func(model.DefID)) {
	if e == nil {
		return
	}
	switch e.Kind {
	case model.KindCall, model.KindMethodCall:
		if id, ok := u.ResolveCall(e.CallSite); ok {
			if it, found := u.Item(id); found && it.Kind == model.ItemFunction {
				emit(id)
			}
		}
	case model.KindConstBlock:
		return
	case model.KindClosure:
		if e.Terminating {
			return
		}
	}

	collectCallees(u, e.Recv, emit)
	for _, a := range e.Args {
		collectCallees(u, a, emit)
	}
	collectCallees(u, e.Cond, emit)
	collectCallees(u, e.Then, emit)
	collectCallees(u, e.Else, emit)
	collectCallees(u, e.Scrutinee, emit)
	for _, a := range e.Arms {
		collectCallees(u, a, emit)
	}
	collectCallees(u, e.Left, emit)
	collectCallees(u, e.Right, emit)
	collectCallees(u, e.Value, emit)
	for _, x := range e.Exprs {
		collectCallees(u, x, emit)
	}
	collectCallees(u, e.Tail, emit)
	collectCallees(u, e.Base, emit)
	collectCallees(u, e.Body, emit)
}
