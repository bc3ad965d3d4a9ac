package callgraph

import (
	"testing"

	"pipecheck/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildUnit(t *testing.T, populate func(b *model.Builder)) *model.Unit {
	t.Helper()
	b := model.NewBuilder("demo")
	populate(b)
	u, err := b.Build()
	require.NoError(t, err)
	return u
}

func TestBuild_ResolvesInUnitCalls(t *testing.T) {
	var a, bID model.DefID
	u := buildUnit(t, func(b *model.Builder) {
		a = b.Function("a", model.Block(
			model.Call("b"),
			model.Call("std.println"), // external, trusted
			model.Call("b"),           // duplicate call site
		))
		bID = b.Function("b", model.Lit())
	})

	g := Build(u)
	assert.Equal(t, []model.DefID{a, bID}, g.Nodes)
	assert.Equal(t, []model.DefID{bID}, g.Edges[a], "external and duplicate callees must be dropped")
	assert.Empty(t, g.Edges[bID])
}

func TestBuild_TerminatingFunctionHasNoEdges(t *testing.T) {
	var term model.DefID
	u := buildUnit(t, func(b *model.Builder) {
		term = b.TerminatingFunction("table", model.Call("helper"))
		b.Function("helper", model.Lit())
	})

	g := Build(u)
	assert.Contains(t, g.Nodes, term)
	assert.Empty(t, g.Edges[term])
}

func TestBuild_SkipsTerminatingClosureBodies(t *testing.T) {
	var f model.DefID
	u := buildUnit(t, func(b *model.Builder) {
		f = b.Function("f", model.Block(
			model.Call("apply", model.Closure(true, model.Call("g"))),
			model.Closure(false, model.Call("h")),
		))
		b.Function("g", model.Lit())
		b.Function("h", model.Lit())
	})

	g := Build(u)
	callees := g.Edges[f]
	require.Len(t, callees, 1)
	hID, _ := u.ResolveCall("h")
	assert.Equal(t, hID, callees[0])
}

func TestRecursions_ThreeCycle(t *testing.T) {
	var a, b2, c model.DefID
	u := buildUnit(t, func(b *model.Builder) {
		a = b.Function("a", model.Call("b"))
		b2 = b.Function("b", model.Call("c"))
		c = b.Function("c", model.Call("a"))
		// Acyclic pair sharing the node set.
		b.Function("x", model.Call("y"))
		b.Function("y", model.Lit())
	})

	got := Recursions(Build(u))
	want := []Recursion{
		{Caller: a, Callee: b2},
		{Caller: b2, Callee: c},
		{Caller: c, Callee: a},
	}
	assert.Equal(t, want, got)
}

func TestRecursions_SelfEdge(t *testing.T) {
	var d model.DefID
	u := buildUnit(t, func(b *model.Builder) {
		d = b.Function("d", model.Call("d"))
	})

	got := Recursions(Build(u))
	assert.Equal(t, []Recursion{{Caller: d, Callee: d}}, got)
}

func TestRecursions_AcyclicChainsClean(t *testing.T) {
	u := buildUnit(t, func(b *model.Builder) {
		b.Function("x", model.Call("y"))
		b.Function("y", model.Call("z"))
		b.Function("z", model.Lit())
		b.Function("p", model.Call("q"))
		b.Function("q", model.Lit())
	})

	assert.Empty(t, Recursions(Build(u)))
}

func TestRecursions_MutualButAcyclicDiamond(t *testing.T) {
	// a -> b, a -> c, b -> d, c -> d: shared callee, no cycle.
	u := buildUnit(t, func(b *model.Builder) {
		b.Function("a", model.Block(model.Call("b"), model.Call("c")))
		b.Function("b", model.Call("d"))
		b.Function("c", model.Call("d"))
		b.Function("d", model.Lit())
	})

	assert.Empty(t, Recursions(Build(u)))
}

func TestBuild_SkipsConstBlockBodies(t *testing.T) {
	// A call evaluated inside a const block happens at compile time; it
	// must not show up as a runtime edge, and in particular must not
	// close a cycle through the enclosing function.
	var f, g model.DefID
	u := buildUnit(t, func(b *model.Builder) {
		f = b.Function("f", model.Block(model.ConstBlock(model.Call("g"))))
		g = b.Function("g", model.Call("f"))
	})

	graph := Build(u)
	assert.Empty(t, graph.Edges[f])
	assert.Equal(t, []model.DefID{f}, graph.Edges[g])
	assert.Empty(t, Recursions(graph))
}

func TestRecursions_TerminatingFullyExempt(t *testing.T) {
	// a -> t -> a would be a cycle, but t carries the always-terminates
	// fact: its outgoing edges are never built, and the call into it is
	// not a violation.
	u := buildUnit(t, func(b *model.Builder) {
		b.Function("a", model.Call("t"))
		b.TerminatingFunction("t", model.Call("a"))
	})

	assert.Empty(t, Recursions(Build(u)))
}

func TestRecursions_Idempotent(t *testing.T) {
	u := buildUnit(t, func(b *model.Builder) {
		b.Function("a", model.Call("b"))
		b.Function("b", model.Call("a"))
	})

	first := Recursions(Build(u))
	second := Recursions(Build(u))
	require.Len(t, first, 2)
	assert.Equal(t, first, second)
}
