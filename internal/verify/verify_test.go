package verify

import (
	"encoding/json"
	"testing"

	"pipecheck/internal/model"
	"pipecheck/internal/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildUnit(t *testing.T, populate func(b *model.Builder)) *model.Unit {
	t.Helper()
	b := model.NewBuilder("demo")
	b.Trait("pipestd", registry.SinkTrait)
	b.Trait("pipestd", registry.SourceTrait)
	populate(b)
	u, err := b.Build()
	require.NoError(t, err)
	return u
}

func TestRun_CleanUnitAccepted(t *testing.T) {
	u := buildUnit(t, func(b *model.Builder) {
		b.Function("main", model.Block(model.Call("emit"), model.Call("std.flush")))
		b.Function("emit", model.Lit())
		b.Type("Record", model.VisibilityPublic)
		b.Impl("record_source", []string{"pipestd", registry.SourceTrait}, "Record")
	})

	runner := &Runner{Workers: 2, Namespace: "pipestd"}
	report, err := runner.Run(u)
	require.NoError(t, err)

	assert.True(t, report.OK())
	assert.Zero(t, report.Findings())
	assert.Equal(t, "demo", report.Unit)
	require.NotNil(t, report.Capabilities)
	assert.Len(t, report.Capabilities.Sources, 1)
	assert.Len(t, report.Capabilities.PublicTypes, 1)
}

func TestRun_CollectsAllViolations(t *testing.T) {
	u := buildUnit(t, func(b *model.Builder) {
		b.Function("spin", model.Loop(model.Block()))
		b.Function("ping", model.Call("pong"))
		b.Function("pong", model.Call("ping"))
	})

	report, err := (&Runner{Namespace: "pipestd"}).Run(u)
	require.NoError(t, err)

	assert.False(t, report.OK())
	require.NotNil(t, report.Loop)
	assert.Equal(t, "demo.spin", report.Loop.Path)
	assert.Len(t, report.Recursions, 2)
	assert.Equal(t, 3, report.Findings())
}

func TestRun_SetupErrorAborts(t *testing.T) {
	b := model.NewBuilder("demo")
	b.Function("main", model.Lit())
	u, err := b.Build()
	require.NoError(t, err)

	_, err = (&Runner{Namespace: "pipestd"}).Run(u)
	require.Error(t, err)

	var setup *registry.SetupError
	assert.ErrorAs(t, err, &setup)
}

func TestRun_IdempotentByteForByte(t *testing.T) {
	u := buildUnit(t, func(b *model.Builder) {
		b.Function("spin", model.Loop(model.Block()))
		b.Function("leap", model.ForDesugar(model.Lit()))
		b.Function("ping", model.Call("pong"))
		b.Function("pong", model.Call("ping"))
		b.Type("Record", model.VisibilityPublic)
		b.Impl("record_sink", []string{"pipestd", registry.SinkTrait}, "Record")
	})

	runner := &Runner{Workers: 4, Namespace: "pipestd"}

	first, err := runner.Run(u)
	require.NoError(t, err)
	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := runner.Run(u)
		require.NoError(t, err)
		againJSON, err := json.Marshal(again)
		require.NoError(t, err)
		assert.Equal(t, string(firstJSON), string(againJSON))
	}
}
