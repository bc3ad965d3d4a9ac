package loader

import (
	"os"
	"path/filepath"
	"testing"

	"pipecheck/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSnapshot = `
unit: ee_to_csv
namespace: pipestd
traits: [Sink, Source]
items:
  - name: main
    kind: function
    body:
      kind: block
      exprs:
        - kind: call
          call_site: pump
  - name: pump
    kind: function
    body:
      kind: lit
  - name: lookup
    kind: function
    terminating: true
    body:
      kind: loop
      body:
        kind: block
  - name: CsvSink
    kind: type
    visibility: public
  - name: csv_sink_impl
    kind: impl
    trait: [pipestd, Sink]
    target: CsvSink
`

func TestParse_Sample(t *testing.T) {
	snap, err := Parse([]byte(sampleSnapshot))
	require.NoError(t, err)

	u := snap.Unit
	assert.Equal(t, "ee_to_csv", u.Name())
	assert.Equal(t, "pipestd", snap.Namespace)
	assert.Len(t, u.Items(), 5)

	t.Run("Function bodies decode", func(t *testing.T) {
		mainID, ok := u.ResolveCall("main")
		require.True(t, ok)
		body, ok := u.BodyOf(mainID)
		require.True(t, ok)
		require.Equal(t, model.KindBlock, body.Kind)
		require.Len(t, body.Exprs, 1)
		assert.Equal(t, model.KindCall, body.Exprs[0].Kind)
		assert.Equal(t, "pump", body.Exprs[0].CallSite)
	})

	t.Run("Terminating flag carried through", func(t *testing.T) {
		id, ok := u.ResolveCall("lookup")
		require.True(t, ok)
		assert.True(t, u.IsTerminating(id))
	})

	t.Run("Trusted namespace populated", func(t *testing.T) {
		assert.True(t, u.LookupTrait([]string{"pipestd", "Sink"}))
		assert.True(t, u.LookupTrait([]string{"pipestd", "Source"}))
	})

	t.Run("Impl resolves", func(t *testing.T) {
		implID, ok := u.ResolveCall("csv_sink_impl")
		require.True(t, ok)
		trait, ok := u.TraitPathOf(implID)
		require.True(t, ok)
		assert.Equal(t, []string{"pipestd", "Sink"}, trait)
		_, ok = u.TargetTypeOf(implID)
		assert.True(t, ok)
	})
}

func TestParse_HashStable(t *testing.T) {
	first, err := Parse([]byte(sampleSnapshot))
	require.NoError(t, err)
	second, err := Parse([]byte(sampleSnapshot))
	require.NoError(t, err)

	assert.NotEmpty(t, first.Hash)
	assert.Equal(t, first.Hash, second.Hash)
}

func TestParse_SchemaRejections(t *testing.T) {
	cases := map[string]string{
		"unknown item kind": `
items:
  - name: f
    kind: widget
`,
		"missing name": `
items:
  - kind: function
`,
		"missing items": `
unit: demo
`,
		"traits not strings": `
items: []
traits: [{bad: true}]
`,
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestParse_DefaultNamespace(t *testing.T) {
	snap, err := Parse([]byte("items: []\ntraits: [Sink, Source]\n"))
	require.NoError(t, err)
	assert.Equal(t, "pipestd", snap.Namespace)
	assert.True(t, snap.Unit.LookupTrait([]string{"pipestd", "Sink"}))
}

func TestLoad_FromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleSnapshot), 0o644))

	snap, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ee_to_csv", snap.Unit.Name())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
