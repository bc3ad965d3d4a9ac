// Package loader decodes serialized unit snapshots. The snapshot is the
// boundary with the front end: an already-resolved model of one compiled
// unit, written as YAML by the code-generation layer.
package loader

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"pipecheck/internal/model"
	"pipecheck/internal/registry"
)

// Snapshot is a loaded unit plus the metadata the verifier run needs.
type Snapshot struct {
	Unit *model.Unit
	// Namespace the capability traits live in.
	Namespace string
	// Hash is the sha256 of the snapshot document; identical documents
	// must verify identically, so it keys stored reports.
	Hash string
}

type document struct {
	Unit      string    `yaml:"unit"`
	Namespace string    `yaml:"namespace"`
	Traits    []string  `yaml:"traits"`
	Items     []docItem `yaml:"items"`
}

type docItem struct {
	Name        string      `yaml:"name"`
	Kind        string      `yaml:"kind"`
	Path        []string    `yaml:"path"`
	Terminating bool        `yaml:"terminating"`
	Visibility  string      `yaml:"visibility"`
	Trait       []string    `yaml:"trait"`
	Target      string      `yaml:"target"`
	Body        *model.Expr `yaml:"body"`
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("model.schema.json", strings.NewReader(modelSchema)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = compiler.Compile("model.schema.json")
	})
	return schema, schemaErr
}

// Load reads a snapshot file from disk.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}
	return Parse(data)
}

// Parse validates and decodes a snapshot document.
func Parse(data []byte) (*Snapshot, error) {
	if err := validate(data); err != nil {
		return nil, fmt.Errorf("snapshot rejected by schema: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	ns := doc.Namespace
	if ns == "" {
		ns = registry.DefaultNamespace
	}

	b := model.NewBuilder(doc.Unit)
	for _, trait := range doc.Traits {
		b.Trait(ns, trait)
	}
	for _, it := range doc.Items {
		item, err := toItem(it)
		if err != nil {
			return nil, err
		}
		b.AddItem(item)
	}
	u, err := b.Build()
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(data)
	return &Snapshot{
		Unit:      u,
		Namespace: ns,
		Hash:      hex.EncodeToString(sum[:]),
	}, nil
}

func toItem(it docItem) (model.Item, error) {
	out := model.Item{Name: it.Name, Path: it.Path}
	switch model.ItemKind(it.Kind) {
	case model.ItemFunction:
		out.Kind = model.ItemFunction
		out.Body = it.Body
		out.Terminating = it.Terminating
	case model.ItemType:
		out.Kind = model.ItemType
		out.Visibility = model.Visibility(it.Visibility)
	case model.ItemImpl:
		out.Kind = model.ItemImpl
		out.TraitPath = it.Trait
		out.Target = it.Target
	default:
		return model.Item{}, fmt.Errorf("item %q has unknown kind %q", it.Name, it.Kind)
	}
	return out, nil
}

// validate checks the raw document against the embedded schema. YAML is
// round-tripped through JSON first so the validator sees canonical types.
func validate(data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	var canonical any
	if err := json.Unmarshal(encoded, &canonical); err != nil {
		return err
	}
	s, err := compiledSchema()
	if err != nil {
		return err
	}
	return s.Validate(canonical)
}
