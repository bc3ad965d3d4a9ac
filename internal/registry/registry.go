// Package registry classifies a unit's public surface into the roles the
// pipeline framework understands: plain public types, data sinks, and data
// sources.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"pipecheck/internal/model"
)

// Trait names of the two capability identities inside the trusted
// namespace.
const (
	SinkTrait   = "Sink"
	SourceTrait = "Source"
)

// DefaultNamespace is the standard-library-equivalent namespace the
// capability traits live in when no other one is configured.
const DefaultNamespace = "pipestd"

// SetupError is the fatal case: a required capability identity cannot be
// located in the trusted namespace at all, so classification cannot run.
// Per-item misses are not errors and are silently skipped.
type SetupError struct {
	Identity []string
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("capability identity %s not found in trusted namespace", strings.Join(e.Identity, "."))
}

// Classification is the registry's output: three disjoint identifier
// lists, each sorted, plus the resolved path for every public type so the
// downstream code generator can name them.
type Classification struct {
	PublicTypes []model.DefID `json:"public_types"`
	TypePaths   []string      `json:"type_paths"`
	Sinks       []model.DefID `json:"sinks"`
	Sources     []model.DefID `json:"sources"`
}

// Collect enumerates directly-public type declarations and classifies
// every implementation block against the Sink and Source identities.
func Collect(u *model.Unit, namespace string) (*Classification, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	sinkPath := []string{namespace, SinkTrait}
	sourcePath := []string{namespace, SourceTrait}
	if !u.LookupTrait(sinkPath) {
		return nil, &SetupError{Identity: sinkPath}
	}
	if !u.LookupTrait(sourcePath) {
		return nil, &SetupError{Identity: sourcePath}
	}

	c := &Classification{}
	for _, id := range u.Items() {
		it, ok := u.Item(id)
		if !ok {
			continue
		}
		switch it.Kind {
		case model.ItemType:
			if u.VisibilityOf(id) == model.VisibilityPublic {
				c.PublicTypes = append(c.PublicTypes, id)
			}
		case model.ItemImpl:
			trait, ok := u.TraitPathOf(id)
			if !ok {
				continue
			}
			if _, resolved := u.TargetTypeOf(id); !resolved {
				continue
			}
			switch {
			case pathEqual(trait, sinkPath):
				c.Sinks = append(c.Sinks, id)
			case pathEqual(trait, sourcePath):
				c.Sources = append(c.Sources, id)
			}
		}
	}

	// Impl identifiers and type identifiers never alias in a correct
	// model, but keep the registered-elsewhere filter as a safety net.
	c.Sinks = dropRegistered(c.Sinks, c.PublicTypes)
	c.Sources = dropRegistered(c.Sources, c.PublicTypes)

	sortIDs(c.PublicTypes)
	sortIDs(c.Sinks)
	sortIDs(c.Sources)

	c.TypePaths = make([]string, len(c.PublicTypes))
	for i, id := range c.PublicTypes {
		c.TypePaths[i] = u.PathString(id)
	}
	return c, nil
}

// SinkPaths renders the fully-qualified path of every sink implementation
// for diagnostics.
func (c *Classification) SinkPaths(u *model.Unit) []string {
	return pathsOf(u, c.Sinks)
}

// SourcePaths renders the fully-qualified path of every source
// implementation for diagnostics.
func (c *Classification) SourcePaths(u *model.Unit) []string {
	return pathsOf(u, c.Sources)
}

func pathsOf(u *model.Unit, ids []model.DefID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = u.PathString(id)
	}
	return out
}

// pathEqual matches segment for segment; a prefix of an identity is not a
// match.
func pathEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// dropRegistered removes identifiers that already appear in the
// registered list.
func dropRegistered(ids, registered []model.DefID) []model.DefID {
	if len(ids) == 0 || len(registered) == 0 {
		return ids
	}
	taken := make(map[model.DefID]bool, len(registered))
	for _, id := range registered {
		taken[id] = true
	}
	out := ids[:0]
	for _, id := range ids {
		if !taken[id] {
			out = append(out, id)
		}
	}
	return out
}

func sortIDs(ids []model.DefID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
