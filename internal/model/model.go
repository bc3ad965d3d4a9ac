package model

import "strings"

// DefID is the stable handle naming one item inside a compiled unit.
// IDs are assigned in item order at build time and are totally ordered,
// which is what makes parallel verification results reproducible.
type DefID int

// Invalid marks an unresolved identifier.
const Invalid DefID = -1

// ItemKind tags the three item shapes the verifier understands.
type ItemKind string

const (
	ItemFunction ItemKind = "function"
	ItemType     ItemKind = "type"
	ItemImpl     ItemKind = "impl"
)

// Visibility as the verifier cares about it: either an item is directly
// reachable from outside the unit, or it is not.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Item is one resolved definition in a compiled unit.
type Item struct {
	ID   DefID
	Name string
	// Path holds the fully-qualified segments, unit name first.
	Path []string
	Kind ItemKind

	// Function fields.
	Body *Expr
	// Terminating is supplied by the front end for functions restricted to
	// a provably halting language subset. It is consumed, never computed.
	Terminating bool

	// Type fields.
	Visibility Visibility

	// Impl fields. TraitPath is nil for inherent impls; Target names the
	// implementing type's symbol, empty or unknown when it did not resolve.
	TraitPath []string
	Target    string
}

// Unit is a read-only snapshot of one compiled unit. All verifier passes
// consume it through the query methods below; nothing mutates it after
// Build.
type Unit struct {
	name    string
	items   []Item
	symbols map[string]DefID
	// traits holds the capability traits visible in the trusted external
	// namespace, keyed by joined path.
	traits map[string][]string
}

// Name returns the unit's own name (the leading path segment of its items).
func (u *Unit) Name() string { return u.name }

// Items returns every definition identifier in ascending order.
func (u *Unit) Items() []DefID {
	out := make([]DefID, len(u.items))
	for i := range u.items {
		out[i] = DefID(i)
	}
	return out
}

// Item returns the item for the given identifier.
func (u *Unit) Item(id DefID) (Item, bool) {
	if id < 0 || int(id) >= len(u.items) {
		return Item{}, false
	}
	return u.items[id], true
}

// BodyOf returns a function item's expression tree.
func (u *Unit) BodyOf(id DefID) (*Expr, bool) {
	it, ok := u.Item(id)
	if !ok || it.Kind != ItemFunction {
		return nil, false
	}
	return it.Body, true
}

// IsTerminating reports whether the item carries the externally supplied
// always-terminates fact.
func (u *Unit) IsTerminating(id DefID) bool {
	it, ok := u.Item(id)
	return ok && it.Terminating
}

// VisibilityOf reports whether the item is directly public.
func (u *Unit) VisibilityOf(id DefID) Visibility {
	it, ok := u.Item(id)
	if !ok || it.Visibility != VisibilityPublic {
		return VisibilityPrivate
	}
	return VisibilityPublic
}

// ResolveCall resolves a call-site reference to an in-unit definition.
// The second return is false for external (trusted) targets.
func (u *Unit) ResolveCall(ref string) (DefID, bool) {
	if ref == "" {
		return Invalid, false
	}
	id, ok := u.symbols[ref]
	return id, ok
}

// TraitPathOf returns the fully-qualified trait path an impl item
// implements, or false for inherent impls and non-impl items.
func (u *Unit) TraitPathOf(id DefID) ([]string, bool) {
	it, ok := u.Item(id)
	if !ok || it.Kind != ItemImpl || len(it.TraitPath) == 0 {
		return nil, false
	}
	return it.TraitPath, true
}

// TargetTypeOf resolves an impl item's implementing type to an in-unit
// type declaration. Unresolvable targets report false and are skipped by
// the registry, never treated as errors.
func (u *Unit) TargetTypeOf(id DefID) (DefID, bool) {
	it, ok := u.Item(id)
	if !ok || it.Kind != ItemImpl || it.Target == "" {
		return Invalid, false
	}
	target, ok := u.symbols[it.Target]
	if !ok {
		return Invalid, false
	}
	if tt, ok := u.Item(target); !ok || tt.Kind != ItemType {
		return Invalid, false
	}
	return target, true
}

// PathOf returns the fully-qualified segment path of an item.
func (u *Unit) PathOf(id DefID) []string {
	it, ok := u.Item(id)
	if !ok {
		return nil
	}
	return it.Path
}

// PathString renders an item path for diagnostics and generated-code
// naming.
func (u *Unit) PathString(id DefID) string {
	return strings.Join(u.PathOf(id), ".")
}

// LookupTrait reports whether the trusted namespace declares a trait with
// exactly the given path.
func (u *Unit) LookupTrait(path []string) bool {
	_, ok := u.traits[strings.Join(path, ".")]
	return ok
}
