package model

import (
	"fmt"
	"strings"
)

// Builder assembles an immutable Unit. Both the snapshot loader and test
// fixtures go through it, so resolution behaves identically in both.
type Builder struct {
	name  string
	items []Item
	// traits declared by the trusted external namespace.
	traits [][]string
}

// NewBuilder starts a unit with the given name. The name becomes the
// leading segment of every item path that does not override its own.
func NewBuilder(name string) *Builder {
	if name == "" {
		name = "unit"
	}
	return &Builder{name: name}
}

// Trait declares a capability trait in the trusted external namespace.
func (b *Builder) Trait(path ...string) *Builder {
	b.traits = append(b.traits, path)
	return b
}

// Function adds a function item and returns its identifier.
func (b *Builder) Function(name string, body *Expr) DefID {
	return b.add(Item{Name: name, Kind: ItemFunction, Body: body})
}

// TerminatingFunction adds a function carrying the always-terminates fact.
func (b *Builder) TerminatingFunction(name string, body *Expr) DefID {
	return b.add(Item{Name: name, Kind: ItemFunction, Body: body, Terminating: true})
}

// Type adds a type declaration item.
func (b *Builder) Type(name string, vis Visibility) DefID {
	return b.add(Item{Name: name, Kind: ItemType, Visibility: vis})
}

// Impl adds an implementation-block item for the given trait path and
// target type symbol. A nil traitPath records an inherent impl.
func (b *Builder) Impl(name string, traitPath []string, target string) DefID {
	return b.add(Item{Name: name, Kind: ItemImpl, TraitPath: traitPath, Target: target})
}

// AddItem adds a pre-assembled item; the loader uses it to carry explicit
// paths through. The item's ID field is assigned here.
func (b *Builder) AddItem(it Item) DefID {
	return b.add(it)
}

func (b *Builder) add(it Item) DefID {
	id := DefID(len(b.items))
	it.ID = id
	if len(it.Path) == 0 {
		it.Path = []string{b.name, it.Name}
	}
	b.items = append(b.items, it)
	return id
}

// Build freezes the unit and indexes item symbols. Items are addressable
// by bare name and by joined path; duplicate names are rejected because a
// resolved model never contains two items with the same symbol.
func (b *Builder) Build() (*Unit, error) {
	u := &Unit{
		name:    b.name,
		items:   b.items,
		symbols: make(map[string]DefID, len(b.items)*2),
		traits:  make(map[string][]string, len(b.traits)),
	}
	for _, it := range b.items {
		keys := []string{it.Name}
		if joined := strings.Join(it.Path, "."); joined != it.Name {
			keys = append(keys, joined)
		}
		for _, key := range keys {
			if _, dup := u.symbols[key]; dup {
				return nil, fmt.Errorf("duplicate item symbol %q", key)
			}
			u.symbols[key] = it.ID
		}
	}
	for _, tr := range b.traits {
		u.traits[strings.Join(tr, ".")] = tr
	}
	return u, nil
}
