// Package verify runs the full acceptance pass over a compiled unit: the
// loop check, the recursion check, and the capability classification.
package verify

import (
	"sync"

	"pipecheck/internal/callgraph"
	"pipecheck/internal/loopcheck"
	"pipecheck/internal/model"
	"pipecheck/internal/registry"
)

// Report is the validated summary handed to the code-generation and
// registration layer. Violations are data, never panics; the caller
// decides whether to abort compilation.
type Report struct {
	Unit         string                   `json:"unit"`
	Loop         *loopcheck.Violation     `json:"loop,omitempty"`
	Recursions   []callgraph.Recursion    `json:"recursions,omitempty"`
	Capabilities *registry.Classification `json:"capabilities"`
}

// OK reports whether the unit passed both safety checks.
func (r *Report) OK() bool {
	return r.Loop == nil && len(r.Recursions) == 0
}

// Findings counts the individual violations in the report.
func (r *Report) Findings() int {
	n := len(r.Recursions)
	if r.Loop != nil {
		n++
	}
	return n
}

// Runner holds the knobs for one verification pass.
type Runner struct {
	// Workers shards the loop check across items; zero or one means
	// sequential.
	Workers int
	// Namespace locates the Sink and Source capability identities.
	Namespace string
}

// Run executes all three analyses over the unit. The analyses are pure
// reads of an immutable snapshot, so they run concurrently and their
// results merge without reconciliation. The only error case is the
// registry failing to locate a capability identity.
func (r *Runner) Run(u *model.Unit) (*Report, error) {
	rep := &Report{Unit: u.Name()}

	var (
		wg     sync.WaitGroup
		capErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		rep.Loop = loopcheck.CheckParallel(u, r.Workers)
	}()
	go func() {
		defer wg.Done()
		rep.Recursions = callgraph.Recursions(callgraph.Build(u))
	}()
	go func() {
		defer wg.Done()
		rep.Capabilities, capErr = registry.Collect(u, r.Namespace)
	}()
	wg.Wait()

	if capErr != nil {
		return nil, capErr
	}
	return rep, nil
}
