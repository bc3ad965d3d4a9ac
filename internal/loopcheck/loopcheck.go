// Package loopcheck proves function bodies free of unbounded iteration
// constructs before generated code is admitted into the pipeline framework.
package loopcheck

import (
	"sync"

	"pipecheck/internal/model"
)

// Violation reports the first item found whose body contains a forbidden
// iteration construct.
type Violation struct {
	Item model.DefID `json:"item"`
	Path string      `json:"path"`
}

// Check walks every function body in the unit and returns the violation
// belonging to the lowest definition identifier, or nil when the unit is
// loop-free. The check is first-violation-wins per run: it never collects
// more than one finding.
func Check(u *model.Unit) *Violation {
	return CheckParallel(u, 1)
}

// CheckParallel shards the item walk across the given number of workers.
// Every shard runs to completion and the lowest-identifier violation is
// picked afterwards, so the answer is identical to a sequential run
// regardless of scheduling.
func CheckParallel(u *model.Unit, workers int) *Violation {
	ids := u.Items()
	clean := make([]bool, len(ids))

	if workers <= 1 {
		for i, id := range ids {
			clean[i] = checkItem(u, id)
		}
	} else {
		var wg sync.WaitGroup
		work := make(chan int)
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range work {
					clean[i] = checkItem(u, ids[i])
				}
			}()
		}
		for i := range ids {
			work <- i
		}
		close(work)
		wg.Wait()
	}

	for i, ok := range clean {
		if !ok {
			return &Violation{Item: ids[i], Path: u.PathString(ids[i])}
		}
	}
	return nil
}

// checkItem reports whether the item is loop-free. Non-function items have
// no body to inspect. Functions carrying the always-terminates fact are
// trusted regardless of content.
func checkItem(u *model.Unit, id model.DefID) bool {
	it, ok := u.Item(id)
	if !ok || it.Kind != model.ItemFunction {
		return true
	}
	if it.Terminating {
		return true
	}
	return checkExpr(it.Body)
}

// checkExpr reports whether the expression tree is loop-free. Each node
// kind maps to exactly one rule; kinds without a rule fail closed.
func checkExpr(e *model.Expr) bool {
	if e == nil {
		return true
	}
	switch e.Kind {
	case model.KindLit, model.KindPath, model.KindCast, model.KindAscription,
		model.KindForeign, model.KindOffsetOf, model.KindError, model.KindContinue:
		// Leaves, always safe.
		return true
	case model.KindConstBlock:
		// Const-evaluable code is guaranteed to halt, loops and all.
		return true
	case model.KindLoop:
		return false
	case model.KindMatch:
		// Iteration lowered into match form is still a loop.
		if e.Source == model.MatchForDesugar {
			return false
		}
		if !checkExpr(e.Scrutinee) {
			return false
		}
		return all(e.Arms)
	case model.KindCall:
		return all(e.Args)
	case model.KindMethodCall:
		return checkExpr(e.Recv) && all(e.Args)
	case model.KindArray, model.KindTuple:
		return all(e.Exprs)
	case model.KindStruct:
		return all(e.Exprs) && checkExpr(e.Base)
	case model.KindRepeat, model.KindUnary, model.KindField, model.KindAddrOf,
		model.KindLet, model.KindYield:
		return checkExpr(e.Value)
	case model.KindBinary, model.KindAssign, model.KindAssignOp, model.KindIndex:
		return checkExpr(e.Left) && checkExpr(e.Right)
	case model.KindIf:
		return checkExpr(e.Cond) && checkExpr(e.Then) && checkExpr(e.Else)
	case model.KindBlock:
		return all(e.Exprs) && checkExpr(e.Tail)
	case model.KindClosure:
		if e.Terminating {
			return true
		}
		return checkExpr(e.Body)
	case model.KindBreak, model.KindReturn, model.KindBecome:
		// Control-flow operators are not loops; any bare loop construct
		// they would exit has already been rejected on its own.
		return checkExpr(e.Value)
	default:
		// Unmapped node shape: unsafe until explicitly whitelisted.
		return false
	}
}

func all(exprs []*model.Expr) bool {
	for _, e := range exprs {
		if !checkExpr(e) {
			return false
		}
	}
	return true
}
