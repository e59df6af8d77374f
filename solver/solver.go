// Package solver decides constraint systems. Every backend implements Solver
// and can stand in for any other.
package solver

import (
	"context"
	"errors"
	"fmt"

	"menuplan/constraint"
)

var (
	ErrIndeterminate  = errors.New("solver stopped without a verdict")
	ErrUnknownBackend = errors.New("unknown solver backend")
)

// Model assigns 0 or 1 to every variable of a system, indexed by variable ID.
type Model []int

// Solver finds a model of sys. ok is false, with a nil error, when sys is
// proven unsatisfiable. Any error means no verdict was reached.
type Solver interface {
	Solve(ctx context.Context, sys *constraint.System) (m Model, ok bool, err error)
}

// Func adapts a plain function to Solver.
type Func func(ctx context.Context, sys *constraint.System) (Model, bool, error)

func (f Func) Solve(ctx context.Context, sys *constraint.System) (Model, bool, error) {
	return f(ctx, sys)
}

const (
	Gophersat = "gophersat"
	Gini      = "gini"
	MaxSat    = "maxsat"
	Prolog    = "prolog"
)

func Backends() []string {
	return []string{Gophersat, Gini, MaxSat, Prolog}
}

func New(name string) (Solver, error) {
	switch name {
	case Gophersat, "":
		return NewGopherSolver(), nil
	case Gini:
		return NewGiniSolver(), nil
	case MaxSat:
		return NewMaxsatSolver(), nil
	case Prolog:
		return NewPrologSolver(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}

// compile is the common front half of the PB backends. done is true when the
// verdict is already known without search.
func compile(ctx context.Context, sys *constraint.System) (pbs []constraint.PB, m Model, ok, done bool, err error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, false, true, err
	}
	pbs, ok = constraint.Compile(sys)
	if !ok {
		return nil, nil, false, true, nil
	}
	if len(pbs) == 0 {
		return nil, make(Model, len(sys.Vars)), true, true, nil
	}
	return pbs, nil, false, false, nil
}
