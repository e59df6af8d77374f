package solver

import (
	"context"

	"github.com/crillab/gophersat/solver"

	"menuplan/constraint"
)

// GopherSolver hands pseudo-boolean constraints straight to gophersat.
type GopherSolver struct{}

func NewGopherSolver() *GopherSolver {
	return &GopherSolver{}
}

func (s *GopherSolver) Solve(ctx context.Context, sys *constraint.System) (Model, bool, error) {
	pbs, m, ok, done, err := compile(ctx, sys)
	if done {
		return m, ok, err
	}

	constrs := make([]solver.PBConstr, len(pbs))
	for i, p := range pbs {
		constrs[i] = solver.GtEq(p.Lits, p.Coefs, p.AtLeast)
	}
	gs := solver.New(solver.ParsePBConstrs(constrs))
	switch gs.Solve() {
	case solver.Sat:
		model := make(Model, len(sys.Vars))
		for i, b := range gs.Model() {
			if b && i < len(model) {
				model[i] = 1
			}
		}
		return model, true, nil
	case solver.Unsat:
		return nil, false, nil
	}
	return nil, false, ErrIndeterminate
}
