package solver

import (
	"context"
	"strconv"

	"github.com/crillab/gophersat/maxsat"

	"menuplan/constraint"
)

// MaxSatSolver states every constraint as a hard PB constraint over named
// variables. With no soft constraints the optimum is any model.
type MaxSatSolver struct{}

func NewMaxsatSolver() *MaxSatSolver {
	return &MaxSatSolver{}
}

func (s *MaxSatSolver) Solve(ctx context.Context, sys *constraint.System) (Model, bool, error) {
	pbs, m, ok, done, err := compile(ctx, sys)
	if done {
		return m, ok, err
	}

	constrs := make([]maxsat.Constr, len(pbs))
	for i, p := range pbs {
		lits := make([]maxsat.Lit, len(p.Lits))
		for j, l := range p.Lits {
			lits[j] = maxsat.Var(varName(sys.Vars[constraint.VarOf(l)]))
			if l < 0 {
				lits[j] = lits[j].Negation()
			}
		}
		constrs[i] = maxsat.HardPBConstr(lits, p.Coefs, p.AtLeast)
	}
	model, _ := maxsat.New(constrs...).Solve()
	if model == nil {
		return nil, false, nil
	}

	result := make(Model, len(sys.Vars))
	for i, v := range sys.Vars {
		if model[varName(v)] {
			result[i] = 1
		}
	}
	return result, true, nil
}

func varName(v constraint.Var) string {
	if v.Name != "" {
		return v.Name
	}
	return "x" + strconv.Itoa(v.ID)
}
