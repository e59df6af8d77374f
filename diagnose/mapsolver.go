package diagnose

import (
	"strconv"

	"github.com/crillab/gophersat/maxsat"
)

// MapSolver proposes seeds: subsets of constraint ids not yet explained by a
// recorded MSS or MUS.
type MapSolver interface {
	Solve() bool
	Model() IntSet
	AddClause(IntSet)
}

// MaxSatSolver is a MapSolver preferring the largest unexplored seed: each
// id is a soft clause, blocking clauses are hard.
type MaxSatSolver struct {
	clauses []maxsat.Constr
	vars    IntSet
	model   map[string]bool
}

func NewMaxsatSolver(vars IntSet) *MaxSatSolver {
	ids := sorted(vars)
	softClauses := make([]maxsat.Constr, len(ids))
	for i, v := range ids {
		softClauses[i] = maxsat.SoftClause(maxsat.Var(strconv.Itoa(v)))
	}

	return &MaxSatSolver{
		clauses: softClauses,
		vars:    vars,
		model:   make(map[string]bool),
	}
}

func (s *MaxSatSolver) Solve() bool {
	pb := maxsat.New(s.clauses...)
	model, _ := pb.Solve()
	s.model = model
	return model != nil
}

func (s *MaxSatSolver) Model() IntSet {
	model := NewIntSet()
	for v := range s.vars.Iter() {
		if s.model[strconv.Itoa(v)] {
			model.Add(v)
		}
	}
	return model
}

// AddClause adds the disjunction of ids; a negative id stands for the
// negation of its absolute value.
func (s *MaxSatSolver) AddClause(ids IntSet) {
	vs := sorted(ids)
	lits := make([]maxsat.Lit, len(vs))
	for i, v := range vs {
		if v > 0 {
			lits[i] = maxsat.Var(strconv.Itoa(v))
		} else {
			lits[i] = maxsat.Var(strconv.Itoa(-v)).Negation()
		}
	}
	s.clauses = append(s.clauses, maxsat.HardClause(lits...))
}
