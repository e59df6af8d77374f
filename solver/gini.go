package solver

import (
	"context"
	"time"

	"github.com/irifrance/gini"
	"github.com/irifrance/gini/logic"
	"github.com/irifrance/gini/z"

	"menuplan/constraint"
)

const (
	satisfiable   = 1
	unsatisfiable = -1
)

// GiniSolver compiles each constraint into a circuit: unit-coefficient sums
// go through a cardinality sorting network, weighted sums through binary
// adders and a comparator against the bound.
type GiniSolver struct {
	poll time.Duration
}

func NewGiniSolver() *GiniSolver {
	return &GiniSolver{poll: 10 * time.Millisecond}
}

func (s *GiniSolver) Solve(ctx context.Context, sys *constraint.System) (Model, bool, error) {
	pbs, m, ok, done, err := compile(ctx, sys)
	if done {
		return m, ok, err
	}

	c := logic.NewCCap(len(sys.Vars) * 8)
	vars := make([]z.Lit, len(sys.Vars))
	for i := range vars {
		vars[i] = c.Lit()
	}
	roots := make([]z.Lit, len(pbs))
	for i, p := range pbs {
		roots[i] = circuit(c, vars, p)
	}

	g := gini.New()
	c.ToCnf(g)
	g.Add(c.T)
	g.Add(0)
	for _, r := range roots {
		g.Add(r)
		g.Add(0)
	}

	switch result, err := s.run(ctx, g); {
	case err != nil:
		return nil, false, err
	case result == unsatisfiable:
		return nil, false, nil
	case result != satisfiable:
		return nil, false, ErrIndeterminate
	}

	model := make(Model, len(sys.Vars))
	for i, v := range vars {
		if g.Value(v) {
			model[i] = 1
		}
	}
	return model, true, nil
}

// run solves in the background so that ctx can stop the search.
func (s *GiniSolver) run(ctx context.Context, g *gini.Gini) (int, error) {
	if ctx.Done() == nil {
		return g.Solve(), nil
	}
	h := g.GoSolve()
	tick := time.NewTicker(s.poll)
	defer tick.Stop()
	for {
		if result, finished := h.Test(); finished {
			return result, nil
		}
		select {
		case <-ctx.Done():
			h.Stop()
			return 0, ctx.Err()
		case <-tick.C:
		}
	}
}

func circuit(c *logic.C, vars []z.Lit, p constraint.PB) z.Lit {
	lits := make([]z.Lit, len(p.Lits))
	unit := true
	for i, l := range p.Lits {
		lits[i] = vars[constraint.VarOf(l)]
		if l < 0 {
			lits[i] = lits[i].Not()
		}
		unit = unit && p.Coefs[i] == 1
	}
	if unit {
		return c.CardSort(lits).Geq(p.AtLeast)
	}

	var sum bits
	for i, m := range lits {
		sum = add(c, sum, scale(c, m, p.Coefs[i]))
	}
	return geq(c, sum, p.AtLeast)
}

// bits is an unsigned binary number, least significant bit first.
type bits []z.Lit

func (b bits) at(c *logic.C, i int) z.Lit {
	if i < len(b) {
		return b[i]
	}
	return c.F
}

// scale returns k·m, i.e. the bits of k gated by m.
func scale(c *logic.C, m z.Lit, k int) bits {
	var out bits
	for ; k > 0; k >>= 1 {
		if k&1 == 1 {
			out = append(out, m)
		} else {
			out = append(out, c.F)
		}
	}
	return out
}

func add(c *logic.C, a, b bits) bits {
	n := max(len(a), len(b))
	out := make(bits, 0, n+1)
	carry := c.F
	for i := 0; i < n; i++ {
		x, y := a.at(c, i), b.at(c, i)
		xy := c.Xor(x, y)
		out = append(out, c.Xor(xy, carry))
		carry = c.Or(c.And(x, y), c.And(carry, xy))
	}
	return append(out, carry)
}

// geq is true iff the number s is at least k. It folds from the least
// significant bit: after bit i, r holds s[0..i] >= k[0..i].
func geq(c *logic.C, s bits, k int) z.Lit {
	if k <= 0 {
		return c.T
	}
	if len(s) < 63 && k >= 1<<len(s) {
		return c.F
	}
	r := c.T
	for i, b := range s {
		if (k>>i)&1 == 1 {
			r = c.And(b, r)
		} else {
			r = c.Or(b, r)
		}
	}
	return r
}
