package constraint

// PB is a pseudo-boolean constraint Σ Coefs[i]·Lits[i] >= AtLeast over
// DIMACS-style literals: variable v appears as v+1, its negation as -(v+1).
// All coefficients are positive.
type PB struct {
	Lits    []int
	Coefs   []int
	AtLeast int
}

func (p PB) coefSum() int {
	s := 0
	for _, c := range p.Coefs {
		s += c
	}
	return s
}

// Lit returns the positive literal of variable id.
func Lit(id int) int {
	return id + 1
}

// VarOf returns the variable id of a literal.
func VarOf(lit int) int {
	if lit < 0 {
		lit = -lit
	}
	return lit - 1
}

// normalize rewrites c as at most two PB constraints. A negative coefficient
// is turned positive by negating its literal: -a·x = a·¬x - a.
func normalize(c Constraint) []PB {
	ge := func(sign int) PB {
		p := PB{AtLeast: sign * c.RHS}
		for _, t := range c.Terms {
			coef := sign * t.Coef
			lit := Lit(t.Var)
			switch {
			case coef == 0:
				continue
			case coef < 0:
				lit, coef = -lit, -coef
				p.AtLeast += coef
			}
			p.Lits = append(p.Lits, lit)
			p.Coefs = append(p.Coefs, coef)
		}
		return p
	}
	switch c.Op {
	case GE:
		return []PB{ge(1)}
	case LE:
		return []PB{ge(-1)}
	default:
		return []PB{ge(1), ge(-1)}
	}
}

// Compile normalizes every constraint of s. Constraints that hold under any
// assignment are dropped. ok is false when some constraint can never hold,
// in which case s is unsatisfiable and pbs is nil.
func Compile(s *System) (pbs []PB, ok bool) {
	for _, c := range s.Constraints {
		for _, p := range normalize(c) {
			if p.AtLeast <= 0 {
				continue
			}
			if p.coefSum() < p.AtLeast {
				return nil, false
			}
			pbs = append(pbs, p)
		}
	}
	return pbs, true
}
