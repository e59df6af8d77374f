// Package constraint describes boolean-integer constraint systems and encodes
// a dish selection request into one.
//
// Every variable of a System ranges over {0, 1}. Constraints are linear
// (in)equalities over those variables, each carrying a label so that callers
// can refer to, restrict or explain them.
package constraint

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

type Op int

const (
	GE Op = iota
	LE
	EQ
)

func (o Op) String() string {
	switch o {
	case GE:
		return ">="
	case LE:
		return "<="
	case EQ:
		return "="
	}
	return "Op(" + strconv.Itoa(int(o)) + ")"
}

// Var is a 0/1 decision variable. ID is its position in System.Vars.
type Var struct {
	ID   int
	Name string
}

type Term struct {
	Var  int
	Coef int
}

type Constraint struct {
	Label string
	Terms []Term
	Op    Op
	RHS   int
}

// Sum evaluates the left-hand side under values, indexed by variable ID.
func (c Constraint) Sum(values []int) int {
	s := 0
	for _, t := range c.Terms {
		s += t.Coef * values[t.Var]
	}
	return s
}

func (c Constraint) Holds(values []int) bool {
	s := c.Sum(values)
	switch c.Op {
	case GE:
		return s >= c.RHS
	case LE:
		return s <= c.RHS
	case EQ:
		return s == c.RHS
	}
	return false
}

func (c Constraint) String() string {
	var b strings.Builder
	b.WriteString(c.Label)
	b.WriteString(": ")
	if len(c.Terms) == 0 {
		b.WriteString("0")
	}
	for i, t := range c.Terms {
		if i > 0 {
			b.WriteString(" + ")
		}
		if t.Coef == 1 {
			fmt.Fprintf(&b, "x%d", t.Var)
		} else {
			fmt.Fprintf(&b, "%d*x%d", t.Coef, t.Var)
		}
	}
	fmt.Fprintf(&b, " %s %d", c.Op, c.RHS)
	return b.String()
}

// System is a conjunction of constraints over Vars.
type System struct {
	Vars        []Var
	Constraints []Constraint
}

func (s *System) Labels() []string {
	labels := make([]string, len(s.Constraints))
	for i, c := range s.Constraints {
		labels[i] = c.Label
	}
	return labels
}

// Restrict returns a copy of s keeping only the constraints whose label is
// listed. Variables are kept unchanged.
func (s *System) Restrict(labels ...string) *System {
	r := &System{Vars: s.Vars}
	for _, c := range s.Constraints {
		if slices.Contains(labels, c.Label) {
			r.Constraints = append(r.Constraints, c)
		}
	}
	return r
}

// Check reports the first reason values is not a model of s.
func (s *System) Check(values []int) error {
	if len(values) != len(s.Vars) {
		return fmt.Errorf("model has %d values for %d variables", len(values), len(s.Vars))
	}
	for i, v := range values {
		if v != 0 && v != 1 {
			return fmt.Errorf("%s = %d is outside {0,1}", s.Vars[i].Name, v)
		}
	}
	for _, c := range s.Constraints {
		if !c.Holds(values) {
			return fmt.Errorf("violated %s (lhs = %d)", c, c.Sum(values))
		}
	}
	return nil
}

func (s *System) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d variables in {0,1}\n", len(s.Vars))
	for _, c := range s.Constraints {
		b.WriteString(c.String())
		b.WriteByte('\n')
	}
	return b.String()
}
