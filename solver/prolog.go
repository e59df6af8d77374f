package solver

import (
	"context"
	"errors"
	"fmt"

	"menuplan/constraint"
	"menuplan/logic"
)

var ErrTooManyVariables = errors.New("too many variables for exhaustive search")

// DefaultPrologLimit bounds the catalogs the prolog backend accepts; its
// search enumerates assignments.
const DefaultPrologLimit = 16

var preamble = `
bit(0).
bit(1).
bits([]).
bits([B|Bs]) :- bit(B), bits(Bs).

dot([], [], 0).
dot([C|Cs], [X|Xs], S) :- dot(Cs, Xs, S0), S is S0 + C * X.

holds(ge(Cs, R), Xs) :- dot(Cs, Xs, S), S >= R.
holds(le(Cs, R), Xs) :- dot(Cs, Xs, S), S =< R.
holds(eq(Cs, R), Xs) :- dot(Cs, Xs, S), S =:= R.

all_hold([], _).
all_hold([C|Cs], Xs) :- holds(C, Xs), all_hold(Cs, Xs).
`

var modelTemplate = logic.NewTemplate("model", `
model(Xs) :-
    Xs = [{{ joinStr .Vars "V" ", " }}],
    bits(Xs),
    all_hold([
        {{- range $i, $c := .Constraints }}{{ if $i }},{{ end }}
        {{ $c.Op }}([{{ joinInt $c.Coefs "" ", " }}], {{ num $c.RHS }})
        {{- end }}
    ], Xs).
`)

type prologConstraint struct {
	Op    string
	Coefs []int
	RHS   int
}

// PrologSolver runs a generate-and-test program on the embedded Prolog
// interpreter. It is exhaustive and meant for small catalogs and for
// cross-checking the other backends.
type PrologSolver struct {
	Limit int
}

func NewPrologSolver() *PrologSolver {
	return &PrologSolver{Limit: DefaultPrologLimit}
}

func (s *PrologSolver) Solve(ctx context.Context, sys *constraint.System) (Model, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if s.Limit > 0 && len(sys.Vars) > s.Limit {
		return nil, false, fmt.Errorf("%w: %d > %d", ErrTooManyVariables, len(sys.Vars), s.Limit)
	}
	program, err := RenderProlog(sys)
	if err != nil {
		return nil, false, err
	}
	ok, bindings, err := logic.NewProlog().ConsultAndQuery1(program, "model(Xs).")
	if err != nil || !ok {
		return nil, false, err
	}
	values, err := logic.ParseIntList(bindings["Xs"])
	if err != nil {
		return nil, false, fmt.Errorf("unexpected answer: %w", err)
	}
	if len(values) != len(sys.Vars) {
		return nil, false, fmt.Errorf("answer has %d values for %d variables", len(values), len(sys.Vars))
	}
	return Model(values), true, nil
}

// RenderProlog writes sys as a Prolog program whose model/1 predicate
// enumerates its models.
func RenderProlog(sys *constraint.System) (string, error) {
	vars := make([]string, len(sys.Vars))
	for i := range sys.Vars {
		vars[i] = fmt.Sprint(i)
	}
	constrs := make([]prologConstraint, len(sys.Constraints))
	for i, c := range sys.Constraints {
		coefs := make([]int, len(sys.Vars))
		for _, t := range c.Terms {
			coefs[t.Var] += t.Coef
		}
		op := map[constraint.Op]string{constraint.GE: "ge", constraint.LE: "le", constraint.EQ: "eq"}[c.Op]
		constrs[i] = prologConstraint{Op: op, Coefs: coefs, RHS: c.RHS}
	}
	body, err := logic.TemplateToString(modelTemplate, struct {
		Vars        []string
		Constraints []prologConstraint
	}{vars, constrs})
	if err != nil {
		return "", err
	}
	return preamble + body, nil
}
