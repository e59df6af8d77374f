// Package planner picks dishes: it encodes a request, hands the system to a
// solver and maps the model back onto the catalog.
package planner

import (
	"context"
	"log/slog"

	mapset "github.com/deckarep/golang-set/v2"

	"menuplan/catalog"
	"menuplan/constraint"
	"menuplan/solver"
)

// Config is the selection configuration of a single call.
type Config = constraint.Request

// NewConfig returns a configuration with the default tolerance and an empty
// disabled set of its own.
func NewConfig(target, count int) Config {
	return constraint.NewRequest(target, count)
}

// Selection lists chosen dish indices in ascending order.
type Selection []int

func (s Selection) Set() mapset.Set[int] {
	return mapset.NewSet[int](s...)
}

type Planner struct {
	solver solver.Solver
	logger *slog.Logger
}

type Option func(*Planner)

func WithLogger(l *slog.Logger) Option {
	return func(p *Planner) {
		p.logger = l
	}
}

func New(s solver.Solver, opts ...Option) *Planner {
	p := &Planner{solver: s}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	return p
}

// Select returns cfg.Count dishes of cat whose calories lie within
// cfg.Alpha of cfg.Target, none of them disabled. ok is false when no such
// selection exists; that is an answer, not an error. Solver errors are
// returned as they are.
func (p *Planner) Select(ctx context.Context, cat *catalog.Catalog, cfg Config) (Selection, bool, error) {
	sys := constraint.Encode(cat, cfg)
	p.logger.Debug("encoded constraint system",
		"vars", len(sys.Vars), "constraints", len(sys.Constraints),
		"target", cfg.Target, "alpha", cfg.Alpha, "count", cfg.Count)

	model, ok, err := p.solver.Solve(ctx, sys)
	if err != nil {
		return nil, false, err
	}
	sel, ok := Extract(sys, model, ok)
	p.logger.Debug("solved", "feasible", ok, "selected", len(sel))
	return sel, ok, nil
}

// Select is the one-shot form of Planner.Select.
func Select(ctx context.Context, s solver.Solver, cat *catalog.Catalog, cfg Config) (Selection, bool, error) {
	return New(s).Select(ctx, cat, cfg)
}

// Extract maps a model of sys back to dish indices. It trusts the model and
// does not re-check any constraint.
func Extract(sys *constraint.System, model solver.Model, ok bool) (Selection, bool) {
	if !ok {
		return nil, false
	}
	sel := Selection{}
	for i, v := range sys.Vars {
		if i < len(model) && model[i] == 1 {
			sel = append(sel, v.ID)
		}
	}
	return sel, true
}
