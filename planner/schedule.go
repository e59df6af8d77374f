package planner

import (
	"context"

	"golang.org/x/sync/errgroup"

	"menuplan/catalog"
)

// Week plans up to days consecutive menus. A dish served on one day is
// disabled on every later day. Planning stops at the first day that has no
// selection; the returned slice holds the days that were planned.
func (p *Planner) Week(ctx context.Context, cat *catalog.Catalog, cfg Config, days int) ([]Selection, error) {
	menus := make([]Selection, 0, days)
	for day := 0; day < days; day++ {
		sel, ok, err := p.Select(ctx, cat, cfg)
		if err != nil {
			return menus, err
		}
		if !ok {
			p.logger.Info("no menu for day", "day", day+1, "planned", len(menus))
			break
		}
		menus = append(menus, sel)
		cfg = cfg.Disable(sel...)
	}
	return menus, nil
}

type Outcome struct {
	Selection Selection
	Feasible  bool
}

// SelectAll solves independent configurations concurrently, at most limit at
// a time (no limit when limit <= 0). Outcomes keep the order of cfgs. The
// first solver error cancels the remaining calls and is returned.
func (p *Planner) SelectAll(ctx context.Context, cat *catalog.Catalog, cfgs []Config, limit int) ([]Outcome, error) {
	out := make([]Outcome, len(cfgs))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, cfg := range cfgs {
		g.Go(func() error {
			sel, ok, err := p.Select(ctx, cat, cfg)
			if err != nil {
				return err
			}
			out[i] = Outcome{Selection: sel, Feasible: ok}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
