package planner

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menuplan/catalog"
	"menuplan/constraint"
	"menuplan/solver"
	"menuplan/testutil"
)

func newPlanner(t *testing.T, s solver.Solver) *Planner {
	return New(s, WithLogger(testutil.NewTestLogger(t)))
}

func TestSelectScenarios(t *testing.T) {
	type testcase struct {
		name     string
		cat      *catalog.Catalog
		cfg      Config
		feasible bool
		expect   Selection
	}

	exact := func(target, count int) Config {
		cfg := NewConfig(target, count)
		cfg.Alpha = 0
		return cfg
	}
	single := NewConfig(300, 1)
	single.Alpha = 50

	cases := []testcase{
		{name: "A", cat: testutil.ABC(), cfg: exact(700, 2), feasible: true, expect: Selection{0, 1}},
		{name: "B", cat: testutil.ABC(), cfg: exact(700, 2).Disable(0)},
		{name: "C", cat: catalog.New(catalog.Dish{Name: "A", Calories: 300}), cfg: single, feasible: true, expect: Selection{0}},
		{name: "D", cat: catalog.New(), cfg: exact(0, 0), feasible: true, expect: Selection{}},
	}

	for _, name := range solver.Backends() {
		s, err := solver.New(name)
		require.NoError(t, err)
		p := newPlanner(t, s)
		for _, tc := range cases {
			t.Run(name+"/"+tc.name, func(t *testing.T) {
				sel, ok, err := p.Select(context.Background(), tc.cat, tc.cfg)
				require.NoError(t, err)
				require.Equal(t, tc.feasible, ok)
				if !ok {
					assert.Nil(t, sel)
					return
				}
				assert.NotNil(t, sel, "a feasible selection is never nil, even when empty")
				assert.Equal(t, tc.expect, sel)
			})
		}
	}
}

func TestSelectProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	p := newPlanner(t, solver.NewGopherSolver())
	for round := 0; round < 60; round++ {
		n := rng.Intn(12)
		dishes := make([]catalog.Dish, n)
		for i := range dishes {
			dishes[i] = catalog.Dish{Name: "d", Calories: 50 + rng.Intn(800)}
		}
		cat := catalog.New(dishes...)
		cfg := NewConfig(rng.Intn(2500), rng.Intn(n+2))
		cfg.Alpha = rng.Intn(200)
		for k := rng.Intn(3); k > 0; k-- {
			cfg = cfg.Disable(rng.Intn(n + 2))
		}

		sel, ok, err := p.Select(context.Background(), cat, cfg)
		require.NoError(t, err)

		available := 0
		for i := 0; i < n; i++ {
			if !cfg.Disabled.Contains(i) {
				available++
			}
		}
		if cfg.Count > available {
			assert.False(t, ok, "round %d: not enough enabled dishes", round)
		}
		if !ok {
			continue
		}

		assert.Len(t, sel, cfg.Count, "cardinality")
		assert.Equal(t, len(sel), sel.Set().Cardinality(), "each dish at most once")
		total := cat.Calories(sel)
		assert.GreaterOrEqual(t, total, cfg.Target-cfg.Alpha, "calorie floor")
		assert.LessOrEqual(t, total, cfg.Target+cfg.Alpha, "calorie ceiling")
		assert.True(t, sel.Set().Intersect(cfg.Disabled).IsEmpty(), "no disabled dish")
		assert.IsIncreasing(t, []int(sel))
	}
}

func TestSelectTrustsSolver(t *testing.T) {
	canned := solver.Func(func(_ context.Context, sys *constraint.System) (solver.Model, bool, error) {
		require.Len(t, sys.Vars, 3)
		return solver.Model{0, 1, 1}, true, nil
	})
	sel, ok, err := Select(context.Background(), canned, testutil.ABC(), NewConfig(700, 2))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Selection{1, 2}, sel)
}

func TestSelectPropagatesSolverErrors(t *testing.T) {
	boom := errors.New("backend unreachable")
	failing := solver.Func(func(context.Context, *constraint.System) (solver.Model, bool, error) {
		return nil, false, boom
	})
	sel, ok, err := Select(context.Background(), failing, testutil.ABC(), NewConfig(700, 2))
	assert.Same(t, boom, err)
	assert.False(t, ok)
	assert.Nil(t, sel)
}

func TestExtract(t *testing.T) {
	sys := constraint.Encode(testutil.ABC(), NewConfig(0, 0))

	sel, ok := Extract(sys, nil, false)
	assert.False(t, ok)
	assert.Nil(t, sel)

	sel, ok = Extract(sys, solver.Model{0, 0, 0}, true)
	assert.True(t, ok)
	assert.Equal(t, Selection{}, sel)

	sel, ok = Extract(sys, solver.Model{1, 0, 1}, true)
	assert.True(t, ok)
	assert.Equal(t, Selection{0, 2}, sel)
	assert.True(t, sel.Set().Equal(mapset.NewSet(0, 2)))
}

func TestWeek(t *testing.T) {
	p := newPlanner(t, solver.NewGopherSolver())
	cat := testutil.Menu()
	cfg := NewConfig(1200, 2)

	menus, err := p.Week(context.Background(), cat, cfg, 3)
	require.NoError(t, err)
	require.Len(t, menus, 3)
	seen := mapset.NewSet[int]()
	for _, m := range menus {
		assert.Len(t, m, 2)
		total := cat.Calories(m)
		assert.GreaterOrEqual(t, total, 1100)
		assert.LessOrEqual(t, total, 1300)
		assert.True(t, seen.Intersect(m.Set()).IsEmpty(), "dishes repeat across days")
		seen = seen.Union(m.Set())
	}
	assert.Equal(t, 0, cfg.Disabled.Cardinality(), "caller's config must not change")
}

func TestWeekRunsOutOfDishes(t *testing.T) {
	p := newPlanner(t, solver.NewGopherSolver())
	menus, err := p.Week(context.Background(), testutil.ABC(), NewConfig(700, 2), 5)
	require.NoError(t, err)
	assert.Len(t, menus, 1)
}

func TestSelectAll(t *testing.T) {
	p := newPlanner(t, solver.NewGiniSolver())
	cat := testutil.ABC()
	cfgs := []Config{NewConfig(700, 2), NewConfig(1200, 3), NewConfig(5000, 1), NewConfig(0, 0)}

	out, err := p.SelectAll(context.Background(), cat, cfgs, 2)
	require.NoError(t, err)
	require.Len(t, out, len(cfgs))
	for i, cfg := range cfgs {
		sel, ok, err := p.Select(context.Background(), cat, cfg)
		require.NoError(t, err)
		assert.Equal(t, ok, out[i].Feasible, "config %d", i)
		if ok {
			assert.Len(t, out[i].Selection, cfg.Count)
			assert.Len(t, sel, cfg.Count)
		}
	}
	assert.False(t, out[2].Feasible)
	assert.Equal(t, Selection{}, out[3].Selection)
}

func TestSelectAllStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	s := solver.Func(func(ctx context.Context, sys *constraint.System) (solver.Model, bool, error) {
		if sys.Constraints[2].RHS == 2 {
			return nil, false, boom
		}
		return solver.NewGopherSolver().Solve(ctx, sys)
	})
	_, err := New(s).SelectAll(context.Background(), testutil.ABC(),
		[]Config{NewConfig(300, 1), NewConfig(700, 2)}, 0)
	assert.ErrorIs(t, err, boom)
}
