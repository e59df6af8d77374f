// Package diagnose explains why a constraint system has no model, in terms
// of its labelled constraints.
package diagnose

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"menuplan/constraint"
	"menuplan/solver"
)

// Conflict is one group of constraints that cannot hold together.
// Causes lists its minimal unsatisfiable subsets; dropping any one of
// Corrections makes the group consistent again.
type Conflict struct {
	Constraints []string   `json:"constraints"`
	Causes      [][]string `json:"causes"`
	Corrections [][]string `json:"corrections"`
}

// Explain enumerates the conflicts of sys, deciding every subsystem with s.
// A satisfiable sys has no conflicts.
func Explain(ctx context.Context, s solver.Solver, sys *constraint.System, logger *slog.Logger) ([]Conflict, error) {
	labels := sys.Labels()
	if len(labels) == 0 {
		return nil, nil
	}
	// ids start at 1: the map solver uses the sign for negation
	ids := make([]int, len(labels))
	for i := range labels {
		ids[i] = i + 1
	}

	sat := func(rules []int) (bool, error) {
		named := make([]string, len(rules))
		for i, id := range rules {
			named[i] = labels[id-1]
		}
		_, ok, err := s.Solve(ctx, sys.Restrict(named...))
		if err != nil {
			return false, fmt.Errorf("deciding %v: %w", named, err)
		}
		return ok, nil
	}

	m := NewMarco(ids, sat, logger)
	if err := m.Run(); err != nil {
		return nil, err
	}

	var conflicts []Conflict
	for _, g := range m.Analysis() {
		conflicts = append(conflicts, Conflict{
			Constraints: names(labels, sorted(g.Critical)),
			Causes:      nameAll(labels, g.MUSs),
			Corrections: nameAll(labels, g.MCSs),
		})
	}
	return conflicts, nil
}

func names(labels []string, ids []int) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = labels[id-1]
	}
	return out
}

// nameAll orders sets by their sorted ids so output is stable across runs.
func nameAll(labels []string, sets []IntSet) [][]string {
	idLists := make([][]int, len(sets))
	for i, s := range sets {
		idLists[i] = sorted(s)
	}
	slices.SortFunc(idLists, func(a, b []int) int { return slices.Compare(a, b) })
	out := make([][]string, len(idLists))
	for i, ids := range idLists {
		out[i] = names(labels, ids)
	}
	return out
}
