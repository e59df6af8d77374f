package diagnose

import (
	"errors"
	"log/slog"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"menuplan/graph"
)

var ErrTooManyLoops = errors.New("conflict enumeration did not converge")

type IntSet mapset.Set[int]

func NewIntSet(vals ...int) IntSet {
	return IntSet(mapset.NewSet[int](vals...))
}

func sorted(s IntSet) []int {
	out := s.ToSlice()
	sort.Ints(out)
	return out
}

// Group is one connected family of overlapping MUSes. Critical is the union
// of its MUSes; MCSs are the correction sets restricted to Critical.
type Group struct {
	MCSs     []IntSet
	MSSs     []IntSet
	MUSs     []IntSet
	Critical IntSet
}

// Marco enumerates the minimal unsatisfiable subsets (MUS) and maximal
// satisfiable subsets (MSS) of a set of rules, given an oracle telling
// whether a subset is satisfiable.
type Marco struct {
	Rules       IntSet
	MUSs        []IntSet
	MCSs        []IntSet
	MSSs        []IntSet
	MaxLoop     int
	LoopCounter int
	SatFunc     func([]int) (bool, error)
	Solver      MapSolver
	logger      *slog.Logger
}

func NewMarco(rules []int, satFunc func([]int) (bool, error), logger *slog.Logger) *Marco {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Marco{
		Rules:   NewIntSet(rules...),
		MUSs:    []IntSet{},
		MCSs:    []IntSet{},
		MSSs:    []IntSet{},
		MaxLoop: 1000,
		SatFunc: satFunc,
		Solver:  NewMaxsatSolver(NewIntSet(rules...)),
		logger:  logger,
	}
}

func (m *Marco) Grow(seed IntSet) (IntSet, error) {
	for _, elem := range sorted(m.Rules.Difference(seed)) {
		newSet := seed.Clone()
		newSet.Add(elem)
		sat, err := m.Sat(newSet)
		if err != nil {
			return nil, err
		}
		if sat {
			seed.Add(elem)
		}
	}
	return seed, nil
}

func (m *Marco) Shrink(seed IntSet) (IntSet, error) {
	for _, elem := range sorted(seed) {
		newSet := seed.Difference(NewIntSet(elem))
		sat, err := m.Sat(newSet)
		if err != nil {
			return nil, err
		}
		if !sat {
			seed.Remove(elem)
		}
	}
	return seed, nil
}

func (m *Marco) Sat(rules IntSet) (bool, error) {
	return m.SatFunc(sorted(rules))
}

func (m *Marco) Run() error {
	for m.Solver.Solve() {
		if m.LoopCounter >= m.MaxLoop {
			return ErrTooManyLoops
		}
		m.LoopCounter++

		seed := m.Solver.Model()
		sat, err := m.Sat(seed)
		if err != nil {
			return err
		}
		if sat {
			mss, err := m.Grow(seed)
			if err != nil {
				return err
			}
			m.MSSs = append(m.MSSs, mss)
			mcs := m.Rules.Difference(mss)
			m.logger.Debug("found MSS", "mss", sorted(mss), "mcs", sorted(mcs))
			if mcs.IsEmpty() {
				// every rule holds together: nothing to explain
				return nil
			}
			m.Solver.AddClause(mcs)
			continue
		}

		mus, err := m.Shrink(seed)
		if err != nil {
			return err
		}
		m.MUSs = append(m.MUSs, mus)
		m.logger.Debug("found MUS", "mus", sorted(mus))
		negs := NewIntSet()
		for v := range mus.Iter() {
			negs.Add(-v)
		}
		m.Solver.AddClause(negs)
	}
	return nil
}

func combinations(n int) [][2]int {
	var results [][2]int
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			results = append(results, [2]int{i, j})
		}
	}
	return results
}

// Analysis groups the MUSes found by Run into connected components of
// overlap and pairs each with the corrections that touch it.
func (m *Marco) Analysis() []Group {
	m.MCSs = m.MCSs[:0]
	for _, mss := range m.MSSs {
		m.MCSs = append(m.MCSs, m.Rules.Difference(mss))
	}

	musGraph := graph.NewGraph(len(m.MUSs))
	for _, pair := range combinations(musGraph.Len()) {
		if !m.MUSs[pair[0]].Intersect(m.MUSs[pair[1]]).IsEmpty() {
			musGraph.AddEdge(pair[0], pair[1])
		}
	}

	groups := make([]Group, 0)
	for _, component := range musGraph.Components() {
		musList := make([]IntSet, 0, len(component))
		critical := NewIntSet()
		for _, musID := range component {
			musList = append(musList, m.MUSs[musID])
			critical = critical.Union(m.MUSs[musID])
		}

		mcsList := make([]IntSet, 0)
		for _, mcs := range m.MCSs {
			reduced := mcs.Intersect(critical)
			if reduced.IsEmpty() {
				continue
			}
			exist := false
			for _, included := range mcsList {
				if reduced.Equal(included) {
					exist = true
					break
				}
			}
			if !exist {
				mcsList = append(mcsList, reduced)
			}
		}

		mssList := make([]IntSet, 0, len(mcsList))
		for _, mcs := range mcsList {
			mssList = append(mssList, critical.Difference(mcs))
		}

		groups = append(groups, Group{
			MCSs:     mcsList,
			MSSs:     mssList,
			MUSs:     musList,
			Critical: critical,
		})
	}
	return groups
}
