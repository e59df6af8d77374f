package constraint

import (
	"slices"
	"strconv"

	mapset "github.com/deckarep/golang-set/v2"

	"menuplan/catalog"
)

const DefaultAlpha = 100

const (
	LabelCaloriesMin = "calories.min"
	LabelCaloriesMax = "calories.max"
	LabelCount       = "count"
	LabelDisabled    = "disabled"
)

// Request is what a caller asks of the encoder: Count dishes whose calories
// sum to within Alpha of Target, none of them in Disabled.
type Request struct {
	Target   int
	Alpha    int
	Count    int
	Disabled mapset.Set[int]
}

// NewRequest returns a request with the default tolerance and a fresh, empty
// disabled set.
func NewRequest(target, count int) Request {
	return Request{
		Target:   target,
		Alpha:    DefaultAlpha,
		Count:    count,
		Disabled: mapset.NewSet[int](),
	}
}

// Disable returns a copy of r whose disabled set also holds indices. The
// receiver's set is left untouched.
func (r Request) Disable(indices ...int) Request {
	all := slices.Clone(indices)
	if r.Disabled != nil {
		all = append(all, r.Disabled.ToSlice()...)
	}
	r.Disabled = mapset.NewSet[int](all...)
	return r
}

func (r Request) isDisabled(i int) bool {
	return r.Disabled != nil && r.Disabled.Contains(i)
}

// Encode builds the system with one variable x_i per dish of cat, in catalog
// order. Disabled indices that name no dish have no effect.
func Encode(cat *catalog.Catalog, req Request) *System {
	dishes := cat.Dishes()
	sys := &System{Vars: make([]Var, len(dishes))}

	calories := make([]Term, 0, len(dishes))
	count := make([]Term, 0, len(dishes))
	disabled := make([]Term, 0)
	for i, d := range dishes {
		sys.Vars[i] = Var{ID: i, Name: "x" + strconv.Itoa(d.Index)}
		calories = append(calories, Term{Var: i, Coef: d.Calories})
		count = append(count, Term{Var: i, Coef: 1})
		if req.isDisabled(d.Index) {
			disabled = append(disabled, Term{Var: i, Coef: 1})
		}
	}

	sys.Constraints = []Constraint{
		{Label: LabelCaloriesMin, Terms: calories, Op: GE, RHS: req.Target - req.Alpha},
		{Label: LabelCaloriesMax, Terms: calories, Op: LE, RHS: req.Target + req.Alpha},
		{Label: LabelCount, Terms: count, Op: EQ, RHS: req.Count},
		{Label: LabelDisabled, Terms: disabled, Op: EQ, RHS: 0},
	}
	return sys
}
