// Package catalog holds the dish records the planner chooses from and the
// loaders that read them from storage.
package catalog

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var ErrUnsupportedFormat = errors.New("unsupported catalog format")

type Dish struct {
	Index    int     `json:"index" yaml:"-"`
	Name     string  `json:"name" yaml:"name"`
	Calories int     `json:"calories" yaml:"calories"`
	Proteins float64 `json:"proteins" yaml:"proteins"`
}

// Catalog is an ordered, read-only list of dishes. A dish's Index is its
// position in the list.
type Catalog struct {
	dishes []Dish
}

// New builds a catalog from records in row order, assigning indices from 0.
func New(dishes ...Dish) *Catalog {
	ds := make([]Dish, len(dishes))
	for i, d := range dishes {
		d.Index = i
		ds[i] = d
	}
	return &Catalog{dishes: ds}
}

func (c *Catalog) Len() int {
	return len(c.dishes)
}

func (c *Catalog) Dish(i int) (Dish, bool) {
	if i < 0 || i >= len(c.dishes) {
		return Dish{}, false
	}
	return c.dishes[i], true
}

// Dishes returns a copy of the records in catalog order.
func (c *Catalog) Dishes() []Dish {
	out := make([]Dish, len(c.dishes))
	copy(out, c.dishes)
	return out
}

// Calories sums the calories of the dishes at the given indices, ignoring
// indices outside the catalog.
func (c *Catalog) Calories(indices []int) int {
	total := 0
	for _, i := range indices {
		if d, ok := c.Dish(i); ok {
			total += d.Calories
		}
	}
	return total
}

// Load reads a catalog from path, choosing the loader by file extension.
func Load(path string) (*Catalog, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSVFile(path)
	case ".yaml", ".yml":
		return LoadYAMLFile(path)
	case ".db", ".sqlite", ".sqlite3":
		return LoadSQLiteFile(path, DefaultTable)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

type RowError struct {
	Row    int
	Field  string
	Reason string
}

func (e *RowError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
	}
	return fmt.Sprintf("row %d: field %q: %s", e.Row, e.Field, e.Reason)
}
