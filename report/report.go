// Package report renders a selection for people and programs.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"menuplan/catalog"
	"menuplan/diagnose"
)

const (
	Text  = "text"
	Table = "table"
	JSON  = "json"
)

const NoSolution = "No Solution"

func Formats() []string {
	return []string{Text, Table, JSON}
}

func ValidFormat(format string) bool {
	return slices.Contains(Formats(), format)
}

// Plan is the machine readable form of one selection.
type Plan struct {
	ID            string         `json:"id,omitempty"`
	Feasible      bool           `json:"feasible"`
	Dishes        []catalog.Dish `json:"dishes"`
	TotalCalories int            `json:"total_calories"`
	TotalProteins float64        `json:"total_proteins"`
}

// NewPlan looks the selected indices up in cat. Dishes is empty, never nil,
// so that JSON shows [] for both infeasible and empty answers.
func NewPlan(cat *catalog.Catalog, sel []int, ok bool) Plan {
	p := Plan{Feasible: ok, Dishes: []catalog.Dish{}}
	if !ok {
		return p
	}
	for _, i := range sel {
		d, found := cat.Dish(i)
		if !found {
			continue
		}
		p.Dishes = append(p.Dishes, d)
		p.TotalCalories += d.Calories
		p.TotalProteins += d.Proteins
	}
	return p
}

// Write renders the selection in format. An unknown format is an error.
func Write(w io.Writer, cat *catalog.Catalog, sel []int, ok bool, format string) error {
	p := NewPlan(cat, sel, ok)
	switch format {
	case Text, "":
		return writeText(w, p)
	case Table:
		return writeTable(w, p)
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}
	return fmt.Errorf("unknown output format %q", format)
}

func writeText(w io.Writer, p Plan) error {
	if !p.Feasible {
		_, err := fmt.Fprintln(w, NoSolution)
		return err
	}
	for _, d := range p.Dishes {
		if _, err := fmt.Fprintf(w, "%s has got %d calories and %s proteins\n",
			d.Name, d.Calories, formatFloat(d.Proteins)); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(w io.Writer, p Plan) error {
	if !p.Feasible {
		_, err := fmt.Fprintln(w, NoSolution)
		return err
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	// same casing as the text format
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(table.Row{"#", "Dish", "Calories", "Proteins"})
	for _, d := range p.Dishes {
		t.AppendRow(table.Row{d.Index, d.Name, d.Calories, formatFloat(d.Proteins)})
	}
	t.AppendFooter(table.Row{"", "Total", p.TotalCalories, formatFloat(p.TotalProteins)})
	t.Render()
	return nil
}

// WriteDays renders consecutive daily selections. When fewer than requested
// days could be planned, the first missing day is shown as infeasible.
func WriteDays(w io.Writer, cat *catalog.Catalog, days [][]int, requested int, format string) error {
	if format == JSON {
		plans := make([]Plan, 0, requested)
		for _, sel := range days {
			plans = append(plans, NewPlan(cat, sel, true))
		}
		if len(days) < requested {
			plans = append(plans, NewPlan(cat, nil, false))
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plans)
	}
	if !ValidFormat(format) && format != "" {
		return fmt.Errorf("unknown output format %q", format)
	}

	day := func(n int, sel []int, ok bool) error {
		if _, err := fmt.Fprintf(w, "Day %d\n", n); err != nil {
			return err
		}
		return Write(w, cat, sel, ok, format)
	}
	for i, sel := range days {
		if err := day(i+1, sel, true); err != nil {
			return err
		}
	}
	if len(days) < requested {
		return day(len(days)+1, nil, false)
	}
	return nil
}

// WriteConflicts lists why a selection is infeasible, one block per
// conflict.
func WriteConflicts(w io.Writer, conflicts []diagnose.Conflict) error {
	for i, c := range conflicts {
		if _, err := fmt.Fprintf(w, "conflict %d between %v\n", i+1, c.Constraints); err != nil {
			return err
		}
		for _, cause := range c.Causes {
			if _, err := fmt.Fprintf(w, "  cannot hold together: %v\n", cause); err != nil {
				return err
			}
		}
		for _, fix := range c.Corrections {
			if _, err := fmt.Fprintf(w, "  relax: %v\n", fix); err != nil {
				return err
			}
		}
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
