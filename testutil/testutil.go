// Package testutil provides helpers shared by the package tests.
package testutil

import (
	"log/slog"
	"testing"

	"menuplan/catalog"
)

// NewTestLogger returns a logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// ABC is the three-dish catalog most tests start from.
func ABC() *catalog.Catalog {
	return catalog.New(
		catalog.Dish{Name: "A", Calories: 300, Proteins: 10},
		catalog.Dish{Name: "B", Calories: 400, Proteins: 20.5},
		catalog.Dish{Name: "C", Calories: 500, Proteins: 5},
	)
}

// Menu is a catalog large enough for week plans.
func Menu() *catalog.Catalog {
	return catalog.New(
		catalog.Dish{Name: "Porridge", Calories: 350, Proteins: 12},
		catalog.Dish{Name: "Omelette", Calories: 450, Proteins: 25},
		catalog.Dish{Name: "Lentil soup", Calories: 400, Proteins: 18},
		catalog.Dish{Name: "Chicken salad", Calories: 550, Proteins: 40},
		catalog.Dish{Name: "Pasta", Calories: 700, Proteins: 22},
		catalog.Dish{Name: "Stir fry", Calories: 600, Proteins: 30},
		catalog.Dish{Name: "Yoghurt", Calories: 150, Proteins: 9},
		catalog.Dish{Name: "Fruit bowl", Calories: 200, Proteins: 2},
		catalog.Dish{Name: "Salmon", Calories: 650, Proteins: 45},
		catalog.Dish{Name: "Risotto", Calories: 750, Proteins: 15},
	)
}
