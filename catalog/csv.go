package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	columnName     = "name"
	columnCalories = "calories"
	columnProteins = "proteins"
)

func LoadCSVFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	cat, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return cat, nil
}

// ReadCSV reads a header row naming at least the name, calories and proteins
// columns (in any order), followed by one dish per row.
func ReadCSV(r io.Reader) (*Catalog, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("missing header row")
	}
	if err != nil {
		return nil, err
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, want := range []string{columnName, columnCalories, columnProteins} {
		if _, ok := cols[want]; !ok {
			return nil, fmt.Errorf("missing column %q", want)
		}
	}

	var dishes []Dish
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		d, err := parseRecord(row, rec[cols[columnName]], rec[cols[columnCalories]], rec[cols[columnProteins]])
		if err != nil {
			return nil, err
		}
		dishes = append(dishes, d)
	}
	return New(dishes...), nil
}

func parseRecord(row int, name, calories, proteins string) (Dish, error) {
	cal, err := strconv.Atoi(strings.TrimSpace(calories))
	if err != nil {
		return Dish{}, &RowError{Row: row, Field: columnCalories, Reason: "not an integer"}
	}
	prot, err := strconv.ParseFloat(strings.TrimSpace(proteins), 64)
	if err != nil {
		return Dish{}, &RowError{Row: row, Field: columnProteins, Reason: "not a number"}
	}
	d := Dish{Name: strings.TrimSpace(name), Calories: cal, Proteins: prot}
	return d, validate(row, d)
}

func validate(row int, d Dish) error {
	if d.Name == "" {
		return &RowError{Row: row, Field: columnName, Reason: "empty"}
	}
	if d.Calories < 0 {
		return &RowError{Row: row, Field: columnCalories, Reason: "negative"}
	}
	return nil
}
