package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "modernc.org/sqlite"
)

const DefaultTable = "dishes"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func LoadSQLiteFile(path, table string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()
	return LoadSQL(context.Background(), db, table)
}

// LoadSQL reads the name, calories and proteins columns of table in rowid
// order.
func LoadSQL(ctx context.Context, db *sql.DB, table string) (*Catalog, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	rows, err := db.QueryContext(ctx, "SELECT name, calories, proteins FROM "+table+" ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var dishes []Dish
	for row := 1; rows.Next(); row++ {
		var (
			name     sql.NullString
			calories sql.NullInt64
			proteins sql.NullFloat64
		)
		if err := rows.Scan(&name, &calories, &proteins); err != nil {
			return nil, &RowError{Row: row, Reason: err.Error()}
		}
		if !calories.Valid {
			return nil, &RowError{Row: row, Field: columnCalories, Reason: "null"}
		}
		d := Dish{Name: name.String, Calories: int(calories.Int64), Proteins: proteins.Float64}
		if err := validate(row, d); err != nil {
			return nil, err
		}
		dishes = append(dishes, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return New(dishes...), nil
}
