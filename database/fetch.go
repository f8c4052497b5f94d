package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// FetchAll runs a query and returns its column names plus every row as
// raw driver values, the shape grid.Sheet.Load consumes.
func FetchAll(db *sqlx.DB, query string, args ...any) ([]string, [][]any, error) {
	rows, err := db.Queryx(query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var recs [][]any
	for rows.Next() {
		rec, err := rows.SliceScan()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan row: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("row iteration failed: %w", err)
	}
	return cols, recs, nil
}
