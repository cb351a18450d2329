package duckdb

import (
	"context"
	"database/sql"
	"fmt"
)

// nullableString converts an optional string pointer into a SQL argument.
func nullableString(value *string) any {
	if value == nil || *value == "" {
		return nil
	}
	return *value
}

// nullableInt stores zero as NULL.
func nullableInt(value int) any {
	if value == 0 {
		return nil
	}
	return value
}

// rowExists reports whether table has a row whose keyColumn equals key.
func rowExists(ctx context.Context, db *sql.DB, table, keyColumn, key string) (bool, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = ?", table, keyColumn)
	var count int
	if err := db.QueryRowContext(ctx, query, key).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
