package output

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"nlon/internal/domain"
)

// SQLiteSink stores every row in a "features" table, keyed by the source
// file and row index. Datasets sharing a name but read from different files
// are kept apart.
type SQLiteSink struct {
	db   *sql.DB
	path string
}

// NewSQLiteSink opens (or creates) the database at path and ensures the
// features table exists.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(createTableSQL()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create features table: %w", err)
	}

	return &SQLiteSink{db: db, path: path}, nil
}

func createTableSQL() string {
	defs := []string{
		"source TEXT NOT NULL",
		"dataset TEXT NOT NULL",
		"row_index INTEGER NOT NULL",
		"label TEXT",
	}
	for _, c := range domain.Columns {
		defs = append(defs, fmt.Sprintf("%s %s NOT NULL", c.Name, sqlType(c.Type)))
	}
	defs = append(defs, "PRIMARY KEY (source, row_index)")
	return "CREATE TABLE IF NOT EXISTS features (\n    " + strings.Join(defs, ",\n    ") + "\n)"
}

func sqlType(t domain.ColumnType) string {
	switch t {
	case domain.TypeInt, domain.TypeBool:
		return "INTEGER"
	case domain.TypeFloat:
		return "REAL"
	default:
		return "TEXT"
	}
}

func insertSQL() string {
	names := append([]string{"source", "dataset", "row_index", "label"}, domain.ColumnNames()...)
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")
	return fmt.Sprintf("INSERT OR REPLACE INTO features (%s) VALUES (%s)", strings.Join(names, ", "), marks)
}

// Write replaces the rows previously stored for the dataset's source file.
func (s *SQLiteSink) Write(ds domain.Dataset, table domain.FeatureTable) error {
	ctx := context.Background()
	source := sourceKey(ds)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM features WHERE source = ?", source); err != nil {
		return fmt.Errorf("clear dataset %s: %w", source, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL())
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range table.Rows {
		args := []any{source, ds.Name, i, nullableString(label(ds, i))}
		for _, v := range row.Values() {
			if b, ok := v.(bool); ok {
				v = boolToInt(b)
			}
			args = append(args, v)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row %d of %s: %w", i, ds.Name, err)
		}
	}

	return tx.Commit()
}

// DB exposes the underlying handle.
func (s *SQLiteSink) DB() *sql.DB {
	return s.db
}

func (s *SQLiteSink) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// sourceKey is the dataset's file path, or its name for datasets not read
// from a file.
func sourceKey(ds domain.Dataset) string {
	if ds.Path != "" {
		return ds.Path
	}
	return ds.Name
}

func nullableString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
