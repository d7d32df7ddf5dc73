package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/isabelbroeder/unicycle-score-board/internal/adapters/repository/migrations"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// SQLiteStore persists the tables in a SQLite database file.
type SQLiteStore struct {
	db     *sql.DB
	schema map[string][]string
}

// OpenSQLite opens (or creates) the database at path and applies the
// embedded migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	s := &SQLiteStore{db: db, schema: make(map[string][]string)}
	for table := range Schema() {
		cols, err := s.tableColumns(ctx, table)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		s.schema[table] = cols
	}
	return s, nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) tableColumns(ctx context.Context, table string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM pragma_table_info(?) ORDER BY cid", table)
	if err != nil {
		return nil, fmt.Errorf("table info %s: %w", table, err)
	}
	defer rows.Close()
	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("table info %s: %w", table, err)
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("table info %s: %w", table, err)
	}
	if len(cols) == 0 {
		return nil, unknownTable(table)
	}
	return cols, nil
}

func (s *SQLiteStore) columns(table string) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, ErrClosed
	}
	cols, ok := s.schema[table]
	if !ok {
		return nil, unknownTable(table)
	}
	return cols, nil
}

// Read implements Store.
func (s *SQLiteStore) Read(ctx context.Context, table, where string, params ...any) ([]Row, error) {
	start := time.Now()
	defer observe("read", table, start)

	cols, err := s.columns(table)
	if err != nil {
		return nil, err
	}
	filter, err := parseFilter(where, params)
	if err != nil {
		return nil, err
	}
	if err := checkColumns(table, cols, filter); err != nil {
		return nil, err
	}

	query := "SELECT " + quoteAll(cols, ", ") + " FROM " + quote(table)
	if len(filter) > 0 {
		query += " WHERE " + conditions(filter, " AND ")
	}
	query += " ORDER BY rowid"

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		r := make(Row, len(cols))
		for i, c := range cols {
			r[c] = storedValue(values[i])
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	return out, nil
}

// Write implements Store. The table is replaced inside one transaction.
func (s *SQLiteStore) Write(ctx context.Context, table string, rows []Row) error {
	start := time.Now()
	defer observe("write", table, start)

	cols, err := s.columns(table)
	if err != nil {
		return err
	}
	for _, r := range rows {
		keys := make([]string, 0, len(r))
		for k := range r {
			keys = append(keys, k)
		}
		if err := checkColumns(table, cols, keys); err != nil {
			return err
		}
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+quote(table)); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
		stmt, err := tx.PrepareContext(ctx, "INSERT INTO "+quote(table)+" ("+quoteAll(cols, ", ")+") VALUES ("+placeholders+")")
		if err != nil {
			return fmt.Errorf("prepare insert %s: %w", table, err)
		}
		defer stmt.Close()
		for i, r := range rows {
			args := make([]any, len(cols))
			for j, c := range cols {
				args[j] = storedValue(r[c])
			}
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return fmt.Errorf("insert %s row %d: %w", table, i, err)
			}
		}
		return nil
	})
}

// UpdateMatching implements Store.
func (s *SQLiteStore) UpdateMatching(ctx context.Context, table string, rows []Row, keyColumns, updateColumns []string) error {
	start := time.Now()
	defer observe("update", table, start)

	cols, err := s.columns(table)
	if err != nil {
		return err
	}
	if len(keyColumns) == 0 || len(updateColumns) == 0 {
		return fmt.Errorf("%w: key and update columns are required", ErrInvalidFilter)
	}
	if err := checkColumns(table, cols, keyColumns); err != nil {
		return err
	}
	if err := checkColumns(table, cols, updateColumns); err != nil {
		return err
	}

	query := "UPDATE " + quote(table) + " SET " + conditions(updateColumns, ", ") + " WHERE " + conditions(keyColumns, " AND ")
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("prepare update %s: %w", table, err)
		}
		defer stmt.Close()
		for i, r := range rows {
			args := make([]any, 0, len(updateColumns)+len(keyColumns))
			for _, c := range updateColumns {
				args = append(args, storedValue(r[c]))
			}
			for _, c := range keyColumns {
				args = append(args, storedValue(r[c]))
			}
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return fmt.Errorf("update %s row %d: %w", table, i, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// quote returns name as a SQLite identifier. Names come from the table
// schema only.
func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteAll(names []string, sep string) string {
	q := make([]string, len(names))
	for i, n := range names {
		q[i] = quote(n)
	}
	return strings.Join(q, sep)
}

func conditions(names []string, sep string) string {
	q := make([]string, len(names))
	for i, n := range names {
		q[i] = quote(n) + " = ?"
	}
	return strings.Join(q, sep)
}
