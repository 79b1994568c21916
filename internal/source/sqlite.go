package source

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/AndreiFloresU/Empleabilidad-CR/internal/table"
)

// SQLiteSource loads and saves tables in a SQLite database using modernc.org/sqlite.
type SQLiteSource struct {
	db  *sql.DB
	dsn string
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteSource{db: db, dsn: dsn}, nil
}

// Name implements Source.
func (s *SQLiteSource) Name() string { return "sqlite:" + s.dsn }

// Close releases the database handle.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

// Load implements Source.
func (s *SQLiteSource) Load(ctx context.Context, name string) (*table.Table, error) {
	actual, err := s.lookup(ctx, name)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT * FROM "+quoteSQLite(actual))
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: select %s", actual)
	}
	defer rows.Close() //nolint:errcheck

	cols, err := rows.Columns()
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: columns")
	}

	t := table.New(name, cols)
	dest := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range dest {
		ptrs[i] = &dest[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, eris.Wrapf(err, "sqlite: scan %s", actual)
		}
		row := make([]table.Value, len(cols))
		for i, v := range dest {
			row[i] = cellFromSQL(v)
		}
		t.Append(row)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrapf(err, "sqlite: iterate %s", actual)
	}
	return t, nil
}

// Save replaces the table named t.Name with an all-text copy of t.
func (s *SQLiteSource) Save(ctx context.Context, t *table.Table) error {
	if len(t.Columns) == 0 {
		return eris.Errorf("sqlite: save %s: no columns", t.Name)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	name := quoteSQLite(t.Name)
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+name); err != nil {
		return eris.Wrapf(err, "sqlite: drop %s", t.Name)
	}

	defs := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		defs[i] = quoteSQLite(c) + " TEXT"
		marks[i] = "?"
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(defs, ", "))); err != nil {
		return eris.Wrapf(err, "sqlite: create %s", t.Name)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", name, strings.Join(marks, ", ")))
	if err != nil {
		return eris.Wrapf(err, "sqlite: prepare insert %s", t.Name)
	}
	defer stmt.Close() //nolint:errcheck

	for _, r := range t.Rows {
		if _, err := stmt.ExecContext(ctx, rowToSQL(r)...); err != nil {
			return eris.Wrapf(err, "sqlite: insert %s", t.Name)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

func (s *SQLiteSource) lookup(ctx context.Context, name string) (string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type IN ('table', 'view')")
	if err != nil {
		return "", eris.Wrap(err, "sqlite: list tables")
	}
	defer rows.Close() //nolint:errcheck

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return "", eris.Wrap(err, "sqlite: scan table name")
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return "", eris.Wrap(err, "sqlite: list tables")
	}

	actual, ok := matchName(name, names)
	if !ok {
		return "", eris.Wrapf(ErrMissingTable, "%s: not in %s", name, s.dsn)
	}
	return actual, nil
}

func quoteSQLite(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
