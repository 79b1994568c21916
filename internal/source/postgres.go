package source

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/AndreiFloresU/Empleabilidad-CR/internal/db"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/table"
)

// PostgresSource loads and saves tables in a Postgres schema.
type PostgresSource struct {
	pool   db.Pool
	schema string
}

// NewPostgres connects a pgx pool to databaseURL.
func NewPostgres(ctx context.Context, databaseURL string) (*PostgresSource, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return NewPostgresWithPool(pool, "public"), nil
}

// NewPostgresWithPool wraps an existing pool. Tests pass a pgxmock pool.
func NewPostgresWithPool(pool db.Pool, schema string) *PostgresSource {
	if schema == "" {
		schema = "public"
	}
	return &PostgresSource{pool: pool, schema: schema}
}

// Name implements Source.
func (s *PostgresSource) Name() string { return "postgres:" + s.schema }

// Close releases the pool.
func (s *PostgresSource) Close() error {
	s.pool.Close()
	return nil
}

// Load implements Source.
func (s *PostgresSource) Load(ctx context.Context, name string) (*table.Table, error) {
	var actual string
	err := s.pool.QueryRow(ctx,
		`SELECT table_name FROM information_schema.tables
		 WHERE table_schema = $1 AND lower(table_name) = lower($2)
		 ORDER BY (table_name = $2) DESC LIMIT 1`,
		s.schema, name,
	).Scan(&actual)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrapf(ErrMissingTable, "%s: not in schema %s", name, s.schema)
		}
		return nil, eris.Wrapf(err, "postgres: lookup %s", name)
	}

	rows, err := s.pool.Query(ctx, "SELECT * FROM "+pgx.Identifier{s.schema, actual}.Sanitize())
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: select %s", actual)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name
	}

	t := table.New(name, cols)
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, eris.Wrapf(err, "postgres: scan %s", actual)
		}
		row := make([]table.Value, len(cols))
		for i := range row {
			if i < len(vals) {
				row[i] = cellFromSQL(vals[i])
			}
		}
		t.Append(row)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrapf(err, "postgres: iterate %s", actual)
	}
	return t, nil
}

// Save replaces the table named t.Name with an all-text copy of t, loaded via COPY.
func (s *PostgresSource) Save(ctx context.Context, t *table.Table) error {
	rows := make([][]any, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = rowToSQL(r)
	}
	n, err := db.ReplaceTable(ctx, s.pool, t.Name, t.Columns, rows)
	if err != nil {
		return eris.Wrapf(err, "postgres: save %s", t.Name)
	}
	if n != int64(len(rows)) {
		return eris.Errorf("postgres: save %s: copied %d of %d rows", t.Name, n, len(rows))
	}
	return nil
}
