package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/autochart/internal/logging"
	_ "modernc.org/sqlite"
)

func init() {
	RegisterFormat(FormatDefinition{
		Key:        "sql",
		Label:      "SQL script",
		Extensions: []string{"sql"},
		Parse:      parseSQL,
	})
}

// openStore is swapped in tests to observe the store after a pass.
var openStore = openEphemeralStore

// parseSQL runs the script against a fresh in-memory SQLite database and
// returns the first table it created. The database never outlives the call.
func parseSQL(ctx context.Context, data []byte) (*Dataset, error) {
	store, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	if err := store.Exec(ctx, string(data)); err != nil {
		return nil, err
	}
	name, err := store.FirstTable(ctx)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Debug("reading first table from sql script", "table", name)
	return store.ReadTable(ctx, name)
}

// sqliteStore is a private in-memory SQLite database.
type sqliteStore struct {
	db *sql.DB
}

// openEphemeralStore opens an empty database. Each ":memory:" connection is
// its own database, so the pool is pinned to a single connection.
func openEphemeralStore(ctx context.Context) (*sqliteStore, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return &sqliteStore{db: db}, nil
}

// Exec runs every statement in script.
func (s *sqliteStore) Exec(ctx context.Context, script string) error {
	if _, err := s.db.ExecContext(ctx, script); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrParse, err)
	}
	return nil
}

// FirstTable returns the name of the earliest created table.
func (s *sqliteStore) FirstTable(ctx context.Context) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY rowid LIMIT 1`,
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoTableFound
	}
	if err != nil {
		return "", fmt.Errorf("list tables: %w", err)
	}
	return name, nil
}

// ReadTable materializes every row of the named table. A column is numeric
// when all its non-null values are stored as INTEGER or REAL; a column with
// no values at all is categorical.
func (s *sqliteStore) ReadTable(ctx context.Context, name string) (*Dataset, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT * FROM "`+strings.ReplaceAll(name, `"`, `""`)+`"`)
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", name, err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", name, err)
	}

	raw := make([][]any, len(names))
	for rows.Next() {
		vals := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("read table %s: %w", name, err)
		}
		for i, v := range vals {
			raw[i] = append(raw[i], v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read table %s: %w", name, err)
	}

	ds := &Dataset{Columns: make([]Column, len(names))}
	for i, colName := range normalizeHeader(names) {
		ds.Columns[i] = sqlColumn(colName, raw[i])
	}
	if err := ds.validate(); err != nil {
		return nil, fmt.Errorf("read table %s: %w", name, err)
	}
	return ds, nil
}

// Close releases the database. The store is unusable afterwards.
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func sqlColumn(name string, vals []any) Column {
	numeric, seen := true, false
	for _, v := range vals {
		switch v.(type) {
		case nil:
			continue
		case int64, float64:
			seen = true
		default:
			seen = true
			numeric = false
		}
	}

	col := Column{Name: name, Kind: KindCategorical, Values: make([]Value, len(vals))}
	if numeric && seen {
		col.Kind = KindNumeric
	}
	for i, v := range vals {
		col.Values[i] = sqlValue(v, col.Kind)
	}
	return col
}

func sqlValue(v any, kind ColumnKind) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case int64:
		if kind == KindNumeric {
			return Number(float64(x))
		}
		return Text(strconv.FormatInt(x, 10))
	case float64:
		if kind == KindNumeric {
			return Number(x)
		}
		return Text(strconv.FormatFloat(x, 'f', -1, 64))
	case string:
		return Text(x)
	case []byte:
		return Text(string(x))
	case bool:
		return Text(strconv.FormatBool(x))
	case time.Time:
		return Text(x.Format(time.RFC3339))
	default:
		return Text(fmt.Sprint(x))
	}
}
