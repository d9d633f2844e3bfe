package core

// history.go keeps a small log of pass metadata in Postgres.
//
// Only metadata is stored: file name, format, shape, chosen chart and the
// outcome. Uploaded data never leaves the process. History is optional; with
// no database configured the service uses NoopHistory.

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// PassStatus is the outcome of a pass.
type PassStatus string

const (
	PassOK    PassStatus = "ok"
	PassEmpty PassStatus = "empty"
	PassError PassStatus = "error"
)

// PassRecord is one row of pass history.
type PassRecord struct {
	ID         string     `json:"id"`
	FileName   string     `json:"file_name"`
	Format     string     `json:"format"`
	Rows       int        `json:"rows"`
	Columns    int        `json:"columns"`
	Chart      ChartKind  `json:"chart,omitempty"`
	Status     PassStatus `json:"status"`
	ErrorCode  string     `json:"error_code,omitempty"`
	DurationMS int64      `json:"duration_ms"`
	IPAddress  string     `json:"ip_address,omitempty"`
	UserAgent  string     `json:"user_agent,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// HistoryStore records and lists passes.
type HistoryStore interface {
	Record(ctx context.Context, rec PassRecord) error
	Recent(ctx context.Context, limit int) ([]PassRecord, error)
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
}

// NoopHistory discards every record.
type NoopHistory struct{}

func (NoopHistory) Record(context.Context, PassRecord) error { return nil }

func (NoopHistory) Recent(context.Context, int) ([]PassRecord, error) { return nil, nil }

func (NoopHistory) Prune(context.Context, time.Duration) (int64, error) { return 0, nil }

// PgHistory stores pass records in the pass_history table.
type PgHistory struct {
	db DBTX
}

// NewPgHistory returns a store backed by db.
func NewPgHistory(db DBTX) *PgHistory {
	return &PgHistory{db: db}
}

const historySchema = `
CREATE TABLE IF NOT EXISTS pass_history (
	id          UUID PRIMARY KEY,
	file_name   TEXT NOT NULL,
	format      TEXT NOT NULL DEFAULT '',
	rows        INTEGER NOT NULL DEFAULT 0,
	columns     INTEGER NOT NULL DEFAULT 0,
	chart       TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL,
	error_code  TEXT NOT NULL DEFAULT '',
	duration_ms BIGINT NOT NULL DEFAULT 0,
	ip_address  TEXT NOT NULL DEFAULT '',
	user_agent  TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS pass_history_created_at_idx ON pass_history (created_at DESC);
`

// EnsureSchema creates the history table if it does not exist.
func (h *PgHistory) EnsureSchema(ctx context.Context) error {
	if _, err := h.db.Exec(ctx, historySchema); err != nil {
		return fmt.Errorf("create pass_history: %w", err)
	}
	return nil
}

// Record inserts rec. A zero CreatedAt is stamped with the current time.
func (h *PgHistory) Record(ctx context.Context, rec PassRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := h.db.Exec(ctx, `
		INSERT INTO pass_history
			(id, file_name, format, rows, columns, chart, status, error_code, duration_ms, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		rec.ID, rec.FileName, rec.Format, rec.Rows, rec.Columns, string(rec.Chart),
		string(rec.Status), rec.ErrorCode, rec.DurationMS, rec.IPAddress, rec.UserAgent, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record pass %s: %w", rec.ID, err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (h *PgHistory) Recent(ctx context.Context, limit int) ([]PassRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := h.db.Query(ctx, `
		SELECT id::text, file_name, format, rows, columns, chart, status, error_code,
		       duration_ms, ip_address, user_agent, created_at
		FROM pass_history
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pass history: %w", err)
	}
	defer rows.Close()

	var out []PassRecord
	for rows.Next() {
		rec, err := scanPassRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pass history: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pass history: %w", err)
	}
	return out, nil
}

// Prune deletes records older than olderThan and returns how many went.
func (h *PgHistory) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	tag, err := h.db.Exec(ctx, `DELETE FROM pass_history WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune pass history: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanPassRecord(rows pgx.Rows) (PassRecord, error) {
	var (
		rec          PassRecord
		chart, state string
	)
	err := rows.Scan(
		&rec.ID, &rec.FileName, &rec.Format, &rec.Rows, &rec.Columns, &chart, &state,
		&rec.ErrorCode, &rec.DurationMS, &rec.IPAddress, &rec.UserAgent, &rec.CreatedAt,
	)
	if err != nil {
		return PassRecord{}, err
	}
	rec.Chart = ChartKind(chart)
	rec.Status = PassStatus(state)
	return rec, nil
}
