package core

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDB implements DBTX by recording statements.
type fakeDB struct {
	execSQL  []string
	execArgs [][]any
	execTag  pgconn.CommandTag
	execErr  error

	queryRows [][]any
	queryArgs []any
	queryErr  error
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	f.execSQL = append(f.execSQL, sql)
	f.execArgs = append(f.execArgs, args)
	return f.execTag, f.execErr
}

func (f *fakeDB) Query(_ context.Context, _ string, args ...interface{}) (pgx.Rows, error) {
	f.queryArgs = args
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return &fakeRows{rows: f.queryRows, idx: -1}, nil
}

func (f *fakeDB) QueryRow(context.Context, string, ...interface{}) pgx.Row {
	return nil
}

// fakeRows serves fixed values through pgx.Rows.
type fakeRows struct {
	rows [][]any
	idx  int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx < len(r.rows)
}

func (r *fakeRows) Values() ([]any, error) { return r.rows[r.idx], nil }

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.idx]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(row))
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(row[i]))
	}
	return nil
}

func TestPgHistory_Record(t *testing.T) {
	db := &fakeDB{execTag: pgconn.NewCommandTag("INSERT 0 1")}
	h := NewPgHistory(db)

	err := h.Record(context.Background(), PassRecord{
		ID:       "2f1b7a4e-0000-4000-8000-000000000001",
		FileName: "sales.csv",
		Format:   "csv",
		Rows:     2,
		Columns:  2,
		Chart:    ChartBar,
		Status:   PassOK,
	})
	require.NoError(t, err)
	require.Len(t, db.execSQL, 1)
	assert.Contains(t, db.execSQL[0], "INSERT INTO pass_history")

	args := db.execArgs[0]
	require.Len(t, args, 12)
	assert.Equal(t, "sales.csv", args[1])
	assert.Equal(t, "bar", args[5])
	assert.Equal(t, "ok", args[6])
	assert.False(t, args[11].(time.Time).IsZero(), "CreatedAt is stamped")
}

func TestPgHistory_RecordError(t *testing.T) {
	db := &fakeDB{execErr: errors.New("connection refused")}
	err := NewPgHistory(db).Record(context.Background(), PassRecord{ID: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record pass x")
}

func TestPgHistory_Recent(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	db := &fakeDB{queryRows: [][]any{
		{"id-1", "a.csv", "csv", 3, 2, "bar", "ok", "", int64(12), "10.0.0.1", "curl", created},
		{"id-2", "b.sql", "sql", 0, 0, "", "error", "SQL001", int64(4), "", "", created.Add(-time.Minute)},
	}}

	recs, err := NewPgHistory(db).Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, []any{50}, db.queryArgs, "non-positive limit uses the default")

	assert.Equal(t, ChartBar, recs[0].Chart)
	assert.Equal(t, PassOK, recs[0].Status)
	assert.Equal(t, created, recs[0].CreatedAt)
	assert.Equal(t, PassError, recs[1].Status)
	assert.Equal(t, "SQL001", recs[1].ErrorCode)
}

func TestPgHistory_Prune(t *testing.T) {
	db := &fakeDB{execTag: pgconn.NewCommandTag("DELETE 7")}
	n, err := NewPgHistory(db).Prune(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.True(t, strings.HasPrefix(db.execSQL[0], "DELETE FROM pass_history"))

	cutoff := db.execArgs[0][0].(time.Time)
	assert.WithinDuration(t, time.Now().Add(-24*time.Hour), cutoff, time.Minute)
}

func TestPgHistory_EnsureSchema(t *testing.T) {
	db := &fakeDB{}
	require.NoError(t, NewPgHistory(db).EnsureSchema(context.Background()))
	assert.Contains(t, db.execSQL[0], "CREATE TABLE IF NOT EXISTS pass_history")
}

func TestNoopHistory(t *testing.T) {
	var h HistoryStore = NoopHistory{}
	require.NoError(t, h.Record(context.Background(), PassRecord{}))
	recs, err := h.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestHistoryPruner(t *testing.T) {
	h := &memHistory{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		StartHistoryPruner(ctx, h, PruneConfig{Retention: time.Hour, Interval: 20 * time.Millisecond})
		close(done)
	}()

	require.Eventually(t, func() bool {
		h.mu.Lock()
		defer h.mu.Unlock()
		return h.pruned >= 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pruner did not stop after cancel")
	}
}

func TestPruneConfigDefaults(t *testing.T) {
	cfg := PruneConfig{}.withDefaults()
	assert.Equal(t, 30*24*time.Hour, cfg.Retention)
	assert.Equal(t, time.Hour, cfg.Interval)
}
