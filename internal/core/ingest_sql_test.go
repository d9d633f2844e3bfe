package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trackStores records every store opened during the test.
func trackStores(t *testing.T) *[]*sqliteStore {
	t.Helper()
	var opened []*sqliteStore
	orig := openStore
	openStore = func(ctx context.Context) (*sqliteStore, error) {
		s, err := orig(ctx)
		if s != nil {
			opened = append(opened, s)
		}
		return s, err
	}
	t.Cleanup(func() { openStore = orig })
	return &opened
}

func requireClosed(t *testing.T, stores []*sqliteStore) {
	t.Helper()
	require.NotEmpty(t, stores)
	for _, s := range stores {
		assert.Error(t, s.db.PingContext(context.Background()), "store should be closed")
	}
}

func TestIngest_SQLThreeRows(t *testing.T) {
	stores := trackStores(t)

	script := `
CREATE TABLE t (name TEXT, qty INTEGER, price REAL);
INSERT INTO t VALUES ('a', 1, 1.5);
INSERT INTO t VALUES ('b', 2, 2.5);
INSERT INTO t VALUES ('c', 3, NULL);
`
	ds, err := Ingest(context.Background(), []byte(script), "sql")
	require.NoError(t, err)
	assert.Equal(t, 3, ds.NumRows())
	assert.Equal(t, []string{"name", "qty", "price"}, ds.ColumnNames())

	cls := Classify(ds)
	assert.Equal(t, []string{"name"}, cls.Categorical)
	assert.Equal(t, []string{"qty", "price"}, cls.Numeric)

	price, _ := ds.Column("price")
	assert.True(t, price.Values[2].IsNull())
	assert.Equal(t, []string{"b", "2", "2.5"}, ds.Row(1))

	requireClosed(t, *stores)
}

func TestIngest_SQLFirstTableWins(t *testing.T) {
	script := `
CREATE TABLE zebra (z INTEGER);
CREATE TABLE alpha (a TEXT);
INSERT INTO zebra VALUES (1), (2);
INSERT INTO alpha VALUES ('x');
`
	ds, err := Ingest(context.Background(), []byte(script), "sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"z"}, ds.ColumnNames())
	assert.Equal(t, 2, ds.NumRows())
}

func TestIngest_SQLEmptyTable(t *testing.T) {
	ds, err := Ingest(context.Background(), []byte(`CREATE TABLE t (a INTEGER, b TEXT);`), "sql")
	require.NoError(t, err)
	assert.True(t, ds.Empty())
	assert.Equal(t, 2, ds.NumColumns())
}

func TestIngest_SQLMixedColumn(t *testing.T) {
	script := `
CREATE TABLE t (v);
INSERT INTO t VALUES (1), ('two'), (NULL);
CREATE TABLE u (n);
`
	ds, err := Ingest(context.Background(), []byte(script), "sql")
	require.NoError(t, err)
	v, _ := ds.Column("v")
	assert.Equal(t, KindCategorical, v.Kind)
	assert.Equal(t, "1", v.Values[0].String())
	assert.True(t, v.Values[2].IsNull())
}

func TestIngest_SQLAllNullColumnIsCategorical(t *testing.T) {
	ds, err := Ingest(context.Background(), []byte(`CREATE TABLE t (a INTEGER, b INTEGER); INSERT INTO t VALUES (1, NULL);`), "sql")
	require.NoError(t, err)
	assert.Equal(t, Classification{Categorical: []string{"b"}, Numeric: []string{"a"}}, Classify(ds))
}

func TestIngest_SQLFailuresCloseStore(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		wantErr error
	}{
		{"syntax error", "CREATE TABLE (", ErrParse},
		{"no table", "CREATE VIEW v AS SELECT 1 AS x;", ErrNoTableFound},
		{"fails midway", "CREATE TABLE t (a INTEGER); INSERT INTO missing VALUES (1);", ErrParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stores := trackStores(t)
			_, err := Ingest(context.Background(), []byte(tt.script), "sql")
			require.ErrorIs(t, err, tt.wantErr)
			requireClosed(t, *stores)
		})
	}
}

func TestIngest_SQLStoresAreIsolated(t *testing.T) {
	_, err := Ingest(context.Background(), []byte(`CREATE TABLE t (a INTEGER); INSERT INTO t VALUES (1);`), "sql")
	require.NoError(t, err)

	// A second script that only reads t must not see the first one's table.
	_, err = Ingest(context.Background(), []byte(`INSERT INTO t VALUES (2);`), "sql")
	assert.ErrorIs(t, err, ErrParse)
}
