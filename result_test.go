package wrds

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite" // in-memory backend for scan-path tests
)

// openTestDB returns a wrapped in-memory database seeded with a small
// stocks table. The sqlite driver exercises the same database/sql scan
// path the warehouse results travel through.
func openTestDB(t *testing.T) *Conn {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE stocks (permno INTEGER, ret REAL, comnam TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO stocks VALUES
		(10001, 0.015, 'ACME CORP'),
		(10002, -0.003, 'GLOBEX'),
		(10003, 0.042, NULL)`)
	require.NoError(t, err)

	return NewConn(db)
}

func TestRawSQL_ColumnOriented(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	res, err := RawSQL(ctx, conn, `SELECT permno, ret, comnam FROM stocks ORDER BY permno`)
	require.NoError(t, err)

	require.Equal(t, []string{"permno", "ret", "comnam"}, res.Columns)
	require.Equal(t, 3, res.NumRows())
	require.Equal(t, []any{int64(10001), int64(10002), int64(10003)}, res.Column("permno"))
	require.Equal(t, "ACME CORP", res.Column("comnam")[0])
	require.Nil(t, res.Column("comnam")[2])
}

func TestRawSQL_ZeroRowsIsValidEmptyMapping(t *testing.T) {
	conn := openTestDB(t)

	res, err := RawSQL(context.Background(), conn, `SELECT permno, ret FROM stocks WHERE permno < 0`)
	require.NoError(t, err)

	require.Equal(t, []string{"permno", "ret"}, res.Columns)
	require.Equal(t, 0, res.NumRows())
	require.NotNil(t, res.Values["permno"])
	require.Empty(t, res.Values["permno"])
}

func TestRawSQL_BadSQLIsQueryError(t *testing.T) {
	conn := openTestDB(t)

	_, err := RawSQL(context.Background(), conn, `SELEC nonsense`)
	require.Error(t, err)

	var qerr *QueryError
	require.True(t, errors.As(err, &qerr))
	require.NotNil(t, qerr.Err)
}

func TestRawSQL_CallerConnectionStaysOpen(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	_, err := RawSQL(ctx, conn, `SELECT 1`)
	require.NoError(t, err)

	// A second operation on the same Conn must still work: operations
	// never close a connection they did not open.
	res, err := RawSQL(ctx, conn, `SELECT count(*) AS n FROM stocks`)
	require.NoError(t, err)
	require.Equal(t, []any{int64(3)}, res.Column("n"))
}

func TestGetTable_EndToEnd(t *testing.T) {
	conn := openTestDB(t)

	res, err := GetTable(context.Background(), conn, "main", "stocks",
		Columns("permno", "ret"), Limit(2))
	require.NoError(t, err)

	require.Equal(t, []string{"permno", "ret"}, res.Columns)
	require.Equal(t, 2, res.NumRows())
}

func TestGetTable_OffsetSkipsRows(t *testing.T) {
	conn := openTestDB(t)

	res, err := GetTable(context.Background(), conn, "main", "stocks",
		Columns("permno"), Where("permno > 10001"), Limit(10), Offset(1))
	require.NoError(t, err)

	require.Equal(t, []any{int64(10003)}, res.Column("permno"))
}

func TestQueryResultRows(t *testing.T) {
	res := &QueryResult{
		Columns: []string{"a", "b"},
		Values: map[string][]any{
			"a": {int64(1), int64(2)},
			"b": {"x", "y"},
		},
	}
	require.Equal(t, [][]any{{int64(1), "x"}, {int64(2), "y"}}, res.Rows())
}
