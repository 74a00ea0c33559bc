package wrds

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func applySelect(opts ...SelectOption) selectSpec {
	sp := selectSpec{limit: defaultLimit}
	for _, opt := range opts {
		opt(&sp)
	}
	return sp
}

func TestBuildSelect_Defaults(t *testing.T) {
	sql := buildSelect("crsp", "dsf", applySelect())
	require.Equal(t, "SELECT * FROM crsp.dsf LIMIT 10", sql)
	require.NotContains(t, sql, "OFFSET")
}

func TestBuildSelect_Columns(t *testing.T) {
	sql := buildSelect("crsp", "dsf", applySelect(Columns("permno", "ret")))
	require.Equal(t, "SELECT permno, ret FROM crsp.dsf LIMIT 10", sql)
}

func TestBuildSelect_NoLimit(t *testing.T) {
	sql := buildSelect("crsp", "dsf", applySelect(NoLimit()))
	require.Equal(t, "SELECT * FROM crsp.dsf", sql)
}

func TestBuildSelect_LimitZeroBehavesLikeNoLimit(t *testing.T) {
	sql := buildSelect("crsp", "dsf", applySelect(Limit(0)))
	require.NotContains(t, sql, "LIMIT")
}

func TestBuildSelect_Offset(t *testing.T) {
	sql := buildSelect("crsp", "dsf", applySelect(Limit(100), Offset(50)))
	require.Equal(t, "SELECT * FROM crsp.dsf LIMIT 100 OFFSET 50", sql)
}

func TestBuildSelect_WhereSingle(t *testing.T) {
	sql := buildSelect("crsp", "dsf", applySelect(Where("ret > 0")))
	require.Equal(t, "SELECT * FROM crsp.dsf WHERE ret > 0 LIMIT 10", sql)
}

func TestBuildSelect_WhereJoinedWithAnd(t *testing.T) {
	sql := buildSelect("crsp", "dsf", applySelect(
		Where("date >= '2020-01-01'", "date < '2021-01-01'"),
		NoLimit(),
	))
	require.Equal(t,
		"SELECT * FROM crsp.dsf WHERE date >= '2020-01-01' AND date < '2021-01-01'",
		sql)
}

func TestBuildSelect_Everything(t *testing.T) {
	sql := buildSelect("comp", "funda", applySelect(
		Columns("gvkey", "fyear", "at"),
		Where("fyear = 2019"),
		Limit(5),
		Offset(5),
	))
	require.Equal(t,
		"SELECT gvkey, fyear, at FROM comp.funda WHERE fyear = 2019 LIMIT 5 OFFSET 5",
		sql)
}
