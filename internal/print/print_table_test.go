package print

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	wrds "github.com/wrds-tools/wrds-go"
)

func TestRenderResult(t *testing.T) {
	res := &wrds.QueryResult{
		Columns: []string{"permno", "comnam"},
		Values: map[string][]any{
			"permno": {int64(10001), int64(10002)},
			"comnam": {"ACME CORP", nil},
		},
	}

	var buf bytes.Buffer
	RenderResult(&buf, res, Options{})
	out := buf.String()

	require.Contains(t, out, "| permno | comnam")
	require.Contains(t, out, "10001")
	require.Contains(t, out, "ACME CORP")
	require.Contains(t, out, "NULL")
}

func TestRenderResult_NoColumns(t *testing.T) {
	var buf bytes.Buffer
	RenderResult(&buf, &wrds.QueryResult{}, Options{})
	require.Equal(t, "(no columns)\n", buf.String())
}

func TestRenderResult_TruncatesWideCells(t *testing.T) {
	res := &wrds.QueryResult{
		Columns: []string{"c"},
		Values:  map[string][]any{"c": {strings.Repeat("x", 100)}},
	}

	var buf bytes.Buffer
	RenderResult(&buf, res, Options{MaxWidth: 10})

	require.Contains(t, buf.String(), "xxxxxxx...")
	require.NotContains(t, buf.String(), strings.Repeat("x", 11))
}

func TestRenderLibraries(t *testing.T) {
	m := &wrds.LibraryMapping{
		Libraries: []string{"comp", "crsp"},
		Children: map[string][]string{
			"comp": {"missing"},
			"crsp": {"crsp_a_stock", "crsp_a_indexes"},
		},
	}

	var buf bytes.Buffer
	RenderLibraries(&buf, m)
	out := buf.String()

	require.Contains(t, out, "comp")
	require.Contains(t, out, "crsp  crsp_a_stock")
	require.Contains(t, out, "crsp_a_indexes")
	// the missing sentinel is presentation-internal, never printed
	require.NotContains(t, out, "missing")
}

func TestRenderTables(t *testing.T) {
	tables := []wrds.Table{
		{Name: "dsf", DocURL: "https://wrds-www.wharton.upenn.edu/data-dictionary/crsp_a_stock_dsf/"},
		{Name: "msf", DocURL: "https://wrds-www.wharton.upenn.edu/data-dictionary/crsp_a_stock_msf/"},
	}

	var buf bytes.Buffer
	RenderTables(&buf, "crsp", tables)
	out := buf.String()

	require.Contains(t, out, "Tables in crsp:")
	require.Contains(t, out, "dsf")
	require.Contains(t, out, "crsp_a_stock_msf")
}

func TestRenderTables_Empty(t *testing.T) {
	var buf bytes.Buffer
	RenderTables(&buf, "crsp", nil)
	require.Contains(t, buf.String(), "(none)")
}
