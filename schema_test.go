package wrds

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRearrangeLibraries(t *testing.T) {
	// Known limitation: child association relies on the WRDS naming
	// convention that child schema names start with the parent's name
	// and sort right after it. Nothing in the database enforces it.
	entries := []schemaEntry{
		{Name: "crsp", Kinds: []string{"v"}},
		{Name: "crsp_a_stock", Kinds: []string{"r"}},
		{Name: "crsp_a_indexes", Kinds: []string{"r"}},
		{Name: "other", Kinds: []string{"r"}},
	}

	m := rearrangeLibraries(entries)
	require.Equal(t, []string{"crsp"}, m.Libraries)
	require.Equal(t, []string{"crsp_a_stock", "crsp_a_indexes"}, m.Children["crsp"])
	// "other" has no prefix match and is dropped from the mapping.
	require.NotContains(t, m.Children, "other")
	require.Len(t, m.Children, 1)
}

func TestRearrangeLibraries_ChildlessParentGetsMissing(t *testing.T) {
	entries := []schemaEntry{
		{Name: "comp", Kinds: []string{"v"}},
		{Name: "crsp", Kinds: []string{"v"}},
		{Name: "crsp_a_stock", Kinds: []string{"r"}},
	}

	m := rearrangeLibraries(entries)
	require.Equal(t, []string{"comp", "crsp"}, m.Libraries)
	require.Equal(t, []string{"missing"}, m.Children["comp"])
	require.Equal(t, []string{"crsp_a_stock"}, m.Children["crsp"])
}

func TestRearrangeLibraries_TrailingChildlessParent(t *testing.T) {
	entries := []schemaEntry{
		{Name: "comp", Kinds: []string{"v"}},
	}

	m := rearrangeLibraries(entries)
	require.Equal(t, []string{"comp"}, m.Libraries)
	require.Equal(t, []string{"missing"}, m.Children["comp"])
	require.Empty(t, m.ChildSchemas("comp"))
}

func TestRearrangeLibraries_MixedKindSchemaIsParent(t *testing.T) {
	// A schema holding views alongside tables still starts a parent;
	// only the presence of the view kind matters to the scan.
	entries := []schemaEntry{
		{Name: "ibes", Kinds: []string{"r", "v"}},
		{Name: "ibes_new", Kinds: []string{"r"}},
	}

	m := rearrangeLibraries(entries)
	require.Equal(t, []string{"ibes"}, m.Libraries)
	require.Equal(t, []string{"ibes_new"}, m.Children["ibes"])
}

func TestRearrangeLibraries_Empty(t *testing.T) {
	m := rearrangeLibraries(nil)
	require.Empty(t, m.Libraries)
	require.Empty(t, m.Children)
}

func TestLibraryMappingHelpers(t *testing.T) {
	m := &LibraryMapping{
		Libraries: []string{"crsp"},
		Children:  map[string][]string{"crsp": {"crsp_a_stock", "missing"}},
	}
	require.True(t, m.IsLibrary("crsp"))
	require.False(t, m.IsLibrary("crsp_a_stock"))
	require.Equal(t, []string{"crsp_a_stock"}, m.ChildSchemas("crsp"))
}

func TestDocURL(t *testing.T) {
	require.Equal(t,
		"https://wrds-www.wharton.upenn.edu/data-dictionary/crsp_a_stock_dsf/",
		docURL("crsp_a_stock", "dsf"))
}

func TestDescribeQuery(t *testing.T) {
	q := describeQuery([]string{"is_nullable", "data_type"})
	require.Contains(t, q, "SELECT column_name, is_nullable, data_type")
	require.Contains(t, q, "ORDER BY ordinal_position")
}

func TestDescribeQuery_ColumnNameNotDuplicated(t *testing.T) {
	q := describeQuery([]string{"column_name", "data_type"})
	require.Contains(t, q, "SELECT column_name, data_type")
}

func TestExtractPlanRows(t *testing.T) {
	plan := `[{"Plan": {"Node Type": "Seq Scan", "Plan Rows": 12345, "Plan Width": 4}}]`
	n, err := extractPlanRows(plan)
	require.NoError(t, err)
	require.Equal(t, int64(12345), n)
}

func TestExtractPlanRows_MissingMarker(t *testing.T) {
	_, err := extractPlanRows(`[{"Plan": {"Node Type": "Seq Scan"}}]`)
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
}
