package wrds

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Relation kinds as pg_class spells them.
const (
	kindTable            = "r"
	kindView             = "v"
	kindForeignTable     = "f"
	kindPartitionedTable = "p"
)

// missingChild marks a view-only parent library for which the prefix scan
// found no child schema.
const missingChild = "missing"

// docBaseURL is the WRDS data dictionary; table links are built as
// <base>/<schema>_<table>/.
const docBaseURL = "https://wrds-www.wharton.upenn.edu/data-dictionary"

// librarySchemasQuery lists every schema usable by the current role that
// holds at least one table, view, foreign table, or partitioned table,
// with its distinct relation kinds aggregated. A schema holding only
// views is kept only when those views reference base relations in some
// other qualifying schema (one hop through the rewrite-rule dependency
// graph). Ordered by name; the reconciliation scan depends on that.
const librarySchemasQuery = `
WITH pgobjs AS (
    SELECT oid, relnamespace, relkind
    FROM pg_class
    WHERE relkind = ANY (ARRAY['r', 'v', 'f', 'p']::"char"[])
),
schemas AS (
    SELECT nspname AS schemaname,
        pg_namespace.oid AS schemaoid,
        array_agg(DISTINCT relkind::text ORDER BY relkind::text) AS relkinds
    FROM pg_namespace
    JOIN pgobjs ON pg_namespace.oid = pgobjs.relnamespace
    WHERE nspname !~ '(^pg_)|(_old$)|(_new$)|(information_schema)'
        AND has_schema_privilege(nspname, 'USAGE')
    GROUP BY nspname, pg_namespace.oid
)
SELECT schemaname, array_to_string(relkinds, ',') AS relkinds
FROM schemas
WHERE relkinds <> ARRAY['v']
UNION
SELECT nv.schemaname, array_to_string(nv.relkinds, ',') AS relkinds
FROM schemas nv
JOIN pg_class t ON nv.schemaoid = t.relnamespace AND t.relkind = 'v'
JOIN pg_rewrite rw ON t.oid = rw.ev_class
JOIN pg_depend d ON rw.oid = d.objid
    AND d.classid = 'pg_rewrite'::regclass
    AND d.refclassid = 'pg_class'::regclass
JOIN pg_class t2 ON d.refobjid = t2.oid AND t2.relkind IN ('r', 'f', 'p')
JOIN pg_namespace n2 ON t2.relnamespace = n2.oid
JOIN schemas s2 ON n2.nspname = s2.schemaname
WHERE nv.relkinds = ARRAY['v']
ORDER BY 1
`

const tablesQuery = `
SELECT DISTINCT table_name
FROM information_schema.columns
WHERE table_schema = $1
ORDER BY table_name
`

// schemaEntry is one row of the library-schema query.
type schemaEntry struct {
	Name  string
	Kinds []string
}

// LibraryMapping is the result of reconciling SAS-style parent libraries
// with their Postgres child schemas. Libraries holds the view-only
// parents in scan order; Children maps each parent to its child schema
// names, or to the "missing" sentinel when the scan found none.
type LibraryMapping struct {
	Libraries []string
	Children  map[string][]string
}

// IsLibrary reports whether name is one of the view-only parents.
func (m *LibraryMapping) IsLibrary(name string) bool {
	for _, l := range m.Libraries {
		if l == name {
			return true
		}
	}
	return false
}

// ChildSchemas returns the real child schemas of a parent, with the
// missing sentinel filtered out.
func (m *LibraryMapping) ChildSchemas(parent string) []string {
	var out []string
	for _, c := range m.Children[parent] {
		if c != missingChild {
			out = append(out, c)
		}
	}
	return out
}

// rearrangeLibraries associates parent libraries with child schemas by a
// single left-to-right scan over the name-sorted entries. A view-holding
// schema starts a new parent; a non-view schema is a child of the current
// parent iff its name carries the parent's name as a prefix. The prefix
// rule is a WRDS naming convention, not a relational fact; schemas
// matching neither pattern are dropped from the mapping.
func rearrangeLibraries(entries []schemaEntry) *LibraryMapping {
	m := &LibraryMapping{Children: make(map[string][]string)}

	parent := ""
	childCount := 0
	flush := func() {
		if parent != "" && childCount == 0 {
			m.Children[parent] = append(m.Children[parent], missingChild)
		}
	}

	for _, e := range entries {
		if hasKind(e.Kinds, kindView) {
			flush()
			parent = e.Name
			childCount = 0
			m.Libraries = append(m.Libraries, e.Name)
			continue
		}
		if parent != "" && strings.HasPrefix(e.Name, parent) {
			m.Children[parent] = append(m.Children[parent], e.Name)
			childCount++
		}
	}
	flush()
	return m
}

func hasKind(kinds []string, kind string) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// listSchemas runs the library-schema query and splits the aggregated
// kind list back out.
func (c *Conn) listSchemas(ctx context.Context) ([]schemaEntry, error) {
	res, err := c.query(ctx, librarySchemasQuery)
	if err != nil {
		return nil, err
	}

	names := res.Column("schemaname")
	kinds := res.Column("relkinds")
	entries := make([]schemaEntry, 0, len(names))
	for i := range names {
		entries = append(entries, schemaEntry{
			Name:  toString(names[i]),
			Kinds: strings.Split(toString(kinds[i]), ","),
		})
	}
	return entries, nil
}

func toString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

type librarySpec struct {
	sasOnly bool
}

// LibraryOption adjusts ListLibraries.
type LibraryOption func(*librarySpec)

// SASOnly restricts the listing to the reconciled SAS parent library
// names instead of the raw schema list.
func SASOnly() LibraryOption {
	return func(sp *librarySpec) { sp.sasOnly = true }
}

// ListLibraries returns the data libraries visible to the current role,
// ordered by name. By default the raw qualifying schema names are
// returned; with SASOnly only the reconciled parent libraries are.
func ListLibraries(ctx context.Context, t Target, opts ...LibraryOption) ([]string, error) {
	var sp librarySpec
	for _, opt := range opts {
		opt(&sp)
	}

	var libs []string
	err := t.withConn(ctx, func(c *Conn) error {
		entries, err := c.listSchemas(ctx)
		if err != nil {
			return err
		}
		if sp.sasOnly {
			libs = rearrangeLibraries(entries).Libraries
			return nil
		}
		for _, e := range entries {
			libs = append(libs, e.Name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return libs, nil
}

// MapLibraries returns the full parent/child reconciliation, for callers
// that present libraries together with their backing schemas.
func MapLibraries(ctx context.Context, t Target) (*LibraryMapping, error) {
	var m *LibraryMapping
	err := t.withConn(ctx, func(c *Conn) error {
		entries, err := c.listSchemas(ctx)
		if err != nil {
			return err
		}
		m = rearrangeLibraries(entries)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Table is one entry of a library's table listing.
type Table struct {
	Name   string
	DocURL string
}

type listTablesSpec struct {
	verify bool
}

// ListTablesOption adjusts ListTables.
type ListTablesOption func(*listTablesSpec)

// NoVerify skips data-dictionary link verification for view-only parent
// libraries. The listing then carries links built directly from the
// library name, and no table is filtered out.
func NoVerify() ListTablesOption {
	return func(sp *listTablesSpec) { sp.verify = false }
}

// ListTables lists the tables of a library, ordered by name, each with a
// data-dictionary link. When the library is a reconciled view-only parent
// and verification is on (the default), the listing is narrowed to tables
// that also exist in one of the parent's child schemas, and each link is
// built from the child schema that holds the table.
func ListTables(ctx context.Context, t Target, library string, opts ...ListTablesOption) ([]Table, error) {
	sp := listTablesSpec{verify: true}
	for _, opt := range opts {
		opt(&sp)
	}

	var tables []Table
	err := t.withConn(ctx, func(c *Conn) error {
		var err error
		tables, err = c.listTables(ctx, library, sp.verify)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tables, nil
}

func (c *Conn) listTables(ctx context.Context, library string, verify bool) ([]Table, error) {
	res, err := c.query(ctx, tablesQuery, library)
	if err != nil {
		return nil, err
	}
	names := res.Column("table_name")

	if verify {
		m, err := c.mapLibrariesOnConn(ctx)
		if err != nil {
			return nil, err
		}
		if m.IsLibrary(library) {
			return c.verifyTableLinks(ctx, m, library, names)
		}
	}

	tables := make([]Table, 0, len(names))
	for _, n := range names {
		name := toString(n)
		tables = append(tables, Table{Name: name, DocURL: docURL(library, name)})
	}
	return tables, nil
}

func (c *Conn) mapLibrariesOnConn(ctx context.Context) (*LibraryMapping, error) {
	entries, err := c.listSchemas(ctx)
	if err != nil {
		return nil, err
	}
	return rearrangeLibraries(entries), nil
}

// verifyTableLinks re-queries the parent's child schemas and keeps only
// tables present in both listings, pointing each link at the child schema
// that actually holds the table. Tables without a child-schema entry are
// dropped; a parent mapped to the missing sentinel therefore yields an
// empty listing.
func (c *Conn) verifyTableLinks(ctx context.Context, m *LibraryMapping, library string, names []any) ([]Table, error) {
	children := m.Children[library]
	if len(children) == 0 {
		return nil, nil
	}

	quoted := make([]string, len(children))
	for i, s := range children {
		quoted[i] = "'" + s + "'"
	}
	q := fmt.Sprintf(`
SELECT DISTINCT table_name, table_schema
FROM information_schema.columns
WHERE table_schema IN (%s)
ORDER BY table_name
`, strings.Join(quoted, ", "))

	res, err := c.query(ctx, q)
	if err != nil {
		return nil, err
	}

	childSchema := make(map[string]string)
	tnames := res.Column("table_name")
	tschemas := res.Column("table_schema")
	for i := range tnames {
		name := toString(tnames[i])
		if _, ok := childSchema[name]; !ok {
			childSchema[name] = toString(tschemas[i])
		}
	}

	var tables []Table
	for _, n := range names {
		name := toString(n)
		schema, ok := childSchema[name]
		if !ok {
			continue
		}
		tables = append(tables, Table{Name: name, DocURL: docURL(schema, name)})
	}
	return tables, nil
}

func docURL(schema, table string) string {
	return fmt.Sprintf("%s/%s_%s/", docBaseURL, schema, table)
}

type describeSpec struct {
	properties []string
}

// DescribeOption adjusts DescribeTable.
type DescribeOption func(*describeSpec)

// Properties selects which information_schema.columns attributes to
// return besides column_name, replacing the default of is_nullable and
// data_type.
func Properties(props ...string) DescribeOption {
	return func(sp *describeSpec) { sp.properties = props }
}

// describeQuery builds the column-description statement: column_name
// always leads, then the requested properties, in the table's ordinal
// column order.
func describeQuery(properties []string) string {
	cols := []string{"column_name"}
	for _, p := range properties {
		if p != "column_name" {
			cols = append(cols, p)
		}
	}
	return fmt.Sprintf(`
SELECT %s
FROM information_schema.columns
WHERE table_schema = $1 AND table_name = $2
ORDER BY ordinal_position
`, strings.Join(cols, ", "))
}

// DescribeTable returns the column description of library.table as a
// column-oriented result: column_name plus the requested properties
// (default is_nullable and data_type), one row per column in ordinal
// order.
func DescribeTable(ctx context.Context, t Target, library, table string, opts ...DescribeOption) (*QueryResult, error) {
	sp := describeSpec{properties: []string{"is_nullable", "data_type"}}
	for _, opt := range opts {
		opt(&sp)
	}

	var res *QueryResult
	err := t.withConn(ctx, func(c *Conn) error {
		var err error
		res, err = c.query(ctx, describeQuery(sp.properties), library, table)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

var planRowsRe = regexp.MustCompile(`"Plan Rows":\s*(\d+),`)

// extractPlanRows pulls the planner's row estimate out of EXPLAIN (FORMAT
// 'json') output. A plan without the expected marker is a *ParseError,
// never a silent zero.
func extractPlanRows(plan string) (int64, error) {
	match := planRowsRe.FindStringSubmatch(plan)
	if match == nil {
		return 0, &ParseError{What: `plan rows: no "Plan Rows" marker in EXPLAIN output`}
	}
	return strconv.ParseInt(match[1], 10, 64)
}

// ApproxRowCount returns the planner's row estimate for library.table.
// One EXPLAIN round trip; no count(*) scan.
func ApproxRowCount(ctx context.Context, t Target, library, table string) (int64, error) {
	var count int64
	err := t.withConn(ctx, func(c *Conn) error {
		q := fmt.Sprintf(`EXPLAIN (FORMAT 'json') SELECT 1 FROM %s.%s`, library, table)
		res, err := c.query(ctx, q)
		if err != nil {
			return err
		}

		var plan strings.Builder
		for _, col := range res.Columns {
			for _, v := range res.Values[col] {
				plan.WriteString(toString(v))
			}
		}

		count, err = extractPlanRows(plan.String())
		return err
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
