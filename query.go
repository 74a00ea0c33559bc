package wrds

import (
	"context"
	"fmt"
	"strings"
)

// RawSQL executes query verbatim and returns the full result. Nothing is
// escaped or validated; the query text is trusted. A zero-row result is a
// valid empty column mapping, not an error.
func RawSQL(ctx context.Context, t Target, query string) (*QueryResult, error) {
	var res *QueryResult
	err := t.withConn(ctx, func(c *Conn) error {
		var err error
		res, err = c.query(ctx, query)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// defaultLimit caps GetTable for casual exploration; NoLimit lifts it.
const defaultLimit = 10

type selectSpec struct {
	columns []string
	where   []string
	limit   int // <= 0 omits the LIMIT clause
	offset  int // <= 0 omits the OFFSET clause
}

// SelectOption adjusts GetTable.
type SelectOption func(*selectSpec)

// Columns restricts the select list to the given column names, joined
// verbatim. Default is *.
func Columns(names ...string) SelectOption {
	return func(sp *selectSpec) { sp.columns = names }
}

// Where appends filter conditions; multiple conditions are joined with
// AND. Condition text is trusted, as with RawSQL.
func Where(conditions ...string) SelectOption {
	return func(sp *selectSpec) { sp.where = append(sp.where, conditions...) }
}

// Limit replaces the default row cap of 10. n <= 0 behaves like NoLimit.
func Limit(n int) SelectOption {
	return func(sp *selectSpec) { sp.limit = n }
}

// NoLimit retrieves the full table.
func NoLimit() SelectOption {
	return func(sp *selectSpec) { sp.limit = 0 }
}

// Offset skips n rows. The default of 0 emits no OFFSET clause.
func Offset(n int) SelectOption {
	return func(sp *selectSpec) { sp.offset = n }
}

func buildSelect(library, table string, sp selectSpec) string {
	cols := "*"
	if len(sp.columns) > 0 {
		cols = strings.Join(sp.columns, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s.%s", cols, library, table)
	if len(sp.where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(sp.where, " AND "))
	}
	if sp.limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", sp.limit)
	}
	if sp.offset > 0 {
		fmt.Fprintf(&b, " OFFSET %d", sp.offset)
	}
	return b.String()
}

// GetTable retrieves rows of library.table. Without options it selects
// every column of the first 10 rows.
func GetTable(ctx context.Context, t Target, library, table string, opts ...SelectOption) (*QueryResult, error) {
	sp := selectSpec{limit: defaultLimit}
	for _, opt := range opts {
		opt(&sp)
	}
	return RawSQL(ctx, t, buildSelect(library, table, sp))
}
