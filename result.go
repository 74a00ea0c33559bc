package wrds

import (
	"database/sql"
)

// QueryResult is the column-oriented shape every data-returning operation
// yields: Columns in select order, Values mapping each column name to its
// value slice. All slices have equal length. A zero-row result keeps its
// columns with empty (non-nil) slices.
type QueryResult struct {
	Columns []string
	Values  map[string][]any
}

// NumRows returns the row count.
func (r *QueryResult) NumRows() int {
	if len(r.Columns) == 0 {
		return 0
	}
	return len(r.Values[r.Columns[0]])
}

// Column returns the values of the named column, nil if absent.
func (r *QueryResult) Column(name string) []any {
	return r.Values[name]
}

// Rows converts to row-oriented form, cells in Columns order.
func (r *QueryResult) Rows() [][]any {
	n := r.NumRows()
	out := make([][]any, n)
	for i := 0; i < n; i++ {
		row := make([]any, len(r.Columns))
		for j, col := range r.Columns {
			row[j] = r.Values[col][i]
		}
		out[i] = row
	}
	return out
}

// collectResult drains rows into a QueryResult. Values scan through the
// generic any path; byte slices become strings so text columns are usable
// without driver-specific handling.
func collectResult(rows *sql.Rows) (*QueryResult, error) {
	colNames, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	res := &QueryResult{
		Columns: colNames,
		Values:  make(map[string][]any, len(colNames)),
	}
	for _, name := range colNames {
		res.Values[name] = []any{}
	}

	for rows.Next() {
		values := make([]any, len(colNames))
		ptrs := make([]any, len(colNames))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
			res.Values[colNames[i]] = append(res.Values[colNames[i]], values[i])
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}
