package print

import (
	"fmt"
	"io"

	wrds "github.com/wrds-tools/wrds-go"
)

// RenderLibraries writes the reconciled library mapping: one line per
// parent library with its backing schemas.
func RenderLibraries(w io.Writer, m *wrds.LibraryMapping) {
	width := 0
	for _, lib := range m.Libraries {
		if len(lib) > width {
			width = len(lib)
		}
	}

	for _, lib := range m.Libraries {
		children := m.ChildSchemas(lib)
		if len(children) == 0 {
			fmt.Fprintf(w, "%s\n", lib)
			continue
		}
		for i, child := range children {
			name := lib
			if i > 0 {
				name = ""
			}
			fmt.Fprintf(w, "%s  %s\n", padRight(name, width), child)
		}
	}
}

// RenderTables writes a library's table listing with data-dictionary
// links.
func RenderTables(w io.Writer, library string, tables []wrds.Table) {
	fmt.Fprintf(w, "Tables in %s:\n", library)
	if len(tables) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}

	width := 0
	for _, t := range tables {
		if len(t.Name) > width {
			width = len(t.Name)
		}
	}
	for _, t := range tables {
		fmt.Fprintf(w, "  %s  %s\n", padRight(t.Name, width), t.DocURL)
	}
}

// RenderDescription writes a table description: approximate row count
// header, then the column properties as a table.
func RenderDescription(w io.Writer, library, table string, approxRows int64, desc *wrds.QueryResult) {
	fmt.Fprintf(w, "Approximately %d rows in %s.%s.\n", approxRows, library, table)
	RenderResult(w, desc, Options{})
}
