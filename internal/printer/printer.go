// Package printer implements the human-readable table pretty-printer
// external collaborator (spec.md S1, S6). text/tabwriter is used directly:
// no pack repo imports a table-rendering library, so this ambient concern
// stays on the standard library.
package printer

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/reldb/reldb/internal/table"
)

// Print writes t as a column-aligned table to w, cells padded with spaces,
// one tombstone-free row per line with a header of column names.
func Print(w io.Writer, t *table.Table) error {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)

	fmt.Fprintln(tw, strings.Join(t.ColumnNames, "\t"))

	for _, row := range t.Data {
		if !row.IsLive() {
			continue
		}
		cells := make([]string, len(row.Values))
		for i, v := range row.Values {
			cells[i] = formatValue(v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	return tw.Flush()
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	if list, ok := v.([]any); ok {
		cells := make([]string, len(list))
		for i, item := range list {
			cells[i] = formatValue(item)
		}
		return "[" + strings.Join(cells, ",") + "]"
	}
	return fmt.Sprintf("%v", v)
}
