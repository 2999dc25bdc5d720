package catalog

import (
	"strconv"

	"github.com/reldb/reldb/internal/csvio"
	"github.com/reldb/reldb/internal/table"
)

// ImportTable implements the import_table statement: the header becomes
// column_names, every remaining line is inserted row by row, unspecified
// column types default to string, and the table is locked for the
// duration via the canonical envelope.
func (d *Database) ImportTable(tableName, csvPath, primaryKey string) error {
	header, rows, err := csvio.Read(csvPath)
	if err != nil {
		return err
	}

	columnTypes := make([]string, len(header))
	for i := range columnTypes {
		columnTypes[i] = "string"
	}
	if err := d.CreateTable(tableName, header, columnTypes, nil, primaryKey); err != nil {
		return err
	}
	// Statement reloads from disk, so the new table must be persisted first.
	if err := d.SaveDatabase(); err != nil {
		return err
	}

	return d.Statement("import_table", tableName, func(t *table.Table) error {
		for _, record := range rows {
			values := make([]any, len(record))
			for i, cell := range record {
				values[i] = cell
			}
			if _, err := t.Insert(values); err != nil {
				return err
			}
		}
		return nil
	})
}

// Export implements the export statement: the current table's live rows
// are written to csvPath as CSV, header first.
func (d *Database) Export(tableName, csvPath string) error {
	return d.ReadStatement("export", tableName, func(db *Database) error {
		t, err := db.lookupTable(tableName)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(t.Data))
		for _, row := range t.Data {
			if !row.IsLive() {
				continue
			}
			cells := make([]string, len(row.Values))
			for i, v := range row.Values {
				cells[i] = exportCell(v)
			}
			rows = append(rows, cells)
		}
		return csvio.Write(csvPath, t.ColumnNames, rows)
	})
}

func exportCell(v any) string {
	switch vv := v.(type) {
	case nil:
		return ""
	case string:
		return vv
	case int64:
		return strconv.FormatInt(vv, 10)
	case float64:
		return strconv.FormatFloat(vv, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(vv)
	default:
		return ""
	}
}
