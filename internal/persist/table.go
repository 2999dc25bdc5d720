package persist

import (
	"bytes"
	"fmt"

	"github.com/reldb/reldb/internal/table"
)

// magicTable identifies a table file, distinguishing it from an index file
// if the two are ever opened through the wrong loader.
const magicTable = "RLDT"

// EncodeTable serializes t into the versioned binary layout: a header
// (column names, types, extras, primary-key index) followed by
// length-prefixed rows with a per-slot type tag (spec.md S9).
func EncodeTable(t *table.Table) ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteString(magicTable)
	buf.WriteByte(FormatVersion)

	writeString(buf, t.Name)
	writeString(buf, t.PrimaryKey)

	writeUint32(buf, uint32(len(t.ColumnNames)))
	for i := range t.ColumnNames {
		writeString(buf, t.ColumnNames[i])
		buf.WriteByte(byte(t.ColumnTypes[i]))
		writeString(buf, t.ColumnExtras[i])
	}

	writeUint32(buf, uint32(len(t.Data)))
	for _, row := range t.Data {
		if row.IsLive() {
			buf.WriteByte(1)
			for _, v := range row.Values {
				if err := writeValue(buf, v); err != nil {
					return nil, fmt.Errorf("persist table %s: %w", t.Name, err)
				}
			}
		} else {
			buf.WriteByte(0)
		}
	}

	writeUint32(buf, uint32(len(t.InsertStack)))
	for _, pos := range t.InsertStack {
		writeUint32(buf, uint32(pos))
	}

	return buf.Bytes(), nil
}

// DecodeTable reconstructs a Table from bytes written by EncodeTable.
func DecodeTable(data []byte) (*table.Table, error) {
	r := bytes.NewReader(data)

	magic := make([]byte, len(magicTable))
	if _, err := r.Read(magic); err != nil {
		return nil, fmt.Errorf("persist: read magic: %w", err)
	}
	if string(magic) != magicTable {
		return nil, fmt.Errorf("persist: not a table file (magic %q)", magic)
	}
	version, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != FormatVersion {
		return nil, fmt.Errorf("persist: unsupported table format version %d", version)
	}

	name, err := readString(r)
	if err != nil {
		return nil, err
	}
	primaryKey, err := readString(r)
	if err != nil {
		return nil, err
	}

	colCount, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	names := make([]string, colCount)
	types := make([]table.ColumnType, colCount)
	extras := make([]string, colCount)
	for i := range names {
		n, err := readString(r)
		if err != nil {
			return nil, err
		}
		ct, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		ex, err := readString(r)
		if err != nil {
			return nil, err
		}
		names[i] = n
		types[i] = table.ColumnType(ct)
		extras[i] = ex
	}

	tbl, err := table.New(name, names, types, extras, primaryKey)
	if err != nil {
		return nil, err
	}

	rowCount, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	tbl.Data = make([]table.Row, rowCount)
	for i := range tbl.Data {
		live, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if live == 0 {
			tbl.Data[i] = table.Row{State: table.RowTombstone}
			continue
		}
		values := make([]any, colCount)
		for c := range values {
			v, err := readValue(r)
			if err != nil {
				return nil, err
			}
			values[c] = v
		}
		tbl.Data[i] = table.Row{State: table.RowLive, Values: values}
	}

	stackLen, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	tbl.InsertStack = make([]int, stackLen)
	for i := range tbl.InsertStack {
		pos, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		tbl.InsertStack[i] = int(pos)
	}

	return tbl, nil
}
