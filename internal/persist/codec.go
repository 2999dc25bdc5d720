// Package persist implements reldb's on-disk record format: an explicit,
// versioned, length-prefixed binary layout per table file and per index
// file, replacing the pickled-object-graph approach of
// original_source/miniDB/database.py (spec.md S9's re-architecture
// guidance: "replace pickling of live object graphs with an explicit,
// versioned record format... apply the same rule to the B-tree file").
package persist

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// FormatVersion is written as the first byte of every table and index
// file so a future incompatible layout change can be detected on load
// instead of silently misparsed.
const FormatVersion byte = 1

// valueTag distinguishes the dynamic type of an encoded value, needed for
// list elements (whose members are not constrained to one column type) and
// for B-tree keys (which are only known to be one of the five atomic
// types at index-build time, not at decode time).
type valueTag byte

const (
	tagNull valueTag = iota
	tagString
	tagInteger
	tagReal
	tagBoolean
	tagList
)

func writeUint32(buf *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	buf.Write(tmp[:])
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var tmp [4]byte
	if _, err := r.Read(tmp[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(tmp[:]), nil
}

func writeString(buf *bytes.Buffer, s string) {
	writeUint32(buf, uint32(len(s)))
	buf.WriteString(s)
}

func readString(r *bytes.Reader) (string, error) {
	n, err := readUint32(r)
	if err != nil {
		return "", err
	}
	out := make([]byte, n)
	if _, err := r.Read(out); err != nil {
		return "", err
	}
	return string(out), nil
}

// writeValue encodes an arbitrary coerced column value (string, int64,
// float64, bool, []any, or nil) tagged with its dynamic type.
func writeValue(buf *bytes.Buffer, v any) error {
	switch vv := v.(type) {
	case nil:
		buf.WriteByte(byte(tagNull))
	case string:
		buf.WriteByte(byte(tagString))
		writeString(buf, vv)
	case int64:
		buf.WriteByte(byte(tagInteger))
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], uint64(vv))
		buf.Write(tmp[:])
	case float64:
		buf.WriteByte(byte(tagReal))
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(vv))
		buf.Write(tmp[:])
	case bool:
		buf.WriteByte(byte(tagBoolean))
		if vv {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	case []any:
		buf.WriteByte(byte(tagList))
		writeUint32(buf, uint32(len(vv)))
		for _, item := range vv {
			if err := writeValue(buf, item); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("persist: unsupported value type %T", v)
	}
	return nil
}

func readValue(r *bytes.Reader) (any, error) {
	tagByte, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	switch valueTag(tagByte) {
	case tagNull:
		return nil, nil
	case tagString:
		return readString(r)
	case tagInteger:
		var tmp [8]byte
		if _, err := r.Read(tmp[:]); err != nil {
			return nil, err
		}
		return int64(binary.LittleEndian.Uint64(tmp[:])), nil
	case tagReal:
		var tmp [8]byte
		if _, err := r.Read(tmp[:]); err != nil {
			return nil, err
		}
		return math.Float64frombits(binary.LittleEndian.Uint64(tmp[:])), nil
	case tagBoolean:
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		return b != 0, nil
	case tagList:
		n, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		out := make([]any, n)
		for i := range out {
			v, err := readValue(r)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("persist: unknown value tag %d", tagByte)
	}
}
