package persist

import (
	"bytes"
	"fmt"

	"github.com/reldb/reldb/internal/btree"
)

// magicIndex identifies a B-tree index file (<dbdir>/indexes/meta_<name>_index.<ext>
// per spec.md S6).
const magicIndex = "RLDX"

// EncodeIndex serializes a B-tree's key/payload pairs as one opaque blob
// (spec.md S4.2: "the entire tree is serialized as one opaque blob").
func EncodeIndex(bt *btree.Tree) ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteString(magicIndex)
	buf.WriteByte(FormatVersion)

	entries := bt.Entries()
	writeUint32(buf, uint32(len(entries)))
	for _, e := range entries {
		if err := writeValue(buf, e.Key); err != nil {
			return nil, fmt.Errorf("persist index: %w", err)
		}
		writeUint32(buf, uint32(e.Payload))
	}
	return buf.Bytes(), nil
}

// DecodeIndex reconstructs a B-tree from bytes written by EncodeIndex,
// ordering key less than comparisons with less (the comparator matching
// the indexed column's type).
func DecodeIndex(data []byte, less btree.Less) (*btree.Tree, error) {
	r := bytes.NewReader(data)

	magic := make([]byte, len(magicIndex))
	if _, err := r.Read(magic); err != nil {
		return nil, fmt.Errorf("persist: read index magic: %w", err)
	}
	if string(magic) != magicIndex {
		return nil, fmt.Errorf("persist: not an index file (magic %q)", magic)
	}
	version, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != FormatVersion {
		return nil, fmt.Errorf("persist: unsupported index format version %d", version)
	}

	count, err := readUint32(r)
	if err != nil {
		return nil, err
	}

	tree := btree.New(less)
	for i := uint32(0); i < count; i++ {
		key, err := readValue(r)
		if err != nil {
			return nil, err
		}
		payload, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		tree.Insert(key, int(payload))
	}
	return tree, nil
}
