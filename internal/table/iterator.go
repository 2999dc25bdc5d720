package table

import "github.com/reldb/reldb/internal/btree"

// RowIterator is the shared abstraction the three join algorithms are
// expressed over (spec.md S9: "share a common iterator abstraction over
// tables (ordered scan vs. unordered scan vs. point lookup) so the selector
// ... can be expressed as a pure choice among iterators").
type RowIterator interface {
	// Next returns the next live row's position and value, or ok=false
	// once the iterator is exhausted.
	Next() (pos int, row Row, ok bool)
}

// UnorderedScan visits every live row of t in position order, backing
// inner_join's nested-loop outer/inner scans.
func (t *Table) UnorderedScan() RowIterator {
	return &unorderedScan{t: t}
}

type unorderedScan struct {
	t   *Table
	pos int
}

func (s *unorderedScan) Next() (int, Row, bool) {
	for s.pos < len(s.t.Data) {
		p := s.pos
		s.pos++
		if s.t.Data[p].IsLive() {
			return p, s.t.Data[p], true
		}
	}
	return 0, Row{}, false
}

// OrderedScan visits every live row of t in ascending primary-key order, as
// recorded by bt. It backs smj_join's merge scan over an indexed table.
func (t *Table) OrderedScan(bt *btree.Tree) RowIterator {
	return &orderedScan{t: t, positions: bt.Keys()}
}

type orderedScan struct {
	t         *Table
	positions []int
	idx       int
}

func (s *orderedScan) Next() (int, Row, bool) {
	for s.idx < len(s.positions) {
		p := s.positions[s.idx]
		s.idx++
		if p >= 0 && p < len(s.t.Data) && s.t.Data[p].IsLive() {
			return p, s.t.Data[p], true
		}
	}
	return 0, Row{}, false
}

// PointLookup probes bt for key and yields at most one row: the table's
// current value at the matched position, if still live. It backs
// select_where_with_btree and inlj_join's inner-side probe.
func (t *Table) PointLookup(bt *btree.Tree, key any) RowIterator {
	pos, found := bt.Find(key)
	return &pointLookup{t: t, pos: pos, found: found}
}

type pointLookup struct {
	t     *Table
	pos   int
	found bool
	used  bool
}

func (s *pointLookup) Next() (int, Row, bool) {
	if s.used || !s.found {
		return 0, Row{}, false
	}
	s.used = true
	if s.pos < 0 || s.pos >= len(s.t.Data) || !s.t.Data[s.pos].IsLive() {
		return 0, Row{}, false
	}
	return s.pos, s.t.Data[s.pos], true
}
