// Package btree implements the primary-key index: an ordered multi-way tree
// of minimum degree 3 mapping key values to row positions.
//
// Nodes live in an arena (a growable slice) and reference each other by
// integer handle rather than pointer, avoiding owning-pointer cycles. The
// whole tree is serialized as one opaque blob rather than paging individual
// nodes, so an in-memory arena of handles is enough.
package btree

import "sort"

// Degree is the B-tree's minimum degree t: each non-root node holds between
// t-1 and 2t-1 keys, and between t and 2t children when internal.
const Degree = 3

const maxKeys = 2*Degree - 1

// Less compares two key values of the same underlying type, returning true
// if a sorts strictly before b. The caller supplies one matching the
// indexed column's type.
type Less func(a, b any) bool

type nodeHandle int

const nilHandle nodeHandle = -1

type node struct {
	leaf     bool
	keys     []any
	payloads []int
	children []nodeHandle
}

// Tree is a B-tree of minimum degree Degree. Keys are primary-key values;
// payloads are row positions in the owning table.
type Tree struct {
	less  Less
	arena []node
	root  nodeHandle
}

// New constructs an empty Tree that orders keys with less.
func New(less Less) *Tree {
	t := &Tree{less: less}
	t.root = t.newNode(true)
	return t
}

func (t *Tree) newNode(leaf bool) nodeHandle {
	t.arena = append(t.arena, node{leaf: leaf})
	return nodeHandle(len(t.arena) - 1)
}

func (t *Tree) at(h nodeHandle) *node {
	return &t.arena[h]
}

// Insert inserts one key/payload pair. Duplicate keys are permitted by the
// structure; the database layer enforces primary-key uniqueness before
// calling Insert.
func (t *Tree) Insert(key any, payload int) {
	root := t.at(t.root)
	if len(root.keys) == maxKeys {
		newRoot := t.newNode(false)
		t.at(newRoot).children = []nodeHandle{t.root}
		t.root = newRoot
		t.splitChild(newRoot, 0)
	}
	t.insertNonFull(t.root, key, payload)
}

func (t *Tree) insertNonFull(h nodeHandle, key any, payload int) {
	n := t.at(h)
	i := t.searchIndex(n, key)

	if n.leaf {
		n.keys = append(n.keys, nil)
		n.payloads = append(n.payloads, 0)
		copy(n.keys[i+1:], n.keys[i:len(n.keys)-1])
		copy(n.payloads[i+1:], n.payloads[i:len(n.payloads)-1])
		n.keys[i] = key
		n.payloads[i] = payload
		return
	}

	child := n.children[i]
	if len(t.at(child).keys) == maxKeys {
		t.splitChild(h, i)
		n = t.at(h)
		if t.less(n.keys[i], key) {
			i++
		}
	}
	t.insertNonFull(n.children[i], key, payload)
}

// splitChild splits the full child at index i of parent h, preserving the
// invariant that no parent is full when a child is split.
func (t *Tree) splitChild(h nodeHandle, i int) {
	parent := t.at(h)
	childH := parent.children[i]
	child := t.at(childH)

	mid := Degree - 1
	sibH := t.newNode(child.leaf)

	sib := t.at(sibH)
	sib.keys = append(sib.keys, child.keys[mid+1:]...)
	sib.payloads = append(sib.payloads, child.payloads[mid+1:]...)
	if !child.leaf {
		sib.children = append(sib.children, child.children[mid+1:]...)
	}
	midKey, midPayload := child.keys[mid], child.payloads[mid]

	child.keys = child.keys[:mid]
	child.payloads = child.payloads[:mid]
	if !child.leaf {
		child.children = child.children[:mid+1]
	}

	parent = t.at(h)
	parent.children = append(parent.children, nilHandle)
	copy(parent.children[i+2:], parent.children[i+1:len(parent.children)-1])
	parent.children[i+1] = sibH

	parent.keys = append(parent.keys, nil)
	parent.payloads = append(parent.payloads, 0)
	copy(parent.keys[i+1:], parent.keys[i:len(parent.keys)-1])
	copy(parent.payloads[i+1:], parent.payloads[i:len(parent.payloads)-1])
	parent.keys[i] = midKey
	parent.payloads[i] = midPayload
}

// searchIndex returns the index of the first key in n not less than key.
func (t *Tree) searchIndex(n *node, key any) int {
	return sort.Search(len(n.keys), func(i int) bool {
		return !t.less(n.keys[i], key)
	})
}

// Find returns the row position associated with key, and whether it was
// present.
func (t *Tree) Find(key any) (int, bool) {
	return t.findFrom(t.root, key)
}

func (t *Tree) findFrom(h nodeHandle, key any) (int, bool) {
	n := t.at(h)
	i := t.searchIndex(n, key)
	if i < len(n.keys) && !t.less(key, n.keys[i]) && !t.less(n.keys[i], key) {
		return n.payloads[i], true
	}
	if n.leaf {
		return 0, false
	}
	return t.findFrom(n.children[i], key)
}

// Keys returns every payload in ascending key order, used by the
// sort-merge join to drive a two-pointer merge over both tables' indexes.
func (t *Tree) Keys() []int {
	entries := t.Entries()
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.Payload
	}
	return out
}

// Entry is one key/payload pair, as returned by Entries.
type Entry struct {
	Key     any
	Payload int
}

// Entries returns every key/payload pair in ascending key order. Rebuilding
// a Tree by re-Insert-ing Entries in this order reproduces an equivalent
// (though not necessarily identically shaped) tree. Since the tree is
// persisted as one opaque blob, only Find behaving identically after
// reload matters, not node-for-node structural identity.
func (t *Tree) Entries() []Entry {
	var out []Entry
	var walk func(h nodeHandle)
	walk = func(h nodeHandle) {
		n := t.at(h)
		for i := range n.keys {
			if !n.leaf {
				walk(n.children[i])
			}
			out = append(out, Entry{Key: n.keys[i], Payload: n.payloads[i]})
		}
		if !n.leaf {
			walk(n.children[len(n.children)-1])
		}
	}
	walk(t.root)
	return out
}
