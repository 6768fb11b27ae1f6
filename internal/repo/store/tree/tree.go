// Package tree implements the immutable snapshot tree: named entries that are
// either subtrees or blobs, identified by the hash of their canonical encoding.
//
// Every mutation returns a new *Tree and rebuilds only the ancestor chain of
// the touched path; untouched subtrees are shared with the receiver.
package tree

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/keshon/vbits/internal/repo/store/object"
)

const (
	KindBlob = "blob"
	KindTree = "tree"
)

// Entry is one named child of a tree. Exactly one of Tree and Blob is set;
// a leaf holding zero bytes has a non-nil, empty Blob.
type Entry struct {
	Name string
	Tree *Tree
	Blob []byte
}

// IsTree reports whether the entry is a subtree.
func (e Entry) IsTree() bool { return e.Tree != nil }

// Tree is an immutable directory of entries.
type Tree struct {
	algo    object.Algo
	names   []string // sorted
	entries map[string]Entry

	once sync.Once
	enc  []byte
	id   string
}

// Empty returns a tree with no entries.
func Empty(algo object.Algo) *Tree {
	return &Tree{algo: algo, entries: map[string]Entry{}}
}

// New builds a tree from entries. Names must be valid and unique and
// subtrees must be non-empty, so that identical content has one encoding.
func New(algo object.Algo, entries []Entry) (*Tree, error) {
	t := &Tree{algo: algo, entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if err := ValidName(e.Name); err != nil {
			return nil, err
		}
		if _, dup := t.entries[e.Name]; dup {
			return nil, fmt.Errorf("duplicate entry %q", e.Name)
		}
		switch {
		case e.Tree != nil && e.Blob != nil:
			return nil, fmt.Errorf("entry %q is both tree and blob", e.Name)
		case e.Tree != nil:
			if e.Tree.Len() == 0 {
				return nil, fmt.Errorf("entry %q is an empty tree", e.Name)
			}
			if e.Tree.algo != algo {
				return nil, fmt.Errorf("entry %q uses hash %s, want %s", e.Name, e.Tree.algo, algo)
			}
		case e.Blob == nil:
			e.Blob = []byte{}
		default:
			e.Blob = bytes.Clone(e.Blob)
		}
		t.entries[e.Name] = e
		t.names = append(t.names, e.Name)
	}
	sort.Strings(t.names)
	return t, nil
}

func (t *Tree) Algo() object.Algo { return t.algo }
func (t *Tree) Len() int          { return len(t.names) }

// Names returns the entry names in lexicographic order.
func (t *Tree) Names() []string {
	return append([]string(nil), t.names...)
}

// Entry returns the child called name.
func (t *Tree) Entry(name string) (Entry, bool) {
	e, ok := t.entries[name]
	return e, ok
}

// Entries returns all children in name order.
func (t *Tree) Entries() []Entry {
	out := make([]Entry, 0, len(t.names))
	for _, n := range t.names {
		out = append(out, t.entries[n])
	}
	return out
}

// Encode returns the canonical encoding: one "<kind> <id> <name>" line per
// entry in name order. The tree id is the hash of this encoding.
func (t *Tree) Encode() []byte {
	t.compute()
	return t.enc
}

// ID returns the content id of the tree.
func (t *Tree) ID() string {
	t.compute()
	return t.id
}

func (t *Tree) compute() {
	t.once.Do(func() {
		var buf bytes.Buffer
		for _, n := range t.names {
			e := t.entries[n]
			if e.Tree != nil {
				fmt.Fprintf(&buf, "%s %s %s\n", KindTree, e.Tree.ID(), n)
			} else {
				fmt.Fprintf(&buf, "%s %s %s\n", KindBlob, t.algo.Sum(e.Blob), n)
			}
		}
		t.enc = buf.Bytes()
		t.id = t.algo.Sum(t.enc)
	})
}

// Equal compares trees structurally.
func (t *Tree) Equal(other *Tree) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.algo == other.algo && t.ID() == other.ID()
}

// lookup follows parts and returns the entry at the end.
func (t *Tree) lookup(parts []string) (Entry, bool) {
	cur := t
	for i, p := range parts {
		e, ok := cur.entries[p]
		if !ok {
			return Entry{}, false
		}
		if i == len(parts)-1 {
			return e, true
		}
		if e.Tree == nil {
			return Entry{}, false
		}
		cur = e.Tree
	}
	return Entry{}, false
}

// Get reads the blob at path. It reports false when nothing is there, when
// the path names a subtree, or when an ancestor is a blob.
func (t *Tree) Get(path string) ([]byte, bool) {
	parts, err := SplitPath(path)
	if err != nil || len(parts) == 0 {
		return nil, false
	}
	e, ok := t.lookup(parts)
	if !ok || e.Tree != nil {
		return nil, false
	}
	return bytes.Clone(e.Blob), true
}

// SubtreeOrEmpty returns the subtree at path, or an empty tree.
func (t *Tree) SubtreeOrEmpty(path string) *Tree {
	parts, err := SplitPath(path)
	if err != nil {
		return Empty(t.algo)
	}
	if len(parts) == 0 {
		return t
	}
	e, ok := t.lookup(parts)
	if !ok || e.Tree == nil {
		return Empty(t.algo)
	}
	return e.Tree
}

// List returns the full paths of the immediate children of path, sorted.
func (t *Tree) List(path string) []string {
	sub := t.SubtreeOrEmpty(path)
	prefix := strings.Trim(path, Separator)
	out := make([]string, 0, sub.Len())
	for _, n := range sub.names {
		if prefix == "" {
			out = append(out, n)
		} else {
			out = append(out, prefix+Separator+n)
		}
	}
	return out
}

// Set returns a tree with value stored at path. A nil value removes the leaf.
// Subtrees left empty by a removal are pruned; a blob on the ancestor chain is
// replaced by a subtree.
func (t *Tree) Set(path string, value []byte) (*Tree, error) {
	parts, err := SplitPath(path)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("cannot set the root")
	}
	return t.with(parts, value), nil
}

// Remove is Set(path, nil).
func (t *Tree) Remove(path string) (*Tree, error) {
	return t.Set(path, nil)
}

func (t *Tree) with(parts []string, value []byte) *Tree {
	name := parts[0]
	existing, ok := t.entries[name]

	if len(parts) == 1 {
		if value == nil {
			if !ok {
				return t
			}
			return t.without(name)
		}
		if ok && existing.Tree == nil && bytes.Equal(existing.Blob, value) {
			return t
		}
		return t.replace(Entry{Name: name, Blob: bytes.Clone(value)})
	}

	child := Empty(t.algo)
	switch {
	case ok && existing.Tree != nil:
		child = existing.Tree
	case value == nil:
		// nothing to remove below a missing entry or a blob
		return t
	}

	updated := child.with(parts[1:], value)
	if updated == child {
		return t
	}
	if updated.Len() == 0 {
		return t.without(name)
	}
	return t.replace(Entry{Name: name, Tree: updated})
}

func (t *Tree) replace(e Entry) *Tree {
	out := &Tree{algo: t.algo, entries: make(map[string]Entry, len(t.entries)+1)}
	for k, v := range t.entries {
		out.entries[k] = v
	}
	if _, ok := t.entries[e.Name]; ok {
		out.names = t.names
	} else {
		i := sort.SearchStrings(t.names, e.Name)
		out.names = make([]string, 0, len(t.names)+1)
		out.names = append(out.names, t.names[:i]...)
		out.names = append(out.names, e.Name)
		out.names = append(out.names, t.names[i:]...)
	}
	out.entries[e.Name] = e
	return out
}

func (t *Tree) without(name string) *Tree {
	out := &Tree{algo: t.algo, entries: make(map[string]Entry, len(t.entries))}
	for k, v := range t.entries {
		if k != name {
			out.entries[k] = v
		}
	}
	out.names = make([]string, 0, len(t.names))
	for _, n := range t.names {
		if n != name {
			out.names = append(out.names, n)
		}
	}
	return out
}

// Walk calls fn for every blob below t in path order.
// The parts slice is only valid for the duration of the call.
func (t *Tree) Walk(fn func(parts []string, blob []byte)) {
	t.walk(nil, fn)
}

func (t *Tree) walk(prefix []string, fn func([]string, []byte)) {
	for _, n := range t.names {
		e := t.entries[n]
		p := append(prefix, n)
		if e.Tree != nil {
			e.Tree.walk(p, fn)
			continue
		}
		fn(p, e.Blob)
	}
}
