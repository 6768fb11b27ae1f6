// Package diff computes leaf-level differences between two snapshot trees.
package diff

import (
	"bytes"
	"sort"

	"github.com/keshon/vbits/internal/repo/store/tree"
)

// Change is one differing leaf. A nil Old or New means the leaf is absent on
// that side. Blob slices alias snapshot storage and must not be modified.
type Change struct {
	Path []string
	Old  []byte
	New  []byte
}

func (c Change) Added() bool    { return c.Old == nil && c.New != nil }
func (c Change) Removed() bool  { return c.Old != nil && c.New == nil }
func (c Change) Modified() bool { return c.Old != nil && c.New != nil }

// Key returns the "/"-joined path, the map key used by Changes.
func (c Change) Key() string { return tree.JoinPath(c.Path...) }

// Changes maps joined paths (relative to the diff scope) to their change.
type Changes map[string]Change

// Keys returns the changed paths in lexicographic order.
func (c Changes) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Diff compares the subtrees of oldTree and newTree found at scope. Paths in
// the result are relative to scope. Subtrees with equal ids are skipped.
func Diff(oldTree, newTree *tree.Tree, scope string) Changes {
	out := Changes{}
	walk(oldTree.SubtreeOrEmpty(scope), newTree.SubtreeOrEmpty(scope), nil, out)
	return out
}

func walk(a, b *tree.Tree, prefix []string, out Changes) {
	if a.Equal(b) {
		return
	}

	for _, name := range unionNames(a, b) {
		ea, okA := a.Entry(name)
		eb, okB := b.Entry(name)
		path := append(append([]string(nil), prefix...), name)

		switch {
		case okA && okB && ea.IsTree() && eb.IsTree():
			walk(ea.Tree, eb.Tree, path, out)
			continue
		case okA && okB && !ea.IsTree() && !eb.IsTree():
			if !bytes.Equal(ea.Blob, eb.Blob) {
				emit(out, path, ea.Blob, eb.Blob)
			}
			continue
		}

		// presence or kind differs: everything on each side changes
		if okA {
			side(ea, path, out, true)
		}
		if okB {
			side(eb, path, out, false)
		}
	}
}

// side records every leaf under e as removed (old) or added (new).
func side(e tree.Entry, path []string, out Changes, old bool) {
	record := func(p []string, blob []byte) {
		key := tree.JoinPath(p...)
		c, ok := out[key]
		if !ok {
			c = Change{Path: append([]string(nil), p...)}
		}
		if old {
			c.Old = blob
		} else {
			c.New = blob
		}
		out[key] = c
	}

	if !e.IsTree() {
		record(path, e.Blob)
		return
	}
	e.Tree.Walk(func(parts []string, blob []byte) {
		full := append(append([]string(nil), path...), parts...)
		record(full, blob)
	})
}

func emit(out Changes, path []string, old, new []byte) {
	out[tree.JoinPath(path...)] = Change{Path: path, Old: old, New: new}
}

func unionNames(a, b *tree.Tree) []string {
	seen := map[string]struct{}{}
	var names []string
	for _, n := range a.Names() {
		seen[n] = struct{}{}
		names = append(names, n)
	}
	for _, n := range b.Names() {
		if _, ok := seen[n]; !ok {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}
