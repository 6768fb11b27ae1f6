// Package snapshot persists trees into the object store and loads them back.
package snapshot

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/keshon/vbits/internal/repo/store/object"
	"github.com/keshon/vbits/internal/repo/store/tree"
)

// SnapshotContext handles snapshot (tree) persistence.
type SnapshotContext struct {
	Objects *object.ObjectContext
}

func NewSnapshotContext(objects *object.ObjectContext) *SnapshotContext {
	return &SnapshotContext{Objects: objects}
}

// Empty returns an empty tree hashed with the store's algorithm.
func (sc *SnapshotContext) Empty() *tree.Tree {
	return tree.Empty(sc.Objects.Algo)
}

// Save writes t and every object it references, returning the tree id.
// Subtrees that are already stored are skipped.
func (sc *SnapshotContext) Save(t *tree.Tree) (string, error) {
	if t.Algo() != sc.Objects.Algo {
		return "", fmt.Errorf("tree hashed with %s, store uses %s", t.Algo(), sc.Objects.Algo)
	}
	if sc.Objects.Has(t.ID()) {
		return t.ID(), nil
	}

	for _, e := range t.Entries() {
		if e.IsTree() {
			if _, err := sc.Save(e.Tree); err != nil {
				return "", err
			}
			continue
		}
		if _, err := sc.Objects.Write(e.Blob); err != nil {
			return "", fmt.Errorf("store blob %q: %w", e.Name, err)
		}
	}

	id, err := sc.Objects.Write(t.Encode())
	if err != nil {
		return "", fmt.Errorf("store tree: %w", err)
	}
	if id != t.ID() {
		return "", fmt.Errorf("tree id mismatch: computed %s, stored %s", t.ID(), id)
	}
	return id, nil
}

// Load reads the tree with the given id.
func (sc *SnapshotContext) Load(id string) (*tree.Tree, error) {
	data, err := sc.Objects.Read(id)
	if err != nil {
		return nil, fmt.Errorf("load tree %s: %w", id, err)
	}

	var entries []tree.Entry
	for _, line := range strings.Split(string(bytes.TrimSuffix(data, []byte("\n"))), "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, " ", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("tree %s: malformed entry %q", id, line)
		}
		kind, childID, name := parts[0], parts[1], parts[2]

		switch kind {
		case tree.KindTree:
			sub, err := sc.Load(childID)
			if err != nil {
				return nil, err
			}
			entries = append(entries, tree.Entry{Name: name, Tree: sub})
		case tree.KindBlob:
			blob, err := sc.Objects.Read(childID)
			if err != nil {
				return nil, fmt.Errorf("tree %s: blob %q: %w", id, name, err)
			}
			entries = append(entries, tree.Entry{Name: name, Blob: blob})
		default:
			return nil, fmt.Errorf("tree %s: unknown entry kind %q", id, kind)
		}
	}

	t, err := tree.New(sc.Objects.Algo, entries)
	if err != nil {
		return nil, fmt.Errorf("tree %s: %w", id, err)
	}
	if t.ID() != id {
		return nil, fmt.Errorf("tree %s: content hashes to %s", id, t.ID())
	}
	return t, nil
}
