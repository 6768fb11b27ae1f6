package object

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/keshon/vbits/internal/fs"
	"github.com/keshon/vbits/internal/util"
)

// ErrNotFound is returned when an object id has no stored content.
var ErrNotFound = errors.New("object not found")

// Status indicates the state of an object on disk.
type Status int

const (
	OK Status = iota
	Missing
	Damaged
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case Missing:
		return "missing"
	default:
		return "damaged"
	}
}

// Check contains the verification result for a single object.
type Check struct {
	ID     string
	Status Status
}

// ObjectContext handles all object-level storage (.vbits/objects).
// Objects are immutable and named by the hash of their content.
type ObjectContext struct {
	ObjectsDir string
	FS         fs.FS
	Algo       Algo
}

// NewObjectContext creates a new ObjectContext.
func NewObjectContext(root string, fsys fs.FS, algo Algo) *ObjectContext {
	return &ObjectContext{ObjectsDir: root, FS: fsys, Algo: algo}
}

// path fans objects out by the first two characters of the id.
func (oc *ObjectContext) path(id string) string {
	if len(id) < 3 {
		return filepath.Join(oc.ObjectsDir, id)
	}
	return filepath.Join(oc.ObjectsDir, id[:2], id[2:])
}

// Write stores data and returns its id. Existing objects are not rewritten.
func (oc *ObjectContext) Write(data []byte) (string, error) {
	id := oc.Algo.Sum(data)
	if oc.Has(id) {
		return id, nil
	}
	if err := util.WriteFileAtomic(oc.FS, oc.path(id), data, 0o644); err != nil {
		return "", fmt.Errorf("write object %s: %w", id, err)
	}
	return id, nil
}

// Read retrieves an object by id.
func (oc *ObjectContext) Read(id string) ([]byte, error) {
	data, err := oc.FS.ReadFile(oc.path(id))
	if err != nil {
		if oc.FS.IsNotExist(err) {
			return nil, fmt.Errorf("read object %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("read object %s: %w", id, err)
	}
	return data, nil
}

// Has reports whether an object is present.
func (oc *ObjectContext) Has(id string) bool {
	return oc.FS.Exists(oc.path(id))
}

// List returns the ids of every stored object.
func (oc *ObjectContext) List() ([]string, error) {
	fanout, err := oc.FS.ReadDir(oc.ObjectsDir)
	if err != nil {
		if oc.FS.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list objects: %w", err)
	}

	var ids []string
	for _, d := range fanout {
		if !d.IsDir() {
			continue
		}
		entries, err := oc.FS.ReadDir(filepath.Join(oc.ObjectsDir, d.Name()))
		if err != nil {
			return nil, fmt.Errorf("list objects in %q: %w", d.Name(), err)
		}
		for _, e := range entries {
			if e.IsDir() || isTemp(e.Name()) {
				continue
			}
			ids = append(ids, d.Name()+e.Name())
		}
	}
	return ids, nil
}

func isTemp(name string) bool {
	return strings.HasPrefix(name, "tmp-") || strings.HasPrefix(name, ".tmp-")
}
