// Package repo ties the object store and commit metadata into one repository.
package repo

import (
	"fmt"
	"os"

	"github.com/keshon/vbits/internal/config"
	"github.com/keshon/vbits/internal/fs"
	"github.com/keshon/vbits/internal/repo/meta"
	"github.com/keshon/vbits/internal/repo/store"
)

// Repository represents an initialized repository.
type Repository struct {
	Config *config.RepoConfig
	FS     fs.FS
	Meta   *meta.MetaContext
	Store  *store.StoreContext
}

// Options allows optional dependency injection.
type Options struct {
	FS fs.FS
}

func (o *Options) fs() fs.FS {
	if o != nil && o.FS != nil {
		return o.FS
	}
	return fs.NewOSFS()
}

// NewRepository wires metadata and store for cfg, creating the layout if missing.
func NewRepository(cfg *config.RepoConfig, opts *Options) (*Repository, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil RepoConfig provided")
	}
	fsys := opts.fs()

	m, err := meta.NewMeta(cfg, fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to init meta: %w", err)
	}
	s, err := store.NewStore(cfg, &store.NewStoreOptions{FS: fsys})
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}
	return &Repository{Config: cfg, FS: fsys, Meta: m, Store: s}, nil
}

// InitAt initializes a repository at path and persists cfg's settings there.
// Returns os.ErrExist with the opened repository if one is already present.
func InitAt(cfg *config.RepoConfig, opts *Options) (*Repository, bool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, false, err
	}
	fsys := opts.fs()
	if meta.IsMetaExists(cfg, fsys) {
		r, err := OpenAt(cfg.RepoRoot, opts)
		if err != nil {
			return nil, false, err
		}
		return r, false, os.ErrExist
	}

	r, err := NewRepository(cfg, opts)
	if err != nil {
		return nil, false, err
	}
	if err := cfg.Save(fsys); err != nil {
		return nil, false, fmt.Errorf("failed to save %s: %w", config.ConfigFile, err)
	}
	return r, true, nil
}

// OpenAt opens an existing repository, loading its config.yaml.
func OpenAt(path string, opts *Options) (*Repository, error) {
	fsys := opts.fs()
	cfg, err := config.Load(fsys, path)
	if err != nil {
		return nil, err
	}
	if !meta.IsMetaExists(cfg, fsys) {
		return nil, fmt.Errorf("not a repository (missing HEAD): %s", path)
	}
	return NewRepository(cfg, opts)
}
