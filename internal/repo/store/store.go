package store

import (
	"fmt"

	"github.com/keshon/vbits/internal/config"
	"github.com/keshon/vbits/internal/fs"
	"github.com/keshon/vbits/internal/repo/store/object"
	"github.com/keshon/vbits/internal/repo/store/snapshot"
)

// StoreContext is the high-level store abstraction that unifies all subsystems.
type StoreContext struct {
	Config    *config.RepoConfig
	Objects   *object.ObjectContext
	Snapshots *snapshot.SnapshotContext
}

// NewStoreOptions allows optional dependency injection.
type NewStoreOptions struct {
	FS fs.FS
}

// NewStore creates a store with optional dependencies.
func NewStore(cfg *config.RepoConfig, opts *NewStoreOptions) (*StoreContext, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil RepoConfig provided")
	}

	fsys := fs.FS(fs.NewOSFS())
	if opts != nil && opts.FS != nil {
		fsys = opts.FS
	}

	algo, err := object.ParseAlgo(cfg.Hash)
	if err != nil {
		return nil, err
	}

	if !exists(fsys, cfg.ObjectsDir()) {
		if err := fsys.MkdirAll(cfg.ObjectsDir(), 0o755); err != nil {
			return nil, fmt.Errorf("create store dir %q: %w", cfg.ObjectsDir(), err)
		}
	}

	objFS := fsys
	if cfg.Compress {
		objFS = fs.NewCompressedFS(fsys)
	}
	objects := object.NewObjectContext(cfg.ObjectsDir(), objFS, algo)
	return &StoreContext{
		Config:    cfg,
		Objects:   objects,
		Snapshots: snapshot.NewSnapshotContext(objects),
	}, nil
}

func exists(fsys fs.FS, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && info.IsDir()
}
