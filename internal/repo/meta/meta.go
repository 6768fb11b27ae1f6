// Package meta keeps the commit log and the refs that point into it.
package meta

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/keshon/vbits/internal/config"
	"github.com/keshon/vbits/internal/fs"
	"github.com/keshon/vbits/internal/repo/store/object"
)

// MetaContext represents the commit and ref metadata of a repository.
type MetaContext struct {
	Config *config.RepoConfig
	FS     fs.FS
	Algo   object.Algo

	// mu serialises ref compare-and-swap within one process.
	mu sync.Mutex
}

// NewMeta opens the metadata at cfg.RepoRoot, creating the layout if missing.
func NewMeta(cfg *config.RepoConfig, fsys fs.FS) (*MetaContext, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil RepoConfig provided")
	}
	if fsys == nil {
		fsys = fs.NewOSFS()
	}
	algo, err := object.ParseAlgo(cfg.Hash)
	if err != nil {
		return nil, err
	}

	mc := &MetaContext{Config: cfg, FS: fsys, Algo: algo}
	if IsMetaExists(cfg, fsys) {
		return mc, nil
	}
	if err := mc.createMetaStructure(); err != nil {
		return nil, err
	}
	return mc, nil
}

// createMetaStructure builds a fresh layout with an empty default branch.
func (mc *MetaContext) createMetaStructure() error {
	cfg := mc.Config
	dirs := []string{
		cfg.RepoRoot,
		cfg.CommitsDir(),
		cfg.BranchesDir(),
		cfg.ObjectsDir(),
	}
	for _, d := range dirs {
		if err := mc.FS.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("failed to create dir %q: %w", d, err)
		}
	}

	mainBranch := filepath.Join(cfg.BranchesDir(), cfg.Branch)
	if err := mc.FS.WriteFile(mainBranch, []byte(""), 0o644); err != nil {
		return fmt.Errorf("failed to create default branch: %w", err)
	}
	if _, err := mc.SetHeadRef(cfg.Branch); err != nil {
		return err
	}
	return nil
}

// IsMetaExists checks if cfg points to an existing repository.
func IsMetaExists(cfg *config.RepoConfig, fsys fs.FS) bool {
	fi, err := fsys.Stat(cfg.HeadFile())
	return err == nil && fi.Mode().IsRegular()
}
