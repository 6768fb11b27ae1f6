package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/keshon/vbits/internal/fs"
	"github.com/keshon/vbits/internal/util"
)

// ErrHashMismatch is returned when VBITS_HASH names a different object hash
// than the one a repository was created with.
var ErrHashMismatch = errors.New("object hash mismatch")

// Load reads <root>/config.yaml through fsys. A missing file yields defaults.
// Environment overrides are applied last, except that the saved object hash
// is never replaced.
func Load(fsys fs.FS, root string) (*RepoConfig, error) {
	cfg := &RepoConfig{RepoRoot: root}

	data, err := fsys.ReadFile(filepath.Join(root, ConfigFile))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", ConfigFile, err)
		}
	case fsys.IsNotExist(err):
	default:
		return nil, fmt.Errorf("read %s: %w", ConfigFile, err)
	}

	if v := os.Getenv(EnvHash); v != "" {
		switch {
		case cfg.Hash == "":
			cfg.Hash = v
		case cfg.Hash != v:
			return nil, fmt.Errorf("%w: %s=%s but the repository uses %s", ErrHashMismatch, EnvHash, v, cfg.Hash)
		}
	}
	applyEnv(cfg)
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save persists the settings to <root>/config.yaml.
func (c *RepoConfig) Save(fsys fs.FS) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ConfigFile, err)
	}
	return util.WriteFileAtomic(fsys, c.ConfigFile(), data, 0o644)
}

// Validate rejects settings the stores cannot honour.
func (c *RepoConfig) Validate() error {
	switch c.Hash {
	case "sha256", "xxh3", "blake2b":
	default:
		return fmt.Errorf("unsupported hash %q (want sha256, xxh3 or blake2b)", c.Hash)
	}
	if strings.ContainsAny(c.Branch, " \t\n") || strings.HasPrefix(c.Branch, StagingPrefix) {
		return fmt.Errorf("invalid branch name %q", c.Branch)
	}
	return nil
}

func applyEnv(cfg *RepoConfig) {
	if v := os.Getenv(EnvKeyFile); v != "" {
		cfg.KeyFile = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
}

// ExpandHome resolves a leading "~/" against the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
