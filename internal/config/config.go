package config

import (
	"os"
	"path/filepath"
)

const (
	RepoDir     = ".vbits"
	CommitsDir  = "commits"
	BranchesDir = "branches"
	ObjectsDir  = "objects"
	HeadFile    = "HEAD"
	ConfigFile  = "config.yaml"
)

const (
	DefaultBranch = "main"
	// DataRoot is the tree prefix under which all ledger state lives.
	DataRoot = "data"
	// StagingPrefix namespaces the private branches transactions are built on.
	StagingPrefix = "tx/"
)

const (
	DefaultHash       = "sha256" // "sha256" | "xxh3" | "blake2b"
	DefaultKeyFile    = "~/.vbits.pem"
	DefaultMaxRetries = 3
	DefaultLogLevel   = "warn"
)

// Env overrides, applied after config.yaml. EnvHash only chooses the hash
// of a new repository; an existing one must agree with it.
const (
	EnvKeyFile  = "VBITS_KEYFILE"
	EnvLogLevel = "VBITS_LOG_LEVEL"
	EnvHash     = "VBITS_HASH"
)

// RepoConfig holds the repository layout and its persisted settings.
type RepoConfig struct {
	RepoRoot string `yaml:"-"`

	Hash       string `yaml:"hash"`
	Branch     string `yaml:"branch"`
	KeyFile    string `yaml:"keyfile"`
	MaxRetries int    `yaml:"max_retries"`
	LogLevel   string `yaml:"log_level"`
	// Compress gzips object files at rest. Object ids hash the plain content.
	Compress bool `yaml:"compress"`
}

// NewRepoConfig returns the settings for a new repository rooted at root:
// VBITS_HASH picks the object hash, everything else takes its default.
func NewRepoConfig(root string) *RepoConfig {
	cfg := &RepoConfig{RepoRoot: root, Hash: os.Getenv(EnvHash)}
	cfg.applyDefaults()
	return cfg
}

func (c *RepoConfig) applyDefaults() {
	if c.Hash == "" {
		c.Hash = DefaultHash
	}
	if c.Branch == "" {
		c.Branch = DefaultBranch
	}
	if c.KeyFile == "" {
		c.KeyFile = DefaultKeyFile
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

func (c *RepoConfig) CommitsDir() string  { return filepath.Join(c.RepoRoot, CommitsDir) }
func (c *RepoConfig) BranchesDir() string { return filepath.Join(c.RepoRoot, BranchesDir) }
func (c *RepoConfig) ObjectsDir() string  { return filepath.Join(c.RepoRoot, ObjectsDir) }
func (c *RepoConfig) HeadFile() string    { return filepath.Join(c.RepoRoot, HeadFile) }
func (c *RepoConfig) ConfigFile() string  { return filepath.Join(c.RepoRoot, ConfigFile) }
