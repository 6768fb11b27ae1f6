package config

import (
	"os"
	"path/filepath"
)

// ResolveRepoDir walks up from the working directory until it finds a
// repository directory. It falls back to RepoDir in the working directory.
func ResolveRepoDir() string {
	cwd, err := os.Getwd()
	if err != nil {
		return RepoDir
	}
	for {
		candidate := filepath.Join(cwd, RepoDir)
		if fi, err := os.Stat(candidate); err == nil && fi.IsDir() {
			return candidate
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break // reached filesystem root
		}
		cwd = parent
	}
	return RepoDir
}
