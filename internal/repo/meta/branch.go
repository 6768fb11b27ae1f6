package meta

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/keshon/vbits/internal/util"
)

// ErrConflict is returned when a ref moved between read and update.
var ErrConflict = errors.New("conflict")

// ErrBranchNotFound is returned for operations on a missing branch.
var ErrBranchNotFound = errors.New("branch not found")

// ConflictError carries the tip a caller expected and the one it found.
type ConflictError struct {
	Ref      string
	Expected string
	Actual   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("ref %q moved: expected %s, found %s", e.Ref, short(e.Expected), short(e.Actual))
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

func short(id string) string {
	switch {
	case id == "":
		return "<none>"
	case len(id) > 12:
		return id[:12]
	}
	return id
}

// Branch represents a branch name.
type Branch struct {
	Name string
}

// ValidBranchName rejects names that would escape the branches directory.
func ValidBranchName(name string) bool {
	if name == "" || strings.ContainsAny(name, " \t\n\\") {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == "" || part == "." || part == ".." {
			return false
		}
	}
	return true
}

func (mc *MetaContext) branchPath(name string) string {
	return filepath.Join(mc.Config.BranchesDir(), filepath.FromSlash(name))
}

// GetTip returns the commit id at the tip of branch; "" for a branch without commits.
func (mc *MetaContext) GetTip(branch string) (string, error) {
	if !ValidBranchName(branch) {
		return "", fmt.Errorf("invalid branch name %q", branch)
	}
	data, err := mc.FS.ReadFile(mc.branchPath(branch))
	if err != nil {
		if mc.FS.IsNotExist(err) {
			return "", fmt.Errorf("%q: %w", branch, ErrBranchNotFound)
		}
		return "", fmt.Errorf("failed to read tip of branch %q: %w", branch, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// AdvanceRef moves branch from expected to next. If the branch no longer
// points at expected it is left untouched and a *ConflictError is returned.
func (mc *MetaContext) AdvanceRef(branch, expected, next string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	actual, err := mc.GetTip(branch)
	if err != nil {
		return err
	}
	if actual != expected {
		return &ConflictError{Ref: branch, Expected: expected, Actual: actual}
	}
	if err := util.WriteFileAtomic(mc.FS, mc.branchPath(branch), []byte(next), 0o644); err != nil {
		return fmt.Errorf("failed to advance branch %q: %w", branch, err)
	}
	return nil
}

// CreateBranchFrom creates name pointing at the current tip of from.
func (mc *MetaContext) CreateBranchFrom(name, from string) (Branch, error) {
	if !ValidBranchName(name) {
		return Branch{}, fmt.Errorf("invalid branch name %q", name)
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	tip, err := mc.GetTip(from)
	if err != nil {
		return Branch{}, fmt.Errorf("failed to get tip of %q: %w", from, err)
	}
	exists, err := mc.BranchExists(name)
	if err != nil {
		return Branch{}, err
	}
	if exists {
		return Branch{}, fmt.Errorf("branch %q already exists: %w", name, os.ErrExist)
	}
	path := mc.branchPath(name)
	if err := util.WriteFileAtomic(mc.FS, path, []byte(tip), 0o644); err != nil {
		return Branch{}, fmt.Errorf("failed to write branch file %q: %w", path, err)
	}
	return Branch{Name: name}, nil
}

// DeleteBranch removes a branch ref. The commits it pointed at are kept.
func (mc *MetaContext) DeleteBranch(name string) error {
	if !ValidBranchName(name) {
		return fmt.Errorf("invalid branch name %q", name)
	}
	if name == mc.Config.Branch {
		return fmt.Errorf("refusing to delete default branch %q", name)
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	if err := mc.FS.Remove(mc.branchPath(name)); err != nil {
		if mc.FS.IsNotExist(err) {
			return fmt.Errorf("%q: %w", name, ErrBranchNotFound)
		}
		return fmt.Errorf("failed to delete branch %q: %w", name, err)
	}
	return nil
}

// BranchExists checks for branch existence (fast).
func (mc *MetaContext) BranchExists(name string) (bool, error) {
	if !ValidBranchName(name) {
		return false, nil
	}
	_, err := mc.FS.Stat(mc.branchPath(name))
	if err == nil {
		return true, nil
	}
	if mc.FS.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat branch file: %w", err)
}

// ListBranches returns all branches sorted by name, including nested
// names such as staging branches.
func (mc *MetaContext) ListBranches() ([]Branch, error) {
	var branches []Branch
	if err := mc.collectBranches("", &branches); err != nil {
		return nil, err
	}
	sort.Slice(branches, func(i, j int) bool { return branches[i].Name < branches[j].Name })
	return branches, nil
}

func (mc *MetaContext) collectBranches(prefix string, out *[]Branch) error {
	dir := filepath.Join(mc.Config.BranchesDir(), filepath.FromSlash(prefix))
	entries, err := mc.FS.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read branches directory %q: %w", dir, err)
	}
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".tmp-") {
			continue
		}
		if prefix != "" {
			name = prefix + "/" + name
		}
		if e.IsDir() {
			if err := mc.collectBranches(name, out); err != nil {
				return err
			}
			continue
		}
		*out = append(*out, Branch{Name: name})
	}
	return nil
}

// GetCurrentBranch returns the branch HEAD points at.
func (mc *MetaContext) GetCurrentBranch() (*Branch, error) {
	ref, err := mc.GetHeadRef()
	if err != nil {
		return &Branch{}, fmt.Errorf("failed to get HEAD ref: %w", err)
	}
	name := strings.TrimPrefix(ref.String(), "branches/")
	if name == "" {
		return &Branch{}, fmt.Errorf("HEAD ref is empty or invalid")
	}
	return &Branch{Name: name}, nil
}
