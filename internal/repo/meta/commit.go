package meta

import (
	"encoding/json"
	"fmt"
	"iter"
	"path/filepath"
	"time"

	"github.com/keshon/vbits/internal/util"
)

// Commit records one snapshot and the commit it was derived from.
// ID is the hash of every other field, so commits are content-addressed.
type Commit struct {
	ID         string `json:"id"`
	Parent     string `json:"parent,omitempty"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp"`
	SnapshotID string `json:"snapshot_id"`
}

// NewCommit builds a commit and computes its id.
func (mc *MetaContext) NewCommit(parent, snapshotID, message string, at time.Time) *Commit {
	c := &Commit{
		Parent:     parent,
		Message:    message,
		Timestamp:  at.UTC().Format(time.RFC3339Nano),
		SnapshotID: snapshotID,
	}
	c.ID = mc.commitID(c)
	return c
}

func (mc *MetaContext) commitID(c *Commit) string {
	body := *c
	body.ID = ""
	data, _ := json.Marshal(body)
	return mc.Algo.Sum(data)
}

func (mc *MetaContext) commitPath(id string) string {
	return filepath.Join(mc.Config.CommitsDir(), id+".json")
}

// GetCommit reads a commit by ID and checks it against its content hash.
func (mc *MetaContext) GetCommit(commitID string) (*Commit, error) {
	var c Commit
	if err := util.ReadJSON(mc.FS, mc.commitPath(commitID), &c); err != nil {
		return nil, fmt.Errorf("failed to read commit %q: %w", commitID, err)
	}
	if c.ID != commitID || mc.commitID(&c) != commitID {
		return nil, fmt.Errorf("commit %q: content does not match id", commitID)
	}
	return &c, nil
}

// CreateCommit writes a commit to the log. Writing an existing commit is a no-op.
func (mc *MetaContext) CreateCommit(commit *Commit) (string, error) {
	if commit.ID == "" || mc.commitID(commit) != commit.ID {
		return "", fmt.Errorf("commit id %q does not match its content", commit.ID)
	}
	path := mc.commitPath(commit.ID)
	if mc.FS.Exists(path) {
		return commit.ID, nil
	}
	if err := util.WriteJSON(mc.FS, path, commit); err != nil {
		return "", fmt.Errorf("failed to write commit %q: %w", commit.ID, err)
	}
	return commit.ID, nil
}

// Log walks parent pointers from the tip of ref, newest first.
// The walk is lazy and stops at the first read error or revisited commit.
func (mc *MetaContext) Log(ref string) iter.Seq2[*Commit, error] {
	return func(yield func(*Commit, error) bool) {
		id, err := mc.GetTip(ref)
		if err != nil {
			yield(nil, err)
			return
		}
		seen := map[string]bool{}
		for id != "" && !seen[id] {
			seen[id] = true
			c, err := mc.GetCommit(id)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(c, nil) {
				return
			}
			id = c.Parent
		}
	}
}

// GetLastCommitForBranch returns the tip commit of branch, or nil if it has none.
func (mc *MetaContext) GetLastCommitForBranch(branch string) (*Commit, error) {
	id, err := mc.GetTip(branch)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, nil
	}
	return mc.GetCommit(id)
}
