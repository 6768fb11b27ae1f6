package repo

import (
	"fmt"
	"iter"
	"time"

	"github.com/keshon/vbits/internal/repo/meta"
	"github.com/keshon/vbits/internal/repo/store/tree"
)

// Revision is a commit together with its loaded snapshot.
// The zero CommitID stands for a branch without commits and an empty tree.
type Revision struct {
	CommitID string
	Parent   string
	Message  string
	Tree     *tree.Tree
}

func (r *Repository) revision(c *meta.Commit) (Revision, error) {
	t, err := r.Store.Snapshots.Load(c.SnapshotID)
	if err != nil {
		return Revision{}, fmt.Errorf("commit %s: %w", c.ID, err)
	}
	return Revision{CommitID: c.ID, Parent: c.Parent, Message: c.Message, Tree: t}, nil
}

// Tip returns the newest revision of ref.
func (r *Repository) Tip(ref string) (Revision, error) {
	c, err := r.Meta.GetLastCommitForBranch(ref)
	if err != nil {
		return Revision{}, err
	}
	if c == nil {
		return Revision{Tree: r.Store.Snapshots.Empty()}, nil
	}
	return r.revision(c)
}

// Parent returns the revision rev was committed on top of.
func (r *Repository) Parent(rev Revision) (Revision, error) {
	if rev.Parent == "" {
		return Revision{Tree: r.Store.Snapshots.Empty()}, nil
	}
	c, err := r.Meta.GetCommit(rev.Parent)
	if err != nil {
		return Revision{}, err
	}
	return r.revision(c)
}

// Branch creates name at the tip of from and returns that tip.
func (r *Repository) Branch(name, from string) (Revision, error) {
	if _, err := r.Meta.CreateBranchFrom(name, from); err != nil {
		return Revision{}, err
	}
	return r.Tip(name)
}

// DeleteBranch removes a ref.
func (r *Repository) DeleteBranch(name string) error {
	return r.Meta.DeleteBranch(name)
}

// Commit stores t and appends a commit on ref whose parent is expected.
// If ref no longer points at expected nothing is advanced and a
// *meta.ConflictError is returned.
func (r *Repository) Commit(ref, expected string, t *tree.Tree, message string) (string, error) {
	snapID, err := r.Store.Snapshots.Save(t)
	if err != nil {
		return "", fmt.Errorf("save snapshot: %w", err)
	}
	c := r.Meta.NewCommit(expected, snapID, message, time.Now())
	if _, err := r.Meta.CreateCommit(c); err != nil {
		return "", err
	}
	if err := r.Meta.AdvanceRef(ref, expected, c.ID); err != nil {
		return "", err
	}
	return c.ID, nil
}

// Integrate fast-forwards into to the tip of from, provided into still
// points at base. Anything else is reported as a *meta.ConflictError.
func (r *Repository) Integrate(from, into, base string) error {
	tip, err := r.Meta.GetTip(from)
	if err != nil {
		return err
	}
	if tip == base {
		return nil
	}
	return r.Meta.AdvanceRef(into, base, tip)
}

// History yields the revisions of ref newest first, loading each snapshot lazily.
func (r *Repository) History(ref string) iter.Seq2[Revision, error] {
	return func(yield func(Revision, error) bool) {
		for c, err := range r.Meta.Log(ref) {
			if err != nil {
				yield(Revision{}, err)
				return
			}
			rev, err := r.revision(c)
			if !yield(rev, err) || err != nil {
				return
			}
		}
	}
}
