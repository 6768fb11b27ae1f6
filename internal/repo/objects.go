package repo

import (
	"fmt"
	"io"
	"sort"

	"github.com/keshon/vbits/internal/progress"
	"github.com/keshon/vbits/internal/repo/store/object"
	"github.com/keshon/vbits/internal/repo/store/tree"
	"github.com/keshon/vbits/internal/util"
)

// ObjectInfo holds metadata about an object referenced by the repository.
type ObjectInfo struct {
	Kind     string
	Branches map[string]struct{}
}

// ListReachableObjects returns every object id referenced by any branch.
// If allHistory is true every commit is walked, otherwise only branch tips.
func (r *Repository) ListReachableObjects(allHistory bool) (map[string]*ObjectInfo, error) {
	branches, err := r.Meta.ListBranches()
	if err != nil {
		return nil, err
	}

	objects := make(map[string]*ObjectInfo)
	add := func(id, kind, branch string) bool {
		info, ok := objects[id]
		if !ok {
			info = &ObjectInfo{Kind: kind, Branches: map[string]struct{}{}}
			objects[id] = info
		}
		_, had := info.Branches[branch]
		info.Branches[branch] = struct{}{}
		return !ok || !had
	}

	var addTree func(t *tree.Tree, branch string)
	addTree = func(t *tree.Tree, branch string) {
		if !add(t.ID(), tree.KindTree, branch) {
			return
		}
		for _, e := range t.Entries() {
			if e.IsTree() {
				addTree(e.Tree, branch)
				continue
			}
			add(t.Algo().Sum(e.Blob), tree.KindBlob, branch)
		}
	}

	for _, b := range branches {
		for rev, err := range r.History(b.Name) {
			if err != nil {
				return nil, err
			}
			addTree(rev.Tree, b.Name)
			if !allHistory {
				break
			}
		}
	}
	return objects, nil
}

// VerifyObjectsStream checks every object in the store, or only the
// reachable ones when reachableOnly is set.
func (r *Repository) VerifyObjectsStream(reachableOnly bool) (int, <-chan object.Check, error) {
	var ids []string
	if reachableOnly {
		objs, err := r.ListReachableObjects(true)
		if err != nil {
			return 0, nil, err
		}
		ids = util.SortedKeys(objs)
	} else {
		listed, err := r.Store.Objects.List()
		if err != nil {
			return 0, nil, err
		}
		ids = listed
		sort.Strings(ids)
	}
	return len(ids), r.Store.Objects.Verify(ids, 0), nil
}

// VerifyObjects verifies objects with a progress bar and returns an error
// naming the first object that is missing or damaged.
func (r *Repository) VerifyObjects(w io.Writer, reachableOnly bool) error {
	total, checks, err := r.VerifyObjectsStream(reachableOnly)
	if err != nil {
		return err
	}

	bar := progress.NewProgress(w, total, "Checking objects", "objects")
	defer bar.Finish()

	var bad []object.Check
	for c := range checks {
		bar.Increment()
		if c.Status != object.OK {
			bad = append(bad, c)
		}
	}
	if len(bad) > 0 {
		sort.Slice(bad, func(i, j int) bool { return bad[i].ID < bad[j].ID })
		return fmt.Errorf("%d object(s) missing or damaged, first: %s (%s)", len(bad), bad[0].ID, bad[0].Status)
	}
	return nil
}
