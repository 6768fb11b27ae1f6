package object

import (
	"github.com/keshon/vbits/internal/util"
)

// Verify checks a set of object ids concurrently and streams results.
// VerifyObject maps errors into Status, so the worker never fails and the
// whole set is processed.
func (oc *ObjectContext) Verify(ids []string, workers int) <-chan Check {
	out := make(chan Check, 128)
	if workers <= 0 {
		workers = util.WorkerCount()
	}

	go func() {
		defer close(out)
		_ = util.Parallel(ids, workers, func(id string) error {
			status, _ := oc.VerifyObject(id)
			out <- Check{ID: id, Status: status}
			return nil
		})
	}()

	return out
}

// VerifyObject rehashes a stored object and compares it with its id.
func (oc *ObjectContext) VerifyObject(id string) (Status, error) {
	data, err := oc.FS.ReadFile(oc.path(id))
	if err != nil {
		if oc.FS.IsNotExist(err) {
			return Missing, nil
		}
		// Treat read errors as a damaged object.
		return Damaged, err
	}
	if oc.Algo.Sum(data) == id {
		return OK, nil
	}
	return Damaged, nil
}
