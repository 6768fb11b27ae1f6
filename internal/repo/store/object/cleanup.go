package object

import (
	"path/filepath"
)

// CleanupTemp removes orphaned temp files left by interrupted writes,
// both at the objects root and inside the fan-out directories.
func (oc *ObjectContext) CleanupTemp() error {
	fanout, err := oc.FS.ReadDir(oc.ObjectsDir)
	if err != nil {
		if oc.FS.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, d := range fanout {
		if !d.IsDir() {
			if isTemp(d.Name()) {
				_ = oc.FS.Remove(filepath.Join(oc.ObjectsDir, d.Name()))
			}
			continue
		}
		dir := filepath.Join(oc.ObjectsDir, d.Name())
		entries, err := oc.FS.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() && isTemp(e.Name()) {
				_ = oc.FS.Remove(filepath.Join(dir, e.Name()))
			}
		}
	}
	return nil
}
