package fs

import (
	"errors"
	"io"
	"os"

	"golang.org/x/exp/mmap"
)

// Hooks used for testing (overridable)
var (
	open       = os.Open
	readFile   = mmapReadFile
	writeFile  = os.WriteFile
	stat       = os.Stat
	readDir    = os.ReadDir
	remove     = os.Remove
	rename     = os.Rename
	createTemp = os.CreateTemp
	mkdirAll   = os.MkdirAll
	isNotExist = os.IsNotExist
)

// mmapReadFile reads a whole file through a read-only memory map.
// Stored objects are immutable once renamed into place, so mapping is safe.
func mmapReadFile(path string) ([]byte, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data := make([]byte, r.Len())
	if _, err := r.ReadAt(data, 0); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return data, nil
}

func exists(path string) bool {
	_, err := stat(path)
	return err == nil
}

func isDir(path string) bool {
	fi, err := stat(path)
	return err == nil && fi.IsDir()
}
