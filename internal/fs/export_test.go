package fs

import "os"

// swap helpers let external tests replace OS hooks and restore them afterwards.

func SwapOpen(f func(string) (*os.File, error)) (restore func()) {
	orig := open
	open = f
	return func() { open = orig }
}

func SwapReadFile(f func(string) ([]byte, error)) (restore func()) {
	orig := readFile
	readFile = f
	return func() { readFile = orig }
}

func SwapWriteFile(f func(string, []byte, os.FileMode) error) (restore func()) {
	orig := writeFile
	writeFile = f
	return func() { writeFile = orig }
}

func SwapStat(f func(string) (os.FileInfo, error)) (restore func()) {
	orig := stat
	stat = f
	return func() { stat = orig }
}

func SwapMkdirAll(f func(string, os.FileMode) error) (restore func()) {
	orig := mkdirAll
	mkdirAll = f
	return func() { mkdirAll = orig }
}

func SwapRemove(f func(string) error) (restore func()) {
	orig := remove
	remove = f
	return func() { remove = orig }
}

func SwapRename(f func(string, string) error) (restore func()) {
	orig := rename
	rename = f
	return func() { rename = orig }
}
