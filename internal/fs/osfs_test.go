package fs_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/keshon/vbits/internal/fs"
)

func TestOSFS_Open(t *testing.T) {
	called := false
	restore := fs.SwapOpen(func(path string) (*os.File, error) {
		called = true
		if path != "abc.txt" {
			t.Fatalf("expected path abc.txt, got %s", path)
		}
		return nil, errors.New("open-error")
	})
	defer restore()

	_, err := fs.NewOSFS().Open("abc.txt")
	if !called {
		t.Fatal("hook not called")
	}
	if err == nil || err.Error() != "open-error" {
		t.Fatalf("expected open-error, got %v", err)
	}
}

func TestOSFS_Stat(t *testing.T) {
	called := false
	restore := fs.SwapStat(func(path string) (os.FileInfo, error) {
		called = true
		return nil, errors.New("stat-failed")
	})
	defer restore()

	_, err := fs.NewOSFS().Stat("zzz")
	if !called {
		t.Fatal("expected stat hook to be called")
	}
	if err == nil || err.Error() != "stat-failed" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestOSFS_ReadFileHook(t *testing.T) {
	called := false
	restore := fs.SwapReadFile(func(path string) ([]byte, error) {
		called = true
		return []byte("hello"), nil
	})
	defer restore()

	out, err := fs.NewOSFS().ReadFile("x")
	if err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Fatal("readFile hook not called")
	}
	if string(out) != "hello" {
		t.Fatalf("expected hello, got %s", out)
	}
}

func TestOSFS_ReadFileMapped(t *testing.T) {
	dir := t.TempDir()
	osfs := fs.NewOSFS()

	full := filepath.Join(dir, "obj")
	if err := os.WriteFile(full, []byte("mapped content"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := osfs.ReadFile(full)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "mapped content" {
		t.Fatalf("unexpected content %q", out)
	}

	empty := filepath.Join(dir, "empty")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	out, err = osfs.ReadFile(empty)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty read, got %q", out)
	}

	if _, err := osfs.ReadFile(filepath.Join(dir, "missing")); !osfs.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestOSFS_WriteFile(t *testing.T) {
	called := false
	restore := fs.SwapWriteFile(func(path string, data []byte, perm os.FileMode) error {
		called = true
		if path != "aaa" || string(data) != "bbb" || perm != 0o644 {
			t.Fatalf("unexpected write args")
		}
		return nil
	})
	defer restore()

	if err := fs.NewOSFS().WriteFile("aaa", []byte("bbb"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Fatal("writeFile hook not called")
	}
}

func TestOSFS_MkdirAll(t *testing.T) {
	called := false
	restore := fs.SwapMkdirAll(func(path string, perm os.FileMode) error {
		called = true
		if perm != 0o755 {
			t.Fatalf("unexpected perm")
		}
		return nil
	})
	defer restore()

	if err := fs.NewOSFS().MkdirAll("dir123", 0o755); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Fatal("mkdirAll hook not called")
	}
}

func TestOSFS_RemoveAndRename(t *testing.T) {
	removed, renamed := false, false
	restoreRemove := fs.SwapRemove(func(path string) error {
		removed = true
		return nil
	})
	defer restoreRemove()
	restoreRename := fs.SwapRename(func(oldPath, newPath string) error {
		renamed = oldPath == "a" && newPath == "b"
		return nil
	})
	defer restoreRename()

	osfs := fs.NewOSFS()
	if err := osfs.Remove("qqq"); err != nil {
		t.Fatal(err)
	}
	if err := osfs.Rename("a", "b"); err != nil {
		t.Fatal(err)
	}
	if !removed || !renamed {
		t.Fatalf("hooks not called: remove=%v rename=%v", removed, renamed)
	}
}

func TestOSFS_TempFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	osfs := fs.NewOSFS()

	wc, tmp, err := osfs.CreateTempFile(dir, ".tmp-*")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := wc.Write([]byte("payload")); err != nil {
		t.Fatal(err)
	}
	if err := wc.Close(); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(dir, "final")
	if err := osfs.Rename(tmp, dst); err != nil {
		t.Fatal(err)
	}
	if !osfs.Exists(dst) || osfs.Exists(tmp) {
		t.Fatal("rename did not move temp file")
	}
	if osfs.IsDir(dst) || !osfs.IsDir(dir) {
		t.Fatal("IsDir mismatch")
	}
}
