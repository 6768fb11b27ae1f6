package fs_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/keshon/vbits/internal/fs"
)

func TestCompressedFS_RoundTrip(t *testing.T) {
	m := fs.NewMemoryFS()
	c := fs.NewCompressedFS(m)
	if err := c.MkdirAll("objects", 0o755); err != nil {
		t.Fatal(err)
	}

	content := bytes.Repeat([]byte("ledger "), 200)
	if err := c.WriteFile("objects/a", content, 0o644); err != nil {
		t.Fatal(err)
	}

	raw, err := m.ReadFile("objects/a")
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) >= len(content) {
		t.Fatalf("expected compressed bytes, got %d >= %d", len(raw), len(content))
	}

	got, err := c.ReadFile("objects/a")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, content) {
		t.Fatal("content changed after round trip")
	}

	rc, err := c.Open("objects/a")
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	streamed, _ := io.ReadAll(rc)
	if !bytes.Equal(streamed, content) {
		t.Fatal("Open returned different content")
	}
}

func TestCompressedFS_TempFileAndRename(t *testing.T) {
	m := fs.NewMemoryFS()
	c := fs.NewCompressedFS(m)
	if err := c.MkdirAll("objects", 0o755); err != nil {
		t.Fatal(err)
	}

	w, tmp, err := c.CreateTempFile("objects", ".tmp-*")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("payload")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := c.Rename(tmp, "objects/b"); err != nil {
		t.Fatal(err)
	}

	got, err := c.ReadFile("objects/b")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "payload" {
		t.Fatalf("got %q", got)
	}
}

func TestCompressedFS_RejectsPlainData(t *testing.T) {
	m := fs.NewMemoryFS()
	m.MkdirAll("objects", 0o755)
	m.WriteFile("objects/plain", []byte("not gzip"), 0o644)

	c := fs.NewCompressedFS(m)
	if _, err := c.ReadFile("objects/plain"); err == nil {
		t.Fatal("expected inflate error")
	}
	if _, err := c.ReadFile("objects/missing"); !c.IsNotExist(err) {
		t.Fatalf("expected not-exist, got %v", err)
	}
}
