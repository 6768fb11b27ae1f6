package snapshot_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/keshon/vbits/internal/fs"
	"github.com/keshon/vbits/internal/repo/store/object"
	"github.com/keshon/vbits/internal/repo/store/snapshot"
	"github.com/keshon/vbits/internal/repo/store/tree"
)

func newTestSC(t *testing.T, algo object.Algo) *snapshot.SnapshotContext {
	t.Helper()
	m := fs.NewMemoryFS()
	if err := m.MkdirAll("repo/objects", 0o755); err != nil {
		t.Fatal(err)
	}
	return snapshot.NewSnapshotContext(object.NewObjectContext("repo/objects", m, algo))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, algo := range []object.Algo{object.SHA256, object.XXH3, object.BLAKE2B} {
		t.Run(string(algo), func(t *testing.T) {
			sc := newTestSC(t, algo)

			tr := sc.Empty()
			for path, v := range map[string]string{
				"data/alice/balance/t1": `{"amount":1}`,
				"data/alice/tx":         `{"to":"bob"}`,
				"data/bob/balance/t1":   `{"amount":2}`,
				"data/with space/x":     "",
			} {
				var err error
				if tr, err = tr.Set(path, []byte(v)); err != nil {
					t.Fatal(err)
				}
			}

			id, err := sc.Save(tr)
			if err != nil {
				t.Fatal(err)
			}
			if id != tr.ID() {
				t.Fatalf("expected id %s, got %s", tr.ID(), id)
			}

			loaded, err := sc.Load(id)
			if err != nil {
				t.Fatal(err)
			}
			if !loaded.Equal(tr) {
				t.Fatal("loaded tree differs from saved tree")
			}
			if v, ok := loaded.Get("data/bob/balance/t1"); !ok || string(v) != `{"amount":2}` {
				t.Fatalf("unexpected blob %q", v)
			}
		})
	}
}

func TestSaveEmptyTree(t *testing.T) {
	sc := newTestSC(t, object.SHA256)
	id, err := sc.Save(sc.Empty())
	if err != nil {
		t.Fatal(err)
	}
	loaded, err := sc.Load(id)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Len() != 0 {
		t.Fatal("expected empty tree")
	}
}

func TestSaveRejectsForeignAlgo(t *testing.T) {
	sc := newTestSC(t, object.SHA256)
	if _, err := sc.Save(tree.Empty(object.XXH3)); err == nil {
		t.Fatal("expected algorithm mismatch error")
	}
}

func TestLoadMissingAndCorrupt(t *testing.T) {
	sc := newTestSC(t, object.SHA256)
	if _, err := sc.Load("0000"); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	tr, _ := sc.Empty().Set("k", []byte("v"))
	id, err := sc.Save(tr)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(sc.Objects.ObjectsDir, id[:2], id[2:])
	if err := sc.Objects.FS.WriteFile(path, []byte("bogus line\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := sc.Load(id); err == nil {
		t.Fatal("expected error for corrupt tree object")
	}
}
