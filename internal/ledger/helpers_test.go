package ledger_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/keshon/vbits/internal/config"
	"github.com/keshon/vbits/internal/fs"
	"github.com/keshon/vbits/internal/identity"
	"github.com/keshon/vbits/internal/ledger"
	"github.com/keshon/vbits/internal/repo"
	"github.com/keshon/vbits/internal/repo/store/diff"
	"github.com/keshon/vbits/internal/repo/store/object"
	"github.com/keshon/vbits/internal/repo/store/tree"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRepo(t *testing.T) *repo.Repository {
	t.Helper()
	r, _, err := repo.InitAt(config.NewRepoConfig("repo"), &repo.Options{FS: fs.NewMemoryFS()})
	if err != nil {
		t.Fatalf("InitAt failed: %v", err)
	}
	return r
}

func newEngine(t *testing.T) (*ledger.Engine, *repo.Repository) {
	t.Helper()
	r := newRepo(t)
	return ledger.NewEngine(r, ledger.WithLogger(quiet())), r
}

func key(t *testing.T, b byte) *identity.Keypair {
	t.Helper()
	k, err := identity.FromSeed(bytes.Repeat([]byte{b}, 32))
	if err != nil {
		t.Fatal(err)
	}
	return k
}

func send(t *testing.T, e *ledger.Engine, from *identity.Keypair, to identity.Address, amount uint64, mint bool) *ledger.Receipt {
	t.Helper()
	r, err := e.Send(context.Background(), from, to, amount, mint)
	if err != nil {
		t.Fatalf("Send(%d, mint=%v) failed: %v", amount, mint, err)
	}
	return r
}

func balance(t *testing.T, e *ledger.Engine, addr identity.Address) uint64 {
	t.Helper()
	n, err := e.Balance(addr)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

// withRecords returns a tree holding the given balance records for addr.
func withRecords(t *testing.T, addr identity.Address, records map[string]uint64) *tree.Tree {
	t.Helper()
	tr := tree.Empty(object.SHA256)
	for id, amount := range records {
		var err error
		tr, err = tr.Set(ledger.BalancePath(addr, id), ledger.Balance{Amount: amount}.Encode())
		if err != nil {
			t.Fatal(err)
		}
	}
	return tr
}

func mustSet(t *testing.T, tr *tree.Tree, path string, value []byte) *tree.Tree {
	t.Helper()
	next, err := tr.Set(path, value)
	if err != nil {
		t.Fatal(err)
	}
	return next
}

func diffData(a, b *tree.Tree) diff.Changes {
	return diff.Diff(a, b, config.DataRoot)
}
