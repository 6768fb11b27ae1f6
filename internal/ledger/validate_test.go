package ledger_test

import (
	"errors"
	"math"
	"testing"

	"github.com/keshon/vbits/internal/identity"
	"github.com/keshon/vbits/internal/ledger"
	"github.com/keshon/vbits/internal/repo/store/tree"
)

type fixture struct {
	kx     *identity.Keypair
	x, y   identity.Address
	parent *tree.Tree
	plan   *ledger.Plan
	rec    ledger.Record
	next   *tree.Tree
}

// transfer builds a correct X -> Y transfer of 40 from a 100 record.
func transfer(t *testing.T) fixture {
	t.Helper()
	f := fixture{kx: key(t, 1)}
	f.x, f.y = f.kx.Address(), key(t, 2).Address()
	f.parent = withRecords(t, f.x, map[string]uint64{"genesis": 100})

	var err error
	if f.plan, err = ledger.BuildPlan(f.parent, f.x, f.y, 40, false); err != nil {
		t.Fatal(err)
	}
	f.rec = f.plan.Record(f.kx)
	if f.next, err = f.plan.Apply(f.parent, f.rec); err != nil {
		t.Fatal(err)
	}
	return f
}

func expectKind(t *testing.T, err, kind error) {
	t.Helper()
	var ve *ledger.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
}

func TestValidateAcceptsConstructedTransaction(t *testing.T) {
	f := transfer(t)
	tr, err := ledger.Validate(f.parent, f.next)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if tr.Sender != f.x || tr.Record != f.rec || tr.Plan.TxID != f.plan.TxID {
		t.Errorf("unexpected transition %+v", tr)
	}
}

func TestValidateRoundTripOverManyPlans(t *testing.T) {
	kx := key(t, 1)
	x := kx.Address()
	parent := withRecords(t, x, map[string]uint64{"a": 3, "b": 5, "c": 8, "d": 13})
	for amount := uint64(1); amount <= 29; amount++ {
		for _, to := range []identity.Address{x, key(t, 2).Address()} {
			plan, err := ledger.BuildPlan(parent, x, to, amount, false)
			if err != nil {
				t.Fatal(err)
			}
			next, err := plan.Apply(parent, plan.Record(kx))
			if err != nil {
				t.Fatal(err)
			}
			if _, err := ledger.Validate(parent, next); err != nil {
				t.Errorf("amount %d to %s: %v", amount, to, err)
			}
		}
	}
}

func TestValidateSkipsUnchangedData(t *testing.T) {
	f := transfer(t)
	outside := mustSet(t, f.parent, "meta/note", []byte("hi"))
	tr, err := ledger.Validate(f.parent, outside)
	if tr != nil || err != nil {
		t.Errorf("expected skip, got %+v, %v", tr, err)
	}
}

func TestValidateTamperedAmount(t *testing.T) {
	f := transfer(t)
	tampered := f.rec
	tampered.Amount = 50
	next := mustSet(t, f.next, ledger.TxPath(f.x), tampered.Encode())

	_, err := ledger.Validate(f.parent, next)
	expectKind(t, err, ledger.ErrSignatureInvalid)
}

func TestValidateForeignKey(t *testing.T) {
	f := transfer(t)
	forged := f.plan.Record(key(t, 9))
	next, err := f.plan.Apply(f.parent, forged)
	if err != nil {
		t.Fatal(err)
	}
	_, err = ledger.Validate(f.parent, next)
	expectKind(t, err, ledger.ErrOwnershipMismatch)
}

func TestValidateExtraChange(t *testing.T) {
	f := transfer(t)
	inflated := mustSet(t, f.next, ledger.BalancePath(f.y, "bonus"), ledger.Balance{Amount: 1}.Encode())
	_, err := ledger.Validate(f.parent, inflated)
	expectKind(t, err, ledger.ErrReconstructionMismatch)

	skimmed := mustSet(t, f.next, ledger.BalancePath(f.x, f.plan.TxID), ledger.Balance{Amount: 61}.Encode())
	_, err = ledger.Validate(f.parent, skimmed)
	expectKind(t, err, ledger.ErrReconstructionMismatch)
}

func TestValidateNonCanonicalRecord(t *testing.T) {
	f := transfer(t)
	spaced := append([]byte(" "), f.rec.Encode()...)
	next := mustSet(t, f.next, ledger.TxPath(f.x), spaced)
	_, err := ledger.Validate(f.parent, next)
	expectKind(t, err, ledger.ErrReconstructionMismatch)
}

func TestValidateIllegalShapes(t *testing.T) {
	f := transfer(t)
	other := key(t, 3)

	noTx, _ := f.next.Remove(ledger.TxPath(f.x))
	twoTx := mustSet(t, f.next, ledger.TxPath(other.Address()), f.rec.Encode())
	malformed := mustSet(t, f.next, ledger.TxPath(f.x), []byte(`{"to":"x"}`))
	badTo := f.rec
	badTo.To = "nobody"
	badRecipient := mustSet(t, f.next, ledger.TxPath(f.x), badTo.Encode())
	removed, _ := f.parent.Set(ledger.TxPath(f.x), f.rec.Encode())

	cases := map[string]struct{ parent, next *tree.Tree }{
		"no tx record":      {f.parent, noTx},
		"two tx records":    {f.parent, twoTx},
		"malformed":         {f.parent, malformed},
		"bad recipient":     {f.parent, badRecipient},
		"tx record removed": {removed, f.parent},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ledger.Validate(c.parent, c.next)
			expectKind(t, err, ledger.ErrIllegalTransaction)
		})
	}
}

func TestValidateOverspend(t *testing.T) {
	f := transfer(t)
	greedy := f.rec
	greedy.Amount = 500
	next := mustSet(t, f.next, ledger.TxPath(f.x), greedy.Encode())
	_, err := ledger.Validate(f.parent, next)
	expectKind(t, err, ledger.ErrIllegalTransaction)
}

func TestValidateMint(t *testing.T) {
	k := key(t, 4)
	y := key(t, 5).Address()
	empty := withRecords(t, k.Address(), nil)

	plan, err := ledger.BuildPlan(empty, k.Address(), y, 100, true)
	if err != nil {
		t.Fatal(err)
	}
	next, _ := plan.Apply(empty, plan.Record(k))
	tr, err := ledger.Validate(empty, next)
	if err != nil {
		t.Fatalf("mint rejected: %v", err)
	}
	if !tr.Record.Mint || len(tr.Plan.Inputs) != 0 {
		t.Errorf("unexpected mint transition %+v", tr)
	}
}

func TestValidateMintPastMaximum(t *testing.T) {
	k := key(t, 4)
	x := k.Address()
	parent := withRecords(t, x, map[string]uint64{"seed": math.MaxUint64})

	// hand-built plan: BuildPlan itself refuses it
	plan := &ledger.Plan{
		Parent: parent.ID(),
		Sender: x,
		To:     x,
		Amount: 5,
		Mint:   true,
		TxID:   ledger.TxID(parent.ID(), x, 5, nil),
	}
	next, err := plan.Apply(parent, plan.Record(k))
	if err != nil {
		t.Fatal(err)
	}
	_, err = ledger.Validate(parent, next)
	expectKind(t, err, ledger.ErrIllegalTransaction)
}

func TestValidateHistoryContinuesPastInvalidCommits(t *testing.T) {
	e, r := newEngine(t)
	kx := key(t, 1)
	x := kx.Address()

	send(t, e, kx, x, 10, true)

	// a commit that conjures a balance record with no tx record
	tip, _ := r.Tip("main")
	forged := mustSet(t, tip.Tree, ledger.BalancePath(x, "forged"), ledger.Balance{Amount: 1000}.Encode())
	if _, err := r.Commit("main", tip.CommitID, forged, "forged"); err != nil {
		t.Fatal(err)
	}

	send(t, e, kx, key(t, 2).Address(), 500, false)

	outcomes, err := e.ValidateHistory()
	if err != nil {
		t.Fatal(err)
	}
	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	if !outcomes[0].Valid() || !outcomes[2].Valid() {
		t.Errorf("honest commits must validate: %v / %v", outcomes[0].Err, outcomes[2].Err)
	}
	if outcomes[1].Valid() || !errors.Is(outcomes[1].Kind(), ledger.ErrIllegalTransaction) {
		t.Errorf("forged commit: %v", outcomes[1].Err)
	}
	var ve *ledger.ValidationError
	if errors.As(outcomes[1].Err, &ve) && ve.Commit != outcomes[1].CommitID {
		t.Error("validation error must name its commit")
	}
}
