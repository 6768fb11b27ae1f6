package ledger_test

import (
	"errors"
	"math"
	"testing"

	"github.com/keshon/vbits/internal/ledger"
)

func TestSelectInputsMinimalOvershoot(t *testing.T) {
	inputs := []ledger.Input{{ID: "a", Amount: 3}, {ID: "b", Amount: 5}, {ID: "c", Amount: 8}}

	selected, total, err := ledger.SelectInputs(inputs, 6)
	if err != nil {
		t.Fatal(err)
	}
	if len(selected) != 2 || selected[0].ID != "a" || selected[1].ID != "b" {
		t.Errorf("expected [a b], got %+v", selected)
	}
	if total != 8 || total-6 != 2 {
		t.Errorf("expected total 8 (change 2), got %d", total)
	}

	selected, _, err = ledger.SelectInputs(inputs, 3)
	if err != nil || len(selected) != 1 {
		t.Errorf("exact match should take one input, got %+v, %v", selected, err)
	}
}

func TestSelectInputsInsufficient(t *testing.T) {
	inputs := []ledger.Input{{ID: "a", Amount: 3}, {ID: "b", Amount: 5}}
	selected, total, err := ledger.SelectInputs(inputs, 9)
	if !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if selected != nil || total != 0 {
		t.Error("no partial selection may be returned")
	}
	if _, _, err := ledger.SelectInputs(nil, 1); !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Errorf("empty inputs: %v", err)
	}
}

func TestSpendableSortedByID(t *testing.T) {
	x := key(t, 1).Address()
	tr := withRecords(t, x, map[string]uint64{"c": 8, "a": 3, "b": 5})

	inputs, err := ledger.Spendable(tr, x)
	if err != nil {
		t.Fatal(err)
	}
	if len(inputs) != 3 || inputs[0].ID != "a" || inputs[1].ID != "b" || inputs[2].ID != "c" {
		t.Errorf("unexpected order %+v", inputs)
	}
	if sum, err := ledger.Sum(inputs); err != nil || sum != 16 {
		t.Errorf("expected sum 16, got %d (%v)", sum, err)
	}

	none, err := ledger.Spendable(tr, key(t, 2).Address())
	if err != nil || len(none) != 0 {
		t.Errorf("unknown address must have no inputs: %+v, %v", none, err)
	}
}

func TestSpendableRejectsCorruptRecord(t *testing.T) {
	x := key(t, 1).Address()
	tr := mustSet(t, withRecords(t, x, nil), ledger.BalancePath(x, "bad"), []byte(`{"amount":"lots"}`))
	if _, err := ledger.Spendable(tr, x); err == nil {
		t.Error("expected parse error")
	}
}

func TestBuildPlanSelectsAndComputesChange(t *testing.T) {
	x, y := key(t, 1).Address(), key(t, 2).Address()
	tr := withRecords(t, x, map[string]uint64{"b": 5, "a": 3, "c": 8})

	plan, err := ledger.BuildPlan(tr, x, y, 6, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Inputs) != 2 || plan.Inputs[0].ID != "a" || plan.Inputs[1].ID != "b" {
		t.Errorf("unexpected inputs %+v", plan.Inputs)
	}
	if plan.Change != 2 {
		t.Errorf("expected change 2, got %d", plan.Change)
	}
	if plan.Parent != tr.ID() {
		t.Error("plan must remember its parent snapshot")
	}

	if _, err := ledger.BuildPlan(tr, x, y, 0, false); !errors.Is(err, ledger.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := ledger.BuildPlan(tr, x, y, 17, false); !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestApplyWritesOutputsAndRemovesInputs(t *testing.T) {
	k := key(t, 1)
	x, y := k.Address(), key(t, 2).Address()
	tr := withRecords(t, x, map[string]uint64{"a": 3, "b": 5, "c": 8})

	plan, _ := ledger.BuildPlan(tr, x, y, 6, false)
	rec := plan.Record(k)
	next, err := plan.Apply(tr, rec)
	if err != nil {
		t.Fatal(err)
	}

	for _, gone := range []string{"a", "b"} {
		if _, ok := next.Get(ledger.BalancePath(x, gone)); ok {
			t.Errorf("input %s not consumed", gone)
		}
	}
	if _, ok := next.Get(ledger.BalancePath(x, "c")); !ok {
		t.Error("unselected record must survive")
	}
	out, _ := next.Get(ledger.BalancePath(y, plan.TxID))
	if string(out) != `{"amount":6}` {
		t.Errorf("recipient output = %s", out)
	}
	change, _ := next.Get(ledger.BalancePath(x, plan.TxID))
	if string(change) != `{"amount":2}` {
		t.Errorf("change output = %s", change)
	}
	if got, _ := next.Get(ledger.TxPath(x)); string(got) != string(rec.Encode()) {
		t.Errorf("tx record = %s", got)
	}
	if _, err := plan.Apply(next, rec); err == nil {
		t.Error("applying a plan to a different snapshot must fail")
	}
}

func TestApplySelfTransferKeepsOneRecord(t *testing.T) {
	k := key(t, 1)
	x := k.Address()
	tr := withRecords(t, x, map[string]uint64{"a": 10})

	plan, _ := ledger.BuildPlan(tr, x, x, 4, false)
	next, err := plan.Apply(tr, plan.Record(k))
	if err != nil {
		t.Fatal(err)
	}
	inputs, _ := ledger.Spendable(next, x)
	if len(inputs) != 1 || inputs[0].Amount != 10 {
		t.Errorf("expected one record of 10, got %+v", inputs)
	}
}

func TestSumAndSelectRejectOverflow(t *testing.T) {
	inputs := []ledger.Input{{ID: "a", Amount: 5}, {ID: "b", Amount: math.MaxUint64}}

	if _, err := ledger.Sum(inputs); !errors.Is(err, ledger.ErrInvalidAmount) {
		t.Errorf("Sum: expected ErrInvalidAmount, got %v", err)
	}
	if _, _, err := ledger.SelectInputs(inputs, math.MaxUint64); !errors.Is(err, ledger.ErrInvalidAmount) {
		t.Errorf("SelectInputs: expected ErrInvalidAmount, got %v", err)
	}

	whole := []ledger.Input{{ID: "a", Amount: math.MaxUint64}}
	selected, total, err := ledger.SelectInputs(whole, math.MaxUint64)
	if err != nil || len(selected) != 1 || total != math.MaxUint64 {
		t.Errorf("single max record must cover a max request: %+v %d %v", selected, total, err)
	}
}
