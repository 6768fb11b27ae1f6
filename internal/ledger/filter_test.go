package ledger_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/keshon/vbits/internal/ledger"
)

func TestFilterMatches(t *testing.T) {
	f := transfer(t)
	tr, err := ledger.Validate(f.parent, f.next)
	if err != nil {
		t.Fatal(err)
	}
	valid := ledger.Outcome{CommitID: "c1", Transition: tr}
	broken := ledger.Outcome{CommitID: "c2", Err: &ledger.ValidationError{Kind: ledger.ErrSignatureInvalid}}

	cases := []struct {
		expr          string
		valid, broken bool
	}{
		{"Valid", true, false},
		{"!Valid", false, true},
		{"Amount >= 40 && !Mint", true, false},
		{`To == "` + f.y.String() + `"`, true, false},
		{`Sender startsWith "V"`, true, false},
		{`Error contains "signature"`, false, true},
		{`Commit in ["c1", "c2"]`, true, true},
	}
	for _, c := range cases {
		filter, err := ledger.CompileFilter(c.expr)
		if err != nil {
			t.Fatalf("CompileFilter(%q): %v", c.expr, err)
		}
		if got, _ := filter.Match(valid); got != c.valid {
			t.Errorf("%q on valid = %v", c.expr, got)
		}
		if got, _ := filter.Match(broken); got != c.broken {
			t.Errorf("%q on broken = %v", c.expr, got)
		}
	}
}

func TestFilterCompileErrors(t *testing.T) {
	for _, expr := range []string{"", "Nope > 1", "Amount + 1", "Valid &&"} {
		if _, err := ledger.CompileFilter(expr); err == nil {
			t.Errorf("expected compile error for %q", expr)
		}
	}
}

func TestFilterLargeAmounts(t *testing.T) {
	o := ledger.Outcome{
		CommitID:   "c1",
		Transition: &ledger.Transition{Record: ledger.Record{Amount: math.MaxUint64}, Plan: &ledger.Plan{}},
	}
	for _, expr := range []string{"Amount > 0", fmt.Sprintf("Amount == %d", math.MaxInt), "Valid && Amount != 40"} {
		f, err := ledger.CompileFilter(expr)
		if err != nil {
			t.Fatalf("CompileFilter(%q): %v", expr, err)
		}
		ok, err := f.Match(o)
		if err != nil || !ok {
			t.Errorf("%q on max amount = %v, %v", expr, ok, err)
		}
	}
}
