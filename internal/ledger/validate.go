package ledger

import (
	"errors"

	"github.com/keshon/vbits/internal/config"
	"github.com/keshon/vbits/internal/identity"
	"github.com/keshon/vbits/internal/repo/store/diff"
	"github.com/keshon/vbits/internal/repo/store/tree"
)

// Transition is a validated transaction recovered from a commit pair.
type Transition struct {
	Sender identity.Address
	Record Record
	Plan   *Plan
}

// Validate replays the transaction published between parent and next.
// It returns (nil, nil) when the data root did not change, and a
// *ValidationError naming the failed check otherwise.
func Validate(parent, next *tree.Tree) (*Transition, error) {
	changes := diff.Diff(parent, next, config.DataRoot)
	if len(changes) == 0 {
		return nil, nil
	}

	// 1. exactly one tx record
	var (
		sender identity.Address
		change diff.Change
		found  int
	)
	for _, key := range changes.Keys() {
		c := changes[key]
		if addr, ok := txSender(c.Path); ok {
			sender, change = addr, c
			found++
		}
	}
	if found != 1 {
		return nil, invalid(ErrIllegalTransaction, "expected one tx record, found %d", found)
	}
	if change.New == nil {
		return nil, invalid(ErrIllegalTransaction, "tx record of %s removed", sender)
	}

	// 2. payload
	rec, err := ParseRecord(change.New)
	if err != nil {
		return nil, invalid(ErrIllegalTransaction, "%v", err)
	}
	if _, err := identity.ParseAddress(string(sender)); err != nil {
		return nil, invalid(ErrIllegalTransaction, "sender: %v", err)
	}
	to, err := identity.ParseAddress(rec.To)
	if err != nil {
		return nil, invalid(ErrIllegalTransaction, "recipient: %v", err)
	}

	// 3. recompute against the parent
	plan, err := BuildPlan(parent, sender, to, rec.Amount, rec.Mint)
	if err != nil {
		return nil, invalid(ErrIllegalTransaction, "%v", err)
	}

	// 4. ownership
	pub, err := identity.DecodePublicKey(rec.PubKey)
	if err != nil {
		return nil, invalid(ErrIllegalTransaction, "%v", err)
	}
	owner, err := identity.DeriveAddress(pub)
	if err != nil || owner != sender {
		return nil, invalid(ErrOwnershipMismatch, "key belongs to %s, record published by %s", owner, sender)
	}

	// 5. signature over the recomputed id
	sig, err := identity.DecodeSignature(rec.Sig)
	if err != nil || !identity.Verify(pub, sig, []byte(plan.TxID)) {
		return nil, invalid(ErrSignatureInvalid, "signature does not cover txid %s", plan.TxID)
	}

	// 6. the parent plus the recomputed mutations must be the committed tree
	rebuilt, err := plan.Apply(parent, rec)
	if err != nil {
		return nil, invalid(ErrReconstructionMismatch, "%v", err)
	}
	if !rebuilt.Equal(next) {
		return nil, invalid(ErrReconstructionMismatch, "%s", mismatch(rebuilt, next))
	}

	return &Transition{Sender: sender, Record: rec, Plan: plan}, nil
}

// mismatch names the first path where two data trees differ.
func mismatch(want, got *tree.Tree) string {
	keys := diff.Diff(want, got, "").Keys()
	if len(keys) == 0 {
		return "trees differ"
	}
	return "unexpected change at " + keys[0]
}

// Outcome is the validation result for one commit of a history.
type Outcome struct {
	CommitID   string
	Message    string
	Transition *Transition // nil when the commit changed no ledger data
	Err        error
}

// Valid reports whether the commit passed validation.
func (o Outcome) Valid() bool { return o.Err == nil }

// Kind returns the failure kind, or nil.
func (o Outcome) Kind() error {
	var ve *ValidationError
	if errors.As(o.Err, &ve) {
		return ve.Kind
	}
	return o.Err
}
