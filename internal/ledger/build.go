package ledger

import (
	"fmt"

	"github.com/keshon/vbits/internal/identity"
	"github.com/keshon/vbits/internal/repo/store/tree"
)

// Plan is a transaction worked out against one snapshot, before signing.
type Plan struct {
	Parent string // snapshot id the plan spends from
	Sender identity.Address
	To     identity.Address
	Amount uint64
	Mint   bool
	Inputs []Input
	Change uint64
	TxID   string
}

// BuildPlan selects inputs for a transfer from sender and derives its id.
// Mint plans consume nothing and produce no change. A transfer that would
// take the recipient's balance past the largest amount fails with
// ErrInvalidAmount.
func BuildPlan(t *tree.Tree, sender, to identity.Address, amount uint64, mint bool) (*Plan, error) {
	if amount == 0 {
		return nil, fmt.Errorf("%w: must be at least 1", ErrInvalidAmount)
	}

	p := &Plan{Parent: t.ID(), Sender: sender, To: to, Amount: amount, Mint: mint}
	if !mint {
		available, err := Spendable(t, sender)
		if err != nil {
			return nil, err
		}
		selected, total, err := SelectInputs(available, amount)
		if err != nil {
			return nil, err
		}
		p.Inputs = selected
		p.Change = total - amount
	}

	if to != sender || mint {
		if err := checkHeadroom(t, to, amount); err != nil {
			return nil, err
		}
	}

	ids := make([]string, len(p.Inputs))
	for i, in := range p.Inputs {
		ids[i] = in.ID
	}
	p.TxID = TxID(p.Parent, to, amount, ids)
	return p, nil
}

// Record returns the payload for p signed by signer.
func (p *Plan) Record(signer identity.Signer) Record {
	return Record{
		To:     p.To.String(),
		Amount: p.Amount,
		PubKey: identity.EncodePublicKey(signer.PublicKey()),
		Sig:    identity.EncodeSignature(signer.Sign([]byte(p.TxID))),
		TxID:   p.TxID,
		Mint:   p.Mint,
	}
}

// Apply removes the consumed records, writes the outputs and the tx record.
// A non-mint transfer to oneself leaves one record holding deposit and change.
func (p *Plan) Apply(t *tree.Tree, rec Record) (*tree.Tree, error) {
	if t.ID() != p.Parent {
		return nil, fmt.Errorf("plan built on %s, applied to %s", p.Parent, t.ID())
	}

	var err error
	for _, in := range p.Inputs {
		if t, err = t.Remove(BalancePath(p.Sender, in.ID)); err != nil {
			return nil, err
		}
	}

	deposit := p.Amount
	change := p.Change
	if p.To == p.Sender {
		if deposit, err = addAmount(deposit, change); err != nil {
			return nil, err
		}
		change = 0
	}
	if t, err = t.Set(BalancePath(p.To, p.TxID), Balance{Amount: deposit}.Encode()); err != nil {
		return nil, err
	}
	if change > 0 {
		if t, err = t.Set(BalancePath(p.Sender, p.TxID), Balance{Amount: change}.Encode()); err != nil {
			return nil, err
		}
	}
	if t, err = t.Set(TxPath(p.Sender), rec.Encode()); err != nil {
		return nil, err
	}
	return t, nil
}

// Message is the commit message recorded for a signed plan.
func (p *Plan) Message(rec Record) string {
	verb := "sent"
	if p.Mint {
		verb = "minted"
	}
	return fmt.Sprintf("%s %s %d bits to %s\n\n%s", p.Sender, verb, p.Amount, p.To, rec.Sig)
}

// checkHeadroom fails when crediting amount to addr would overflow its balance.
func checkHeadroom(t *tree.Tree, addr identity.Address, amount uint64) error {
	held, err := Spendable(t, addr)
	if err != nil {
		return err
	}
	total, err := Sum(held)
	if err != nil {
		return err
	}
	if _, err := addAmount(total, amount); err != nil {
		return fmt.Errorf("%w: balance of %s would exceed the maximum", ErrInvalidAmount, addr)
	}
	return nil
}
