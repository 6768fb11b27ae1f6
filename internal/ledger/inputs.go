package ledger

import (
	"fmt"
	"math/bits"
	"path"

	"github.com/keshon/vbits/internal/identity"
	"github.com/keshon/vbits/internal/repo/store/tree"
)

// Input is an unspent balance record.
type Input struct {
	ID     string
	Amount uint64
}

// Spendable lists the balance records of addr ordered by origin id.
func Spendable(t *tree.Tree, addr identity.Address) ([]Input, error) {
	var inputs []Input
	for _, p := range t.List(BalanceDir(addr)) {
		blob, ok := t.Get(p)
		if !ok {
			// a subtree where a record should be
			return nil, fmt.Errorf("balance entry %s is not a record", p)
		}
		b, err := ParseBalance(blob)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		inputs = append(inputs, Input{ID: path.Base(p), Amount: b.Amount})
	}
	return inputs, nil
}

// addAmount adds two amounts, failing with ErrInvalidAmount when the
// result does not fit in a uint64.
func addAmount(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, fmt.Errorf("%w: %d + %d overflows", ErrInvalidAmount, a, b)
	}
	return sum, nil
}

// Sum totals the amounts of inputs.
func Sum(inputs []Input) (uint64, error) {
	var total uint64
	for _, in := range inputs {
		var err error
		if total, err = addAmount(total, in.Amount); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// SelectInputs accumulates inputs in order until amount is covered.
// It fails with ErrInsufficientFunds when all of them fall short.
func SelectInputs(inputs []Input, amount uint64) (selected []Input, total uint64, err error) {
	for _, in := range inputs {
		if total >= amount {
			break
		}
		selected = append(selected, in)
		if total, err = addAmount(total, in.Amount); err != nil {
			return nil, 0, err
		}
	}
	if total < amount {
		return nil, 0, fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, amount, total)
	}
	return selected, total, nil
}
