package ledger

import (
	"github.com/keshon/vbits/internal/config"
	"github.com/keshon/vbits/internal/identity"
	"github.com/keshon/vbits/internal/repo/store/tree"
)

const (
	balanceDir = "balance"
	txLeaf     = "tx"
)

// BalanceDir is where the unspent records of addr live.
func BalanceDir(addr identity.Address) string {
	return tree.JoinPath(config.DataRoot, addr.String(), balanceDir)
}

// BalancePath is the record created for addr by transaction txid.
func BalancePath(addr identity.Address, txid string) string {
	return tree.JoinPath(config.DataRoot, addr.String(), balanceDir, txid)
}

// TxPath is where addr publishes its latest transaction record.
func TxPath(addr identity.Address) string {
	return tree.JoinPath(config.DataRoot, addr.String(), txLeaf)
}

// txSender returns the owner of a tx record path relative to the data root.
func txSender(rel []string) (identity.Address, bool) {
	if len(rel) != 2 || rel[1] != txLeaf {
		return "", false
	}
	return identity.Address(rel[0]), true
}
