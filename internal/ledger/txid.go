package ledger

import (
	"crypto/sha256"
	"sort"
	"strconv"
	"strings"

	"github.com/mr-tron/base58"

	"github.com/keshon/vbits/internal/identity"
)

// TxID binds a transaction to the snapshot it spends from, its recipient,
// its amount and the sorted ids of the records it consumes.
func TxID(parentSnapshot string, to identity.Address, amount uint64, inputIDs []string) string {
	ids := append([]string(nil), inputIDs...)
	sort.Strings(ids)

	var b strings.Builder
	b.WriteString("parent:" + parentSnapshot + "\n")
	b.WriteString("to:" + to.String() + "\n")
	b.WriteString("amount:" + strconv.FormatUint(amount, 10) + "\n")
	for _, id := range ids {
		b.WriteString("input:" + id + "\n")
	}
	sum := sha256.Sum256([]byte(b.String()))
	return base58.Encode(sum[:])
}
