package ledger

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Record is the transaction payload a sender publishes at data/<sender>/tx.
// Field order is the serialized order.
type Record struct {
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
	PubKey string `json:"pubkey"`
	Sig    string `json:"sig"`
	TxID   string `json:"txid"`
	Mint   bool   `json:"mint"`
}

// wireRecord detects missing fields on decode.
type wireRecord struct {
	To     *string `json:"to"`
	Amount *uint64 `json:"amount"`
	PubKey *string `json:"pubkey"`
	Sig    *string `json:"sig"`
	TxID   *string `json:"txid"`
	Mint   *bool   `json:"mint"`
}

// Balance is the body of a balance record.
type Balance struct {
	Amount uint64 `json:"amount"`
}

type wireBalance struct {
	Amount *uint64 `json:"amount"`
}

// Encode returns the canonical compact JSON form of r.
func (r Record) Encode() []byte {
	data, _ := json.Marshal(r)
	return data
}

// Encode returns the canonical compact JSON form of b.
func (b Balance) Encode() []byte {
	data, _ := json.Marshal(b)
	return data
}

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data")
	}
	return nil
}

// ParseRecord decodes a transaction record, rejecting unknown and missing fields.
func ParseRecord(data []byte) (Record, error) {
	var w wireRecord
	if err := decodeStrict(data, &w); err != nil {
		return Record{}, fmt.Errorf("parse tx record: %w", err)
	}
	missing := func(name string) error { return fmt.Errorf("parse tx record: missing field %q", name) }
	switch {
	case w.To == nil:
		return Record{}, missing("to")
	case w.Amount == nil:
		return Record{}, missing("amount")
	case w.PubKey == nil:
		return Record{}, missing("pubkey")
	case w.Sig == nil:
		return Record{}, missing("sig")
	case w.TxID == nil:
		return Record{}, missing("txid")
	case w.Mint == nil:
		return Record{}, missing("mint")
	}
	return Record{To: *w.To, Amount: *w.Amount, PubKey: *w.PubKey, Sig: *w.Sig, TxID: *w.TxID, Mint: *w.Mint}, nil
}

// ParseBalance decodes a balance record. Zero amounts are rejected.
func ParseBalance(data []byte) (Balance, error) {
	var w wireBalance
	if err := decodeStrict(data, &w); err != nil {
		return Balance{}, fmt.Errorf("parse balance: %w", err)
	}
	if w.Amount == nil {
		return Balance{}, errors.New(`parse balance: missing field "amount"`)
	}
	if *w.Amount == 0 {
		return Balance{}, errors.New("parse balance: zero amount")
	}
	return Balance{Amount: *w.Amount}, nil
}
