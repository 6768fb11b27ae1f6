package ledger

import (
	"errors"
	"fmt"

	"github.com/keshon/vbits/internal/repo/meta"
)

// Construction errors.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrConflict          = meta.ErrConflict
)

// Validation failure kinds, matched with errors.Is against a *ValidationError.
var (
	ErrIllegalTransaction     = errors.New("illegal transaction")
	ErrOwnershipMismatch      = errors.New("ownership mismatch")
	ErrSignatureInvalid       = errors.New("signature invalid")
	ErrReconstructionMismatch = errors.New("reconstruction mismatch")
)

// ValidationError names the check a committed transition failed.
type ValidationError struct {
	Commit string
	Kind   error
	Detail string
}

func (e *ValidationError) Error() string {
	msg := e.Kind.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Commit != "" {
		return fmt.Sprintf("commit %s: %s", e.Commit, msg)
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return e.Kind }

func invalid(kind error, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
