package calculator

import "errors"

// Ledger error kinds. Callers match them with errors.Is; the wrapped
// message carries the offending values.
var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrInvalidSplit   = errors.New("invalid split")
	ErrSplitMismatch  = errors.New("splits do not add up to the total amount")
	ErrGroupNotFound  = errors.New("group not found")
	ErrMemberNotFound = errors.New("member not found")
)
