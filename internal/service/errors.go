package service

import (
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/internal/storage"
)

var (
	errNotMember        = errors.New("caller is not a member of the group")
	errNotParty         = errors.New("caller must be the payer or the payee")
	errMissingGroupName = errors.New("group name required")
	errMissingGroupID   = errors.New("group_id required")
)

// toConnectError maps domain errors to Connect codes.
// Errors that already carry a code pass through unchanged.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	code := connect.CodeInternal
	switch {
	case errors.Is(err, calculator.ErrInvalidAmount),
		errors.Is(err, calculator.ErrInvalidSplit),
		errors.Is(err, calculator.ErrSplitMismatch),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrMissingName),
		errors.Is(err, errMissingGroupName),
		errors.Is(err, errMissingGroupID):
		code = connect.CodeInvalidArgument
	case errors.Is(err, calculator.ErrGroupNotFound),
		errors.Is(err, calculator.ErrMemberNotFound),
		errors.Is(err, storage.ErrNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		code = connect.CodeUnauthenticated
	case errors.Is(err, auth.ErrEmailExists):
		code = connect.CodeAlreadyExists
	case errors.Is(err, errNotMember), errors.Is(err, errNotParty):
		code = connect.CodePermissionDenied
	case errors.Is(err, storage.ErrCreatorRemoval), errors.Is(err, storage.ErrLastMember):
		code = connect.CodeFailedPrecondition
	}
	return connect.NewError(code, err)
}

// parseAmount reads a client-supplied decimal amount.
func parseAmount(s string) (money.Cents, error) {
	c, err := money.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", calculator.ErrInvalidAmount, err)
	}
	return c, nil
}
