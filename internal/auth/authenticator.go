// Package auth identifies the members who call the ledger service.
package auth

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
)

// Authenticator registers and verifies user accounts.
// Implementations decide what the credential is (password, passkey, ...).
type Authenticator interface {
	// Register creates a new account for email with the given credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the account matching email and credential.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)
}
