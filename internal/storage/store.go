// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitledger/internal/models"
)

var (
	// ErrNotFound is returned (wrapped) when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCreatorRemoval is returned when a group's creator would be removed.
	ErrCreatorRemoval = errors.New("group creator cannot be removed")

	// ErrLastMember is returned when a removal would leave a group empty.
	ErrLastMember = errors.New("group must keep at least one member")
)

// ExpenseBuilder produces a new expense from the group and its current
// expense history. Returning an error aborts the write.
type ExpenseBuilder func(group *models.Group, expenses []models.Expense) (*models.Expense, error)

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	GroupStore
	ExpenseStore

	// Close releases any resources held by the store.
	Close() error
}

// UserStore persists registered accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// GroupStore is the member directory: groups and their member lists.
type GroupStore interface {
	// CreateGroup persists a new group with its members.
	// The group.ID and group.CreatedAt fields are populated by the store when empty.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its members in insertion order.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsForMember returns every group memberID belongs to, in creation order.
	ListGroupsForMember(ctx context.Context, memberID string) ([]*models.Group, error)

	// AddGroupMembers appends members to a group. Existing members are skipped.
	AddGroupMembers(ctx context.Context, groupID string, members []models.Member) error

	// RemoveGroupMember drops a member from the group. Their expenses stay.
	// The creator and the last remaining member cannot be removed.
	RemoveGroupMember(ctx context.Context, groupID, memberID string) error
}

// ExpenseStore is an append-only expense log keyed by group.
type ExpenseStore interface {
	// AppendExpense loads the group and its expenses, calls build and inserts
	// the result, all in one transaction. Appends to the same store are
	// serialized, so build always sees the complete history.
	AppendExpense(ctx context.Context, groupID string, build ExpenseBuilder) (*models.Expense, error)

	// ListExpensesByGroup returns the group's expenses in insertion order.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]models.Expense, error)
}
