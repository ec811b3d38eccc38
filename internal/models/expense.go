package models

import (
	"time"

	"github.com/mmynk/splitledger/internal/money"
)

// ExpenseKind distinguishes ordinary expenses from recorded settlement payments.
type ExpenseKind string

const (
	KindExpense    ExpenseKind = "expense"
	KindSettlement ExpenseKind = "settlement"
)

// Expense is one payment made by a member on behalf of some group members.
// Expenses are immutable once created.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Description is the human-readable label (e.g., "Dinner").
	Description string

	// Amount is the total paid, always positive.
	Amount money.Cents

	// PayerID is the member who paid the full amount.
	PayerID string

	// Kind tells ordinary expenses from settlement payments.
	Kind ExpenseKind

	// Date is when the expense was recorded.
	Date time.Time

	// Splits are the per-member obligations. Members without a split owe nothing.
	Splits []Split
}

// Split is the portion of one expense owed by one member.
type Split struct {
	MemberID string
	Amount   money.Cents
}

// SplitTotal returns the sum of the expense's split amounts.
func (e *Expense) SplitTotal() money.Cents {
	var total money.Cents
	for _, s := range e.Splits {
		total += s.Amount
	}
	return total
}

// SplitFor returns the amount owed by memberID, zero if the member has no split.
func (e *Expense) SplitFor(memberID string) money.Cents {
	var total money.Cents
	for _, s := range e.Splits {
		if s.MemberID == memberID {
			total += s.Amount
		}
	}
	return total
}

// SplitPolicy is the rule that divides an expense among members.
// It is either EqualSplit or CustomSplit.
type SplitPolicy interface {
	splitPolicy()
}

// EqualSplit divides the amount evenly.
// An empty MemberIDs means every current group member.
type EqualSplit struct {
	MemberIDs []string
}

// CustomSplit assigns explicit amounts that must add up to the total.
type CustomSplit struct {
	Splits []Split
}

func (EqualSplit) splitPolicy()  {}
func (CustomSplit) splitPolicy() {}
