package models

import "github.com/mmynk/splitledger/internal/money"

// Balance is one member's net position in a group.
// Positive = owed money, negative = owes money.
type Balance struct {
	MemberID   string
	MemberName string
	Amount     money.Cents
}

// Transfer is a suggested payment that reduces outstanding balances:
// From should pay To the given Amount.
type Transfer struct {
	From   string
	To     string
	Amount money.Cents
}
