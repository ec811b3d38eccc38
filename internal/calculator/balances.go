package calculator

import (
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// BalanceSheet is the result of folding a group's expenses into balances.
type BalanceSheet struct {
	// Balances has one entry per current group member, in group order.
	Balances []models.Balance

	// Untracked holds deltas for members referenced by expenses who are no
	// longer in the group, in first-seen order. They are not part of Balances.
	Untracked []models.Balance
}

// Total returns the sum of all member balances.
func (s *BalanceSheet) Total() money.Cents {
	var total money.Cents
	for _, b := range s.Balances {
		total += b.Amount
	}
	return total
}

// Of returns the balance of memberID, zero when absent.
func (s *BalanceSheet) Of(memberID string) money.Cents {
	for _, b := range s.Balances {
		if b.MemberID == memberID {
			return b.Amount
		}
	}
	return 0
}

// AggregateBalances computes every member's net balance from the group's expenses.
//
// Algorithm:
//   - Every current member starts at zero
//   - For each expense: the payer is credited the full amount
//   - For each split: the split's member is debited the split amount
//   - Expenses tagged with another group's ID are ignored
//
// The result does not depend on expense order.
func AggregateBalances(group *models.Group, expenses []models.Expense) (*BalanceSheet, error) {
	if group == nil {
		return nil, fmt.Errorf("%w: no group supplied", ErrGroupNotFound)
	}

	acc := make(map[string]money.Cents, len(group.Members))
	var strangers []string
	touch := func(id string) {
		if _, ok := acc[id]; ok {
			return
		}
		acc[id] = 0
		if !group.HasMember(id) {
			strangers = append(strangers, id)
		}
	}

	for _, m := range group.Members {
		acc[m.ID] = 0
	}

	for i := range expenses {
		e := &expenses[i]
		if e.GroupID != "" && group.ID != "" && e.GroupID != group.ID {
			continue
		}
		touch(e.PayerID)
		acc[e.PayerID] += e.Amount
		for _, s := range e.Splits {
			touch(s.MemberID)
			acc[s.MemberID] -= s.Amount
		}
	}

	sheet := &BalanceSheet{Balances: make([]models.Balance, len(group.Members))}
	for i, m := range group.Members {
		sheet.Balances[i] = models.Balance{MemberID: m.ID, MemberName: m.Name, Amount: acc[m.ID]}
	}
	for _, id := range strangers {
		sheet.Untracked = append(sheet.Untracked, models.Balance{MemberID: id, Amount: acc[id]})
	}
	return sheet, nil
}
