package ledger

import (
	"slices"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// GroupTotal is the amount spent in one group.
type GroupTotal struct {
	GroupID string
	Name    string
	Total   money.Cents
}

// MemberTotalBalance sums memberID's balance over every group they belong to.
func MemberTotalBalance(memberID string, groups []models.Group, expenses []models.Expense) money.Cents {
	var total money.Cents
	for i := range groups {
		g := &groups[i]
		if !g.HasMember(memberID) {
			continue
		}
		sheet, err := calculator.AggregateBalances(g, expensesOf(g.ID, expenses))
		if err != nil {
			continue
		}
		total += sheet.Of(memberID)
	}
	return total
}

// MemberTotalSpent sums memberID's share of every expense in their groups.
// Settlement payments move money between members and are not spending.
func MemberTotalSpent(memberID string, groups []models.Group, expenses []models.Expense) money.Cents {
	inGroup := make(map[string]bool, len(groups))
	for i := range groups {
		if groups[i].HasMember(memberID) {
			inGroup[groups[i].ID] = true
		}
	}

	var total money.Cents
	for i := range expenses {
		e := &expenses[i]
		if e.Kind == models.KindSettlement || !inGroup[e.GroupID] {
			continue
		}
		total += e.SplitFor(memberID)
	}
	return total
}

// GroupSpending totals the expenses of each group, in group order.
// Groups with nothing spent are left out.
func GroupSpending(groups []models.Group, expenses []models.Expense) []GroupTotal {
	sums := make(map[string]money.Cents, len(groups))
	for i := range expenses {
		if expenses[i].Kind == models.KindSettlement {
			continue
		}
		sums[expenses[i].GroupID] += expenses[i].Amount
	}

	var totals []GroupTotal
	for _, g := range groups {
		if sums[g.ID] <= 0 {
			continue
		}
		totals = append(totals, GroupTotal{GroupID: g.ID, Name: g.Name, Total: sums[g.ID]})
	}
	return totals
}

// RecentExpenses returns up to n expenses, newest first.
func RecentExpenses(expenses []models.Expense, n int) []models.Expense {
	sorted := slices.Clone(expenses)
	slices.SortStableFunc(sorted, func(a, b models.Expense) int {
		return b.Date.Compare(a.Date)
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func expensesOf(groupID string, expenses []models.Expense) []models.Expense {
	var out []models.Expense
	for _, e := range expenses {
		if e.GroupID == groupID {
			out = append(out, e)
		}
	}
	return out
}
