package calculator

import (
	"slices"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// PlanSettlements reduces balances to a short list of transfers that brings
// every balance to zero.
//
// Algorithm (greedy largest debtor / largest creditor):
//   - Drop balances within the tolerance of zero
//   - Stable sort ascending: biggest debtor first, biggest creditor last
//   - Walk a debtor cursor i from the front and a creditor cursor j from the back
//   - Each step pays min(|debt|, credit) from i to j, then moves past whichever
//     side is settled (possibly both)
//
// Ties keep the input order, so callers should pass balances in group order.
// At most N-1 transfers are emitted for N non-zero balances.
func PlanSettlements(balances []models.Balance) []models.Transfer {
	working := make([]models.Balance, 0, len(balances))
	for _, b := range balances {
		if b.Amount.Abs() <= money.Tolerance {
			continue
		}
		working = append(working, b)
	}

	slices.SortStableFunc(working, func(a, b models.Balance) int {
		switch {
		case a.Amount < b.Amount:
			return -1
		case a.Amount > b.Amount:
			return 1
		}
		return 0
	})

	transfers := []models.Transfer{}
	i, j := 0, len(working)-1
	for i < j {
		debtor, creditor := &working[i], &working[j]

		if debtor.Amount.IsZero() {
			i++
			continue
		}
		// Sorted ascending: nothing left to collect from once the front is not in debt.
		if debtor.Amount > 0 {
			break
		}
		if creditor.Amount < money.Tolerance {
			j--
			continue
		}

		payment := money.Min(debtor.Amount.Abs(), creditor.Amount)
		if payment > 0 {
			transfers = append(transfers, models.Transfer{
				From:   debtor.MemberID,
				To:     creditor.MemberID,
				Amount: payment,
			})
			debtor.Amount += payment
			creditor.Amount -= payment
		}

		if debtor.Amount.IsZero() {
			i++
		}
		if creditor.Amount.IsZero() {
			j--
		}
	}
	return transfers
}
