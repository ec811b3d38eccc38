package service

import (
	"fmt"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

func toAPIMember(m models.Member) api.Member {
	return api.Member{ID: m.ID, Name: m.Name, Email: m.Email}
}

func toAPIGroup(g *models.Group) api.Group {
	members := make([]api.Member, len(g.Members))
	for i, m := range g.Members {
		members[i] = toAPIMember(m)
	}
	return api.Group{
		ID:        g.ID,
		Name:      g.Name,
		Members:   members,
		CreatedBy: g.CreatedBy,
		CreatedAt: g.CreatedAt,
	}
}

func toAPIExpense(e *models.Expense) api.Expense {
	splits := make([]api.Split, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = api.Split{MemberID: s.MemberID, Amount: s.Amount.String()}
	}
	return api.Expense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		Description: e.Description,
		Amount:      e.Amount.String(),
		PayerID:     e.PayerID,
		Kind:        string(e.Kind),
		Date:        e.Date,
		Splits:      splits,
	}
}

func toAPIExpenses(expenses []models.Expense) []api.Expense {
	out := make([]api.Expense, len(expenses))
	for i := range expenses {
		out[i] = toAPIExpense(&expenses[i])
	}
	return out
}

func toAPIBalances(balances []models.Balance) []api.Balance {
	out := make([]api.Balance, len(balances))
	for i, b := range balances {
		out[i] = api.Balance{MemberID: b.MemberID, MemberName: b.MemberName, Amount: b.Amount.String()}
	}
	return out
}

// toAPITransfers resolves member names from group.
func toAPITransfers(group *models.Group, transfers []models.Transfer) []api.Transfer {
	out := make([]api.Transfer, len(transfers))
	for i, t := range transfers {
		from, _ := group.Member(t.From)
		to, _ := group.Member(t.To)
		out[i] = api.Transfer{
			From:     t.From,
			FromName: from.Name,
			To:       t.To,
			ToName:   to.Name,
			Amount:   t.Amount.String(),
		}
	}
	return out
}

func toAPIGroupTotals(totals []ledger.GroupTotal) []api.GroupTotal {
	out := make([]api.GroupTotal, len(totals))
	for i, t := range totals {
		out[i] = api.GroupTotal{GroupID: t.GroupID, Name: t.Name, Total: t.Total.String()}
	}
	return out
}

// splitPolicy builds the split policy described by req.
func splitPolicy(req *api.RecordExpenseRequest) (models.SplitPolicy, error) {
	switch req.SplitType {
	case "", api.SplitEqual:
		return models.EqualSplit{MemberIDs: req.MemberIDs}, nil
	case api.SplitCustom:
		splits := make([]models.Split, len(req.Splits))
		for i, s := range req.Splits {
			amount, err := parseAmount(s.Amount)
			if err != nil {
				return nil, fmt.Errorf("split for %q: %w", s.MemberID, err)
			}
			splits[i] = models.Split{MemberID: s.MemberID, Amount: amount}
		}
		return models.CustomSplit{Splits: splits}, nil
	default:
		return nil, fmt.Errorf("%w: unknown split type %q", calculator.ErrInvalidSplit, req.SplitType)
	}
}
