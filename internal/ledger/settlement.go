package ledger

import (
	"fmt"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// SettlementInput describes a payment from one member to another.
type SettlementInput struct {
	From   string
	To     string
	Amount money.Cents

	// RecordedBy is the member entering the payment. When it is To the
	// expense reads as a receipt, otherwise as a payment.
	RecordedBy string
}

// RecordSettlement turns a payment between two members into an expense paid
// by From with a single split crediting To for the full amount.
//
// expenses is the group's current history; it is used only to warn when the
// payment exceeds what From owes.
func (l *Ledger) RecordSettlement(group *models.Group, expenses []models.Expense, in SettlementInput) (*models.Expense, error) {
	if group == nil {
		return nil, fmt.Errorf("%w: no group supplied", calculator.ErrGroupNotFound)
	}
	if in.From == in.To {
		return nil, fmt.Errorf("%w: %q cannot settle with themselves", calculator.ErrInvalidSplit, in.From)
	}
	payer, ok := group.Member(in.From)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not in group %s", calculator.ErrMemberNotFound, in.From, group.ID)
	}
	payee, ok := group.Member(in.To)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not in group %s", calculator.ErrMemberNotFound, in.To, group.ID)
	}

	description := fmt.Sprintf("Settlement payment to %s", payee.Name)
	if in.RecordedBy == in.To {
		description = fmt.Sprintf("Settlement received from %s", payer.Name)
	}

	expense, err := l.buildExpense(group, ExpenseInput{
		Description: description,
		Amount:      in.Amount,
		PayerID:     in.From,
		Policy:      models.CustomSplit{Splits: []models.Split{{MemberID: in.To, Amount: in.Amount}}},
	}, models.KindSettlement)
	if err != nil {
		return nil, err
	}

	if sheet, err := calculator.AggregateBalances(group, expenses); err == nil {
		if owed := -sheet.Of(in.From); in.Amount > owed+money.Tolerance {
			l.logger.Warn("Settlement exceeds outstanding debt",
				"group_id", group.ID,
				"from", in.From,
				"to", in.To,
				"amount", in.Amount.String(),
				"owed", owed.String(),
			)
		}
	}
	return expense, nil
}
