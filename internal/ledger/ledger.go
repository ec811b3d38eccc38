// Package ledger is the entry point the rest of the application uses for
// expense bookkeeping. It validates input, builds immutable expenses and
// derives balances and settlement plans.
//
// Every call works only on the group and expenses passed in. The Ledger
// holds no mutable state and is safe for concurrent use; serializing writes
// to the same group is the caller's job.
package ledger

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// Ledger composes the split calculator, balance aggregator and settlement planner.
type Ledger struct {
	now    func() time.Time
	newID  func() string
	logger *slog.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock sets the time source used to date new expenses.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDGenerator sets the function that assigns expense IDs.
func WithIDGenerator(newID func() string) Option {
	return func(l *Ledger) { l.newID = newID }
}

// WithLogger sets the logger used for warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// New creates a Ledger. Without options it stamps expenses with time.Now and
// random UUIDs and logs through slog.Default.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ExpenseInput is the caller-supplied data for a new expense.
type ExpenseInput struct {
	Description string
	Amount      money.Cents
	PayerID     string
	Policy      models.SplitPolicy

	// Date defaults to the ledger clock when zero.
	Date time.Time
}

// RecordExpense validates in against group and returns the new expense for
// the caller to persist. Nothing is returned on error.
func (l *Ledger) RecordExpense(group *models.Group, in ExpenseInput) (*models.Expense, error) {
	return l.buildExpense(group, in, models.KindExpense)
}

func (l *Ledger) buildExpense(group *models.Group, in ExpenseInput, kind models.ExpenseKind) (*models.Expense, error) {
	if group == nil {
		return nil, fmt.Errorf("%w: no group supplied", calculator.ErrGroupNotFound)
	}
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: %s must be positive", calculator.ErrInvalidAmount, in.Amount)
	}
	if !group.HasMember(in.PayerID) {
		return nil, fmt.Errorf("%w: payer %q is not in group %s", calculator.ErrMemberNotFound, in.PayerID, group.ID)
	}

	var (
		splits []models.Split
		err    error
	)
	switch p := in.Policy.(type) {
	case models.EqualSplit:
		ids := p.MemberIDs
		if len(ids) == 0 {
			ids = group.MemberIDs()
		}
		if err := requireMembers(group, ids); err != nil {
			return nil, err
		}
		splits, err = calculator.EqualSplit(in.Amount, ids)
	case models.CustomSplit:
		splits, err = calculator.ValidateCustomSplit(in.Amount, p.Splits)
		if err == nil {
			ids := make([]string, len(splits))
			for i, s := range splits {
				ids[i] = s.MemberID
			}
			err = requireMembers(group, ids)
		}
	default:
		err = fmt.Errorf("%w: unknown split policy %T", calculator.ErrInvalidSplit, in.Policy)
	}
	if err != nil {
		return nil, err
	}

	date := in.Date
	if date.IsZero() {
		date = l.now()
	}

	return &models.Expense{
		ID:          l.newID(),
		GroupID:     group.ID,
		Description: in.Description,
		Amount:      in.Amount,
		PayerID:     in.PayerID,
		Kind:        kind,
		Date:        date,
		Splits:      splits,
	}, nil
}

// ComputeBalances returns one balance per current group member, in group order.
// Splits naming members who left the group are logged and left out.
func (l *Ledger) ComputeBalances(group *models.Group, expenses []models.Expense) ([]models.Balance, error) {
	sheet, err := calculator.AggregateBalances(group, expenses)
	if err != nil {
		return nil, err
	}
	for _, u := range sheet.Untracked {
		l.logger.Warn("Expense references member outside group",
			"group_id", group.ID,
			"member_id", u.MemberID,
			"balance", u.Amount.String(),
		)
	}
	return sheet.Balances, nil
}

// ComputeSettlementPlan returns the transfers that would settle the group.
func (l *Ledger) ComputeSettlementPlan(group *models.Group, expenses []models.Expense) ([]models.Transfer, error) {
	balances, err := l.ComputeBalances(group, expenses)
	if err != nil {
		return nil, err
	}
	return calculator.PlanSettlements(balances), nil
}

func requireMembers(group *models.Group, ids []string) error {
	for _, id := range ids {
		if !group.HasMember(id) {
			return fmt.Errorf("%w: %q is not in group %s", calculator.ErrMemberNotFound, id, group.ID)
		}
	}
	return nil
}
