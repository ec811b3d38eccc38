package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/internal/storage"
)

// AppendExpense builds and inserts an expense against a consistent snapshot
// of the group's history.
func (s *SQLiteStore) AppendExpense(ctx context.Context, groupID string, build storage.ExpenseBuilder) (*models.Expense, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	group, err := getGroup(ctx, tx, groupID)
	if err != nil {
		return nil, err
	}
	history, err := listExpenses(ctx, tx, groupID)
	if err != nil {
		return nil, err
	}

	expense, err := build(group, history)
	if err != nil {
		return nil, err
	}

	kind := expense.Kind
	if kind == "" {
		kind = models.KindExpense
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, description, amount_cents, payer_id, kind, date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, groupID, expense.Description, int64(expense.Amount),
		expense.PayerID, string(kind), expense.Date.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, split := range expense.Splits {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_splits (expense_id, member_id, amount_cents, position) VALUES (?, ?, ?, ?)",
			expense.ID, split.MemberID, int64(split.Amount), i,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return expense, nil
}

// ListExpensesByGroup retrieves all expenses of a group with their splits.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]models.Expense, error) {
	return listExpenses(ctx, s.db, groupID)
}

func listExpenses(ctx context.Context, q queryer, groupID string) ([]models.Expense, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, group_id, description, amount_cents, payer_id, kind, date
		 FROM expenses WHERE group_id = ? ORDER BY rowid`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	var expenses []models.Expense
	index := make(map[string]int)
	for rows.Next() {
		var (
			e      models.Expense
			amount int64
			kind   string
			date   int64
		)
		if err := rows.Scan(&e.ID, &e.GroupID, &e.Description, &amount, &e.PayerID, &kind, &date); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Amount = money.Cents(amount)
		e.Kind = models.ExpenseKind(kind)
		e.Date = time.Unix(date, 0).UTC()
		index[e.ID] = len(expenses)
		expenses = append(expenses, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	splitRows, err := q.QueryContext(ctx,
		`SELECT s.expense_id, s.member_id, s.amount_cents
		 FROM expense_splits s
		 JOIN expenses e ON e.id = s.expense_id
		 WHERE e.group_id = ?
		 ORDER BY e.rowid, s.position`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer splitRows.Close()

	for splitRows.Next() {
		var (
			expenseID string
			split     models.Split
			amount    int64
		)
		if err := splitRows.Scan(&expenseID, &split.MemberID, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		split.Amount = money.Cents(amount)
		if i, ok := index[expenseID]; ok {
			expenses[i].Splits = append(expenses[i].Splits, split)
		}
	}
	if err := splitRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}

	return expenses, nil
}
