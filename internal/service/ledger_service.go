package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

const defaultRecentLimit = 5

var _ apiconnect.LedgerServiceHandler = (*LedgerService)(nil)

// LedgerService implements the Connect LedgerService on top of the ledger
// facade. Writes go through storage.ExpenseStore.AppendExpense so that each
// new expense is validated against the history it is appended to.
type LedgerService struct {
	store   storage.Store
	ledger  *ledger.Ledger
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewLedgerService creates a LedgerService. m may be nil.
func NewLedgerService(store storage.Store, l *ledger.Ledger, m *metrics.Metrics, logger *slog.Logger) *LedgerService {
	return &LedgerService{store: store, ledger: l, metrics: m, logger: logger}
}

// RecordExpense validates and appends a new expense to a group.
// The payer defaults to the caller.
func (s *LedgerService) RecordExpense(ctx context.Context, req *connect.Request[api.RecordExpenseRequest]) (*connect.Response[api.RecordExpenseResponse], error) {
	caller := middleware.GetMemberID(ctx)
	s.logger.Info("RecordExpense request received",
		"group_id", req.Msg.GroupID,
		"amount", req.Msg.Amount,
		"split_type", req.Msg.SplitType,
	)

	if req.Msg.GroupID == "" {
		return nil, toConnectError(errMissingGroupID)
	}
	amount, err := parseAmount(req.Msg.Amount)
	if err != nil {
		return nil, toConnectError(err)
	}
	policy, err := splitPolicy(req.Msg)
	if err != nil {
		return nil, toConnectError(err)
	}
	payer := req.Msg.PayerID
	if payer == "" {
		payer = caller
	}

	expense, err := s.store.AppendExpense(ctx, req.Msg.GroupID, func(group *models.Group, _ []models.Expense) (*models.Expense, error) {
		if !group.HasMember(caller) {
			return nil, errNotMember
		}
		return s.ledger.RecordExpense(group, ledger.ExpenseInput{
			Description: req.Msg.Description,
			Amount:      amount,
			PayerID:     payer,
			Policy:      policy,
		})
	})
	if err != nil {
		s.logger.Warn("RecordExpense failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.ExpenseRecorded(expense.Kind)

	s.logger.Info("Expense recorded",
		"group_id", expense.GroupID,
		"expense_id", expense.ID,
		"amount", expense.Amount.String(),
		"splits", len(expense.Splits),
	)
	return connect.NewResponse(&api.RecordExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// ListExpenses returns a group's expenses in the order they were recorded.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	s.logger.Info("ListExpenses request received", "group_id", req.Msg.GroupID)

	group, expenses, err := s.history(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	s.logger.Info("ListExpenses successful", "group_id", group.ID, "count", len(expenses))
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: toAPIExpenses(expenses)}), nil
}

// GetBalances returns each member's net balance in group order.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	s.logger.Info("GetBalances request received", "group_id", req.Msg.GroupID)

	group, expenses, err := s.history(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	balances, err := s.ledger.ComputeBalances(group, expenses)
	if err != nil {
		s.logger.Error("GetBalances failed - calculation error", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("GetBalances successful",
		"group_id", group.ID,
		"expenses_count", len(expenses),
		"members_count", len(balances),
	)
	return connect.NewResponse(&api.GetBalancesResponse{Balances: toAPIBalances(balances)}), nil
}

// GetSettlementPlan returns the transfers that would settle the group.
func (s *LedgerService) GetSettlementPlan(ctx context.Context, req *connect.Request[api.GetSettlementPlanRequest]) (*connect.Response[api.GetSettlementPlanResponse], error) {
	s.logger.Info("GetSettlementPlan request received", "group_id", req.Msg.GroupID)

	group, expenses, err := s.history(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	transfers, err := s.ledger.ComputeSettlementPlan(group, expenses)
	if err != nil {
		s.logger.Error("GetSettlementPlan failed - calculation error", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.SettlementPlanned(len(transfers))

	s.logger.Info("GetSettlementPlan successful", "group_id", group.ID, "transfers", len(transfers))
	return connect.NewResponse(&api.GetSettlementPlanResponse{Transfers: toAPITransfers(group, transfers)}), nil
}

// RecordSettlement records a payment between two members. The caller must
// be one of them.
func (s *LedgerService) RecordSettlement(ctx context.Context, req *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error) {
	caller := middleware.GetMemberID(ctx)
	s.logger.Info("RecordSettlement request received",
		"group_id", req.Msg.GroupID,
		"from", req.Msg.FromID,
		"to", req.Msg.ToID,
		"amount", req.Msg.Amount,
	)

	if req.Msg.GroupID == "" {
		return nil, toConnectError(errMissingGroupID)
	}
	if caller != req.Msg.FromID && caller != req.Msg.ToID {
		return nil, toConnectError(errNotParty)
	}
	amount, err := parseAmount(req.Msg.Amount)
	if err != nil {
		return nil, toConnectError(err)
	}

	expense, err := s.store.AppendExpense(ctx, req.Msg.GroupID, func(group *models.Group, history []models.Expense) (*models.Expense, error) {
		return s.ledger.RecordSettlement(group, history, ledger.SettlementInput{
			From:       req.Msg.FromID,
			To:         req.Msg.ToID,
			Amount:     amount,
			RecordedBy: caller,
		})
	})
	if err != nil {
		s.logger.Warn("RecordSettlement failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.ExpenseRecorded(expense.Kind)

	s.logger.Info("Settlement recorded", "group_id", expense.GroupID, "expense_id", expense.ID)
	return connect.NewResponse(&api.RecordSettlementResponse{Expense: toAPIExpense(expense)}), nil
}

// GetDashboard summarizes the caller's position across all their groups.
func (s *LedgerService) GetDashboard(ctx context.Context, req *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error) {
	caller := middleware.GetMemberID(ctx)
	s.logger.Info("GetDashboard request received", "member_id", caller)

	found, err := s.store.ListGroupsForMember(ctx, caller)
	if err != nil {
		s.logger.Error("GetDashboard failed - could not list groups", "error", err)
		return nil, toConnectError(err)
	}

	groups := make([]models.Group, len(found))
	var expenses []models.Expense
	for i, g := range found {
		groups[i] = *g
		history, err := s.store.ListExpensesByGroup(ctx, g.ID)
		if err != nil {
			s.logger.Error("GetDashboard failed - could not list expenses", "group_id", g.ID, "error", err)
			return nil, toConnectError(err)
		}
		expenses = append(expenses, history...)
	}

	limit := req.Msg.RecentLimit
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	resp := &api.GetDashboardResponse{
		TotalBalance:   ledger.MemberTotalBalance(caller, groups, expenses).String(),
		TotalSpent:     ledger.MemberTotalSpent(caller, groups, expenses).String(),
		GroupSpending:  toAPIGroupTotals(ledger.GroupSpending(groups, expenses)),
		RecentExpenses: toAPIExpenses(ledger.RecentExpenses(expenses, limit)),
	}

	s.logger.Info("GetDashboard successful", "member_id", caller, "groups", len(groups))
	return connect.NewResponse(resp), nil
}

// history loads a group the caller belongs to together with its expenses.
func (s *LedgerService) history(ctx context.Context, groupID string) (*models.Group, []models.Expense, error) {
	group, err := loadGroup(ctx, s.store, groupID)
	if err != nil {
		s.logger.Warn("Group lookup failed", "group_id", groupID, "error", err)
		return nil, nil, err
	}
	expenses, err := s.store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		s.logger.Error("Could not list expenses", "group_id", group.ID, "error", err)
		return nil, nil, err
	}
	return group, expenses, nil
}
