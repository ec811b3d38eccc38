package api

import "time"

// Split types accepted by RecordExpenseRequest.
const (
	SplitEqual  = "equal"
	SplitCustom = "custom"
)

type Split struct {
	MemberID string `json:"member_id"`
	Amount   string `json:"amount"`
}

type Expense struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"group_id"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
	PayerID     string    `json:"payer_id"`
	Kind        string    `json:"kind"`
	Date        time.Time `json:"date"`
	Splits      []Split   `json:"splits"`
}

type Balance struct {
	MemberID   string `json:"member_id"`
	MemberName string `json:"member_name"`
	Amount     string `json:"amount"`
}

type Transfer struct {
	From     string `json:"from"`
	FromName string `json:"from_name"`
	To       string `json:"to"`
	ToName   string `json:"to_name"`
	Amount   string `json:"amount"`
}

type GroupTotal struct {
	GroupID string `json:"group_id"`
	Name    string `json:"name"`
	Total   string `json:"total"`
}

// RecordExpenseRequest adds an expense to a group.
// With SplitType "equal", MemberIDs optionally narrows the members sharing
// the expense (default: whole group). With "custom", Splits is required.
type RecordExpenseRequest struct {
	GroupID     string   `json:"group_id"`
	Description string   `json:"description"`
	Amount      string   `json:"amount"`
	PayerID     string   `json:"payer_id"`
	SplitType   string   `json:"split_type"`
	MemberIDs   []string `json:"member_ids,omitempty"`
	Splits      []Split  `json:"splits,omitempty"`
}

type RecordExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupID string `json:"group_id"`
}

type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

type GetBalancesRequest struct {
	GroupID string `json:"group_id"`
}

type GetBalancesResponse struct {
	Balances []Balance `json:"balances"`
}

type GetSettlementPlanRequest struct {
	GroupID string `json:"group_id"`
}

type GetSettlementPlanResponse struct {
	Transfers []Transfer `json:"transfers"`
}

// RecordSettlementRequest records that FromID paid ToID. The caller must be
// one of the two.
type RecordSettlementRequest struct {
	GroupID string `json:"group_id"`
	FromID  string `json:"from_id"`
	ToID    string `json:"to_id"`
	Amount  string `json:"amount"`
}

type RecordSettlementResponse struct {
	Expense Expense `json:"expense"`
}

type GetDashboardRequest struct {
	RecentLimit int `json:"recent_limit,omitempty"`
}

type GetDashboardResponse struct {
	TotalBalance   string       `json:"total_balance"`
	TotalSpent     string       `json:"total_spent"`
	GroupSpending  []GroupTotal `json:"group_spending"`
	RecentExpenses []Expense    `json:"recent_expenses"`
}
