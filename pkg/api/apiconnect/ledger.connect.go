package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

const (
	// LedgerServiceName is the fully-qualified name of the LedgerService service.
	LedgerServiceName = "splitledger.v1.LedgerService"

	LedgerServiceRecordExpenseProcedure     = "/splitledger.v1.LedgerService/RecordExpense"
	LedgerServiceListExpensesProcedure      = "/splitledger.v1.LedgerService/ListExpenses"
	LedgerServiceGetBalancesProcedure       = "/splitledger.v1.LedgerService/GetBalances"
	LedgerServiceGetSettlementPlanProcedure = "/splitledger.v1.LedgerService/GetSettlementPlan"
	LedgerServiceRecordSettlementProcedure  = "/splitledger.v1.LedgerService/RecordSettlement"
	LedgerServiceGetDashboardProcedure      = "/splitledger.v1.LedgerService/GetDashboard"
)

// LedgerServiceHandler is implemented by the server side of LedgerService.
type LedgerServiceHandler interface {
	RecordExpense(context.Context, *connect.Request[api.RecordExpenseRequest]) (*connect.Response[api.RecordExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetSettlementPlan(context.Context, *connect.Request[api.GetSettlementPlanRequest]) (*connect.Response[api.GetSettlementPlanResponse], error)
	RecordSettlement(context.Context, *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error)
	GetDashboard(context.Context, *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error)
}

// LedgerServiceClient calls LedgerService.
type LedgerServiceClient interface {
	LedgerServiceHandler
}

// NewLedgerServiceHandler returns the mount path and handler for svc.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	recordExpense := connect.NewUnaryHandler(LedgerServiceRecordExpenseProcedure, svc.RecordExpense, opts...)
	listExpenses := connect.NewUnaryHandler(LedgerServiceListExpensesProcedure, svc.ListExpenses, opts...)
	getBalances := connect.NewUnaryHandler(LedgerServiceGetBalancesProcedure, svc.GetBalances, opts...)
	getPlan := connect.NewUnaryHandler(LedgerServiceGetSettlementPlanProcedure, svc.GetSettlementPlan, opts...)
	recordSettlement := connect.NewUnaryHandler(LedgerServiceRecordSettlementProcedure, svc.RecordSettlement, opts...)
	getDashboard := connect.NewUnaryHandler(LedgerServiceGetDashboardProcedure, svc.GetDashboard, opts...)
	return "/" + LedgerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LedgerServiceRecordExpenseProcedure:
			recordExpense.ServeHTTP(w, r)
		case LedgerServiceListExpensesProcedure:
			listExpenses.ServeHTTP(w, r)
		case LedgerServiceGetBalancesProcedure:
			getBalances.ServeHTTP(w, r)
		case LedgerServiceGetSettlementPlanProcedure:
			getPlan.ServeHTTP(w, r)
		case LedgerServiceRecordSettlementProcedure:
			recordSettlement.ServeHTTP(w, r)
		case LedgerServiceGetDashboardProcedure:
			getDashboard.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

type ledgerServiceClient struct {
	recordExpense    *connect.Client[api.RecordExpenseRequest, api.RecordExpenseResponse]
	listExpenses     *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	getBalances      *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
	getPlan          *connect.Client[api.GetSettlementPlanRequest, api.GetSettlementPlanResponse]
	recordSettlement *connect.Client[api.RecordSettlementRequest, api.RecordSettlementResponse]
	getDashboard     *connect.Client[api.GetDashboardRequest, api.GetDashboardResponse]
}

// NewLedgerServiceClient constructs a client for the LedgerService at baseURL.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &ledgerServiceClient{
		recordExpense:    connect.NewClient[api.RecordExpenseRequest, api.RecordExpenseResponse](httpClient, baseURL+LedgerServiceRecordExpenseProcedure, opts...),
		listExpenses:     connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](httpClient, baseURL+LedgerServiceListExpensesProcedure, opts...),
		getBalances:      connect.NewClient[api.GetBalancesRequest, api.GetBalancesResponse](httpClient, baseURL+LedgerServiceGetBalancesProcedure, opts...),
		getPlan:          connect.NewClient[api.GetSettlementPlanRequest, api.GetSettlementPlanResponse](httpClient, baseURL+LedgerServiceGetSettlementPlanProcedure, opts...),
		recordSettlement: connect.NewClient[api.RecordSettlementRequest, api.RecordSettlementResponse](httpClient, baseURL+LedgerServiceRecordSettlementProcedure, opts...),
		getDashboard:     connect.NewClient[api.GetDashboardRequest, api.GetDashboardResponse](httpClient, baseURL+LedgerServiceGetDashboardProcedure, opts...),
	}
}

func (c *ledgerServiceClient) RecordExpense(ctx context.Context, req *connect.Request[api.RecordExpenseRequest]) (*connect.Response[api.RecordExpenseResponse], error) {
	return c.recordExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetSettlementPlan(ctx context.Context, req *connect.Request[api.GetSettlementPlanRequest]) (*connect.Response[api.GetSettlementPlanResponse], error) {
	return c.getPlan.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) RecordSettlement(ctx context.Context, req *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error) {
	return c.recordSettlement.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetDashboard(ctx context.Context, req *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error) {
	return c.getDashboard.CallUnary(ctx, req)
}
