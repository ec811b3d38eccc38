package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

// testEnv is a full server stack over a temporary SQLite database.
type testEnv struct {
	auth    apiconnect.AuthServiceClient
	groups  apiconnect.GroupServiceClient
	ledger  apiconnect.LedgerServiceClient
	metrics *metrics.Metrics
}

// session is a registered user with a valid token.
type session struct {
	id    string
	name  string
	email string
	token string
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtManager := auth.NewJWTManager("service-test-secret-key", time.Hour)
	m := metrics.New()

	interceptors := connect.WithInterceptors(
		middleware.MetricsInterceptor(m),
		middleware.RequireAuth(jwtManager, apiconnect.AuthServiceRegisterProcedure, apiconnect.AuthServiceLoginProcedure),
		middleware.LoggingInterceptor(logger),
	)

	authSvc := NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, logger)
	groupSvc := NewGroupService(store, logger)
	ledgerSvc := NewLedgerService(store, ledger.New(ledger.WithLogger(logger)), m, logger)

	authPath, authHandler := apiconnect.NewAuthServiceHandler(authSvc, interceptors)
	groupPath, groupHandler := apiconnect.NewGroupServiceHandler(groupSvc, interceptors)
	ledgerPath, ledgerHandler := apiconnect.NewLedgerServiceHandler(ledgerSvc, interceptors)

	mux := http.NewServeMux()
	mux.Handle(authPath, authHandler)
	mux.Handle(groupPath, groupHandler)
	mux.Handle(ledgerPath, ledgerHandler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{
		auth:    apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		groups:  apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		ledger:  apiconnect.NewLedgerServiceClient(http.DefaultClient, server.URL),
		metrics: m,
	}
}

// authed wraps msg in a request carrying s's bearer token.
func authed[T any](s session, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+s.token)
	return req
}

func (env *testEnv) register(t *testing.T, name string) session {
	t.Helper()

	email := strings.ToLower(name) + "@example.com"
	resp, err := env.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       email,
		DisplayName: name,
		Password:    "password123",
	}))
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", name, err)
	}
	return session{id: resp.Msg.Member.ID, name: name, email: email, token: resp.Msg.Token}
}

func (env *testEnv) createGroup(t *testing.T, owner session, name string, others ...session) api.Group {
	t.Helper()

	emails := make([]string, len(others))
	for i, o := range others {
		emails[i] = o.email
	}
	resp, err := env.groups.CreateGroup(context.Background(), authed(owner, &api.CreateGroupRequest{
		Name:         name,
		MemberEmails: emails,
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return resp.Msg.Group
}

func (env *testEnv) recordEqual(t *testing.T, caller session, groupID, description, amount string) api.Expense {
	t.Helper()

	resp, err := env.ledger.RecordExpense(context.Background(), authed(caller, &api.RecordExpenseRequest{
		GroupID:     groupID,
		Description: description,
		Amount:      amount,
		SplitType:   api.SplitEqual,
	}))
	if err != nil {
		t.Fatalf("RecordExpense(%s) failed: %v", description, err)
	}
	return resp.Msg.Expense
}

func (env *testEnv) balances(t *testing.T, caller session, groupID string) map[string]string {
	t.Helper()

	resp, err := env.ledger.GetBalances(context.Background(), authed(caller, &api.GetBalancesRequest{GroupID: groupID}))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	out := make(map[string]string, len(resp.Msg.Balances))
	for _, b := range resp.Msg.Balances {
		out[b.MemberID] = b.Amount
	}
	return out
}

func scrapeMetrics(t *testing.T, m *metrics.Metrics) string {
	t.Helper()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatalf("failed to read metrics: %v", err)
	}
	return string(body)
}

func expectCode(t *testing.T, err error, want connect.Code) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected %v, got %v (%v)", want, got, err)
	}
}
