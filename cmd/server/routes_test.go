package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

func setupRouter(t *testing.T, metricsEnabled bool) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "server.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := config.Default()
	cfg.JWTSecret = "router-test-secret-value"
	cfg.TokenTTL = time.Hour
	cfg.MetricsEnabled = metricsEnabled

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := httptest.NewServer(newRouter(cfg, store, logger))
	t.Cleanup(server.Close)
	return server
}

func TestHealth(t *testing.T) {
	server := setupRouter(t, false)

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS header")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	server := setupRouter(t, true)
	client := apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL)

	_, err := client.Login(context.Background(), connect.NewRequest(&api.LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	}))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Fatalf("expected unauthenticated, got %v", err)
	}

	resp, err := http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	want := `splitledger_rpc_duration_seconds_count{code="unauthenticated",procedure="/splitledger.v1.AuthService/Login"} 1`
	if !strings.Contains(string(body), want) {
		t.Errorf("metrics output missing %q", want)
	}
}

func TestMetricsDisabled(t *testing.T) {
	server := setupRouter(t, false)

	resp, err := http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestRouterServesAllServices(t *testing.T) {
	server := setupRouter(t, false)
	ctx := context.Background()

	authClient := apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL)
	reg, err := authClient.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:       "alice@example.com",
		DisplayName: "Alice",
		Password:    "password123",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	groupClient := apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL)
	req := connect.NewRequest(&api.CreateGroupRequest{Name: "Solo"})
	req.Header().Set("Authorization", "Bearer "+reg.Msg.Token)
	created, err := groupClient.CreateGroup(ctx, req)
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	ledgerClient := apiconnect.NewLedgerServiceClient(http.DefaultClient, server.URL)
	balReq := connect.NewRequest(&api.GetBalancesRequest{GroupID: created.Msg.Group.ID})
	balReq.Header().Set("Authorization", "Bearer "+reg.Msg.Token)
	bal, err := ledgerClient.GetBalances(ctx, balReq)
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	if len(bal.Msg.Balances) != 1 || bal.Msg.Balances[0].Amount != "0.00" {
		t.Errorf("unexpected balances %+v", bal.Msg.Balances)
	}

	// Unknown procedures under a mounted service are 404s.
	resp, err := http.Post(server.URL+"/splitledger.v1.LedgerService/DeleteEverything", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}
