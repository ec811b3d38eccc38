package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

func TestRegister(t *testing.T) {
	env := setupTestServer(t)

	resp, err := env.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       "  Alice@Example.com ",
		DisplayName: "Alice",
		Password:    "password123",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if resp.Msg.Token == "" {
		t.Error("expected token")
	}
	if resp.Msg.Member.ID == "" {
		t.Error("expected member ID")
	}
	if resp.Msg.Member.Email != "alice@example.com" {
		t.Errorf("expected normalized email, got %q", resp.Msg.Member.Email)
	}
	if resp.Msg.Member.Name != "Alice" {
		t.Errorf("expected name Alice, got %q", resp.Msg.Member.Name)
	}
}

func TestRegister_Errors(t *testing.T) {
	env := setupTestServer(t)
	env.register(t, "Alice")

	tests := []struct {
		name string
		req  *api.RegisterRequest
		want connect.Code
	}{
		{
			name: "duplicate email",
			req:  &api.RegisterRequest{Email: "alice@example.com", DisplayName: "Other", Password: "password123"},
			want: connect.CodeAlreadyExists,
		},
		{
			name: "weak password",
			req:  &api.RegisterRequest{Email: "bob@example.com", DisplayName: "Bob", Password: "short"},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "missing name",
			req:  &api.RegisterRequest{Email: "carol@example.com", Password: "password123"},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "missing email",
			req:  &api.RegisterRequest{DisplayName: "Dan", Password: "password123"},
			want: connect.CodeInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Register(context.Background(), connect.NewRequest(tt.req))
			expectCode(t, err, tt.want)
		})
	}
}

func TestLogin(t *testing.T) {
	env := setupTestServer(t)
	alice := env.register(t, "Alice")

	resp, err := env.auth.Login(context.Background(), connect.NewRequest(&api.LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	}))
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.Msg.Member.ID != alice.id {
		t.Errorf("expected member %s, got %s", alice.id, resp.Msg.Member.ID)
	}

	// The new token works on authenticated procedures.
	fresh := session{id: alice.id, token: resp.Msg.Token}
	if _, err := env.groups.ListGroups(context.Background(), authed(fresh, &api.ListGroupsRequest{})); err != nil {
		t.Fatalf("ListGroups with login token failed: %v", err)
	}
}

func TestLogin_Errors(t *testing.T) {
	env := setupTestServer(t)
	env.register(t, "Alice")

	tests := []struct {
		name string
		req  *api.LoginRequest
		want connect.Code
	}{
		{name: "wrong password", req: &api.LoginRequest{Email: "alice@example.com", Password: "wrongpass1"}, want: connect.CodeUnauthenticated},
		{name: "unknown email", req: &api.LoginRequest{Email: "nobody@example.com", Password: "password123"}, want: connect.CodeUnauthenticated},
		{name: "empty password", req: &api.LoginRequest{Email: "alice@example.com"}, want: connect.CodeInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Login(context.Background(), connect.NewRequest(tt.req))
			expectCode(t, err, tt.want)
		})
	}
}

func TestUnauthenticatedCalls(t *testing.T) {
	env := setupTestServer(t)

	_, err := env.groups.ListGroups(context.Background(), connect.NewRequest(&api.ListGroupsRequest{}))
	expectCode(t, err, connect.CodeUnauthenticated)

	_, err = env.ledger.GetDashboard(context.Background(), authed(session{token: "not-a-jwt"}, &api.GetDashboardRequest{}))
	expectCode(t, err, connect.CodeUnauthenticated)
}
