package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// MemberIDKey is the context key for the authenticated member ID.
	MemberIDKey contextKey = "member_id"
	// MemberNameKey is the context key for the authenticated member's display name.
	MemberNameKey contextKey = "member_name"
)

// GetMemberID extracts the member ID from the context.
// Returns empty string if not found.
func GetMemberID(ctx context.Context) string {
	id, _ := ctx.Value(MemberIDKey).(string)
	return id
}

// GetMemberName extracts the member's display name from the context.
func GetMemberName(ctx context.Context) string {
	name, _ := ctx.Value(MemberNameKey).(string)
	return name
}

// WithMember returns a context carrying the given member identity.
func WithMember(ctx context.Context, id, name string) context.Context {
	ctx = context.WithValue(ctx, MemberIDKey, id)
	return context.WithValue(ctx, MemberNameKey, name)
}

// RequireAuth returns an interceptor that validates the bearer token on
// every procedure except the public ones and puts the member identity in
// the request context.
func RequireAuth(jwtManager *auth.JWTManager, public ...string) connect.UnaryInterceptorFunc {
	open := make(map[string]bool, len(public))
	for _, p := range public {
		open[p] = true
	}

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if open[req.Spec().Procedure] {
				return next(ctx, req)
			}

			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || tokenString == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(WithMember(ctx, claims.MemberID, claims.Name), req)
		}
	}
}
