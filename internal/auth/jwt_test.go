package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/mmynk/splitledger/internal/models"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	user := &models.User{ID: "u1", Email: "alice@example.com", DisplayName: "Alice"}

	token, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.MemberID != "u1" || claims.Email != "alice@example.com" || claims.Name != "Alice" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestJWTManager_Rejects(t *testing.T) {
	user := &models.User{ID: "u1", Email: "alice@example.com"}

	t.Run("wrong secret", func(t *testing.T) {
		token, _ := NewJWTManager("one", time.Hour).Generate(user)
		if _, err := NewJWTManager("two", time.Hour).Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		m := NewJWTManager("secret", time.Minute)
		m.now = func() time.Time { return time.Now().Add(-time.Hour) }
		token, _ := m.Generate(user)
		m.now = time.Now
		if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := NewJWTManager("secret", time.Hour).Validate("not-a-token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})
}
