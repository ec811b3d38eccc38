package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "splitledger-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func flatGroup() *models.Group {
	return &models.Group{
		Name:      "Flat",
		CreatedBy: "alice",
		Members: []models.Member{
			{ID: "alice", Name: "Alice", Email: "alice@example.com"},
			{ID: "bob", Name: "Bob", Email: "bob@example.com"},
			{ID: "charlie", Name: "Charlie", Email: "charlie@example.com"},
		},
	}
}

// appendStatic inserts a prebuilt expense through AppendExpense.
func appendStatic(ctx context.Context, t *testing.T, store *SQLiteStore, groupID string, e models.Expense) *models.Expense {
	t.Helper()
	got, err := store.AppendExpense(ctx, groupID, func(g *models.Group, _ []models.Expense) (*models.Expense, error) {
		e.ID = uuid.New().String()
		e.GroupID = g.ID
		return &e, nil
	})
	if err != nil {
		t.Fatalf("AppendExpense failed: %v", err)
	}
	return got
}

func TestSQLiteStore_Groups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateGroup generates ID and keeps member order", func(t *testing.T) {
		group := flatGroup()
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if group.ID == "" || group.CreatedAt == 0 {
			t.Fatalf("expected generated ID and CreatedAt, got %+v", group)
		}

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.Name != "Flat" || got.CreatedBy != "alice" {
			t.Errorf("unexpected group: %+v", got)
		}
		for i, id := range []string{"alice", "bob", "charlie"} {
			if got.Members[i].ID != id {
				t.Errorf("member %d = %s, want %s", i, got.Members[i].ID, id)
			}
		}
		if got.Members[1].Email != "bob@example.com" {
			t.Errorf("email not stored: %+v", got.Members[1])
		}
	})

	t.Run("GetGroup unknown", func(t *testing.T) {
		_, err := store.GetGroup(ctx, "nope")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("AddGroupMembers appends and skips existing", func(t *testing.T) {
		group := flatGroup()
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		err := store.AddGroupMembers(ctx, group.ID, []models.Member{
			{ID: "bob", Name: "Bob"},
			{ID: "diana", Name: "Diana"},
		})
		if err != nil {
			t.Fatalf("AddGroupMembers failed: %v", err)
		}
		got, _ := store.GetGroup(ctx, group.ID)
		if len(got.Members) != 4 || got.Members[3].ID != "diana" {
			t.Errorf("members = %+v", got.Members)
		}
	})

	t.Run("RemoveGroupMember", func(t *testing.T) {
		group := flatGroup()
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if err := store.RemoveGroupMember(ctx, group.ID, "bob"); err != nil {
			t.Fatalf("RemoveGroupMember failed: %v", err)
		}
		got, _ := store.GetGroup(ctx, group.ID)
		if got.HasMember("bob") || len(got.Members) != 2 {
			t.Errorf("members = %+v", got.Members)
		}
		if err := store.RemoveGroupMember(ctx, group.ID, "bob"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("second removal error = %v, want ErrNotFound", err)
		}
	})

	t.Run("RemoveGroupMember keeps the creator", func(t *testing.T) {
		group := flatGroup()
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if err := store.RemoveGroupMember(ctx, group.ID, "alice"); !errors.Is(err, storage.ErrCreatorRemoval) {
			t.Fatalf("error = %v, want ErrCreatorRemoval", err)
		}
		got, _ := store.GetGroup(ctx, group.ID)
		if !got.HasMember("alice") || len(got.Members) != 3 {
			t.Errorf("members = %+v", got.Members)
		}
	})

	t.Run("RemoveGroupMember keeps the last member", func(t *testing.T) {
		lone := &models.Group{Name: "Lone", CreatedBy: "yan", Members: []models.Member{{ID: "yan", Name: "Yan"}}}
		if err := store.CreateGroup(ctx, lone); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if err := store.RemoveGroupMember(ctx, lone.ID, "yan"); !errors.Is(err, storage.ErrLastMember) {
			t.Fatalf("error = %v, want ErrLastMember", err)
		}
		got, _ := store.GetGroup(ctx, lone.ID)
		if len(got.Members) != 1 {
			t.Errorf("members = %+v", got.Members)
		}
	})

	t.Run("ListGroupsForMember", func(t *testing.T) {
		solo := &models.Group{Name: "Solo", CreatedBy: "zed", Members: []models.Member{{ID: "zed", Name: "Zed"}}}
		if err := store.CreateGroup(ctx, solo); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		groups, err := store.ListGroupsForMember(ctx, "zed")
		if err != nil {
			t.Fatalf("ListGroupsForMember failed: %v", err)
		}
		if len(groups) != 1 || groups[0].ID != solo.ID {
			t.Errorf("groups = %+v", groups)
		}
		alices, _ := store.ListGroupsForMember(ctx, "alice")
		if len(alices) < 3 {
			t.Errorf("expected alice in at least 3 groups, got %d", len(alices))
		}
	})
}

func TestSQLiteStore_Expenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := flatGroup()
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	date := time.Date(2024, 2, 10, 20, 0, 0, 0, time.UTC)
	dinner := appendStatic(ctx, t, store, group.ID, models.Expense{
		Description: "Dinner",
		Amount:      9000,
		PayerID:     "alice",
		Kind:        models.KindExpense,
		Date:        date,
		Splits: []models.Split{
			{MemberID: "alice", Amount: 3000},
			{MemberID: "bob", Amount: 3000},
			{MemberID: "charlie", Amount: 3000},
		},
	})
	appendStatic(ctx, t, store, group.ID, models.Expense{
		Description: "Settlement payment to Alice",
		Amount:      3000,
		PayerID:     "bob",
		Kind:        models.KindSettlement,
		Date:        date.Add(time.Hour),
		Splits:      []models.Split{{MemberID: "alice", Amount: 3000}},
	})

	expenses, err := store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListExpensesByGroup failed: %v", err)
	}
	if len(expenses) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(expenses))
	}

	got := expenses[0]
	if got.ID != dinner.ID || got.Description != "Dinner" || got.Amount != 9000 || got.PayerID != "alice" {
		t.Errorf("unexpected expense: %+v", got)
	}
	if !got.Date.Equal(date) {
		t.Errorf("date = %v, want %v", got.Date, date)
	}
	if len(got.Splits) != 3 || got.Splits[2].MemberID != "charlie" || got.Splits[2].Amount != 3000 {
		t.Errorf("splits = %+v", got.Splits)
	}
	if expenses[1].Kind != models.KindSettlement || len(expenses[1].Splits) != 1 {
		t.Errorf("settlement = %+v", expenses[1])
	}

	t.Run("builder sees full history", func(t *testing.T) {
		var seen int
		_, err := store.AppendExpense(ctx, group.ID, func(g *models.Group, history []models.Expense) (*models.Expense, error) {
			seen = len(history)
			return nil, errors.New("abort")
		})
		if err == nil {
			t.Fatal("expected builder error to propagate")
		}
		if seen != 2 {
			t.Errorf("builder saw %d expenses, want 2", seen)
		}
		after, _ := store.ListExpensesByGroup(ctx, group.ID)
		if len(after) != 2 {
			t.Errorf("aborted append wrote data: %d expenses", len(after))
		}
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := store.AppendExpense(ctx, "nope", func(*models.Group, []models.Expense) (*models.Expense, error) {
			t.Fatal("builder must not run")
			return nil, nil
		})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestSQLiteStore_ConcurrentAppends(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := flatGroup()
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	const writers = 10
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.AppendExpense(ctx, group.ID, func(g *models.Group, history []models.Expense) (*models.Expense, error) {
				// Each writer records the history length it observed as the amount.
				amount := money.Cents(len(history) + 1)
				return &models.Expense{
					ID:      uuid.New().String(),
					GroupID: g.ID,
					Amount:  amount,
					PayerID: "alice",
					Date:    time.Now(),
					Splits:  []models.Split{{MemberID: "bob", Amount: amount}},
				}, nil
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("AppendExpense failed: %v", err)
		}
	}

	expenses, _ := store.ListExpensesByGroup(ctx, group.ID)
	if len(expenses) != writers {
		t.Fatalf("expected %d expenses, got %d", writers, len(expenses))
	}
	for i, e := range expenses {
		if e.Amount != money.Cents(i+1) {
			t.Errorf("expense %d saw history of %d, want %d", i, e.Amount-1, i)
		}
	}
}

func TestSQLiteStore_Users(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("dana@example.com", "Dana", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	byEmail, err := store.GetUserByEmail(ctx, "dana@example.com")
	if err != nil || byEmail.ID != user.ID {
		t.Fatalf("GetUserByEmail = %+v, %v", byEmail, err)
	}
	byID, err := store.GetUserByID(ctx, user.ID)
	if err != nil || byID.DisplayName != "Dana" {
		t.Fatalf("GetUserByID = %+v, %v", byID, err)
	}
	if _, err := store.GetUserByEmail(ctx, "ghost@example.com"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("missing user error = %v, want ErrNotFound", err)
	}
	if err := store.CreateUser(ctx, models.NewUser("dana@example.com", "Other", "hash")); err == nil {
		t.Error("expected duplicate email to fail")
	}
}
