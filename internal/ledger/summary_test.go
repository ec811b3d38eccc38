package ledger

import (
	"testing"
	"time"

	"github.com/mmynk/splitledger/internal/models"
)

func summaryFixture() ([]models.Group, []models.Expense) {
	groups := []models.Group{
		{ID: "g1", Name: "Flat", Members: []models.Member{{ID: "A"}, {ID: "B"}}},
		{ID: "g2", Name: "Trip", Members: []models.Member{{ID: "A"}, {ID: "C"}}},
		{ID: "g3", Name: "Empty", Members: []models.Member{{ID: "B"}, {ID: "C"}}},
	}
	day := func(d int) time.Time { return time.Date(2024, 1, d, 12, 0, 0, 0, time.UTC) }
	expenses := []models.Expense{
		{ID: "e1", GroupID: "g1", PayerID: "A", Amount: 1000, Kind: models.KindExpense, Date: day(1),
			Splits: []models.Split{{MemberID: "A", Amount: 500}, {MemberID: "B", Amount: 500}}},
		{ID: "e2", GroupID: "g2", PayerID: "C", Amount: 3000, Kind: models.KindExpense, Date: day(3),
			Splits: []models.Split{{MemberID: "A", Amount: 1500}, {MemberID: "C", Amount: 1500}}},
		{ID: "e3", GroupID: "g1", PayerID: "B", Amount: 200, Kind: models.KindSettlement, Date: day(2),
			Splits: []models.Split{{MemberID: "A", Amount: 200}}},
	}
	return groups, expenses
}

func TestMemberTotalBalance(t *testing.T) {
	groups, expenses := summaryFixture()
	// g1: A +500 -200 = +300; g2: A -1500
	if got := MemberTotalBalance("A", groups, expenses); got != -1200 {
		t.Errorf("A total balance = %s, want -12.00", got)
	}
	if got := MemberTotalBalance("C", groups, expenses); got != 1500 {
		t.Errorf("C total balance = %s, want 15.00", got)
	}
}

func TestMemberTotalSpent(t *testing.T) {
	groups, expenses := summaryFixture()
	if got := MemberTotalSpent("A", groups, expenses); got != 2000 {
		t.Errorf("A total spent = %s, want 20.00 (settlement excluded)", got)
	}
}

func TestGroupSpending(t *testing.T) {
	groups, expenses := summaryFixture()
	totals := GroupSpending(groups, expenses)
	if len(totals) != 2 {
		t.Fatalf("expected 2 groups with spending, got %+v", totals)
	}
	if totals[0].GroupID != "g1" || totals[0].Total != 1000 {
		t.Errorf("g1 total = %+v", totals[0])
	}
	if totals[1].GroupID != "g2" || totals[1].Total != 3000 {
		t.Errorf("g2 total = %+v", totals[1])
	}
}

func TestRecentExpenses(t *testing.T) {
	_, expenses := summaryFixture()
	recent := RecentExpenses(expenses, 2)
	if len(recent) != 2 || recent[0].ID != "e2" || recent[1].ID != "e3" {
		t.Errorf("recent = %v, %v", recent[0].ID, recent[1].ID)
	}
	if all := RecentExpenses(expenses, 10); len(all) != 3 {
		t.Errorf("expected all 3 expenses, got %d", len(all))
	}
}
