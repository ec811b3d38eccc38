package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// ledgerFile is the on-disk form of one group's history:
//
//	group = "Dinner Club"
//
//	[[members]]
//	id = "alice"
//	name = "Alice"
//
//	[[expenses]]
//	description = "Dinner"
//	amount = "90.00"
//	payer = "alice"
//
//	[[settlements]]
//	from = "bob"
//	to = "alice"
//	amount = 30
type ledgerFile struct {
	Group       string            `toml:"group"`
	Members     []memberEntry     `toml:"members"`
	Expenses    []expenseEntry    `toml:"expenses"`
	Settlements []settlementEntry `toml:"settlements"`
}

type memberEntry struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

// expenseEntry is split equally among Members (default: everyone) unless
// Splits is given.
type expenseEntry struct {
	Description string       `toml:"description"`
	Amount      amount       `toml:"amount"`
	Payer       string       `toml:"payer"`
	Members     []string     `toml:"members"`
	Splits      []splitEntry `toml:"splits"`
	Date        time.Time    `toml:"date"`
}

type splitEntry struct {
	Member string `toml:"member"`
	Amount amount `toml:"amount"`
}

type settlementEntry struct {
	From   string    `toml:"from"`
	To     string    `toml:"to"`
	Amount amount    `toml:"amount"`
	Date   time.Time `toml:"date"`
}

// amount accepts "12.34", 12.34 or 12.
type amount money.Cents

func (a *amount) UnmarshalTOML(v any) error {
	var (
		c   money.Cents
		err error
	)
	switch v := v.(type) {
	case string:
		c, err = money.Parse(v)
	case int64:
		c = money.Cents(v * 100)
	case float64:
		c, err = money.FromFloat(v)
	default:
		return fmt.Errorf("amount must be a string or number, got %T", v)
	}
	if err != nil {
		return err
	}
	*a = amount(c)
	return nil
}

// loadLedger reads path and replays its entries through the ledger, so
// every expense is validated exactly as the server would.
func loadLedger(path string, logger *slog.Logger) (*models.Group, []models.Expense, error) {
	var f ledgerFile
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read ledger %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, nil, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	group, err := f.group()
	if err != nil {
		return nil, nil, err
	}

	seq := 0
	l := ledger.New(
		ledger.WithLogger(logger),
		ledger.WithIDGenerator(func() string {
			seq++
			return strconv.Itoa(seq)
		}),
	)

	expenses := make([]models.Expense, 0, len(f.Expenses)+len(f.Settlements))
	for i, e := range f.Expenses {
		var policy models.SplitPolicy = models.EqualSplit{MemberIDs: e.Members}
		if len(e.Splits) > 0 {
			splits := make([]models.Split, len(e.Splits))
			for j, s := range e.Splits {
				splits[j] = models.Split{MemberID: s.Member, Amount: money.Cents(s.Amount)}
			}
			policy = models.CustomSplit{Splits: splits}
		}

		expense, err := l.RecordExpense(group, ledger.ExpenseInput{
			Description: e.Description,
			Amount:      money.Cents(e.Amount),
			PayerID:     e.Payer,
			Policy:      policy,
			Date:        e.Date,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("expense %d (%s): %w", i+1, e.Description, err)
		}
		expenses = append(expenses, *expense)
	}

	for i, s := range f.Settlements {
		expense, err := l.RecordSettlement(group, expenses, ledger.SettlementInput{
			From:       s.From,
			To:         s.To,
			Amount:     money.Cents(s.Amount),
			RecordedBy: s.From,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("settlement %d (%s to %s): %w", i+1, s.From, s.To, err)
		}
		if !s.Date.IsZero() {
			expense.Date = s.Date
		}
		expenses = append(expenses, *expense)
	}

	return group, expenses, nil
}

func (f *ledgerFile) group() (*models.Group, error) {
	if len(f.Members) == 0 {
		return nil, fmt.Errorf("ledger has no members")
	}

	name := f.Group
	if name == "" {
		name = "ledger"
	}
	group := &models.Group{ID: name, Name: name}
	for _, m := range f.Members {
		if m.ID == "" {
			return nil, fmt.Errorf("member without id")
		}
		if group.HasMember(m.ID) {
			return nil, fmt.Errorf("duplicate member %q", m.ID)
		}
		if m.Name == "" {
			m.Name = m.ID
		}
		group.Members = append(group.Members, models.Member{ID: m.ID, Name: m.Name})
	}
	return group, nil
}
