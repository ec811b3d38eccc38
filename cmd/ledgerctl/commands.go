package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/pkg/logging"
)

type cli struct {
	logLevel string
	logger   *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Inspect shared-expense ledgers",
		Long: `ledgerctl reads a group's members, expenses and settlements from a TOML
file and prints balances or the transfers that would settle the group.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := logging.ParseLevel(c.logLevel)
			if err != nil {
				return err
			}
			c.logger = logging.SetupWriter(cmd.ErrOrStderr(), level)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	root.AddCommand(
		&cobra.Command{
			Use:   "balances FILE",
			Short: "Print each member's net balance",
			Long:  `Print each member's net balance. Positive means the group owes the member.`,
			Args:  cobra.ExactArgs(1),
			RunE:  c.runBalances,
		},
		&cobra.Command{
			Use:   "settle FILE",
			Short: "Print the transfers that settle the group",
			Args:  cobra.ExactArgs(1),
			RunE:  c.runSettle,
		},
		&cobra.Command{
			Use:   "split AMOUNT N",
			Short: "Split AMOUNT equally among N members",
			Long: `Split AMOUNT equally among N members. Each share is rounded half-up to
the cent; the rounding difference is reported, not redistributed.`,
			Args: cobra.ExactArgs(2),
			RunE: c.runSplit,
		},
	)
	return root
}

func (c *cli) runBalances(cmd *cobra.Command, args []string) error {
	group, expenses, err := loadLedger(args[0], c.logger)
	if err != nil {
		return err
	}

	balances, err := ledger.New(ledger.WithLogger(c.logger)).ComputeBalances(group, expenses)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	width := nameWidth(group)
	fmt.Fprintf(out, "%s (%d expenses)\n", group.Name, len(expenses))
	for _, b := range balances {
		fmt.Fprintf(out, "  %-*s %10s\n", width, b.MemberName, b.Amount)
	}
	return nil
}

func (c *cli) runSettle(cmd *cobra.Command, args []string) error {
	group, expenses, err := loadLedger(args[0], c.logger)
	if err != nil {
		return err
	}

	transfers, err := ledger.New(ledger.WithLogger(c.logger)).ComputeSettlementPlan(group, expenses)
	if err != nil {
		return err
	}

	printTransfers(cmd.OutOrStdout(), group, transfers)
	return nil
}

func (c *cli) runSplit(cmd *cobra.Command, args []string) error {
	total, err := money.Parse(args[0])
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 1 {
		return fmt.Errorf("N must be a positive integer, got %q", args[1])
	}

	ids := make([]string, n)
	for i := range ids {
		ids[i] = strconv.Itoa(i + 1)
	}
	splits, err := calculator.EqualSplit(total, ids)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var allocated money.Cents
	for _, s := range splits {
		fmt.Fprintf(out, "  member %-4s %10s\n", s.MemberID, s.Amount)
		allocated += s.Amount
	}
	fmt.Fprintf(out, "allocated %s of %s\n", allocated, total)
	if diff := total - allocated; diff != 0 {
		fmt.Fprintf(out, "rounding difference %s\n", diff)
	}
	return nil
}

func printTransfers(out io.Writer, group *models.Group, transfers []models.Transfer) {
	if len(transfers) == 0 {
		fmt.Fprintln(out, "All settled.")
		return
	}
	for _, t := range transfers {
		from, _ := group.Member(t.From)
		to, _ := group.Member(t.To)
		fmt.Fprintf(out, "%s pays %s %s\n", from.Name, to.Name, t.Amount)
	}
}

func nameWidth(group *models.Group) int {
	width := 0
	for _, m := range group.Members {
		width = max(width, len(m.Name))
	}
	return width
}
