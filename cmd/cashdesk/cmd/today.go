package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/warp/cashdesk/register"
)

// Every command in this file changes today's ledger.

var saleComment string

var openCmd = &cobra.Command{
	Use:   "open <cash> <card>",
	Short: "Set today's opening balances",
	Long: `Set today's opening cash and card balances. A blank value means 0.

Example:
  cashdesk open 100 50`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(cmd, func(ctx context.Context, l *register.Ledger) (register.Date, error) {
			today := l.Today()
			return today, l.SetOpeningBalances(ctx, today, args[0], args[1])
		})
	},
}

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Lock today's ledger; it cannot be changed afterwards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(cmd, func(ctx context.Context, l *register.Ledger) (register.Date, error) {
			today := l.Today()
			return today, l.LockDay(ctx, today)
		})
	},
}

var saleCmd = &cobra.Command{
	Use:   "sale",
	Short: "Add, edit or remove today's sales",
}

var saleAddCmd = &cobra.Command{
	Use:   "add <amount> <cash|card>",
	Short: "Record a sale",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		method, err := register.ParsePaymentMethod(args[1])
		if err != nil {
			return err
		}
		return withLedger(cmd, func(ctx context.Context, l *register.Ledger) (register.Date, error) {
			today := l.Today()
			return today, l.AddSale(ctx, today, args[0], method, saleComment)
		})
	},
}

var saleEditCmd = &cobra.Command{
	Use:   "edit <id> <amount> <cash|card>",
	Short: "Replace a sale's amount, method and comment",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseSaleID(args[0])
		if err != nil {
			return err
		}
		method, err := register.ParsePaymentMethod(args[2])
		if err != nil {
			return err
		}
		return withLedger(cmd, func(ctx context.Context, l *register.Ledger) (register.Date, error) {
			today := l.Today()
			return today, l.EditSale(ctx, today, id, args[1], method, saleComment)
		})
	},
}

var saleRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Remove a sale (unknown ids are ignored)",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseSaleID(args[0])
		if err != nil {
			return err
		}
		return withLedger(cmd, func(ctx context.Context, l *register.Ledger) (register.Date, error) {
			today := l.Today()
			return today, l.DeleteSale(ctx, today, id)
		})
	},
}

func init() {
	saleAddCmd.Flags().StringVar(&saleComment, "comment", "", "free-form note")
	saleEditCmd.Flags().StringVar(&saleComment, "comment", "", "free-form note (replaces the old one)")

	saleCmd.AddCommand(saleAddCmd)
	saleCmd.AddCommand(saleEditCmd)
	saleCmd.AddCommand(saleRmCmd)
}

func parseSaleID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid sale id %q", s)
	}
	return id, nil
}
