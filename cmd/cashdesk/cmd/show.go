package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/warp/cashdesk/register"
)

// showCmd prints one day's ledger.
var showCmd = &cobra.Command{
	Use:   "show [date]",
	Short: "Show a day's ledger (default: today)",
	Long: `Show opening balances, sales and closing balances for a day.

Example:
  cashdesk show
  cashdesk show 2026-10-18`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(cmd, func(ctx context.Context, l *register.Ledger) (register.Date, error) {
			if len(args) == 0 {
				return l.Today(), nil
			}
			return register.ParseDate(args[0])
		})
	},
}

// daysCmd lists the archive.
var daysCmd = &cobra.Command{
	Use:   "days",
	Short: "List every stored day, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ledger, closer, err := openLedger(cmd.Context())
		if err != nil {
			return err
		}
		defer closer.Close()

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "DATE\tSTATUS\tSALES\tREVENUE\tCLOSING")
		for _, date := range ledger.Days() {
			day := ledger.GetDay(date)
			t := register.Summarize(day)
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
				date, status(day, ledger.Editable(date)), t.SaleCount,
				register.FormatAmount(t.Revenue), register.FormatAmount(t.ClosingTotal))
		}
		return tw.Flush()
	},
}

func status(day register.DayLedger, editable bool) string {
	switch {
	case day.Locked:
		return "locked"
	case editable:
		return "open"
	default:
		return "read-only"
	}
}

func printDay(w io.Writer, day register.DayLedger, editable bool) error {
	t := register.Summarize(day)

	fmt.Fprintf(w, "%s  [%s]\n\n", day.Date, status(day, editable))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tCASH\tCARD\tTOTAL")
	fmt.Fprintf(tw, "Opening\t%s\t%s\t%s\n",
		register.FormatAmount(day.OpeningCash), register.FormatAmount(day.OpeningCard), register.FormatAmount(t.OpeningTotal))
	fmt.Fprintf(tw, "Sales\t%s\t%s\t%s\n",
		register.FormatAmount(t.CashTotal), register.FormatAmount(t.CardTotal), register.FormatAmount(t.Revenue))
	fmt.Fprintf(tw, "Closing\t%s\t%s\t%s\n",
		register.FormatAmount(t.ClosingCash), register.FormatAmount(t.ClosingCard), register.FormatAmount(t.ClosingTotal))
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d sale(s)\n", t.SaleCount)
	if t.SaleCount == 0 {
		return nil
	}

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tMETHOD\tAMOUNT\tCOMMENT")
	for _, s := range day.Sales {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			s.ID, s.Timestamp.Format("15:04"), s.PaymentMethod, register.FormatAmount(s.Amount), s.Comment)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if dups := register.DuplicateIDs(day); len(dups) > 0 {
		fmt.Fprintf(w, "\nwarning: duplicate sale ids %v; edit and rm act on the newest\n", dups)
	}
	return nil
}
