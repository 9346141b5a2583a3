package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/walletline/walletctl/internal/dashboard"
	"github.com/walletline/walletctl/internal/presentation"
	"github.com/walletline/walletctl/pkg/money"
)

const (
	ansiReset = "\033[0m"
	ansiGreen = "\033[32m"
	ansiRed   = "\033[31m"
)

func newDashboardCmd(a *app) *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"dash"},
		Short:   "Show your wallet balance and transaction history",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.RequestTimeout())
			defer cancel()

			if err := a.dashboard.Refresh(ctx); err != nil {
				return err
			}
			renderDashboard(cmd.OutOrStdout(), a.dashboard, colorEnabled(cmd.OutOrStdout(), noColor))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable ANSI colors")
	return cmd
}

func renderDashboard(w io.Writer, d *dashboard.Dashboard, color bool) {
	view := d.View()

	fmt.Fprintf(w, "%s  (%s)\n", view.Name, view.WalletID)
	fmt.Fprintf(w, "Balance: %s\n\n", money.FormatINR(view.Balance))

	rows := d.Rows()
	if len(rows) == 0 {
		fmt.Fprintln(w, "No transactions yet.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tDESCRIPTION\tSTATUS\tAMOUNT")
	for _, row := range rows {
		p := row.Presentation
		amount := string(p.AmountSign) + money.FormatINR(row.Transaction.Amount)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			row.Transaction.Timestamp.Format("02 Jan 2006 15:04"),
			p.Label,
			paint(p.StatusText, p.StatusColor, color),
			paint(amount, p.AmountColor, color),
		)
	}
	tw.Flush()
}

// paint maps the resolver's semantic colors onto ANSI escapes.
func paint(text string, class presentation.ColorClass, enabled bool) string {
	if !enabled {
		return text
	}
	switch class {
	case presentation.ColorCredit:
		return ansiGreen + text + ansiReset
	case presentation.ColorDebit:
		return ansiRed + text + ansiReset
	default:
		return text
	}
}

func colorEnabled(w io.Writer, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
