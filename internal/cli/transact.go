package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/walletline/walletctl/internal/ledger"
	"github.com/walletline/walletctl/internal/presentation"
	"github.com/walletline/walletctl/internal/workflow"
	"github.com/walletline/walletctl/pkg/money"
)

func newCreditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "credit <amount>",
		Short: "Add money to your wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.submit(cmd, ledger.KindCredit, args[0], "")
		},
	}
}

func newDebitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "debit <amount>",
		Short: "Withdraw money from your wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.submit(cmd, ledger.KindDebit, args[0], "")
		},
	}
}

func newTransferCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <receiver-wallet-id> <amount>",
		Short: "Send money to another wallet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.submit(cmd, ledger.KindTransfer, args[1], args[0])
		},
	}
}

// submit runs one transaction request end to end: parse the amount,
// learn the viewer's wallet, drive the workflow, and report the
// refreshed balance.
func (a *app) submit(cmd *cobra.Command, kind ledger.RequestKind, rawAmount, receiverWalletID string) error {
	amount, err := money.Parse(rawAmount)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*a.cfg.RequestTimeout())
	defer cancel()

	// The mutation endpoints are addressed by wallet ID, which only the
	// dashboard reveals.
	if err := a.dashboard.Refresh(ctx); err != nil {
		return err
	}
	viewerWalletID := a.dashboard.View().WalletID

	controller := workflow.New(a.client, a.dashboard, a.log)
	tx, err := controller.Submit(ctx, viewerWalletID, ledger.TransactionRequest{
		Kind:             kind,
		Amount:           amount,
		ReceiverWalletID: receiverWalletID,
	})
	if err != nil {
		return err
	}

	// A synthesized transfer record carries no sender; the session
	// implies it is the viewer.
	if tx.Type == ledger.TypeTransfer && tx.SenderWalletID == "" {
		tx.SenderWalletID = viewerWalletID
	}

	p := presentation.Resolve(*tx, viewerWalletID)
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s%s\n", p.StatusText, p.AmountSign, money.FormatINR(tx.Amount))
	fmt.Fprintf(cmd.OutOrStdout(), "Balance: %s\n", money.FormatINR(a.dashboard.View().Balance))
	return nil
}
