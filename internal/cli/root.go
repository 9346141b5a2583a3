// Package cli wires the command-line surface of walletctl: auth
// commands, the dashboard view, and money movement built on the
// request workflow.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/walletline/walletctl/internal/dashboard"
	"github.com/walletline/walletctl/internal/infra/gateway/ewallet"
	"github.com/walletline/walletctl/internal/platform/session"
	"github.com/walletline/walletctl/pkg/config"
	"github.com/walletline/walletctl/pkg/logger"
)

// app holds the wired dependencies shared by all commands. It is built
// once in the root command's PersistentPreRunE so subcommands stay
// declarative.
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	session   *session.Store
	client    *ewallet.Client
	dashboard *dashboard.Dashboard
}

// NewRootCmd builds the walletctl command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	var apiURL string

	rootCmd := &cobra.Command{
		Use:   "walletctl",
		Short: "Command-line client for the e-wallet ledger service",
		Long: `walletctl talks to the e-wallet ledger service: log in, inspect your
wallet and transaction history, and move money with credit, debit and
transfer requests.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if apiURL != "" {
				cfg.APIBaseURL = apiURL
			}

			a.cfg = cfg
			a.log = logger.New(cfg.Env, cmd.ErrOrStderr())
			a.session = session.NewStore(cfg.TokenPath)
			a.client = ewallet.NewClient(a.session, a.log)
			a.client.SetBaseURL(cfg.APIBaseURL)
			a.client.SetTimeout(cfg.RequestTimeout())
			a.dashboard = dashboard.New(a.client, a.log)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "ledger service base URL (overrides config)")

	rootCmd.AddCommand(
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
		newDashboardCmd(a),
		newCreditCmd(a),
		newDebitCmd(a),
		newTransferCmd(a),
	)

	return rootCmd
}
