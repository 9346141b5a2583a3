package dashboard

import (
	"context"
	"sync"

	"github.com/walletline/walletctl/internal/ledger"
	"github.com/walletline/walletctl/internal/presentation"
	"github.com/walletline/walletctl/pkg/logger"
)

// Fetcher is the read surface of the external ledger collaborator.
type Fetcher interface {
	GetDashboard(ctx context.Context) (*ledger.DashboardView, error)
}

// Row pairs a ledger record with its resolved presentation for the
// current viewer.
type Row struct {
	Transaction  ledger.Transaction
	Presentation presentation.Presentation
}

// Dashboard owns the single dashboard view. The view is only ever
// mutated by replacement: a refresh either swaps in a complete fresh
// server read or leaves the previous view untouched.
type Dashboard struct {
	fetcher Fetcher
	logger  *logger.Logger

	mu   sync.RWMutex
	view *ledger.DashboardView
}

// New creates an empty dashboard; call Refresh to load it.
func New(fetcher Fetcher, log *logger.Logger) *Dashboard {
	return &Dashboard{
		fetcher: fetcher,
		logger:  log.WithField("component", "dashboard"),
	}
}

// Refresh replaces the held view with a fresh server read. On failure
// the previous view (possibly nil) is kept as-is, so a failed refresh
// after a mutation leaves a stale-but-consistent view.
func (d *Dashboard) Refresh(ctx context.Context) error {
	view, err := d.fetcher.GetDashboard(ctx)
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.view = view
	d.mu.Unlock()

	d.logger.Debug("dashboard refreshed", "wallet_id", view.WalletID, "transactions", len(view.Transactions))
	return nil
}

// View returns the current view, or nil before the first successful
// refresh.
func (d *Dashboard) View() *ledger.DashboardView {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.view
}

// Loaded reports whether a view has been fetched yet.
func (d *Dashboard) Loaded() bool {
	return d.View() != nil
}

// Rows resolves every transaction against the viewer's wallet, in the
// server's order. Presentations are recomputed on each call; they are
// viewer-dependent and must not be cached by transaction identity.
func (d *Dashboard) Rows() []Row {
	d.mu.RLock()
	view := d.view
	d.mu.RUnlock()

	if view == nil {
		return nil
	}

	rows := make([]Row, 0, len(view.Transactions))
	for _, tx := range view.Transactions {
		if presentation.IsIntegrityViolation(tx, view.WalletID) {
			d.logger.Warn("transfer record violates viewer invariant",
				"sender", tx.SenderWalletID,
				"receiver", tx.ReceiverWalletID,
				"viewer", view.WalletID,
			)
		}
		rows = append(rows, Row{
			Transaction:  tx,
			Presentation: presentation.Resolve(tx, view.WalletID),
		})
	}
	return rows
}
