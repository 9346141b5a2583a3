package cli

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walletline/walletctl/internal/dashboard"
	"github.com/walletline/walletctl/internal/ledger"
	"github.com/walletline/walletctl/internal/presentation"
	"github.com/walletline/walletctl/pkg/logger"
)

type staticFetcher struct {
	view *ledger.DashboardView
}

func (f *staticFetcher) GetDashboard(ctx context.Context) (*ledger.DashboardView, error) {
	return f.view, nil
}

func TestRenderDashboard(t *testing.T) {
	board := dashboard.New(&staticFetcher{view: &ledger.DashboardView{
		WalletID: "WLT-1001",
		Name:     "Alice",
		Balance:  12345678,
		Transactions: []ledger.Transaction{
			{
				Type:           ledger.TypeDebited,
				Amount:         5000,
				Timestamp:      time.Date(2026, 8, 30, 14, 5, 0, 0, time.UTC),
				SenderWalletID: "WLT-1001",
				SenderName:     "Alice",
				ReceiverName:   ledger.SystemParty,
			},
		},
	}}, logger.New("development", io.Discard))
	require.NoError(t, board.Refresh(context.Background()))

	var buf bytes.Buffer
	renderDashboard(&buf, board, false)
	out := buf.String()

	assert.Contains(t, out, "Alice  (WLT-1001)")
	assert.Contains(t, out, "Balance: ₹1,23,456.78")
	assert.Contains(t, out, "Money Sent")
	assert.Contains(t, out, "-₹50.00")
	assert.Contains(t, out, "30 Aug 2026 14:05")
	assert.NotContains(t, out, ansiRed, "colors were disabled")
}

func TestRenderDashboard_Empty(t *testing.T) {
	board := dashboard.New(&staticFetcher{view: &ledger.DashboardView{
		WalletID: "WLT-1001",
		Name:     "Alice",
	}}, logger.New("development", io.Discard))
	require.NoError(t, board.Refresh(context.Background()))

	var buf bytes.Buffer
	renderDashboard(&buf, board, false)
	assert.Contains(t, buf.String(), "No transactions yet.")
}

func TestPaint(t *testing.T) {
	assert.Equal(t, "\033[32mReceived\033[0m", paint("Received", presentation.ColorCredit, true))
	assert.Equal(t, "\033[31mSent\033[0m", paint("Sent", presentation.ColorDebit, true))
	assert.Equal(t, "TRANSFER", paint("TRANSFER", presentation.ColorNeutral, true))
	assert.Equal(t, "Received", paint("Received", presentation.ColorCredit, false))
}
