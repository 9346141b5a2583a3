package ewallet

import (
	"time"

	"github.com/walletline/walletctl/internal/ledger"
)

// timestampLayouts covers both RFC3339 and the backend's zone-less
// LocalDateTime serialization ("2006-01-02T15:04:05"). Go accepts a
// fractional second after the seconds field without it appearing in the
// layout.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	// Unparseable timestamps render as the zero instant rather than
	// failing the whole dashboard.
	return time.Time{}
}

// normalizeWalletID maps the server's "System" sentinel to an empty ID
// so wallet comparisons never match the placeholder.
func normalizeWalletID(id string) string {
	if id == ledger.SystemParty {
		return ""
	}
	return id
}

func toTransaction(p transactionPayload) ledger.Transaction {
	return ledger.Transaction{
		Type:             ledger.TransactionType(p.Type),
		IsIncoming:       p.IsIncoming,
		Amount:           p.Amount,
		Timestamp:        parseTimestamp(p.Timestamp),
		SenderWalletID:   normalizeWalletID(p.SenderWalletID),
		ReceiverWalletID: normalizeWalletID(p.ReceiverWalletID),
		SenderName:       p.SenderName,
		ReceiverName:     p.ReceiverName,
		Description:      p.Description,
	}
}

func toDashboard(p dashboardPayload) *ledger.DashboardView {
	view := &ledger.DashboardView{
		WalletID:     p.WalletID,
		Name:         p.Name,
		Balance:      p.Balance,
		Transactions: make([]ledger.Transaction, 0, len(p.Transactions)),
	}
	// Server ordering is preserved as-is
	for _, tx := range p.Transactions {
		view.Transactions = append(view.Transactions, toTransaction(tx))
	}
	return view
}
