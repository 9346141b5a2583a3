package ledger

import (
	"time"

	"github.com/walletline/walletctl/pkg/money"
)

// TransactionType is the closed set of record types the ledger service issues.
type TransactionType string

const (
	TypeCredited TransactionType = "CREDITED"
	TypeDebited  TransactionType = "DEBITED"
	TypeTransfer TransactionType = "TRANSFER"
)

// SystemParty is the sentinel the server uses for a missing counterparty.
// A sender or receiver named SystemParty is not a peer wallet and gets
// no attribution in labels.
const SystemParty = "System"

// Transaction is a server-issued ledger record. It is read-only on the
// client; every field comes off the wire as the service shaped it.
type Transaction struct {
	Type             TransactionType
	// IsIncoming carries direction for CREDITED and DEBITED records.
	// The service does not set it meaningfully for TRANSFER; transfer
	// direction is derived from which side the viewer is on.
	IsIncoming       bool
	Amount           money.Amount
	Timestamp        time.Time
	SenderWalletID   string
	ReceiverWalletID string
	SenderName       string
	ReceiverName     string
	// Description is an optional display hint from the server. When
	// present it replaces the computed label outright.
	Description      string
}

// SenderAttribution returns the sender display name when it names a
// real peer wallet.
func (t Transaction) SenderAttribution() (string, bool) {
	if t.SenderName == "" || t.SenderName == SystemParty {
		return "", false
	}
	return t.SenderName, true
}

// ReceiverAttribution returns the receiver display name when it names a
// real peer wallet.
func (t Transaction) ReceiverAttribution() (string, bool) {
	if t.ReceiverName == "" || t.ReceiverName == SystemParty {
		return "", false
	}
	return t.ReceiverName, true
}

// DashboardView is the full dashboard state for one wallet. Transactions
// keep the server's ordering; the client never re-sorts them.
type DashboardView struct {
	WalletID     string
	Name         string
	Balance      money.Amount
	Transactions []Transaction
}
