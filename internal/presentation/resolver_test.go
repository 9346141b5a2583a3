package presentation_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/walletline/walletctl/internal/ledger"
	"github.com/walletline/walletctl/internal/presentation"
)

const viewer = "W1"

func TestResolve_DecisionTable(t *testing.T) {
	tests := []struct {
		name string
		tx   ledger.Transaction
		want presentation.Presentation
	}{
		{
			name: "credited incoming",
			tx:   ledger.Transaction{Type: ledger.TypeCredited, IsIncoming: true},
			want: presentation.Presentation{
				Label: "Money Received", AmountSign: presentation.SignPlus,
				AmountColor: presentation.ColorCredit,
				StatusText:  "Received", StatusColor: presentation.ColorCredit,
			},
		},
		{
			name: "credited not incoming (top-up)",
			tx:   ledger.Transaction{Type: ledger.TypeCredited, IsIncoming: false},
			want: presentation.Presentation{
				Label: "Money Added", AmountSign: presentation.SignPlus,
				AmountColor: presentation.ColorCredit,
				StatusText:  "Added", StatusColor: presentation.ColorCredit,
			},
		},
		{
			name: "debited not incoming",
			tx:   ledger.Transaction{Type: ledger.TypeDebited, IsIncoming: false},
			want: presentation.Presentation{
				Label: "Money Sent", AmountSign: presentation.SignMinus,
				AmountColor: presentation.ColorDebit,
				StatusText:  "Sent", StatusColor: presentation.ColorDebit,
			},
		},
		{
			name: "debited incoming (withdrawal)",
			tx:   ledger.Transaction{Type: ledger.TypeDebited, IsIncoming: true},
			want: presentation.Presentation{
				Label: "Money Withdrawn", AmountSign: presentation.SignMinus,
				AmountColor: presentation.ColorDebit,
				StatusText:  "Withdrawn", StatusColor: presentation.ColorDebit,
			},
		},
		{
			name: "transfer out",
			tx:   ledger.Transaction{Type: ledger.TypeTransfer, SenderWalletID: viewer, ReceiverWalletID: "W2"},
			want: presentation.Presentation{
				Label: "Transfer Sent", AmountSign: presentation.SignMinus,
				AmountColor: presentation.ColorDebit,
				StatusText:  "Sent", StatusColor: presentation.ColorDebit,
			},
		},
		{
			name: "transfer in",
			tx:   ledger.Transaction{Type: ledger.TypeTransfer, SenderWalletID: "W2", ReceiverWalletID: viewer},
			want: presentation.Presentation{
				Label: "Transfer Received", AmountSign: presentation.SignPlus,
				AmountColor: presentation.ColorCredit,
				StatusText:  "Received", StatusColor: presentation.ColorCredit,
			},
		},
		{
			name: "unknown type falls back to neutral",
			tx:   ledger.Transaction{Type: "REVERSED"},
			want: presentation.Presentation{
				Label: "REVERSED", AmountSign: presentation.SignNone,
				AmountColor: presentation.ColorNeutral,
				StatusText:  "REVERSED", StatusColor: presentation.ColorNeutral,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, presentation.Resolve(tt.tx, viewer))
		})
	}
}

func TestResolve_SenderAttribution(t *testing.T) {
	// Scenario from a real ledger record: a peer credit with a named sender
	tx := ledger.Transaction{
		Type:           ledger.TypeCredited,
		IsIncoming:     true,
		Amount:         50000,
		SenderName:     "Acme Corp",
		SenderWalletID: "W9",
	}

	p := presentation.Resolve(tx, viewer)
	assert.True(t, strings.HasPrefix(p.Label, "From: Acme Corp"), "label was %q", p.Label)
	assert.Equal(t, presentation.SignPlus, p.AmountSign)
	assert.Equal(t, presentation.ColorCredit, p.AmountColor)
	assert.Equal(t, "Received", p.StatusText)
}

func TestResolve_SystemSenderGetsNoAttribution(t *testing.T) {
	tx := ledger.Transaction{
		Type:       ledger.TypeCredited,
		IsIncoming: true,
		SenderName: ledger.SystemParty,
	}
	assert.Equal(t, "Money Received", presentation.Resolve(tx, viewer).Label)
}

func TestResolve_DebitReceiverAttribution(t *testing.T) {
	tx := ledger.Transaction{
		Type:             ledger.TypeDebited,
		IsIncoming:       false,
		ReceiverName:     "Bob",
		ReceiverWalletID: "W2",
	}
	p := presentation.Resolve(tx, viewer)
	assert.Equal(t, "To: Bob (W2)", p.Label)
	assert.Equal(t, "Sent", p.StatusText)
}

func TestResolve_TransferViewedFromBothSides(t *testing.T) {
	tx := ledger.Transaction{
		Type:             ledger.TypeTransfer,
		SenderWalletID:   "W1",
		ReceiverWalletID: "W2",
		ReceiverName:     "Bob",
	}

	t.Run("as sender", func(t *testing.T) {
		p := presentation.Resolve(tx, "W1")
		assert.Equal(t, "Sent to Bob", p.Label)
		assert.Equal(t, presentation.SignMinus, p.AmountSign)
		assert.Equal(t, "Sent", p.StatusText)
	})

	t.Run("as receiver with no sender name", func(t *testing.T) {
		p := presentation.Resolve(tx, "W2")
		assert.Equal(t, "Transfer Received", p.Label)
		assert.Equal(t, presentation.SignPlus, p.AmountSign)
		assert.Equal(t, "Received", p.StatusText)
	})
}

func TestResolve_TransferIgnoresIsIncoming(t *testing.T) {
	// Direction for transfers must depend only on the wallet match; the
	// service does not set IsIncoming meaningfully for this type.
	base := ledger.Transaction{
		Type:             ledger.TypeTransfer,
		SenderWalletID:   "W1",
		ReceiverWalletID: "W2",
	}

	flagged := base
	flagged.IsIncoming = true

	assert.Equal(t, presentation.Resolve(base, "W1"), presentation.Resolve(flagged, "W1"))
	assert.Equal(t, presentation.Resolve(base, "W2"), presentation.Resolve(flagged, "W2"))
}

func TestResolve_DescriptionOverridesLabelOnly(t *testing.T) {
	withDesc := ledger.Transaction{
		Type:        ledger.TypeDebited,
		IsIncoming:  false,
		Description: "Rent for June",
	}
	without := withDesc
	without.Description = ""

	pd := presentation.Resolve(withDesc, viewer)
	pw := presentation.Resolve(without, viewer)

	assert.Equal(t, "Rent for June", pd.Label)
	assert.Equal(t, pw.AmountSign, pd.AmountSign)
	assert.Equal(t, pw.AmountColor, pd.AmountColor)
	assert.Equal(t, pw.StatusText, pd.StatusText)
	assert.Equal(t, pw.StatusColor, pd.StatusColor)
}

func TestResolve_Idempotent(t *testing.T) {
	tx := ledger.Transaction{
		Type:             ledger.TypeTransfer,
		SenderWalletID:   "W2",
		ReceiverWalletID: "W1",
		SenderName:       "Alice",
	}
	first := presentation.Resolve(tx, viewer)
	second := presentation.Resolve(tx, viewer)
	assert.Equal(t, first, second)
}

func TestResolve_TransferInvariantViolation(t *testing.T) {
	t.Run("viewer on neither side", func(t *testing.T) {
		tx := ledger.Transaction{
			Type:             ledger.TypeTransfer,
			SenderWalletID:   "W8",
			ReceiverWalletID: "W9",
		}
		assert.True(t, presentation.IsIntegrityViolation(tx, viewer))

		p := presentation.Resolve(tx, viewer)
		assert.Equal(t, presentation.ColorNeutral, p.AmountColor)
		assert.Equal(t, presentation.SignNone, p.AmountSign)
		assert.Equal(t, "TRANSFER", p.Label)
	})

	t.Run("viewer on both sides", func(t *testing.T) {
		tx := ledger.Transaction{
			Type:             ledger.TypeTransfer,
			SenderWalletID:   viewer,
			ReceiverWalletID: viewer,
		}
		assert.True(t, presentation.IsIntegrityViolation(tx, viewer))
		assert.Equal(t, presentation.ColorNeutral, presentation.Resolve(tx, viewer).AmountColor)
	})

	t.Run("well-formed transfer is not a violation", func(t *testing.T) {
		tx := ledger.Transaction{
			Type:             ledger.TypeTransfer,
			SenderWalletID:   viewer,
			ReceiverWalletID: "W2",
		}
		assert.False(t, presentation.IsIntegrityViolation(tx, viewer))
	})

	t.Run("non-transfer types are never violations", func(t *testing.T) {
		tx := ledger.Transaction{Type: ledger.TypeCredited}
		assert.False(t, presentation.IsIntegrityViolation(tx, viewer))
	})
}
