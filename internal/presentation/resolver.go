package presentation

import (
	"fmt"

	"github.com/walletline/walletctl/internal/ledger"
)

// ColorClass tags a rendered facet with its semantic color. The render
// layer maps these to whatever its styling system uses.
type ColorClass string

const (
	ColorCredit  ColorClass = "credit"
	ColorDebit   ColorClass = "debit"
	ColorNeutral ColorClass = "neutral"
)

// Sign is the prefix shown before the amount.
type Sign string

const (
	SignPlus  Sign = "+"
	SignMinus Sign = "-"
	SignNone  Sign = ""
)

// Presentation is the derived, render-only view of one transaction for
// one viewer. It has no independent lifetime: it is recomputed from
// (Transaction, viewerWalletID) on every render and never persisted.
type Presentation struct {
	Label       string
	AmountSign  Sign
	AmountColor ColorClass
	StatusText  string
	StatusColor ColorClass
}

// rowClass is the single classification of a transaction relative to
// the viewer. Every facet is derived from it, so sign, color and status
// cannot drift apart the way per-facet branching lets them.
type rowClass int

const (
	classNeutral rowClass = iota
	classReceived
	classAdded
	classSent
	classWithdrawn
	classTransferOut
	classTransferIn
)

// facets is the decision table: one row per class, all five facets at once.
// The Label column is the default before attribution and description
// overrides are applied.
var facets = map[rowClass]Presentation{
	classReceived:    {Label: "Money Received", AmountSign: SignPlus, AmountColor: ColorCredit, StatusText: "Received", StatusColor: ColorCredit},
	classAdded:       {Label: "Money Added", AmountSign: SignPlus, AmountColor: ColorCredit, StatusText: "Added", StatusColor: ColorCredit},
	classSent:        {Label: "Money Sent", AmountSign: SignMinus, AmountColor: ColorDebit, StatusText: "Sent", StatusColor: ColorDebit},
	classWithdrawn:   {Label: "Money Withdrawn", AmountSign: SignMinus, AmountColor: ColorDebit, StatusText: "Withdrawn", StatusColor: ColorDebit},
	classTransferOut: {Label: "Transfer Sent", AmountSign: SignMinus, AmountColor: ColorDebit, StatusText: "Sent", StatusColor: ColorDebit},
	classTransferIn:  {Label: "Transfer Received", AmountSign: SignPlus, AmountColor: ColorCredit, StatusText: "Received", StatusColor: ColorCredit},
}

// Resolve classifies a ledger record against the viewer's wallet and
// returns its presentation. Pure and total: every transaction maps to a
// defined Presentation, with a neutral fallback for anything unmapped.
func Resolve(tx ledger.Transaction, viewerWalletID string) Presentation {
	cls := classify(tx, viewerWalletID)
	if cls == classNeutral {
		return neutral(tx)
	}

	p := facets[cls]
	p.Label = label(cls, tx)
	return p
}

// IsIntegrityViolation reports whether a TRANSFER record breaks the
// invariant that the viewer is exactly one side of it. The resolver
// still renders such records (neutrally); callers may want to log them.
func IsIntegrityViolation(tx ledger.Transaction, viewerWalletID string) bool {
	if tx.Type != ledger.TypeTransfer {
		return false
	}
	return (tx.SenderWalletID == viewerWalletID) == (tx.ReceiverWalletID == viewerWalletID)
}

func classify(tx ledger.Transaction, viewerWalletID string) rowClass {
	switch tx.Type {
	case ledger.TypeCredited:
		if tx.IsIncoming {
			return classReceived
		}
		return classAdded
	case ledger.TypeDebited:
		if tx.IsIncoming {
			return classWithdrawn
		}
		return classSent
	case ledger.TypeTransfer:
		// Transfers carry no IsIncoming on the wire; direction comes
		// from which side of the transfer the viewer is on.
		senderIsViewer := tx.SenderWalletID == viewerWalletID
		receiverIsViewer := tx.ReceiverWalletID == viewerWalletID
		if senderIsViewer == receiverIsViewer {
			// Viewer must be exactly one side. Anything else is bad
			// server data; render it neutrally rather than guess.
			return classNeutral
		}
		if senderIsViewer {
			return classTransferOut
		}
		return classTransferIn
	default:
		return classNeutral
	}
}

// label picks the row label. A server-provided description wins
// outright; otherwise peer attribution refines the table default.
func label(cls rowClass, tx ledger.Transaction) string {
	if tx.Description != "" {
		return tx.Description
	}

	switch cls {
	case classReceived:
		if name, ok := tx.SenderAttribution(); ok {
			return attributed("From", name, tx.SenderWalletID)
		}
	case classSent:
		if name, ok := tx.ReceiverAttribution(); ok {
			return attributed("To", name, tx.ReceiverWalletID)
		}
	case classTransferOut:
		if name, ok := tx.ReceiverAttribution(); ok {
			return "Sent to " + name
		}
	case classTransferIn:
		if name, ok := tx.SenderAttribution(); ok {
			return "Received from " + name
		}
	}
	return facets[cls].Label
}

func attributed(prefix, name, walletID string) string {
	if walletID == "" || walletID == ledger.SystemParty {
		return fmt.Sprintf("%s: %s", prefix, name)
	}
	return fmt.Sprintf("%s: %s (%s)", prefix, name, walletID)
}

func neutral(tx ledger.Transaction) Presentation {
	p := Presentation{
		Label:       string(tx.Type),
		AmountSign:  SignNone,
		AmountColor: ColorNeutral,
		StatusText:  string(tx.Type),
		StatusColor: ColorNeutral,
	}
	if tx.Description != "" {
		p.Label = tx.Description
	}
	return p
}
