package ledger

import (
	apperrors "github.com/walletline/walletctl/internal/shared/errors"
	"github.com/walletline/walletctl/pkg/money"
)

// RequestKind selects which ledger mutation a TransactionRequest asks for.
type RequestKind string

const (
	KindCredit   RequestKind = "credit"
	KindDebit    RequestKind = "debit"
	KindTransfer RequestKind = "transfer"
)

// TransactionRequest is a client-constructed, ephemeral intent to mutate
// the ledger. It is validated locally before any network call.
type TransactionRequest struct {
	Kind             RequestKind
	Amount           money.Amount
	ReceiverWalletID string
}

// Validate checks the request against the viewer's own wallet. A
// self-transfer is rejected here rather than wasting a round trip the
// server would refuse anyway.
func (r TransactionRequest) Validate(viewerWalletID string) error {
	switch r.Kind {
	case KindCredit, KindDebit, KindTransfer:
	default:
		return apperrors.Validation("unknown transaction kind")
	}

	if !r.Amount.IsPositive() {
		return apperrors.Validation("amount must be greater than zero")
	}

	if r.Kind == KindTransfer {
		if r.ReceiverWalletID == "" {
			return apperrors.Validation("receiver wallet ID is required for a transfer")
		}
		if r.ReceiverWalletID == viewerWalletID {
			return apperrors.Validation("cannot transfer to your own wallet")
		}
	}

	return nil
}
