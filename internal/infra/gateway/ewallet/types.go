package ewallet

import "github.com/walletline/walletctl/pkg/money"

// authRequest is the login payload
type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// registerRequest is the registration payload
type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// authResponse carries the issued session token
type authResponse struct {
	Token string `json:"token"`
}

// dashboardPayload is the wire shape of GET /dashboard
type dashboardPayload struct {
	WalletID     string               `json:"walletId"`
	Name         string               `json:"name"`
	Balance      money.Amount         `json:"balance"`
	Transactions []transactionPayload `json:"transactions"`
}

// transactionPayload is the wire shape of one ledger record. The server
// substitutes the literal "System" for both the name and wallet ID of a
// missing counterparty.
type transactionPayload struct {
	Type             string       `json:"type"`
	IsIncoming       bool         `json:"isIncoming"`
	Amount           money.Amount `json:"amount"`
	Timestamp        string       `json:"timestamp"`
	SenderWalletID   string       `json:"senderWalletId"`
	ReceiverWalletID string       `json:"receiverWalletId"`
	SenderName       string       `json:"senderName"`
	ReceiverName     string       `json:"receiverName"`
	Description      string       `json:"description"`
}

// serverError is the structured error body some endpoints return;
// others send plain text.
type serverError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
