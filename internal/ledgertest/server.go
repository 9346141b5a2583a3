// Package ledgertest provides an in-process double of the e-wallet
// ledger service for gateway and workflow tests. It speaks the same
// REST surface as the real service: bearer-token auth, query-param
// mutations, and a dashboard document scoped to the viewer.
package ledgertest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/walletline/walletctl/pkg/money"
)

type user struct {
	password string
	name     string
	walletID string
}

type record struct {
	id               string
	txType           string
	amount           money.Amount
	timestamp        time.Time
	senderWalletID   string // empty means the system
	receiverWalletID string
	description      string
}

// Server is a fake ledger service.
type Server struct {
	httpServer *httptest.Server
	secret     []byte

	mu           sync.Mutex
	users        map[string]*user        // by username
	balances     map[string]money.Amount // by wallet ID
	owners       map[string]string       // wallet ID -> username
	transactions []record                // newest first

	failDashboard  int // pending 500s for GET /dashboard
	rateLimitNext  int // pending 429s for any endpoint
	dashboardCalls int
}

// NewServer starts the fake service. Callers must Close it.
func NewServer() *Server {
	s := &Server{
		secret:   []byte("ledgertest-secret"),
		users:    make(map[string]*user),
		balances: make(map[string]money.Amount),
		owners:   make(map[string]string),
	}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/register", s.handleRegister)
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Post("/auth/logout", s.handleLogout)
			r.Get("/dashboard", s.handleDashboard)
			r.Post("/transactions/credit", s.handleCredit)
			r.Post("/transactions/debit", s.handleDebit)
			r.Post("/transactions/transfer", s.handleTransfer)
		})
	})

	s.httpServer = httptest.NewServer(r)
	return s
}

// URL returns the API base URL, including the /api prefix.
func (s *Server) URL() string {
	return s.httpServer.URL + "/api"
}

// Close shuts the fake service down.
func (s *Server) Close() {
	s.httpServer.Close()
}

// AddUser seeds a user with a fresh wallet and returns the wallet ID.
func (s *Server) AddUser(username, password, name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	walletID := "WLT-" + uuid.NewString()[:8]
	s.users[username] = &user{password: password, name: name, walletID: walletID}
	s.balances[walletID] = 0
	s.owners[walletID] = username
	return walletID
}

// SetBalance overrides a wallet's balance.
func (s *Server) SetBalance(walletID string, amount money.Amount) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[walletID] = amount
}

// Balance reads a wallet's balance.
func (s *Server) Balance(walletID string) money.Amount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[walletID]
}

// TokenFor mints a valid session token without going through login.
func (s *Server) TokenFor(username string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		panic(fmt.Sprintf("ledgertest: sign token: %v", err))
	}
	return signed
}

// FailDashboard makes the next n dashboard fetches answer 500.
func (s *Server) FailDashboard(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failDashboard = n
}

// RateLimitNext makes the next n requests answer 429.
func (s *Server) RateLimitNext(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rateLimitNext = n
}

// DashboardCalls reports how many dashboard fetches reached the service.
func (s *Server) DashboardCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dashboardCalls
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.maybeRateLimit(w) {
		return
	}

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	u, ok := s.users[req.Username]
	s.mu.Unlock()
	if !ok || u.password != req.Password {
		http.Error(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": s.TokenFor(req.Username)})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if s.maybeRateLimit(w) {
		return
	}

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	_, exists := s.users[req.Username]
	s.mu.Unlock()
	if exists {
		http.Error(w, "Username already exists", http.StatusBadRequest)
		return
	}

	s.AddUser(req.Username, req.Password, req.Name)
	fmt.Fprint(w, "User registered successfully with wallet")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "Logged out successfully")
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.maybeRateLimit(w) {
			return
		}

		authHeader := r.Header.Get("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "missing or malformed authorization header", http.StatusUnauthorized)
			return
		}

		claims := jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(parts[1], &claims, func(t *jwt.Token) (interface{}, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		s.mu.Lock()
		_, ok := s.users[claims.Subject]
		s.mu.Unlock()
		if !ok {
			http.Error(w, "unknown user", http.StatusUnauthorized)
			return
		}

		r.Header.Set("X-Test-User", claims.Subject)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) viewer(r *http.Request) *user {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[r.Header.Get("X-Test-User")]
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.dashboardCalls++
	if s.failDashboard > 0 {
		s.failDashboard--
		s.mu.Unlock()
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.mu.Unlock()

	u := s.viewer(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	txs := make([]map[string]any, 0)
	for _, rec := range s.transactions {
		if !s.visibleTo(rec, u.walletID) {
			continue
		}
		txs = append(txs, s.wirePayload(rec, u.walletID))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"walletId":     u.walletID,
		"name":         u.name,
		"balance":      s.balances[u.walletID],
		"transactions": txs,
	})
}

// visibleTo mirrors the real service's perspective filter: credits are
// shown to the receiver, debits to the sender, transfers to both sides.
func (s *Server) visibleTo(rec record, walletID string) bool {
	switch rec.txType {
	case "CREDITED":
		return rec.receiverWalletID == walletID
	case "DEBITED":
		return rec.senderWalletID == walletID
	case "TRANSFER":
		return rec.senderWalletID == walletID || rec.receiverWalletID == walletID
	}
	return true
}

func (s *Server) wirePayload(rec record, viewerWalletID string) map[string]any {
	senderName, senderWallet := "System", "System"
	if rec.senderWalletID != "" {
		senderWallet = rec.senderWalletID
		senderName = s.ownerName(rec.senderWalletID)
	}
	receiverName, receiverWallet := "System", "System"
	if rec.receiverWalletID != "" {
		receiverWallet = rec.receiverWalletID
		receiverName = s.ownerName(rec.receiverWalletID)
	}

	// A row is incoming when another real party funded the viewer.
	// Self top-ups and system credits stay outgoing-flavored so the
	// client renders them as additions, not receipts.
	incoming := rec.receiverWalletID == viewerWalletID &&
		rec.senderWalletID != "" && rec.senderWalletID != viewerWalletID

	return map[string]any{
		"type":             rec.txType,
		"amount":           rec.amount,
		"timestamp":        rec.timestamp.Format("2006-01-02T15:04:05"),
		"isIncoming":       incoming,
		"senderName":       senderName,
		"senderWalletId":   senderWallet,
		"receiverName":     receiverName,
		"receiverWalletId": receiverWallet,
		"description":      rec.description,
	}
}

func (s *Server) ownerName(walletID string) string {
	if username, ok := s.owners[walletID]; ok {
		return s.users[username].name
	}
	return "System"
}

func (s *Server) handleCredit(w http.ResponseWriter, r *http.Request) {
	walletID := r.URL.Query().Get("walletId")
	amount, err := money.Parse(r.URL.Query().Get("amount"))
	if err != nil || !amount.IsPositive() {
		http.Error(w, "amount must be positive", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.owners[walletID]; !ok {
		http.Error(w, "Wallet not found: "+walletID, http.StatusNotFound)
		return
	}

	s.balances[walletID] += amount
	rec := s.record("CREDITED", amount, "", walletID)
	writeJSON(w, http.StatusOK, s.wirePayload(rec, walletID))
}

func (s *Server) handleDebit(w http.ResponseWriter, r *http.Request) {
	walletID := r.URL.Query().Get("walletId")
	amount, err := money.Parse(r.URL.Query().Get("amount"))
	if err != nil || !amount.IsPositive() {
		http.Error(w, "amount must be positive", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.owners[walletID]; !ok {
		http.Error(w, "Wallet not found: "+walletID, http.StatusNotFound)
		return
	}
	if s.balances[walletID] < amount {
		http.Error(w, "Insufficient balance", http.StatusBadRequest)
		return
	}

	s.balances[walletID] -= amount
	rec := s.record("DEBITED", amount, walletID, "")
	writeJSON(w, http.StatusOK, s.wirePayload(rec, walletID))
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	u := s.viewer(r)
	receiverWalletID := r.URL.Query().Get("receiverWalletId")
	amount, err := money.Parse(r.URL.Query().Get("amount"))
	if err != nil || !amount.IsPositive() {
		http.Error(w, "amount must be positive", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.owners[receiverWalletID]; !ok {
		http.Error(w, "Receiver wallet not found: "+receiverWalletID, http.StatusNotFound)
		return
	}
	if s.balances[u.walletID] < amount {
		http.Error(w, "Insufficient balance", http.StatusBadRequest)
		return
	}

	s.balances[u.walletID] -= amount
	s.balances[receiverWalletID] += amount
	s.record("TRANSFER", amount, u.walletID, receiverWalletID)

	// The real service acknowledges transfers with plain text
	fmt.Fprint(w, "Transfer successful")
}

// record appends a ledger record (newest first) and returns it.
// Callers hold s.mu.
func (s *Server) record(txType string, amount money.Amount, senderWalletID, receiverWalletID string) record {
	rec := record{
		id:               uuid.NewString(),
		txType:           txType,
		amount:           amount,
		timestamp:        time.Now(),
		senderWalletID:   senderWalletID,
		receiverWalletID: receiverWalletID,
	}
	s.transactions = append([]record{rec}, s.transactions...)
	return rec
}

func (s *Server) maybeRateLimit(w http.ResponseWriter) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rateLimitNext > 0 {
		s.rateLimitNext--
		http.Error(w, "Too many requests", http.StatusTooManyRequests)
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
