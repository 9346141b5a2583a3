package ewallet

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/walletline/walletctl/internal/ledger"
	apperrors "github.com/walletline/walletctl/internal/shared/errors"
	"github.com/walletline/walletctl/pkg/logger"
	"github.com/walletline/walletctl/pkg/money"
)

const (
	defaultBaseURL = "http://localhost:8080/api"
	requestTimeout = 15 * time.Second
	maxRetries     = 2

	// requestsPerSecond caps the client's own call rate so a tight
	// refresh loop cannot trip the service's limiter.
	requestsPerSecond = 5
)

// TokenSource supplies the session credential for authenticated calls
// and is told when the service rejects it.
type TokenSource interface {
	Token() (string, error)
	Invalidate()
}

// Client is an HTTP client for the e-wallet ledger REST API
type Client struct {
	session    TokenSource
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     *logger.Logger
}

// NewClient creates a new ledger API client
func NewClient(session TokenSource, log *logger.Logger) *Client {
	return &Client{
		session: session,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		baseURL: defaultBaseURL,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		logger:  log.WithField("component", "ewallet"),
	}
}

// SetBaseURL overrides the default base URL (useful for testing)
func (c *Client) SetBaseURL(url string) {
	c.baseURL = strings.TrimSuffix(url, "/")
}

// SetTimeout overrides the default per-request timeout
func (c *Client) SetTimeout(d time.Duration) {
	c.httpClient.Timeout = d
}

// Login authenticates and returns the issued session token. The caller
// decides where the token lives; the client itself stays stateless.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/auth/login", nil, authRequest{
		Username: username,
		Password: password,
	}, false, "login failed")
	if err != nil {
		return "", err
	}

	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.Token == "" {
		return "", apperrors.Request("login response did not include a token", err)
	}
	return resp.Token, nil
}

// Register creates a new user with an attached wallet.
func (c *Client) Register(ctx context.Context, name, email, username, password string) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/auth/register", nil, registerRequest{
		Name:     name,
		Email:    email,
		Username: username,
		Password: password,
	}, false, "registration failed")
	return err
}

// Logout tells the service to drop the session. Local invalidation is
// the session store's job, not the client's.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/auth/logout", nil, nil, true, "logout failed")
	return err
}

// GetDashboard fetches the viewer's wallet, balance and transaction
// history in one call.
func (c *Client) GetDashboard(ctx context.Context) (*ledger.DashboardView, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/dashboard", nil, nil, true, "failed to fetch dashboard data")
	if err != nil {
		return nil, err
	}

	var payload dashboardPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperrors.Request("failed to decode dashboard response", err)
	}
	return toDashboard(payload), nil
}

// Credit adds money to the given wallet.
func (c *Client) Credit(ctx context.Context, walletID string, amount money.Amount) (*ledger.Transaction, error) {
	params := url.Values{}
	params.Set("walletId", walletID)
	params.Set("amount", amount.String())

	body, err := c.doRequest(ctx, http.MethodPost, "/transactions/credit", params, nil, true, "credit transaction failed")
	if err != nil {
		return nil, err
	}
	return mutationResult(body, ledger.Transaction{
		Type:             ledger.TypeCredited,
		Amount:           amount,
		ReceiverWalletID: walletID,
	}), nil
}

// Debit withdraws money from the given wallet.
func (c *Client) Debit(ctx context.Context, walletID string, amount money.Amount) (*ledger.Transaction, error) {
	params := url.Values{}
	params.Set("walletId", walletID)
	params.Set("amount", amount.String())

	body, err := c.doRequest(ctx, http.MethodPost, "/transactions/debit", params, nil, true, "debit transaction failed")
	if err != nil {
		return nil, err
	}
	return mutationResult(body, ledger.Transaction{
		Type:           ledger.TypeDebited,
		Amount:         amount,
		SenderWalletID: walletID,
	}), nil
}

// Transfer moves money from the viewer's wallet to the receiver. The
// sender is implied by the session on the server side.
func (c *Client) Transfer(ctx context.Context, receiverWalletID string, amount money.Amount) (*ledger.Transaction, error) {
	params := url.Values{}
	params.Set("receiverWalletId", receiverWalletID)
	params.Set("amount", amount.String())

	body, err := c.doRequest(ctx, http.MethodPost, "/transactions/transfer", params, nil, true, "transfer failed")
	if err != nil {
		return nil, err
	}
	return mutationResult(body, ledger.Transaction{
		Type:             ledger.TypeTransfer,
		Amount:           amount,
		ReceiverWalletID: receiverWalletID,
	}), nil
}

// mutationResult decodes the confirmed transaction. Some deployments
// answer a mutation with a plain-text acknowledgement instead of JSON;
// the request echo stands in so callers always get a record back.
func mutationResult(body []byte, fallback ledger.Transaction) *ledger.Transaction {
	var payload transactionPayload
	if err := json.Unmarshal(body, &payload); err == nil && payload.Type != "" {
		tx := toTransaction(payload)
		return &tx
	}
	fallback.Timestamp = time.Now()
	return &fallback
}

// doRequest performs one API call with rate limiting and bounded retry
// on 429 responses. Mutations carry a stable Idempotency-Key across
// retries. A 401 invalidates the session and is never retried.
func (c *Client) doRequest(ctx context.Context, method, path string, params url.Values, payload any, authed bool, fallbackMsg string) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var jsonBody []byte
	if payload != nil {
		var err error
		jsonBody, err = json.Marshal(payload)
		if err != nil {
			return nil, apperrors.Request("failed to encode request", err)
		}
	}

	idempotencyKey := ""
	if method == http.MethodPost && strings.HasPrefix(path, "/transactions/") {
		idempotencyKey = uuid.NewString()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	backoff := time.Second
	for attempt := 0; attempt <= maxRetries; attempt++ {
		c.logger.Debug("API request", "method", method, "path", path, "attempt", attempt)
		attemptStart := time.Now()

		var reqBody io.Reader
		if jsonBody != nil {
			reqBody = bytes.NewReader(jsonBody)
		}
		req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
		if err != nil {
			return nil, apperrors.Request("failed to create request", err)
		}
		req.Header.Set("Accept", "application/json")
		if jsonBody != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if idempotencyKey != "" {
			req.Header.Set("Idempotency-Key", idempotencyKey)
		}
		if authed {
			token, err := c.session.Token()
			if err != nil {
				return nil, err
			}
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, apperrors.Request("ledger service unreachable", err)
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, apperrors.Request("failed to read response body", readErr)
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			c.logger.Debug("API response", "status_code", resp.StatusCode, "duration_ms", time.Since(attemptStart).Milliseconds())
			return body, nil

		case resp.StatusCode == http.StatusUnauthorized && authed:
			c.logger.Warn("session rejected", "path", path)
			c.session.Invalidate()
			return nil, apperrors.Unauthorized("session expired, please login again")

		case resp.StatusCode == http.StatusTooManyRequests && attempt < maxRetries:
			c.logger.Warn("rate limited, retrying", "attempt", attempt, "backoff_ms", backoff.Milliseconds())
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
				continue
			}

		default:
			c.logger.Error("API error", "status_code", resp.StatusCode, "path", path)
			return nil, apperrors.Request(serverMessage(body, fallbackMsg), nil)
		}
	}

	return nil, apperrors.Request("ledger service: exhausted retries", nil)
}

// serverMessage surfaces the service's own words when it sent any,
// falling back to a per-call message otherwise. Error bodies are either
// plain text or a small JSON object.
func serverMessage(body []byte, fallback string) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return fallback
	}
	if strings.HasPrefix(text, "{") {
		var se serverError
		if err := json.Unmarshal(body, &se); err == nil {
			if se.Error != "" {
				return se.Error
			}
			if se.Message != "" {
				return se.Message
			}
		}
		return fallback
	}
	return text
}
