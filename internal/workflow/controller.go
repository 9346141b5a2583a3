package workflow

import (
	"context"
	"errors"
	"sync"

	"github.com/walletline/walletctl/internal/ledger"
	apperrors "github.com/walletline/walletctl/internal/shared/errors"
	"github.com/walletline/walletctl/pkg/logger"
	"github.com/walletline/walletctl/pkg/money"
)

// State is the transaction workflow's current phase. The render layer
// reads it to disable the submit control and show a pending indicator.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// LedgerAPI is the mutation surface of the external ledger collaborator.
type LedgerAPI interface {
	Credit(ctx context.Context, walletID string, amount money.Amount) (*ledger.Transaction, error)
	Debit(ctx context.Context, walletID string, amount money.Amount) (*ledger.Transaction, error)
	Transfer(ctx context.Context, receiverWalletID string, amount money.Amount) (*ledger.Transaction, error)
}

// Refresher re-fetches the authoritative dashboard after a confirmed
// mutation. The controller never patches the view locally.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Controller drives one transaction request from user intent to
// confirmed ledger mutation. It validates locally, dispatches exactly
// one API call, and on success triggers exactly one full dashboard
// re-fetch.
type Controller struct {
	api       LedgerAPI
	refresher Refresher
	logger    *logger.Logger

	// OnTransition, when set, observes every state change. Called
	// without the lock held.
	OnTransition func(State)

	mu      sync.Mutex
	state   State
	lastErr error
}

// New creates an idle workflow controller.
func New(api LedgerAPI, refresher Refresher, log *logger.Logger) *Controller {
	return &Controller{
		api:       api,
		refresher: refresher,
		logger:    log.WithField("component", "workflow"),
		state:     StateIdle,
	}
}

// State returns the current workflow state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastError returns the error from the most recent submission, or nil
// after a clean success.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Submit runs the full workflow for one request. On validation failure
// nothing reaches the network and the state returns to idle; the caller
// keeps its form input. On a remote failure the server's message is in
// the returned error. A non-nil transaction alongside a refresh error
// means the mutation itself went through but the view is stale.
func (c *Controller) Submit(ctx context.Context, viewerWalletID string, req ledger.TransactionRequest) (*ledger.Transaction, error) {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return nil, apperrors.Validation("a submission is already in progress")
	}
	c.state = StateValidating
	c.mu.Unlock()
	c.notify(StateValidating)

	if err := req.Validate(viewerWalletID); err != nil {
		c.logger.Debug("request rejected locally", "kind", string(req.Kind), "error", err.Error())
		c.finish(StateIdle, err)
		return nil, err
	}

	c.setState(StateSubmitting)
	tx, err := c.dispatch(ctx, viewerWalletID, req)
	if err != nil {
		if !isAppError(err) {
			err = apperrors.Request(err.Error(), err)
		}
		c.logger.WithError(err).Warn("submission failed", "kind", string(req.Kind))
		c.setState(StateFailed)
		c.finish(StateIdle, err)
		return nil, err
	}

	c.logger.Info("transaction confirmed", "kind", string(req.Kind), "amount", req.Amount.String())
	c.setState(StateSucceeded)

	if c.refresher != nil {
		if rerr := c.refresher.Refresh(ctx); rerr != nil {
			refreshErr := apperrors.Refresh(rerr)
			c.logger.WithError(rerr).Warn("post-success refresh failed")
			c.finish(StateIdle, refreshErr)
			return tx, refreshErr
		}
	}

	c.finish(StateIdle, nil)
	return tx, nil
}

// dispatch issues exactly one ledger call for the validated request.
func (c *Controller) dispatch(ctx context.Context, viewerWalletID string, req ledger.TransactionRequest) (*ledger.Transaction, error) {
	switch req.Kind {
	case ledger.KindCredit:
		return c.api.Credit(ctx, viewerWalletID, req.Amount)
	case ledger.KindDebit:
		return c.api.Debit(ctx, viewerWalletID, req.Amount)
	case ledger.KindTransfer:
		return c.api.Transfer(ctx, req.ReceiverWalletID, req.Amount)
	default:
		// Validate already rejected unknown kinds
		return nil, apperrors.Validation("unknown transaction kind")
	}
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	c.notify(s)
}

func (c *Controller) finish(s State, err error) {
	c.mu.Lock()
	c.state = s
	c.lastErr = err
	c.mu.Unlock()
	c.notify(s)
}

func (c *Controller) notify(s State) {
	if c.OnTransition != nil {
		c.OnTransition(s)
	}
}

func isAppError(err error) bool {
	var appErr *apperrors.AppError
	return errors.As(err, &appErr)
}
