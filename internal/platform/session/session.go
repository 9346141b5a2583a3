package session

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/walletline/walletctl/internal/shared/errors"
)

// Store holds the session credential for the wallet client. The token
// lives in a file rather than ambient process state so every consumer
// receives the session explicitly.
type Store struct {
	path string
}

// NewStore creates a session store backed by the given token file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save persists a freshly issued token, replacing any previous session.
func (s *Store) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token), 0o600)
}

// Token returns the stored credential. A missing file means the user
// never logged in; a token past its exp claim is cleared and reported
// as expired so the caller can send the user back to login instead of
// burning a request the server will 401.
func (s *Store) Token() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apperrors.Unauthorized("not logged in")
		}
		return "", err
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", apperrors.Unauthorized("not logged in")
	}

	if expired(token) {
		_ = s.Clear()
		return "", apperrors.Unauthorized("session expired, please login again")
	}
	return token, nil
}

// Clear invalidates the session.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Invalidate implements the gateway's TokenSource contract.
func (s *Store) Invalidate() {
	_ = s.Clear()
}

// expired reads the exp claim without verifying the signature. The
// server is the authority on validity; this is only a local fast path
// so an obviously dead token fails before the network call.
func expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Not a JWT we can read; let the server judge it.
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
