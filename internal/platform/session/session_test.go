package session_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walletline/walletctl/internal/platform/session"
	apperrors "github.com/walletline/walletctl/internal/shared/errors"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user1",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func newStore(t *testing.T) *session.Store {
	t.Helper()
	return session.NewStore(filepath.Join(t.TempDir(), "token"))
}

func TestStore_SaveAndToken(t *testing.T) {
	store := newStore(t)
	token := signedToken(t, time.Now().Add(time.Hour))

	require.NoError(t, store.Save(token))

	got, err := store.Token()
	require.NoError(t, err)
	assert.Equal(t, token, got)
}

func TestStore_TokenFilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	store := session.NewStore(path)
	require.NoError(t, store.Save(signedToken(t, time.Now().Add(time.Hour))))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestStore_NotLoggedIn(t *testing.T) {
	store := newStore(t)

	_, err := store.Token()
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

func TestStore_ExpiredTokenIsCleared(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Save(signedToken(t, time.Now().Add(-time.Minute))))

	_, err := store.Token()
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))

	// The dead token must not come back on the next read either
	_, err = store.Token()
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

func TestStore_OpaqueTokenPassesThrough(t *testing.T) {
	// Tokens the client cannot parse are the server's problem, not ours
	store := newStore(t)
	require.NoError(t, store.Save("opaque-session-credential"))

	got, err := store.Token()
	require.NoError(t, err)
	assert.Equal(t, "opaque-session-credential", got)
}

func TestStore_Clear(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Save(signedToken(t, time.Now().Add(time.Hour))))
	require.NoError(t, store.Clear())

	_, err := store.Token()
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))

	// Clearing an already-clear session is fine
	assert.NoError(t, store.Clear())
}
