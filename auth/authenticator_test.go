package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nkpol/nkpolbackend/config"
	"github.com/nkpol/nkpolbackend/models"
	"github.com/nkpol/nkpolbackend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type memUserStore struct {
	byUsername map[string]*models.User
}

func (s *memUserStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	u, ok := s.byUsername[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *memUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range s.byUsername {
		if u.ID.Hex() == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

type memRevocationStore struct {
	entries map[string]*models.RevokedToken
}

func (s *memRevocationStore) Contains(_ context.Context, token string) (bool, error) {
	_, ok := s.entries[token]
	return ok, nil
}

func (s *memRevocationStore) Add(_ context.Context, entry *models.RevokedToken) error {
	if _, ok := s.entries[entry.Token]; ok {
		// same shape the Mongo driver surfaces for a unique-index violation
		return errors.New("E11000 duplicate key error collection: nkpol.revoked_tokens")
	}
	s.entries[entry.Token] = entry
	return nil
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  7 * 24 * time.Hour,
		Issuer:    "nk-pol-api",
		Audience:  "nk-pol-admin",
	}
}

func newTestAuthenticator(t *testing.T) (*Authenticator, *memUserStore, *memRevocationStore, *models.User) {
	t.Helper()

	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)

	user := &models.User{
		ID:           bson.NewObjectID(),
		Username:     "admin",
		PasswordHash: hash,
		TokenVersion: 0,
	}
	users := &memUserStore{byUsername: map[string]*models.User{"admin": user}}
	revoked := &memRevocationStore{entries: map[string]*models.RevokedToken{}}

	return NewAuthenticator(users, revoked, testAuthConfig()), users, revoked, user
}

func TestIssueAndVerify(t *testing.T) {
	a, _, _, user := newTestAuthenticator(t)
	ctx := context.Background()

	token, err := a.Issue(ctx, "admin", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := a.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, 0, claims.TokenVersion)
}

func TestIssueInvalidCredentialsIdentical(t *testing.T) {
	a, _, _, _ := newTestAuthenticator(t)
	ctx := context.Background()

	_, errUnknown := a.Issue(ctx, "nobody", "secret123")
	_, errWrongPass := a.Issue(ctx, "admin", "wrong-password")

	require.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	require.ErrorIs(t, errWrongPass, ErrInvalidCredentials)
	// same error value, same shape: no user enumeration via error contents
	assert.Equal(t, errUnknown, errWrongPass)
}

func TestVerifyMissingToken(t *testing.T) {
	a, _, _, _ := newTestAuthenticator(t)

	_, err := a.Verify(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestRevokeThenVerify(t *testing.T) {
	a, _, revoked, user := newTestAuthenticator(t)
	ctx := context.Background()

	token, err := a.Issue(ctx, "admin", "secret123")
	require.NoError(t, err)

	_, err = a.Verify(ctx, token)
	require.NoError(t, err)

	err = a.Revoke(ctx, token, models.RevokeReasonLogout, RevokeMetadata{IP: "10.0.0.1", UserAgent: "test"})
	require.NoError(t, err)

	// signature and expiry are still fine; only the ledger rejects it
	_, err = a.Verify(ctx, token)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	entry := revoked.entries[token]
	require.NotNil(t, entry)
	assert.Equal(t, models.RevokeReasonLogout, entry.Reason)
	assert.Equal(t, user.ID, entry.UserID)
	assert.Equal(t, "10.0.0.1", entry.IP)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), entry.ExpiresAt, time.Minute)
}

func TestRevokeIsIdempotent(t *testing.T) {
	a, _, _, _ := newTestAuthenticator(t)
	ctx := context.Background()

	token, err := a.Issue(ctx, "admin", "secret123")
	require.NoError(t, err)

	require.NoError(t, a.Revoke(ctx, token, models.RevokeReasonLogout, RevokeMetadata{}))
	// duplicate-key write must not surface to the caller
	require.NoError(t, a.Revoke(ctx, token, models.RevokeReasonLogout, RevokeMetadata{}))
}

func TestRevokeExpiredToken(t *testing.T) {
	a, _, revoked, user := newTestAuthenticator(t)
	ctx := context.Background()

	token, err := a.mintToken(user, -time.Hour)
	require.NoError(t, err)

	require.NoError(t, a.Revoke(ctx, token, models.RevokeReasonSecurity, RevokeMetadata{}))
	assert.NotNil(t, revoked.entries[token])
}

func TestVerifyExpiredToken(t *testing.T) {
	a, _, _, user := newTestAuthenticator(t)

	token, err := a.mintToken(user, -time.Minute)
	require.NoError(t, err)

	_, err = a.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

// A pruned ledger entry must never re-validate a token: by the time the
// TTL removes the entry the token itself has expired.
func TestPrunedLedgerEntryNeverRevalidates(t *testing.T) {
	a, _, revoked, user := newTestAuthenticator(t)
	ctx := context.Background()

	token, err := a.mintToken(user, -time.Minute)
	require.NoError(t, err)

	require.NoError(t, a.Revoke(ctx, token, models.RevokeReasonLogout, RevokeMetadata{}))
	_, err = a.Verify(ctx, token)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// simulate the TTL index dropping the entry
	delete(revoked.entries, token)

	_, err = a.Verify(ctx, token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenVersionBumpInvalidatesOldTokens(t *testing.T) {
	a, users, _, _ := newTestAuthenticator(t)
	ctx := context.Background()

	oldToken, err := a.Issue(ctx, "admin", "secret123")
	require.NoError(t, err)

	users.byUsername["admin"].TokenVersion = 1

	_, err = a.Verify(ctx, oldToken)
	assert.ErrorIs(t, err, ErrTokenVersionMismatch)

	newToken, err := a.Issue(ctx, "admin", "secret123")
	require.NoError(t, err)

	claims, err := a.Verify(ctx, newToken)
	require.NoError(t, err)
	assert.Equal(t, 1, claims.TokenVersion)
}

func TestVerifyLockedAccount(t *testing.T) {
	a, users, _, _ := newTestAuthenticator(t)
	ctx := context.Background()

	token, err := a.Issue(ctx, "admin", "secret123")
	require.NoError(t, err)

	users.byUsername["admin"].IsLocked = true

	_, err = a.Verify(ctx, token)
	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestVerifyDeletedUser(t *testing.T) {
	a, users, _, _ := newTestAuthenticator(t)
	ctx := context.Background()

	token, err := a.Issue(ctx, "admin", "secret123")
	require.NoError(t, err)

	delete(users.byUsername, "admin")

	_, err = a.Verify(ctx, token)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestVerifyForgedSignature(t *testing.T) {
	a, users, revoked, _ := newTestAuthenticator(t)

	otherCfg := testAuthConfig()
	otherCfg.JWTSecret = "some-other-secret"
	other := NewAuthenticator(users, revoked, otherCfg)

	token, err := other.Issue(context.Background(), "admin", "secret123")
	require.NoError(t, err)

	_, err = a.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyWrongIssuer(t *testing.T) {
	a, users, revoked, _ := newTestAuthenticator(t)

	otherCfg := testAuthConfig()
	otherCfg.Issuer = "someone-else"
	other := NewAuthenticator(users, revoked, otherCfg)

	token, err := other.Issue(context.Background(), "admin", "secret123")
	require.NoError(t, err)

	_, err = a.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

// The ledger is consulted before signature verification, so even a token
// that would fail crypto checks reports as revoked once listed.
func TestLedgerCheckedBeforeSignature(t *testing.T) {
	a, _, revoked, user := newTestAuthenticator(t)
	ctx := context.Background()

	forged := "not-even-a-jwt"
	revoked.entries[forged] = &models.RevokedToken{
		Token:     forged,
		UserID:    user.ID,
		Reason:    models.RevokeReasonSecurity,
		ExpiresAt: time.Now().Add(time.Hour),
	}

	_, err := a.Verify(ctx, forged)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestIssuedClaimsShape(t *testing.T) {
	a, _, _, user := newTestAuthenticator(t)

	token, err := a.Issue(context.Background(), "admin", "secret123")
	require.NoError(t, err)

	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)

	assert.Equal(t, "nk-pol-api", claims.Issuer)
	assert.Equal(t, jwt.ClaimStrings{"nk-pol-admin"}, claims.Audience)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/admin/auth/me", nil)
	assert.Empty(t, TokenFromRequest(r))

	// legacy cookie is a fallback source
	r = httptest.NewRequest("GET", "/admin/auth/me", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "cookie-token"})
	assert.Equal(t, "cookie-token", TokenFromRequest(r))

	// the Authorization header wins when both are present
	r.Header.Set("Authorization", "Bearer header-token")
	assert.Equal(t, "header-token", TokenFromRequest(r))
}
