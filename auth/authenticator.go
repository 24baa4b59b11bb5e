package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nkpol/nkpolbackend/config"
	"github.com/nkpol/nkpolbackend/models"
	"github.com/nkpol/nkpolbackend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// CookieName is the legacy cookie some clients still send the token in.
// The Authorization header takes precedence when both are present.
const CookieName = "auth-token"

type Claims struct {
	UserID       string `json:"userId"`
	Username     string `json:"username"`
	TokenVersion int    `json:"tokenVersion"`
	jwt.RegisteredClaims
}

// UserClaims is what Verify hands back to route handlers.
type UserClaims struct {
	UserID       string
	Username     string
	TokenVersion int
}

// RevokeMetadata is optional context recorded on a ledger entry.
type RevokeMetadata struct {
	IP        string
	UserAgent string
	RevokedBy string
}

// Authenticator issues, verifies and revokes bearer tokens. Tokens are
// stateless until revoked: no session record is written at issue time, and
// validity is cross-checked against the revocation ledger and the user's
// current token version on every Verify.
type Authenticator struct {
	users   UserStore
	revoked RevocationStore
	cfg     config.AuthConfig
}

func NewAuthenticator(users UserStore, revoked RevocationStore, cfg config.AuthConfig) *Authenticator {
	return &Authenticator{users: users, revoked: revoked, cfg: cfg}
}

// Issue verifies a username/password pair and mints a signed token. The
// same ErrInvalidCredentials comes back for an unknown username and a
// wrong password so the endpoint cannot be used to enumerate accounts.
func (a *Authenticator) Issue(ctx context.Context, username, password string) (string, error) {
	user, err := a.users.FindByUsername(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := utils.CheckPassword(user.PasswordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}

	return a.mintToken(user, a.cfg.TokenTTL)
}

func (a *Authenticator) mintToken(user *models.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:       user.ID.Hex(),
		Username:     user.Username,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.cfg.Issuer,
			Audience:  jwt.ClaimStrings{a.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.cfg.JWTSecret))
}

// Verify runs the full validation chain. The ledger is consulted before
// the signature so a known-bad token fails without any crypto work.
func (a *Authenticator) Verify(ctx context.Context, tokenStr string) (*UserClaims, error) {
	if tokenStr == "" {
		return nil, ErrMissingToken
	}

	revoked, err := a.revoked.Contains(ctx, tokenStr)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(a.cfg.JWTSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(a.cfg.Issuer),
		jwt.WithAudience(a.cfg.Audience),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	user, err := a.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.IsLocked {
		return nil, ErrAccountLocked
	}

	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrTokenVersionMismatch
	}

	return &UserClaims{
		UserID:       claims.UserID,
		Username:     claims.Username,
		TokenVersion: claims.TokenVersion,
	}, nil
}

// Revoke writes the token into the ledger. The token is decoded without
// signature verification: an expired token must still be revocable.
// Revoking an already-revoked token is a no-op for the caller.
func (a *Authenticator) Revoke(ctx context.Context, tokenStr string, reason models.RevokeReason, meta RevokeMetadata) error {
	if tokenStr == "" {
		return ErrMissingToken
	}

	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenStr, claims); err != nil {
		return ErrTokenInvalid
	}

	// Anchor the ledger entry's TTL on the token's own expiry so the
	// entry disappears once the token would have died anyway.
	expiresAt := time.Now().Add(a.cfg.TokenTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	userID, _ := bson.ObjectIDFromHex(claims.UserID)

	entry := &models.RevokedToken{
		Token:     tokenStr,
		UserID:    userID,
		Reason:    reason,
		ExpiresAt: expiresAt,
		RevokedAt: time.Now().UTC(),
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		RevokedBy: meta.RevokedBy,
	}

	if err := a.revoked.Add(ctx, entry); err != nil {
		if utils.IsDuplicateKey(err) {
			return nil
		}
		return err
	}
	return nil
}

// TokenFromRequest extracts the bearer token, preferring the
// Authorization header over the legacy cookie.
func TokenFromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		if token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")); token != "" {
			return token
		}
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	return ""
}
