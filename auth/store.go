package auth

import (
	"context"

	"github.com/nkpol/nkpolbackend/models"
)

// UserStore resolves credentialed users. Implementations return
// ErrUserNotFound when no user matches.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// RevocationStore is the ledger of explicitly invalidated tokens. Add may
// fail with a duplicate-key error when the token is already present;
// callers treat that as success.
type RevocationStore interface {
	Contains(ctx context.Context, token string) (bool, error)
	Add(ctx context.Context, entry *models.RevokedToken) error
}
