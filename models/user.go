package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string        `bson:"username" json:"username"`
	PasswordHash string        `bson:"passwordHash" json:"-"` // never expose
	TokenVersion int           `bson:"tokenVersion" json:"-"`
	IsLocked     bool          `bson:"isLocked" json:"isLocked"`
	CreatedAt    time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt" json:"updatedAt"`
}

type RevokeReason string

const (
	RevokeReasonLogout         RevokeReason = "logout"
	RevokeReasonPasswordChange RevokeReason = "password_change"
	RevokeReasonSecurity       RevokeReason = "security"
	RevokeReasonAdminRevoke    RevokeReason = "admin_revoke"
	RevokeReasonTokenRefresh   RevokeReason = "token_refresh"
)

// RevokedToken is one ledger entry. The entry's expiresAt mirrors the
// token's own expiry so the TTL index drops it once the token would have
// died naturally anyway.
type RevokedToken struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Token     string        `bson:"token"`
	UserID    bson.ObjectID `bson:"userId"`
	Reason    RevokeReason  `bson:"reason"`
	ExpiresAt time.Time     `bson:"expiresAt"`
	RevokedAt time.Time     `bson:"revokedAt"`
	IP        string        `bson:"ip,omitempty"`
	UserAgent string        `bson:"userAgent,omitempty"`
	RevokedBy string        `bson:"revokedBy,omitempty"`
}
