package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hoopscout/hoopscout-backend/pkg/db/models"
)

// TokenPayload captures the data available when minting a JWT. SessionID
// becomes the registered jti claim and keys the server-side session row.
type TokenPayload struct {
	UserID    uuid.UUID
	Email     string
	Role      models.Role
	SessionID string
}

// Claims is the typed JWT issued to clients. The embedded expiry claim
// mirrors the session TTL at issue time but the session row's stored expiry
// stays authoritative.
type Claims struct {
	UserID uuid.UUID   `json:"user_id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// SessionID returns the embedded session identifier (the jti claim).
func (c *Claims) SessionID() string {
	if c == nil {
		return ""
	}
	return c.ID
}
