package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is one row per issued token; its ID doubles as the JWT jti.
// Rows are never deleted: revocation flips the flag so the table stays an
// append-only audit trail. A session is valid iff !Revoked and the stored
// expiry has not passed, regardless of what the token claim says.
type Session struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	Revoked   bool      `gorm:"column:revoked;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Session) TableName() string { return "sessions" }

// Valid reports whether the session still authenticates at the given instant.
func (s Session) Valid(now time.Time) bool {
	return !s.Revoked && now.Before(s.ExpiresAt)
}
