package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the coarse authorization level carried in the token. Elevation to
// admin happens out-of-band, never through the API.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents the canonical identity entity. IsActive deliberately has
// no gorm default tag: a default on a bool makes Create drop the zero value,
// silently persisting false as true. The column default lives in the schema.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	DisplayName  string    `gorm:"column:display_name;not null"`
	Role         Role      `gorm:"column:role;type:text;not null;default:'user'"`
	IsActive     bool      `gorm:"column:is_active;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "app_users" }
