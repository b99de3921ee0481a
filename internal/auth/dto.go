package auth

import (
	"time"

	"github.com/hoopscout/hoopscout-backend/internal/users"
)

// RegisterDTO is the payload for account creation.
type RegisterDTO struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=120"`
}

// LoginDTO is the payload for credential exchange.
type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponseDTO is returned by both register and login.
type AuthResponseDTO struct {
	User      *users.UserDTO `json:"user"`
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
}
