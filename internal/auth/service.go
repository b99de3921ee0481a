package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hoopscout/hoopscout-backend/internal/users"
	"github.com/hoopscout/hoopscout-backend/pkg/auth/session"
	"github.com/hoopscout/hoopscout-backend/pkg/config"
	"github.com/hoopscout/hoopscout-backend/pkg/db"
	"github.com/hoopscout/hoopscout-backend/pkg/db/models"
	pkgerrors "github.com/hoopscout/hoopscout-backend/pkg/errors"
	"github.com/hoopscout/hoopscout-backend/pkg/security"
)

// UserStore is the persistence surface the auth service needs.
type UserStore interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// SessionGate issues and revokes session-backed tokens.
type SessionGate interface {
	Issue(ctx context.Context, user *models.User) (*session.Issued, error)
	Revoke(ctx context.Context, token string) error
}

// Service implements registration, login, logout, and profile lookup.
type Service struct {
	store UserStore
	gate  SessionGate
	pw    config.PasswordConfig
}

// NewService wires the auth service to its collaborators.
func NewService(store UserStore, gate SessionGate, pw config.PasswordConfig) *Service {
	return &Service{store: store, gate: gate, pw: pw}
}

// Register creates a new account and immediately issues a session for it.
// A duplicate email is a conflict, never an overwrite.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*AuthResponseDTO, error) {
	email := NormalizeEmail(dto.Email)

	hash, err := security.HashPassword(dto.Password, s.pw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.store.Create(ctx, users.CreateUserDTO{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(dto.DisplayName),
		Role:         models.RoleUser,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an account with that email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "create user")
	}

	issued, err := s.gate.Issue(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResponseDTO{
		User:      users.FromModel(user),
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
	}, nil
}

// Login exchanges credentials for a fresh session. Unknown emails, wrong
// passwords, and deactivated accounts all return the same unauthorized error
// so the response does not leak which accounts exist.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*AuthResponseDTO, error) {
	user, err := s.store.FindByEmail(ctx, NormalizeEmail(dto.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidCredentials()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "lookup user")
	}

	ok, err := security.VerifyPassword(dto.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok || !user.IsActive {
		return nil, invalidCredentials()
	}

	issued, err := s.gate.Issue(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResponseDTO{
		User:      users.FromModel(user),
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
	}, nil
}

// Logout revokes the session embedded in the token. Calling it twice with
// the same token succeeds both times.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.gate.Revoke(ctx, token)
}

// Me returns the profile of the authenticated user.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "lookup user")
	}
	return users.FromModel(user), nil
}

// NormalizeEmail lowercases and trims an email so lookups and the unique
// index agree on a canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func invalidCredentials() error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
}
