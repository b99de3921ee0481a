package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/hoopscout/hoopscout-backend/pkg/auth"
	"github.com/hoopscout/hoopscout-backend/pkg/config"
	"github.com/hoopscout/hoopscout-backend/pkg/db/models"
	pkgerrors "github.com/hoopscout/hoopscout-backend/pkg/errors"
)

// Store is the persistence surface the gate needs. Sessions are append-only:
// Revoke flips the flag on an existing row and succeeds if already revoked.
type Store interface {
	Create(ctx context.Context, session *models.Session) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Session, error)
	Revoke(ctx context.Context, id uuid.UUID) error
}

// Gate turns bearer credentials into authenticated principals while keeping
// revocation server-side. A stateless JWT check alone cannot invalidate a
// token before its expiry claim; the gate consults the live session row on
// every request, and the row's stored expiry wins over the claim so a
// session's life can be shortened without reissuing tokens.
type Gate struct {
	store Store
	cfg   config.JWTConfig
	now   func() time.Time
}

// Issued is the result of minting a new session.
type Issued struct {
	Token     string
	ExpiresAt time.Time
}

// Validator is the read-only surface consumed by middleware.
type Validator interface {
	Validate(ctx context.Context, token string) (*pkgAuth.Claims, error)
}

// NewGate constructs a session gate backed by the sessions table.
func NewGate(store Store, cfg config.JWTConfig) (*Gate, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if cfg.SessionTTL() <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Gate{store: store, cfg: cfg, now: time.Now}, nil
}

// Issue persists a new session row for the user and returns a signed token
// whose jti is the row id and whose expiry claim mirrors the row's expiry.
func (g *Gate) Issue(ctx context.Context, user *models.User) (*Issued, error) {
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user is required")
	}

	now := g.now().UTC()
	sess := &models.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		ExpiresAt: now.Add(g.cfg.SessionTTL()),
	}
	if err := g.store.Create(ctx, sess); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "persist session")
	}

	token, err := pkgAuth.MintToken(g.cfg, now, pkgAuth.TokenPayload{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		SessionID: sess.ID.String(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}

	return &Issued{Token: token, ExpiresAt: sess.ExpiresAt}, nil
}

// Validate verifies the token cryptographically, then checks the embedded
// session against live state. Missing, revoked, or expired-in-store sessions
// all fail closed with an unauthorized error; store failures surface as
// unavailable so the caller can retry the whole request.
func (g *Gate) Validate(ctx context.Context, token string) (*pkgAuth.Claims, error) {
	claims, err := pkgAuth.ParseToken(g.cfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}

	sessionID, err := uuid.Parse(claims.SessionID())
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}

	sess, err := g.store.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "lookup session")
	}

	if !sess.Valid(g.now().UTC()) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired or revoked")
	}

	return claims, nil
}

// Revoke marks the token's session row revoked. The token is only decoded,
// not verified, and revoking an already-revoked session is harmless.
func (g *Gate) Revoke(ctx context.Context, token string) error {
	claims, err := pkgAuth.DecodeToken(token)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "malformed token")
	}

	sessionID, err := uuid.Parse(claims.SessionID())
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}

	if err := g.store.Revoke(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "revoke session")
	}
	return nil
}
