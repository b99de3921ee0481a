package sessions

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hoopscout/hoopscout-backend/pkg/db/models"
)

// Repository persists session rows. Rows are append-only: there is no delete,
// only the revoked flag update, so the table doubles as an audit trail.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a sessions repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new session row.
func (r *Repository) Create(ctx context.Context, session *models.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// FindByID loads a session row by its id (the token jti).
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	var session models.Session
	if err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// Revoke marks the session revoked. Unknown ids and already-revoked rows are
// both no-ops, which makes logout idempotent.
func (r *Repository) Revoke(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ?", id).
		UpdateColumn("revoked", true).Error
}
