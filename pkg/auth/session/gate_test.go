package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hoopscout/hoopscout-backend/pkg/config"
	"github.com/hoopscout/hoopscout-backend/pkg/db/models"
	pkgerrors "github.com/hoopscout/hoopscout-backend/pkg/errors"
)

type memoryStore struct {
	sessions map[uuid.UUID]*models.Session
	findErr  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: map[uuid.UUID]*models.Session{}}
}

func (m *memoryStore) Create(_ context.Context, s *models.Session) error {
	copied := *s
	m.sessions[s.ID] = &copied
	return nil
}

func (m *memoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Session, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	s, ok := m.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *memoryStore) Revoke(_ context.Context, id uuid.UUID) error {
	if s, ok := m.sessions[id]; ok {
		s.Revoked = true
	}
	return nil
}

func testGate(t *testing.T, store Store) *Gate {
	t.Helper()
	gate, err := NewGate(store, config.JWTConfig{Secret: "secret", Issuer: "hoopscout", TTLSeconds: 3600})
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}
	return gate
}

func testUser() *models.User {
	return &models.User{
		ID:       uuid.New(),
		Email:    "scout@example.com",
		Role:     models.RoleUser,
		IsActive: true,
	}
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	if typed.Code() != code {
		t.Fatalf("code = %s, want %s", typed.Code(), code)
	}
}

func TestIssueThenValidate(t *testing.T) {
	store := newMemoryStore()
	gate := testGate(t, store)

	issued, err := gate.Issue(context.Background(), testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if len(store.sessions) != 1 {
		t.Fatalf("expected one session row, got %d", len(store.sessions))
	}
	if !issued.ExpiresAt.After(time.Now()) {
		t.Fatal("expiry not in the future")
	}

	claims, err := gate.Validate(context.Background(), issued.Token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if _, ok := store.sessions[uuid.MustParse(claims.SessionID())]; !ok {
		t.Fatal("claims session id does not match stored row")
	}
}

func TestDistinctSessionsPerIssue(t *testing.T) {
	store := newMemoryStore()
	gate := testGate(t, store)
	user := testUser()

	first, err := gate.Issue(context.Background(), user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	second, err := gate.Issue(context.Background(), user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	c1, err := gate.Validate(context.Background(), first.Token)
	if err != nil {
		t.Fatalf("validate first: %v", err)
	}
	c2, err := gate.Validate(context.Background(), second.Token)
	if err != nil {
		t.Fatalf("validate second: %v", err)
	}
	if c1.SessionID() == c2.SessionID() {
		t.Fatal("expected distinct session ids per issue")
	}
}

func TestValidateAfterRevokeFails(t *testing.T) {
	store := newMemoryStore()
	gate := testGate(t, store)

	issued, err := gate.Issue(context.Background(), testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if err := gate.Revoke(context.Background(), issued.Token); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	// The signature and the expiry claim are both still good; only the live
	// session state can reject it.
	_, err = gate.Validate(context.Background(), issued.Token)
	expectCode(t, err, pkgerrors.CodeUnauthorized)

	// Revoking twice is harmless.
	if err := gate.Revoke(context.Background(), issued.Token); err != nil {
		t.Fatalf("second revoke: %v", err)
	}
}

func TestStoredExpiryIsAuthoritative(t *testing.T) {
	store := newMemoryStore()
	gate := testGate(t, store)

	issued, err := gate.Issue(context.Background(), testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Shorten the session server-side; the token claim still has ~an hour.
	for _, s := range store.sessions {
		s.ExpiresAt = time.Now().Add(-time.Minute)
	}

	_, err = gate.Validate(context.Background(), issued.Token)
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestValidateUnknownSession(t *testing.T) {
	store := newMemoryStore()
	gate := testGate(t, store)

	issued, err := gate.Issue(context.Background(), testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	store.sessions = map[uuid.UUID]*models.Session{}

	_, err = gate.Validate(context.Background(), issued.Token)
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestValidateStoreFailureIsUnavailable(t *testing.T) {
	store := newMemoryStore()
	gate := testGate(t, store)

	issued, err := gate.Issue(context.Background(), testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	store.findErr = context.DeadlineExceeded

	_, err = gate.Validate(context.Background(), issued.Token)
	expectCode(t, err, pkgerrors.CodeUnavailable)
}

func TestValidateGarbageToken(t *testing.T) {
	gate := testGate(t, newMemoryStore())
	_, err := gate.Validate(context.Background(), "not-a-token")
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}
