package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	pkgAuth "github.com/hoopscout/hoopscout-backend/pkg/auth"
	"github.com/hoopscout/hoopscout-backend/pkg/db/models"
	pkgerrors "github.com/hoopscout/hoopscout-backend/pkg/errors"
)

type stubValidator struct {
	claims *pkgAuth.Claims
	err    error
}

func (s *stubValidator) Validate(context.Context, string) (*pkgAuth.Claims, error) {
	return s.claims, s.err
}

func TestAuthSeedsContext(t *testing.T) {
	userID := uuid.New()
	sessionID := uuid.NewString()

	claims := &pkgAuth.Claims{
		UserID: userID,
		Email:  "scout@example.com",
		Role:   models.RoleAdmin,
	}
	claims.ID = sessionID

	var gotUser, gotRole, gotSession string
	handler := Auth(&stubValidator{claims: claims}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
		gotSession = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer some.token.here")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotUser != userID.String() {
		t.Fatalf("expected user id %s, got %q", userID, gotUser)
	}
	if gotRole != string(models.RoleAdmin) {
		t.Fatalf("expected admin role, got %q", gotRole)
	}
	if gotSession != sessionID {
		t.Fatalf("expected session id %s, got %q", sessionID, gotSession)
	}
}

func TestAuthMissingHeader(t *testing.T) {
	handler := Auth(&stubValidator{}, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run without credentials")
	}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthRejectedToken(t *testing.T) {
	validator := &stubValidator{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired or revoked")}
	handler := Auth(validator, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run for a rejected token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer revoked.token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole("admin", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/players", nil)
	req = req.WithContext(context.WithValue(req.Context(), ctxRole, "user"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/players", nil)
	req = req.WithContext(context.WithValue(req.Context(), ctxRole, "admin"))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for admin, got %d", rec.Code)
	}
}
