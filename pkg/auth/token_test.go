package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hoopscout/hoopscout-backend/pkg/config"
	"github.com/hoopscout/hoopscout-backend/pkg/db/models"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "hoopscout", TTLSeconds: 3600}
}

func TestMintAndParseRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()
	sessionID := uuid.NewString()

	token, err := MintToken(cfg, time.Now(), TokenPayload{
		UserID:    userID,
		Email:     "scout@example.com",
		Role:      models.RoleAdmin,
		SessionID: sessionID,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("user id = %s", claims.UserID)
	}
	if claims.Email != "scout@example.com" {
		t.Fatalf("email = %s", claims.Email)
	}
	if claims.Role != models.RoleAdmin {
		t.Fatalf("role = %s", claims.Role)
	}
	if claims.SessionID() != sessionID {
		t.Fatalf("session id = %s", claims.SessionID())
	}
}

func TestParseRejectsExpiredClaim(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintToken(cfg, time.Now().Add(-2*time.Hour), TokenPayload{
		UserID: uuid.New(),
		Role:   models.RoleUser,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ParseToken(cfg, token); err == nil {
		t.Fatal("expected expired-claim rejection")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := MintToken(testJWTConfig(), time.Now(), TokenPayload{
		UserID: uuid.New(),
		Role:   models.RoleUser,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	bad := testJWTConfig()
	bad.Secret = "other"
	if _, err := ParseToken(bad, token); err == nil {
		t.Fatal("expected signature rejection")
	}
}

func TestDecodeTokenIgnoresExpiry(t *testing.T) {
	cfg := testJWTConfig()
	sessionID := uuid.NewString()
	token, err := MintToken(cfg, time.Now().Add(-2*time.Hour), TokenPayload{
		UserID:    uuid.New(),
		Role:      models.RoleUser,
		SessionID: sessionID,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := DecodeToken(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if claims.SessionID() != sessionID {
		t.Fatalf("session id = %s", claims.SessionID())
	}
}

func TestMintValidatesInputs(t *testing.T) {
	cfg := testJWTConfig()
	if _, err := MintToken(cfg, time.Now(), TokenPayload{UserID: uuid.New(), Role: "coach"}); err == nil {
		t.Fatal("expected invalid role rejection")
	}
	cfg.TTLSeconds = 0
	if _, err := MintToken(cfg, time.Now(), TokenPayload{UserID: uuid.New(), Role: models.RoleUser}); err == nil {
		t.Fatal("expected ttl rejection")
	}
}
