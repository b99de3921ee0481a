package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	authsvc "github.com/hoopscout/hoopscout-backend/internal/auth"
	cartstore "github.com/hoopscout/hoopscout-backend/internal/cart"
	productsvc "github.com/hoopscout/hoopscout-backend/internal/products"
	"github.com/hoopscout/hoopscout-backend/internal/rankings"
	"github.com/hoopscout/hoopscout-backend/internal/sessions"
	"github.com/hoopscout/hoopscout-backend/internal/users"
	"github.com/hoopscout/hoopscout-backend/pkg/auth/session"
	"github.com/hoopscout/hoopscout-backend/pkg/config"
	"github.com/hoopscout/hoopscout-backend/pkg/db/models"
	"github.com/hoopscout/hoopscout-backend/pkg/metrics"
)

type testEnv struct {
	handler http.Handler
	db      *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = conn.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Player{},
		&models.HighSchool{},
		&models.CircuitTeam{},
		&models.College{},
		&models.Product{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT = config.JWTConfig{Secret: "router-test-secret", Issuer: "hoopscout", TTLSeconds: 900}
	cfg.Password = config.PasswordConfig{BcryptCost: 4}

	gate, err := session.NewGate(sessions.NewRepository(conn), cfg.JWT)
	if err != nil {
		t.Fatalf("NewGate: %v", err)
	}

	productService := productsvc.NewService(productsvc.NewRepository(conn))

	handler := NewRouter(Deps{
		Config:       cfg,
		Metrics:      metrics.NewHTTPMetrics(),
		Gate:         gate,
		AuthService:  authsvc.NewService(users.NewRepository(conn), gate, cfg.Password),
		Players:      rankings.NewPlayerService(rankings.NewPlayerRepository(conn)),
		HighSchools:  rankings.NewHighSchoolService(rankings.NewHighSchoolRepository(conn)),
		CircuitTeams: rankings.NewCircuitTeamService(rankings.NewCircuitTeamRepository(conn)),
		Colleges:     rankings.NewCollegeService(rankings.NewCollegeRepository(conn)),
		Products:     productService,
		Cart:         cartstore.NewStore(productService),
	})

	return &testEnv{handler: handler, db: conn}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	if err := json.Unmarshal(envelope.Data, dest); err != nil {
		t.Fatalf("decode data: %v (%s)", err, rec.Body.String())
	}
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v (%s)", err, rec.Body.String())
	}
	return envelope.Error.Code
}

func (e *testEnv) register(t *testing.T, email string) (token string, userID string) {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/auth/register", "", map[string]any{
		"email":        email,
		"password":     "hunter2hunter2",
		"display_name": "Test User",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("register: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decodeData(t, rec, &resp)
	return resp.Token, resp.User.ID
}

func (e *testEnv) registerAdmin(t *testing.T, email string) string {
	t.Helper()

	_, userID := e.register(t, email)
	err := e.db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("role", models.RoleAdmin).Error
	if err != nil {
		t.Fatalf("promote admin: %v", err)
	}

	// Fresh login so the token carries the elevated role.
	rec := e.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    email,
		"password": "hunter2hunter2",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("admin login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	decodeData(t, rec, &resp)
	return resp.Token
}

func TestHealthAndDocs(t *testing.T) {
	env := newTestEnv(t)

	if rec := env.do(t, http.MethodGet, "/health/live", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("live: expected 200, got %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/health/ready", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("ready: expected 200, got %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/docs", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("docs: expected 200, got %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/metrics", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", rec.Code)
	}
}

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t)

	token, _ := env.register(t, "scout@example.com")

	rec := env.do(t, http.MethodGet, "/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var me struct {
		Email string `json:"email"`
	}
	decodeData(t, rec, &me)
	if me.Email != "scout@example.com" {
		t.Fatalf("unexpected profile email %q", me.Email)
	}

	// Duplicate registration conflicts.
	rec = env.do(t, http.MethodPost, "/auth/register", "", map[string]any{
		"email":        "scout@example.com",
		"password":     "hunter2hunter2",
		"display_name": "Dupe",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != "CONFLICT" {
		t.Fatalf("expected CONFLICT code, got %s", code)
	}

	// Logout revokes the session; the token stops working mid-lifetime.
	if rec := env.do(t, http.MethodPost, "/auth/logout", token, nil); rec.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/me", token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token must 401, got %d", rec.Code)
	}
}

func TestUnknownBodyFieldRejected(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/register", "", map[string]any{
		"email":        "scout@example.com",
		"password":     "hunter2hunter2",
		"display_name": "Scout",
		"nickname":     "unexpected",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR, got %s", code)
	}
}

func TestEntityWritesRequireAdmin(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]any{"name": "Jada Williams"}

	// Anonymous.
	if rec := env.do(t, http.MethodPost, "/players", "", payload); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rec.Code)
	}

	// Regular user.
	userToken, _ := env.register(t, "fan@example.com")
	if rec := env.do(t, http.MethodPost, "/players", userToken, payload); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", rec.Code)
	}

	// Admin.
	adminToken := env.registerAdmin(t, "admin@example.com")
	rec := env.do(t, http.MethodPost, "/players", adminToken, payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin upsert, got %d: %s", rec.Code, rec.Body.String())
	}

	// Reads stay public.
	if rec := env.do(t, http.MethodGet, "/players", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected public list to 200, got %d", rec.Code)
	}
}

func TestPlayerEndpointsRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.registerAdmin(t, "admin@example.com")

	rec := env.do(t, http.MethodPost, "/players", adminToken, map[string]any{
		"name":       "Aaliyah Chavez",
		"grade_year": 2026,
		"rank":       1,
		"ranks":      map[string]int{"2025": 1},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("upsert: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID uint `json:"id"`
	}
	decodeData(t, rec, &created)

	// Empty natural key fails validation.
	rec = env.do(t, http.MethodPost, "/players", adminToken, map[string]any{"name": "  "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank name, got %d", rec.Code)
	}

	// Patch merges the season map.
	rec = env.do(t, http.MethodPatch, "/players/"+itoa(created.ID), adminToken, map[string]any{
		"ranks": map[string]int{"2026": 2},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var patched struct {
		Ranks map[string]int `json:"ranks"`
	}
	decodeData(t, rec, &patched)
	if patched.Ranks["2025"] != 1 || patched.Ranks["2026"] != 2 {
		t.Fatalf("expected merged ranks, got %v", patched.Ranks)
	}

	// Unknown id is a 404.
	if rec := env.do(t, http.MethodGet, "/players/9999", "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	// Season-filtered list echoes the clamped window and season_rank.
	rec = env.do(t, http.MethodGet, "/players?season=2026&limit=10000", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var page struct {
		Items []struct {
			Name       string `json:"name"`
			SeasonRank *int   `json:"season_rank"`
		} `json:"items"`
		Total int64 `json:"total"`
		Limit int   `json:"limit"`
	}
	decodeData(t, rec, &page)
	if page.Total != 1 || page.Limit != 500 {
		t.Fatalf("expected total=1 limit=500, got total=%d limit=%d", page.Total, page.Limit)
	}
	if page.Items[0].SeasonRank == nil || *page.Items[0].SeasonRank != 2 {
		t.Fatalf("expected season_rank 2, got %v", page.Items[0].SeasonRank)
	}
}

func TestCartEndpoints(t *testing.T) {
	env := newTestEnv(t)

	product := models.Product{Name: "HoopScout Tee", PriceCents: 2500, IsActive: true}
	if err := env.db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	token, _ := env.register(t, "fan@example.com")

	// Listing products needs no auth.
	if rec := env.do(t, http.MethodGet, "/products", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("products: expected 200, got %d", rec.Code)
	}

	// The cart does.
	if rec := env.do(t, http.MethodGet, "/cart", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous cart, got %d", rec.Code)
	}

	add := func(qty int) *httptest.ResponseRecorder {
		return env.do(t, http.MethodPost, "/cart/items", token, map[string]any{
			"product_id": product.ID,
			"quantity":   qty,
		})
	}

	if rec := add(2); rec.Code != http.StatusOK {
		t.Fatalf("add: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rec := add(3)
	if rec.Code != http.StatusOK {
		t.Fatalf("second add: expected 200, got %d", rec.Code)
	}
	var cart struct {
		Items []struct {
			ProductID uint `json:"product_id"`
			Quantity  int  `json:"quantity"`
		} `json:"items"`
	}
	decodeData(t, rec, &cart)
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 5 {
		t.Fatalf("expected one merged line with quantity 5, got %+v", cart.Items)
	}

	if rec := add(0); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero quantity, got %d", rec.Code)
	}

	if rec := env.do(t, http.MethodDelete, "/cart", token, nil); rec.Code != http.StatusOK {
		t.Fatalf("clear: expected 200, got %d", rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/cart", token, nil)
	decodeData(t, rec, &cart)
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", cart.Items)
	}
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
