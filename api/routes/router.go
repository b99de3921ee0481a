package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hoopscout/hoopscout-backend/api/controllers"
	"github.com/hoopscout/hoopscout-backend/api/middleware"
	authsvc "github.com/hoopscout/hoopscout-backend/internal/auth"
	cartstore "github.com/hoopscout/hoopscout-backend/internal/cart"
	productsvc "github.com/hoopscout/hoopscout-backend/internal/products"
	"github.com/hoopscout/hoopscout-backend/internal/rankings"
	"github.com/hoopscout/hoopscout-backend/pkg/auth/session"
	"github.com/hoopscout/hoopscout-backend/pkg/config"
	"github.com/hoopscout/hoopscout-backend/pkg/db"
	"github.com/hoopscout/hoopscout-backend/pkg/db/models"
	"github.com/hoopscout/hoopscout-backend/pkg/logger"
	"github.com/hoopscout/hoopscout-backend/pkg/metrics"
	"github.com/hoopscout/hoopscout-backend/pkg/redis"
)

// Deps bundles everything the router wires together. Redis is optional; a
// nil client disables the auth rate limiter and its readiness check.
type Deps struct {
	Config  *config.Config
	Logger  *logger.Logger
	DB      db.Pinger
	Redis   *redis.Client
	Metrics *metrics.HTTPMetrics

	Gate         session.Validator
	AuthService  *authsvc.Service
	Players      *rankings.PlayerService
	HighSchools  *rankings.HighSchoolService
	CircuitTeams *rankings.CircuitTeamService
	Colleges     *rankings.CollegeService
	Products     *productsvc.Service
	Cart         *cartstore.Store
}

// NewRouter assembles the HTTP surface: public reads and auth endpoints,
// then a bearer-gated group for session-scoped and admin operations.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.Metrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	var limiter middleware.RateLimiterStore
	if d.Redis != nil {
		limiter = d.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, d.DB, redisPinger(d.Redis), logg))
	})
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}
	r.Get("/docs", controllers.Docs())

	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, limiter, logg)).
			Post("/register", controllers.Register(d.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, limiter, logg)).
			Post("/login", controllers.Login(d.AuthService, logg))
		r.With(middleware.Auth(d.Gate, logg)).
			Post("/logout", controllers.Logout(d.AuthService, logg))
	})

	// Public reads.
	r.Get("/players", controllers.ListPlayers(d.Players, logg))
	r.Get("/players/{id}", controllers.GetPlayer(d.Players, logg))
	r.Get("/high-schools", controllers.ListHighSchools(d.HighSchools, logg))
	r.Get("/high-schools/{id}", controllers.GetHighSchool(d.HighSchools, logg))
	r.Get("/circuit-teams", controllers.ListCircuitTeams(d.CircuitTeams, logg))
	r.Get("/circuit-teams/{id}", controllers.GetCircuitTeam(d.CircuitTeams, logg))
	r.Get("/colleges", controllers.ListColleges(d.Colleges, logg))
	r.Get("/colleges/{id}", controllers.GetCollege(d.Colleges, logg))
	r.Get("/products", controllers.ListProducts(d.Products, logg))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(d.Gate, logg))

		r.Get("/me", controllers.Me(d.AuthService, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(d.Cart, logg))
			r.Delete("/", controllers.ClearCart(d.Cart, logg))
			r.Post("/items", controllers.AddCartItem(d.Cart, logg))
			r.Delete("/items/{productID}", controllers.RemoveCartItem(d.Cart, logg))
		})

		// Entity writes are for data admins only.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(string(models.RoleAdmin), logg))

			r.Post("/players", controllers.UpsertPlayer(d.Players, logg))
			r.Patch("/players/{id}", controllers.PatchPlayer(d.Players, logg))
			r.Put("/players/{id}", controllers.ReplacePlayer(d.Players, logg))

			r.Post("/high-schools", controllers.UpsertHighSchool(d.HighSchools, logg))
			r.Patch("/high-schools/{id}", controllers.PatchHighSchool(d.HighSchools, logg))
			r.Put("/high-schools/{id}", controllers.ReplaceHighSchool(d.HighSchools, logg))

			r.Post("/circuit-teams", controllers.UpsertCircuitTeam(d.CircuitTeams, logg))
			r.Patch("/circuit-teams/{id}", controllers.PatchCircuitTeam(d.CircuitTeams, logg))
			r.Put("/circuit-teams/{id}", controllers.ReplaceCircuitTeam(d.CircuitTeams, logg))

			r.Post("/colleges", controllers.UpsertCollege(d.Colleges, logg))
			r.Patch("/colleges/{id}", controllers.PatchCollege(d.Colleges, logg))
			r.Put("/colleges/{id}", controllers.ReplaceCollege(d.Colleges, logg))
		})
	})

	return r
}

// redisPinger keeps the readiness endpoint free of a typed-nil interface
// when Redis is not configured.
func redisPinger(client *redis.Client) db.Pinger {
	if client == nil {
		return nil
	}
	return client
}
