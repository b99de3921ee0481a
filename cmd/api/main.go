package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-retry"
	"go.uber.org/multierr"

	"github.com/hoopscout/hoopscout-backend/api/routes"
	authsvc "github.com/hoopscout/hoopscout-backend/internal/auth"
	cartstore "github.com/hoopscout/hoopscout-backend/internal/cart"
	productsvc "github.com/hoopscout/hoopscout-backend/internal/products"
	"github.com/hoopscout/hoopscout-backend/internal/rankings"
	"github.com/hoopscout/hoopscout-backend/internal/sessions"
	"github.com/hoopscout/hoopscout-backend/internal/users"
	"github.com/hoopscout/hoopscout-backend/pkg/auth/session"
	"github.com/hoopscout/hoopscout-backend/pkg/config"
	"github.com/hoopscout/hoopscout-backend/pkg/db"
	"github.com/hoopscout/hoopscout-backend/pkg/logger"
	"github.com/hoopscout/hoopscout-backend/pkg/metrics"
	"github.com/hoopscout/hoopscout-backend/pkg/migrate"
	"github.com/hoopscout/hoopscout-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := connectDB(context.Background(), cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "redis not configured, auth rate limiting disabled")
	}

	gate, err := session.NewGate(sessions.NewRepository(dbClient.DB()), cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session gate", err)
		os.Exit(1)
	}

	productService := productsvc.NewService(productsvc.NewRepository(dbClient.DB()))

	handler := routes.NewRouter(routes.Deps{
		Config:       cfg,
		Logger:       logg,
		DB:           dbClient,
		Redis:        redisClient,
		Metrics:      metrics.NewHTTPMetrics(),
		Gate:         gate,
		AuthService:  authsvc.NewService(users.NewRepository(dbClient.DB()), gate, cfg.Password),
		Players:      rankings.NewPlayerService(rankings.NewPlayerRepository(dbClient.DB())),
		HighSchools:  rankings.NewHighSchoolService(rankings.NewHighSchoolRepository(dbClient.DB())),
		CircuitTeams: rankings.NewCircuitTeamService(rankings.NewCircuitTeamRepository(dbClient.DB())),
		Colleges:     rankings.NewCollegeService(rankings.NewCollegeRepository(dbClient.DB())),
		Products:     productService,
		Cart:         cartstore.NewStore(productService),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}

	if err := closeAll(dbClient, redisClient); err != nil {
		logg.Error(ctx, "error closing resources", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}

// connectDB dials the datastore with exponential backoff so the API survives
// the database coming up a few seconds later than the process.
func connectDB(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*db.Client, error) {
	backoff := retry.WithMaxRetries(5, retry.NewExponential(500*time.Millisecond))

	var client *db.Client
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		client, err = db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
		if err != nil {
			logg.Warn(logg.WithField(ctx, "error", err.Error()), "database not ready, retrying")
			return retry.RetryableError(err)
		}
		if err := client.Ping(ctx); err != nil {
			logg.Warn(logg.WithField(ctx, "error", err.Error()), "database ping failed, retrying")
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func closeAll(dbClient *db.Client, redisClient *redis.Client) error {
	var errs error
	if dbClient != nil {
		errs = multierr.Append(errs, dbClient.Close())
	}
	if redisClient != nil {
		errs = multierr.Append(errs, redisClient.Close())
	}
	return errs
}
