package controllers

import (
	"net/http"

	"github.com/hoopscout/hoopscout-backend/api/responses"
	"github.com/hoopscout/hoopscout-backend/pkg/config"
	"github.com/hoopscout/hoopscout-backend/pkg/db"
	pkgerrors "github.com/hoopscout/hoopscout-backend/pkg/errors"
	"github.com/hoopscout/hoopscout-backend/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-HoopScout-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the datastore and, when configured, Redis. A missing
// Redis pinger is fine; a failing one is not.
func HealthReady(cfg *config.Config, database db.Pinger, redis db.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-HoopScout-Env", cfg.App.Env)

		if database != nil {
			if err := database.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "database unreachable"))
				return
			}
		}
		if redis != nil {
			if err := redis.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "redis unreachable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
