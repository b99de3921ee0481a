package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/hoopscout/hoopscout-backend/api/middleware"
	"github.com/hoopscout/hoopscout-backend/api/responses"
	authsvc "github.com/hoopscout/hoopscout-backend/internal/auth"
	pkgerrors "github.com/hoopscout/hoopscout-backend/pkg/errors"
	"github.com/hoopscout/hoopscout-backend/pkg/logger"
)

func Me(svc *authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		profile, err := svc.Me(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}
