package controllers

import (
	"net/http"

	"github.com/hoopscout/hoopscout-backend/api/middleware"
	"github.com/hoopscout/hoopscout-backend/api/responses"
	"github.com/hoopscout/hoopscout-backend/api/validators"
	cartstore "github.com/hoopscout/hoopscout-backend/internal/cart"
	pkgerrors "github.com/hoopscout/hoopscout-backend/pkg/errors"
	"github.com/hoopscout/hoopscout-backend/pkg/logger"
)

func sessionIDOrError(r *http.Request) (string, error) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "session context missing")
	}
	return sessionID, nil
}

func GetCart(store *cartstore.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionIDOrError(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": store.Items(sessionID)})
	}
}

func AddCartItem(store *cartstore.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionIDOrError(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartstore.AddItemDTO
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := store.Add(r.Context(), sessionID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}

func RemoveCartItem(store *cartstore.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionIDOrError(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParseURLID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := store.Remove(sessionID, productID)
		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}

func ClearCart(store *cartstore.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionIDOrError(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.Clear(sessionID)
		responses.WriteSuccess(w, map[string]any{"items": []cartstore.Item{}})
	}
}
