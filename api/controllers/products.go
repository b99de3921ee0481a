package controllers

import (
	"net/http"

	"github.com/hoopscout/hoopscout-backend/api/responses"
	productsvc "github.com/hoopscout/hoopscout-backend/internal/products"
	"github.com/hoopscout/hoopscout-backend/pkg/logger"
)

// ListProducts serves the purchase page's active catalog.
func ListProducts(svc *productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}
