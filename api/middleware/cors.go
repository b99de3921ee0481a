package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000", // local SPA dev server
	"https://hoopscout.app",
	"https://www.hoopscout.app",
}

// CORS returns middleware that applies the API's allowed origin policy. When
// origins are configured they replace the defaults.
func CORS(origins []string) func(http.Handler) http.Handler {
	allowed := defaultCORSOrigins
	if len(origins) > 0 {
		allowed = origins
	}
	return cors.New(cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
