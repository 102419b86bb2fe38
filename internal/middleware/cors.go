package middleware

import (
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
)

// default origins of the app dev servers (expo web, metro bundler)
var defaultAllowedOrigins = []string{
	"http://localhost:8081",
	"http://localhost:19006",
	"http://127.0.0.1:8081",
}

// Cors lets through the app's own clients. Native mobile clients send no
// Origin header and are always allowed.
func Cors(extraAllowedOrigins ...string) func(next http.Handler) http.Handler {
	allowedOrigins := make(map[string]bool)
	for _, origin := range append(defaultAllowedOrigins, extraAllowedOrigins...) {
		allowedOrigins[strings.TrimSuffix(origin, "/")] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			switch {
			case origin == "":
				// not a browser request
			case allowedOrigins[origin], strings.HasPrefix(origin, "exp://"):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Headers",
					"Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, Cache-Control",
				)
				w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT")
				w.Header().Add("Vary", "Origin")
			default:
				log.Warnf("CORS: origin not allowed for path [%s] and origin [%s]", r.URL.Path, origin)
				w.WriteHeader(http.StatusForbidden)
				return
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
