package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/JonMunkholm/teamroster/internal/config"
	"github.com/JonMunkholm/teamroster/internal/logging"
)

// APIKeyAuth returns middleware that validates the X-API-Key header against
// configured keys. If RequireAPIKey is false, all requests pass through.
func APIKeyAuth(cfg config.SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !cfg.RequireAPIKey {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get("X-API-Key")

			status, code, msg := 0, "", ""
			switch {
			case apiKey == "":
				status, code, msg = http.StatusUnauthorized, "AUTH001", "missing API key"
			case !isValidAPIKey(apiKey, cfg.APIKeys):
				status, code, msg = http.StatusForbidden, "AUTH002", "invalid API key"
			}
			if status != 0 {
				logging.FromContext(r.Context()).Warn("auth: "+msg,
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				authFailures.WithLabelValues(code).Inc()
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				_, _ = w.Write([]byte(`{"error":"` + msg + `","code":"` + code + `"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isValidAPIKey checks key against every configured key in constant time.
func isValidAPIKey(key string, validKeys []string) bool {
	valid := 0
	for _, validKey := range validKeys {
		valid |= subtle.ConstantTimeCompare([]byte(key), []byte(validKey))
	}
	return valid == 1
}
