package httpx

import (
	"net/http"
	"strings"

	"github.com/raumfrei/offerd/pkg/cryptox"
	"github.com/raumfrei/offerd/pkg/slogx"
)

// AdminAuth guards administrative endpoints with a pre-shared bearer key.
// keyHash is the PHC-format Argon2id hash of the key (see cryptox.HashKey);
// the raw key never appears in configuration. An empty keyHash disables the
// guarded endpoints entirely rather than leaving them open.
func AdminAuth(keyHash string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			if keyHash == "" {
				WriteJSON(w, http.StatusNotFound, map[string]string{
					"error":             "not_found",
					"error_description": "Administrative access is not configured",
				})
				return
			}

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer key")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			if err := cryptox.VerifyKey(raw, keyHash); err != nil {
				log.Warn("admin key verification failed")
				writeBearerError(w, "key verification failed")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"error":             "invalid_token",
		"error_description": desc,
	})
}
