package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"

	"github.com/sgkaarstdave/AbrechnungApp/internal/domain"
)

// RequireSharedSecret returns middleware that admits only requests carrying
// "Authorization: Bearer <secret>". An empty secret rejects every request.
func RequireSharedSecret(secret string) func(http.Handler) http.Handler {
	want := sha256.Sum256([]byte(secret))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if secret == "" || !ok {
				writeError(w, domain.ErrUnauthorized("Nicht autorisiert"))
				return
			}
			got := sha256.Sum256([]byte(token))
			if subtle.ConstantTimeCompare(got[:], want[:]) != 1 {
				writeError(w, domain.ErrUnauthorized("Nicht autorisiert"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
