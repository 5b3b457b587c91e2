package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sgkaarstdave/AbrechnungApp/internal/domain"
)

type contextKey string

const identityKey contextKey = "auth_identity"

// WithIdentity returns a context carrying id.
func WithIdentity(ctx context.Context, id *domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the verified identity, or nil when the
// request is not authenticated.
func IdentityFromContext(ctx context.Context) *domain.Identity {
	id, _ := ctx.Value(identityKey).(*domain.Identity)
	return id
}

// Authenticate returns middleware that validates bearer JWTs and stores the
// caller identity in the request context.
func Authenticate(jwtMgr *JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeError(w, domain.ErrUnauthenticated())
				return
			}
			claims, err := jwtMgr.ValidateToken(token)
			if err != nil {
				writeError(w, domain.ErrUnauthorized("Sitzung ungültig oder abgelaufen"))
				return
			}
			id, err := claims.Identity()
			if err != nil {
				writeError(w, domain.ErrUnauthorized("Sitzung ungültig oder abgelaufen"))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireAdmin rejects callers without the admin role. Must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := IdentityFromContext(r.Context())
		if id == nil {
			writeError(w, domain.ErrUnauthenticated())
			return
		}
		if !id.IsAdmin() {
			writeError(w, domain.ErrForbidden("Keine Berechtigung"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func writeError(w http.ResponseWriter, e *domain.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status)
	_ = json.NewEncoder(w).Encode(e)
}
