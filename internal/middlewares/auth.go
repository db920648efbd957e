package middlewares

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dkravtsov/shop-backend/internal/logger"
	"github.com/dkravtsov/shop-backend/internal/models"
)

// TokenExtractor pulls the session token out of an incoming request.
type TokenExtractor interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
}

// Authenticator resolves a session token to a request principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.Principal, error)
}

// contextKey is an unexported type for keys in context.
type contextKey struct{}

var principalKey = contextKey{}

// AuthMiddleware rejects unauthenticated requests before any business logic
// runs and stores the resolved principal in the request context.
func AuthMiddleware(extractor TokenExtractor, auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, err := extractor.GetTokenFromRequest(ctx, r)
			if err != nil {
				logger.Log.Infow("authorization failed", "request_id", RequestIDFromContext(ctx), "err", err)
				writeUnauthenticated(w)
				return
			}

			principal, err := auth.Authenticate(ctx, token)
			if err != nil {
				logger.Log.Infow("authorization failed", "request_id", RequestIDFromContext(ctx), "err", err)
				writeUnauthenticated(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, principal)))
		})
	}
}

func writeUnauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
}

// WithPrincipal stores the principal in the context.
func WithPrincipal(ctx context.Context, principal models.Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// PrincipalFromContext retrieves the principal placed by AuthMiddleware.
func PrincipalFromContext(ctx context.Context) (models.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(models.Principal)
	return principal, ok
}
