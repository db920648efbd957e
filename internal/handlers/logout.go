package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dkravtsov/shop-backend/internal/logger"
	"github.com/dkravtsov/shop-backend/internal/middlewares"
)

// Logouter defines the interface that the logout service must implement.
type Logouter interface {
	Logout(ctx context.Context, sessionID string) error
}

// LogoutResponse represents a successful logout response
// swagger:model LogoutResponse
type LogoutResponse struct {
	// Success message
	// default: Logged out successfully
	Message string `json:"message"`
}

// LogoutErrorResponse represents an error response for logout
// swagger:model LogoutErrorResponse
type LogoutErrorResponse struct {
	// Error message
	// default: Internal server error
	Error string `json:"error"`
}

// NewLogoutHandler returns an HTTP handler that destroys the current
// session server-side and clears the session cookie. A token signed
// for a destroyed session no longer authenticates.
// @Summary User logout
// @Description Destroys the current session and clears the session cookie.
// @Tags auth
// @Produce json
// @Success 200 {object} handlers.LogoutResponse "Logged out successfully"
// @Failure 401 {object} handlers.LogoutErrorResponse "Unauthorized"
// @Router /api/logout [post]
// @Security CookieAuth
func NewLogoutHandler(svc Logouter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := middlewares.PrincipalFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(LogoutErrorResponse{Error: "authentication required"})
			return
		}

		if err := svc.Logout(r.Context(), principal.SessionID); err != nil {
			logger.Log.Errorw("failed to destroy session",
				"request_id", middlewares.RequestIDFromContext(r.Context()),
				"sessionID", principal.SessionID, "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(LogoutErrorResponse{Error: "Internal server error"})
			return
		}

		clearSessionCookie(w)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(LogoutResponse{Message: "Logged out successfully"})
	}
}
