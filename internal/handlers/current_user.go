package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dkravtsov/shop-backend/internal/models"
)

// CurrentUserTokener extracts the session token from a request.
type CurrentUserTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
}

// CurrentUserProvider resolves a session token to the user it belongs to.
type CurrentUserProvider interface {
	CurrentUser(ctx context.Context, token string) (*models.UserDB, error)
}

// CurrentUserResponse reports whether the request carries a live session
// swagger:model CurrentUserResponse
type CurrentUserResponse struct {
	// Whether the request is authenticated
	// default: true
	Authenticated bool `json:"authenticated"`

	// The authenticated user, omitted for anonymous requests
	User *models.UserDB `json:"user,omitempty"`
}

// NewCurrentUserHandler returns an HTTP handler reporting the session
// state. It never fails: anonymous, expired and invalid sessions all
// produce an authenticated:false body with status 200.
// @Summary Current user
// @Description Returns the authenticated user for the session cookie, or authenticated:false.
// @Tags auth
// @Produce json
// @Success 200 {object} handlers.CurrentUserResponse "Session state"
// @Router /api/user [get]
func NewCurrentUserHandler(tokenGetter CurrentUserTokener, svc CurrentUserProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		token, err := tokenGetter.GetTokenFromRequest(r.Context(), r)
		if err != nil {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(CurrentUserResponse{Authenticated: false})
			return
		}

		user, err := svc.CurrentUser(r.Context(), token)
		if err != nil {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(CurrentUserResponse{Authenticated: false})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(CurrentUserResponse{
			Authenticated: true,
			User:          user,
		})
	}
}
