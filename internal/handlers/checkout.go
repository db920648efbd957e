package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dkravtsov/shop-backend/internal/logger"
	"github.com/dkravtsov/shop-backend/internal/middlewares"
	"github.com/dkravtsov/shop-backend/internal/models"
	"github.com/dkravtsov/shop-backend/internal/services"
)

// CheckoutStarter defines the interface that the checkout service must
// implement.
type CheckoutStarter interface {
	Start(ctx context.Context, userID int64, items []models.CartItem, successURL, cancelURL string) (string, error)
}

// CheckoutRequest represents the JSON body for starting a checkout
// swagger:model CheckoutRequest
type CheckoutRequest struct {
	// Cart items
	// required: true
	Items []models.CartItem `json:"items"`

	// Redirect target after a completed payment
	SuccessURL string `json:"success_url"`

	// Redirect target after an abandoned payment
	CancelURL string `json:"cancel_url"`
}

// CheckoutResponse represents a successful checkout session response
// swagger:model CheckoutResponse
type CheckoutResponse struct {
	// Hosted payment page URL
	// default: https://checkout.stripe.com/c/pay/cs_test_123
	URL string `json:"url"`
}

// CheckoutErrorResponse represents an error response for checkout
// swagger:model CheckoutErrorResponse
type CheckoutErrorResponse struct {
	// Error message
	// default: No valid items in cart
	Error string `json:"error"`
}

// NewCheckoutHandler returns an HTTP handler that opens a hosted
// payment session for the caller's cart.
// @Summary Start a checkout session
// @Description Creates a hosted payment session for the cart items and returns the payment page URL.
// @Tags checkout
// @Accept json
// @Produce json
// @Param checkoutRequest body handlers.CheckoutRequest true "Checkout Request"
// @Success 200 {object} handlers.CheckoutResponse "Payment page URL"
// @Failure 400 {object} handlers.CheckoutErrorResponse "No valid items in cart"
// @Failure 401 {object} handlers.CheckoutErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.CheckoutErrorResponse "Payment provider failure"
// @Router /api/create-checkout-session [post]
// @Security CookieAuth
func NewCheckoutHandler(svc CheckoutStarter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := middlewares.PrincipalFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(CheckoutErrorResponse{Error: "authentication required"})
			return
		}

		var req CheckoutRequest
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		if err := dec.Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(CheckoutErrorResponse{Error: "Invalid request body"})
			return
		}

		url, err := svc.Start(r.Context(), principal.UserID, req.Items, req.SuccessURL, req.CancelURL)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrNoValidItems):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(CheckoutErrorResponse{Error: "No valid items in cart"})
			default:
				logger.Log.Errorw("failed to create checkout session",
					"request_id", middlewares.RequestIDFromContext(r.Context()),
					"userID", principal.UserID, "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(CheckoutErrorResponse{Error: err.Error()})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(CheckoutResponse{URL: url})
	}
}
