package facades

import (
	"context"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/dkravtsov/shop-backend/internal/logger"
	"github.com/dkravtsov/shop-backend/internal/models"
)

// Currency for all checkout sessions. Amounts are in its minor unit (paise).
const Currency = "inr"

// StripeCheckoutFacade creates hosted checkout sessions via the Stripe API.
// One synchronous call per checkout; no retries, the caller surfaces failures.
type StripeCheckoutFacade struct {
	api *client.API
}

// NewStripeCheckoutFacade creates a facade with its own Stripe client.
func NewStripeCheckoutFacade(secretKey string) *StripeCheckoutFacade {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeCheckoutFacade{api: api}
}

// CreateSession creates a payment-mode checkout session for the given line
// items and returns the hosted page URL the client should be redirected to.
func (f *StripeCheckoutFacade) CreateSession(ctx context.Context, items []models.LineItem, successURL, cancelURL string) (string, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
				UnitAmount: stripe.Int64(item.UnitAmount),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(successURL),
		CancelURL:          stripe.String(cancelURL),
	}
	params.Context = ctx

	session, err := f.api.CheckoutSessions.New(params)
	if err != nil {
		logger.Log.Errorw("failed to create checkout session", "error", err)
		return "", err
	}

	return session.URL, nil
}
