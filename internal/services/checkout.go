package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/dkravtsov/shop-backend/internal/logger"
	"github.com/dkravtsov/shop-backend/internal/models"
)

// ErrNoValidItems is returned when every cart entry was filtered out before
// the external call.
var ErrNoValidItems = errors.New("no valid line items")

// CheckoutSessionCreator delegates hosted-session creation to the payment processor.
type CheckoutSessionCreator interface {
	CreateSession(ctx context.Context, items []models.LineItem, successURL, cancelURL string) (string, error)
}

// CheckoutService maps carts to processor line items and starts hosted sessions.
type CheckoutService struct {
	creator     CheckoutSessionCreator
	baseURL     string
	kafkaWriter KafkaWriter
}

// NewCheckoutService creates a new CheckoutService. baseURL supplies the
// default success/cancel redirect targets.
func NewCheckoutService(creator CheckoutSessionCreator, baseURL string, kafkaWriter KafkaWriter) *CheckoutService {
	return &CheckoutService{
		creator:     creator,
		baseURL:     baseURL,
		kafkaWriter: kafkaWriter,
	}
}

// Start converts the cart to line items and creates a hosted checkout session,
// returning the redirect URL. Carts that filter down to nothing fail with
// ErrNoValidItems and never reach the processor.
func (s *CheckoutService) Start(ctx context.Context, userID int64, items []models.CartItem, successURL, cancelURL string) (string, error) {
	lineItems := BuildLineItems(items)
	if len(lineItems) == 0 {
		return "", ErrNoValidItems
	}

	if successURL == "" {
		successURL = s.baseURL + "/success.html"
	}
	if cancelURL == "" {
		cancelURL = s.baseURL + "/cancel.html"
	}

	url, err := s.creator.CreateSession(ctx, lineItems, successURL, cancelURL)
	if err != nil {
		logger.Log.Errorw("checkout session creation failed", "user_id", userID, "err", err)
		return "", err
	}

	publishEvent(ctx, s.kafkaWriter, models.Event{
		EventID:   uuid.NewString(),
		Timestamp: time.Now().Unix(),
		UserID:    userID,
		Operation: "checkout_started",
		Subject:   strconv.Itoa(len(lineItems)),
	})

	return url, nil
}

// BuildLineItems converts cart entries to processor line items. Entries with
// price <= 0 are dropped silently, a soft filter rather than a validation
// error. Amounts are rounded to minor currency units.
func BuildLineItems(items []models.CartItem) []models.LineItem {
	lineItems := make([]models.LineItem, 0, len(items))
	for _, item := range items {
		name := item.Title
		if name == "" {
			name = item.Name
		}
		if name == "" {
			name = "Product"
		}

		price := priceOf(item.Price)
		if price <= 0 {
			continue
		}

		lineItems = append(lineItems, models.LineItem{
			Name:       name,
			UnitAmount: int64(math.Round(price * 100)),
			Quantity:   qtyOf(item.Qty),
		})
	}
	return lineItems
}

// priceOf reads a price that may arrive as a JSON number or a string.
// Unparseable values become 0 and get filtered, not rejected.
func priceOf(v any) float64 {
	switch p := v.(type) {
	case nil:
		return 0
	case float64:
		return p
	case json.Number:
		f, err := p.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		f, err := strconv.ParseFloat(fmt.Sprint(p), 64)
		if err != nil {
			return 0
		}
		return f
	}
}

// qtyOf reads a quantity, defaulting to 1 when absent, zero, or unparseable.
func qtyOf(v any) int64 {
	var q int64
	switch n := v.(type) {
	case nil:
		q = 0
	case float64:
		q = int64(n)
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			if f, ferr := n.Float64(); ferr == nil {
				i = int64(f)
			}
		}
		q = i
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			i = 0
		}
		q = i
	}
	if q == 0 {
		return 1
	}
	return q
}
