package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/dkravtsov/shop-backend/internal/models"
	"github.com/dkravtsov/shop-backend/internal/services"
)

func newCheckoutService(t *testing.T) (*services.CheckoutService, *services.MockCheckoutSessionCreator, *services.MockKafkaWriter) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	creator := services.NewMockCheckoutSessionCreator(ctrl)
	kafkaWriter := services.NewMockKafkaWriter(ctrl)

	return services.NewCheckoutService(creator, "http://127.0.0.1:8080", kafkaWriter), creator, kafkaWriter
}

func TestBuildLineItems(t *testing.T) {
	t.Run("zero-priced entries are dropped, not rejected", func(t *testing.T) {
		items := services.BuildLineItems([]models.CartItem{
			{Title: "A", Price: float64(10), Qty: float64(2)},
			{Title: "B", Price: float64(0), Qty: float64(1)},
		})

		assert.Equal(t, []models.LineItem{
			{Name: "A", UnitAmount: 1000, Quantity: 2},
		}, items)
	})

	t.Run("negative price dropped", func(t *testing.T) {
		items := services.BuildLineItems([]models.CartItem{
			{Title: "A", Price: float64(-5)},
		})
		assert.Empty(t, items)
	})

	t.Run("string and json.Number prices accepted", func(t *testing.T) {
		items := services.BuildLineItems([]models.CartItem{
			{Title: "A", Price: "19.99"},
			{Title: "B", Price: json.Number("5")},
		})

		assert.Equal(t, []models.LineItem{
			{Name: "A", UnitAmount: 1999, Quantity: 1},
			{Name: "B", UnitAmount: 500, Quantity: 1},
		}, items)
	})

	t.Run("unparseable price defaults to zero and is dropped", func(t *testing.T) {
		items := services.BuildLineItems([]models.CartItem{
			{Title: "A", Price: "abc"},
			{Title: "B", Price: nil},
		})
		assert.Empty(t, items)
	})

	t.Run("minor units are rounded", func(t *testing.T) {
		items := services.BuildLineItems([]models.CartItem{
			{Title: "A", Price: float64(10.999)},
		})
		assert.Equal(t, int64(1100), items[0].UnitAmount)
	})

	t.Run("name falls back from title to name to Product", func(t *testing.T) {
		items := services.BuildLineItems([]models.CartItem{
			{Name: "from-name", Price: float64(1)},
			{Price: float64(1)},
		})
		assert.Equal(t, "from-name", items[0].Name)
		assert.Equal(t, "Product", items[1].Name)
	})

	t.Run("falsy quantity defaults to 1", func(t *testing.T) {
		items := services.BuildLineItems([]models.CartItem{
			{Title: "A", Price: float64(1), Qty: float64(0)},
			{Title: "B", Price: float64(1)},
			{Title: "C", Price: float64(1), Qty: "nope"},
			{Title: "D", Price: float64(1), Qty: float64(3)},
		})
		assert.Equal(t, int64(1), items[0].Quantity)
		assert.Equal(t, int64(1), items[1].Quantity)
		assert.Equal(t, int64(1), items[2].Quantity)
		assert.Equal(t, int64(3), items[3].Quantity)
	})
}

func TestCheckoutService_Start(t *testing.T) {
	t.Run("delegates to the processor and returns its URL", func(t *testing.T) {
		svc, creator, kafkaWriter := newCheckoutService(t)

		expected := []models.LineItem{{Name: "A", UnitAmount: 1000, Quantity: 2}}
		creator.EXPECT().
			CreateSession(gomock.Any(), expected, "http://shop.example/ok", "http://shop.example/no").
			Return("https://checkout.stripe.com/pay/cs_123", nil)
		kafkaWriter.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)

		url, err := svc.Start(context.Background(), 7, []models.CartItem{
			{Title: "A", Price: float64(10), Qty: float64(2)},
			{Title: "B", Price: float64(0), Qty: float64(1)},
		}, "http://shop.example/ok", "http://shop.example/no")

		assert.NoError(t, err)
		assert.Equal(t, "https://checkout.stripe.com/pay/cs_123", url)
	})

	t.Run("default redirect URLs come from the base URL", func(t *testing.T) {
		svc, creator, kafkaWriter := newCheckoutService(t)

		creator.EXPECT().
			CreateSession(gomock.Any(), gomock.Any(), "http://127.0.0.1:8080/success.html", "http://127.0.0.1:8080/cancel.html").
			Return("https://checkout.stripe.com/pay/cs_456", nil)
		kafkaWriter.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)

		_, err := svc.Start(context.Background(), 7, []models.CartItem{
			{Title: "A", Price: float64(10)},
		}, "", "")
		assert.NoError(t, err)
	})

	t.Run("all entries filtered means no external call", func(t *testing.T) {
		svc, _, _ := newCheckoutService(t)

		_, err := svc.Start(context.Background(), 7, []models.CartItem{
			{Title: "A", Price: float64(0)},
			{Title: "B", Price: float64(-1)},
		}, "", "")
		assert.ErrorIs(t, err, services.ErrNoValidItems)
	})

	t.Run("empty cart means no external call", func(t *testing.T) {
		svc, _, _ := newCheckoutService(t)

		_, err := svc.Start(context.Background(), 7, nil, "", "")
		assert.ErrorIs(t, err, services.ErrNoValidItems)
	})

	t.Run("processor failure surfaces, no event published", func(t *testing.T) {
		svc, creator, _ := newCheckoutService(t)

		creator.EXPECT().
			CreateSession(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", errors.New("stripe unavailable"))

		_, err := svc.Start(context.Background(), 7, []models.CartItem{
			{Title: "A", Price: float64(10)},
		}, "", "")
		assert.EqualError(t, err, "stripe unavailable")
	})
}
