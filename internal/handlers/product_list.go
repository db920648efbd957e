package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dkravtsov/shop-backend/internal/logger"
	"github.com/dkravtsov/shop-backend/internal/middlewares"
	"github.com/dkravtsov/shop-backend/internal/models"
)

// ProductLister defines the interface that the product listing service
// must implement.
type ProductLister interface {
	ListAll(ctx context.Context) ([]models.ProductDB, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.ProductDB, error)
}

// ProductListErrorResponse represents an error response for product listings
// swagger:model ProductListErrorResponse
type ProductListErrorResponse struct {
	// Error message
	// default: Internal server error
	Error string `json:"error"`
}

// NewProductListHandler returns an HTTP handler for the public catalog,
// newest first.
// @Summary List all products
// @Description Returns every product in the catalog, newest first.
// @Tags products
// @Produce json
// @Success 200 {array} models.ProductDB "Products"
// @Router /api/products [get]
func NewProductListHandler(svc ProductLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.ListAll(r.Context())
		if err != nil {
			logger.Log.Errorw("failed to list products",
				"request_id", middlewares.RequestIDFromContext(r.Context()), "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ProductListErrorResponse{Error: "Internal server error"})
			return
		}
		writeProducts(w, products)
	}
}

// NewMyProductListHandler returns an HTTP handler listing only the
// authenticated user's products.
// @Summary List own products
// @Description Returns the authenticated user's products, newest first.
// @Tags products
// @Produce json
// @Success 200 {array} models.ProductDB "Products"
// @Failure 401 {object} handlers.ProductListErrorResponse "Unauthorized"
// @Router /api/my-products [get]
// @Security CookieAuth
func NewMyProductListHandler(svc ProductLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := middlewares.PrincipalFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ProductListErrorResponse{Error: "authentication required"})
			return
		}

		products, err := svc.ListByOwner(r.Context(), principal.UserID)
		if err != nil {
			logger.Log.Errorw("failed to list own products",
				"request_id", middlewares.RequestIDFromContext(r.Context()),
				"userID", principal.UserID, "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ProductListErrorResponse{Error: "Internal server error"})
			return
		}
		writeProducts(w, products)
	}
}

// writeProducts renders a listing as a JSON array, never null.
func writeProducts(w http.ResponseWriter, products []models.ProductDB) {
	if products == nil {
		products = []models.ProductDB{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(products)
}
