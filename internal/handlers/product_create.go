package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/dkravtsov/shop-backend/internal/logger"
	"github.com/dkravtsov/shop-backend/internal/middlewares"
	"github.com/dkravtsov/shop-backend/internal/models"
	"github.com/dkravtsov/shop-backend/internal/services"
	"github.com/dkravtsov/shop-backend/internal/storage"
)

// maxUploadBytes bounds the multipart memory buffer for image uploads.
const maxUploadBytes = 16 << 20

// ProductCreator defines the interface that the product service must implement.
type ProductCreator interface {
	Create(ctx context.Context, ownerID int64, in models.ProductCreateInput) (*models.ProductDB, error)
}

// ImageSaver persists an uploaded product image and returns its public URL.
type ImageSaver interface {
	Save(ownerID int64, filename string, r io.Reader) (string, error)
}

// productCreateJSON is the JSON body for product creation. Legacy
// clients send prodName/prodDesc/prodPrice/dlink, newer ones send
// title/description/price/image_url; both spellings are accepted and
// price may arrive as a number or a string.
type productCreateJSON struct {
	Title       string `json:"title"`
	ProdName    string `json:"prodName"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ProdDesc    string `json:"prodDesc"`
	Price       any    `json:"price"`
	ProdPrice   any    `json:"prodPrice"`
	ImageURL    string `json:"image_url"`
	DLink       string `json:"dlink"`
}

// ProductCreateResponse represents a successful product creation response
// swagger:model ProductCreateResponse
type ProductCreateResponse struct {
	// Success message
	// default: Product created successfully
	Message string `json:"message"`

	// Created product
	Product *models.ProductDB `json:"product"`
}

// ProductCreateErrorResponse represents an error response for product creation
// swagger:model ProductCreateErrorResponse
type ProductCreateErrorResponse struct {
	// Error message
	// default: Title is required
	Error string `json:"error"`
}

// NewProductCreateHandler returns an HTTP handler for product creation.
// It accepts either multipart/form-data with an optional image file or
// a JSON body with an optional image URL.
// @Summary Create a product
// @Description Creates a product owned by the authenticated user. Accepts multipart form data with an image upload or a JSON body.
// @Tags products
// @Accept json
// @Accept mpfd
// @Produce json
// @Success 201 {object} handlers.ProductCreateResponse "Product created"
// @Failure 400 {object} handlers.ProductCreateErrorResponse "Invalid input"
// @Failure 401 {object} handlers.ProductCreateErrorResponse "Unauthorized"
// @Router /api/products [post]
// @Security CookieAuth
func NewProductCreateHandler(svc ProductCreator, images ImageSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := middlewares.PrincipalFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ProductCreateErrorResponse{Error: "authentication required"})
			return
		}

		var in models.ProductCreateInput
		var err error
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			in, err = parseMultipartProduct(r, principal.UserID, images)
		} else {
			in, err = parseJSONProduct(r)
		}
		if err != nil {
			status := http.StatusBadRequest
			msg := "Invalid request body"
			switch {
			case errors.Is(err, storage.ErrFileTypeNotAllowed):
				msg = "File type not allowed"
			case errors.Is(err, services.ErrInvalidPrice):
				msg = "Invalid price"
			case errors.Is(err, errBadJSON):
			default:
				logger.Log.Errorw("failed to read product input",
					"request_id", middlewares.RequestIDFromContext(r.Context()),
					"userID", principal.UserID, "err", err)
				status = http.StatusInternalServerError
				msg = "Internal server error"
			}
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(ProductCreateErrorResponse{Error: msg})
			return
		}

		product, err := svc.Create(r.Context(), principal.UserID, in)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrTitleRequired):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ProductCreateErrorResponse{Error: "Title is required"})
			case errors.Is(err, services.ErrInvalidPrice):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ProductCreateErrorResponse{Error: "Invalid price"})
			default:
				logger.Log.Errorw("failed to create product",
					"request_id", middlewares.RequestIDFromContext(r.Context()),
					"userID", principal.UserID, "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ProductCreateErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(ProductCreateResponse{
			Message: "Product created successfully",
			Product: product,
		})
	}
}

var errBadJSON = errors.New("invalid json body")

func parseMultipartProduct(r *http.Request, ownerID int64, images ImageSaver) (models.ProductCreateInput, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return models.ProductCreateInput{}, errBadJSON
	}

	in := models.ProductCreateInput{
		Title:       firstOf(r.FormValue("title"), r.FormValue("prodName"), r.FormValue("name")),
		Description: firstOf(r.FormValue("description"), r.FormValue("prodDesc")),
		RawPrice:    firstOf(r.FormValue("price"), r.FormValue("prodPrice")),
	}

	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		url, saveErr := images.Save(ownerID, header.Filename, file)
		if saveErr != nil {
			return models.ProductCreateInput{}, saveErr
		}
		in.ImageURL = url
	case errors.Is(err, http.ErrMissingFile):
		// image is optional
	default:
		return models.ProductCreateInput{}, errBadJSON
	}

	return in, nil
}

func parseJSONProduct(r *http.Request) (models.ProductCreateInput, error) {
	var req productCreateJSON
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return models.ProductCreateInput{}, errBadJSON
	}

	price, err := rawNumber(req.Price)
	if err != nil {
		return models.ProductCreateInput{}, err
	}
	if price == "" {
		if price, err = rawNumber(req.ProdPrice); err != nil {
			return models.ProductCreateInput{}, err
		}
	}

	return models.ProductCreateInput{
		Title:       firstOf(req.Title, req.ProdName, req.Name),
		Description: firstOf(req.Description, req.ProdDesc),
		RawPrice:    price,
		ImageURL:    firstOf(req.ImageURL, req.DLink),
	}, nil
}

// firstOf returns the first non-empty value.
func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// rawNumber renders a decoded JSON value as its textual form, so that
// both "price": 10.5 and "price": "10.5" reach validation identically.
// A price that is present but not a scalar is rejected, not treated as
// absent.
func rawNumber(v any) (string, error) {
	switch n := v.(type) {
	case nil:
		return "", nil
	case json.Number:
		return n.String(), nil
	case string:
		return n, nil
	default:
		return "", services.ErrInvalidPrice
	}
}
