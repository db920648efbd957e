package services

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/dkravtsov/shop-backend/internal/logger"
	"github.com/dkravtsov/shop-backend/internal/models"
)

var (
	// ErrTitleRequired is returned when a product-creation request carries no title.
	ErrTitleRequired = errors.New("title required")
	// ErrInvalidPrice is returned when a supplied price does not parse as a finite number.
	ErrInvalidPrice = errors.New("invalid price")
)

// ProductWriter defines write operations for products.
type ProductWriter interface {
	Save(ctx context.Context, ownerID int64, title, description string, price *float64, imageURL *string) (*models.ProductDB, error)
}

// ProductReader defines read operations for products.
type ProductReader interface {
	ListAll(ctx context.Context) ([]models.ProductDB, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.ProductDB, error)
}

// ProductService validates canonical product input and persists listings.
type ProductService struct {
	writer      ProductWriter
	reader      ProductReader
	kafkaWriter KafkaWriter
}

// NewProductService creates a new ProductService.
func NewProductService(writer ProductWriter, reader ProductReader, kafkaWriter KafkaWriter) *ProductService {
	return &ProductService{
		writer:      writer,
		reader:      reader,
		kafkaWriter: kafkaWriter,
	}
}

// Create validates the canonical input and persists a product owned by ownerID.
// An absent price stays unset (NULL), which is distinct from an explicit zero.
// An empty image reference is normalized to NULL.
func (s *ProductService) Create(ctx context.Context, ownerID int64, in models.ProductCreateInput) (*models.ProductDB, error) {
	if in.Title == "" {
		return nil, ErrTitleRequired
	}

	var price *float64
	if in.RawPrice != "" {
		v, err := strconv.ParseFloat(in.RawPrice, 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, ErrInvalidPrice
		}
		price = &v
	}

	var imageURL *string
	if in.ImageURL != "" {
		imageURL = &in.ImageURL
	}

	product, err := s.writer.Save(ctx, ownerID, in.Title, in.Description, price, imageURL)
	if err != nil {
		logger.Log.Errorw("failed to save product", "owner_id", ownerID, "err", err)
		return nil, err
	}

	publishEvent(ctx, s.kafkaWriter, models.Event{
		EventID:   uuid.NewString(),
		Timestamp: time.Now().Unix(),
		UserID:    ownerID,
		Operation: "product_created",
		Subject:   strconv.FormatInt(product.ProductID, 10),
	})

	return product, nil
}

// ListAll returns every product, newest first.
func (s *ProductService) ListAll(ctx context.Context) ([]models.ProductDB, error) {
	products, err := s.reader.ListAll(ctx)
	if err != nil {
		logger.Log.Errorw("failed to list products", "err", err)
		return nil, err
	}
	return products, nil
}

// ListByOwner returns the owner's products, newest first.
func (s *ProductService) ListByOwner(ctx context.Context, ownerID int64) ([]models.ProductDB, error) {
	products, err := s.reader.ListByOwner(ctx, ownerID)
	if err != nil {
		logger.Log.Errorw("failed to list products by owner", "owner_id", ownerID, "err", err)
		return nil, err
	}
	return products, nil
}
