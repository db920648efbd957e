package repositories

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/dkravtsov/shop-backend/internal/logger"
	"github.com/dkravtsov/shop-backend/internal/models"
)

// Listings are newest-first. product_id breaks created_at ties so the order
// stays stable for rows inserted within the same timestamp tick.
const listOrder = "ORDER BY created_at DESC, product_id ASC"

// ProductWriteRepository handles product creation.
type ProductWriteRepository struct {
	db *sqlx.DB
}

func NewProductWriteRepository(db *sqlx.DB) *ProductWriteRepository {
	return &ProductWriteRepository{db: db}
}

// Save inserts a product owned by ownerID and returns the created record.
// Nil price and imageURL are stored as NULL.
func (r *ProductWriteRepository) Save(ctx context.Context, ownerID int64, title, description string, price *float64, imageURL *string) (*models.ProductDB, error) {
	const query = `
		INSERT INTO products (owner_id, title, description, price, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING product_id, owner_id, title, description, price, image_url, created_at
	`
	args := []any{ownerID, title, description, price, imageURL}

	var product models.ProductDB
	err := r.db.GetContext(ctx, &product, query, args...)

	logger.Log.Infow("product insert",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return &product, nil
}

// ProductReadRepository handles product listings.
type ProductReadRepository struct {
	db *sqlx.DB
}

func NewProductReadRepository(db *sqlx.DB) *ProductReadRepository {
	return &ProductReadRepository{db: db}
}

// ListAll returns every product, newest first.
func (r *ProductReadRepository) ListAll(ctx context.Context) ([]models.ProductDB, error) {
	query := `
		SELECT product_id, owner_id, title, description, price, image_url, created_at
		FROM products
		` + listOrder

	products := []models.ProductDB{}
	err := r.db.SelectContext(ctx, &products, query)

	logger.Log.Infow("product list",
		"query", strings.Join(strings.Fields(query), " "),
		"count", len(products),
		"error", err,
	)

	return products, err
}

// ListByOwner returns the owner's products, newest first.
func (r *ProductReadRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.ProductDB, error) {
	query := `
		SELECT product_id, owner_id, title, description, price, image_url, created_at
		FROM products
		WHERE owner_id = $1
		` + listOrder

	products := []models.ProductDB{}
	err := r.db.SelectContext(ctx, &products, query, ownerID)

	logger.Log.Infow("product list",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{ownerID},
		"count", len(products),
		"error", err,
	)

	return products, err
}
