package models

import "time"

// ProductDB represents a product listing record.
// Price and ImageURL are nullable: a NULL price means "unset", which is
// distinct from an explicit zero.
type ProductDB struct {
	ProductID   int64     `json:"id" db:"product_id"`
	OwnerID     int64     `json:"owner_id" db:"owner_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Price       *float64  `json:"price" db:"price"`
	ImageURL    *string   `json:"image_url" db:"image_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// ProductCreateInput is the canonical product-creation request, produced by
// the handler from either a multipart form or a JSON body. RawPrice keeps the
// client's textual value; an empty string means the price was not supplied.
type ProductCreateInput struct {
	Title       string
	Description string
	RawPrice    string
	ImageURL    string
}
