package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func productColumns() []string {
	return []string{"product_id", "owner_id", "title", "description", "price", "image_url", "created_at"}
}

func TestProductWriteRepository_Save(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductWriteRepository(db)

	now := time.Now().UTC()
	price := 19.99
	image := "/static/uploads/1_7_chair.png"

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO products")).
		WithArgs(int64(7), "Chair", "wooden", price, image).
		WillReturnRows(sqlmock.NewRows(productColumns()).
			AddRow(int64(1), int64(7), "Chair", "wooden", 19.99, image, now))

	product, err := repo.Save(context.Background(), 7, "Chair", "wooden", &price, &image)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), product.ProductID)
	assert.Equal(t, int64(7), product.OwnerID)
	assert.NotNil(t, product.Price)
	assert.Equal(t, 19.99, *product.Price)
	assert.NotNil(t, product.ImageURL)
	assert.Equal(t, image, *product.ImageURL)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductWriteRepository_Save_NullPriceAndImage(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductWriteRepository(db)

	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO products")).
		WithArgs(int64(7), "Chair", "", nil, nil).
		WillReturnRows(sqlmock.NewRows(productColumns()).
			AddRow(int64(2), int64(7), "Chair", "", nil, nil, now))

	product, err := repo.Save(context.Background(), 7, "Chair", "", nil, nil)
	assert.NoError(t, err)
	assert.Nil(t, product.Price)
	assert.Nil(t, product.ImageURL)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductWriteRepository_Save_Error(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductWriteRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO products")).
		WillReturnError(errors.New("insert failed"))

	_, err := repo.Save(context.Background(), 7, "Chair", "", nil, nil)
	assert.Error(t, err)
}

func TestProductReadRepository_ListAll(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductReadRepository(db)

	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM products ORDER BY created_at DESC, product_id ASC").
		WillReturnRows(sqlmock.NewRows(productColumns()).
			AddRow(int64(2), int64(7), "Table", "", 49.5, nil, now).
			AddRow(int64(1), int64(7), "Chair", "", nil, nil, now.Add(-time.Minute)))

	products, err := repo.ListAll(context.Background())
	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, "Table", products[0].Title)
	assert.Equal(t, "Chair", products[1].Title)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductReadRepository_ListByOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductReadRepository(db)

	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM products WHERE owner_id = (.+) ORDER BY created_at DESC, product_id ASC").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(productColumns()).
			AddRow(int64(3), int64(7), "Lamp", "desk lamp", 12.0, nil, now))

	products, err := repo.ListByOwner(context.Background(), 7)
	assert.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, int64(7), products[0].OwnerID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductReadRepository_ListAll_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductReadRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM products").
		WillReturnRows(sqlmock.NewRows(productColumns()))

	products, err := repo.ListAll(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, products)
}
