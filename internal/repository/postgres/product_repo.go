package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"duka/internal/domain"
	"duka/internal/port"
	"duka/internal/textnorm"
)

type productRepo struct {
	db *sqlx.DB
}

// NewProductRepo creates a new PostgreSQL-backed ProductRepository.
func NewProductRepo(db *sqlx.DB) port.ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, product *domain.Product) error {
	product.ID = uuid.New()
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO products (id, store_id, sku, name, brand, category, unit_price, stock_quantity, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		product.ID, product.StoreID, product.SKU, product.Name, product.Brand,
		product.Category, product.UnitPrice, product.StockQuantity,
		product.CreatedAt, product.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicateSKU
		}
		return fmt.Errorf("productRepo.Create: %w", err)
	}
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, storeID, productID uuid.UUID) (*domain.Product, error) {
	var product domain.Product
	err := r.db.GetContext(ctx, &product,
		"SELECT * FROM products WHERE id = $1 AND store_id = $2", productID, storeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("productRepo.GetByID: %w", err)
	}
	return &product, nil
}

// Search retrieves candidates whose name or brand contains any token of
// the normalized query. It returns an empty slice, not an error, when
// nothing matches.
func (r *productRepo) Search(ctx context.Context, storeID uuid.UUID, query string) ([]domain.Product, error) {
	tokens := textnorm.Tokens(query)
	if len(tokens) == 0 {
		return []domain.Product{}, nil
	}

	var clauses []string
	args := []interface{}{storeID}
	for _, tok := range tokens {
		args = append(args, "%"+tok+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf("name ILIKE $%d OR brand ILIKE $%d", n, n))
	}

	q := fmt.Sprintf(
		"SELECT * FROM products WHERE store_id = $1 AND (%s) ORDER BY name",
		strings.Join(clauses, " OR "))

	var products []domain.Product
	if err := r.db.SelectContext(ctx, &products, q, args...); err != nil {
		return nil, fmt.Errorf("productRepo.Search: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

func (r *productRepo) ListByStore(ctx context.Context, storeID uuid.UUID, offset, limit int) ([]domain.Product, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM products WHERE store_id = $1", storeID)
	if err != nil {
		return nil, 0, fmt.Errorf("productRepo.ListByStore count: %w", err)
	}

	var products []domain.Product
	err = r.db.SelectContext(ctx, &products,
		"SELECT * FROM products WHERE store_id = $1 ORDER BY name LIMIT $2 OFFSET $3",
		storeID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("productRepo.ListByStore: %w", err)
	}
	return products, total, nil
}

func (r *productRepo) Update(ctx context.Context, product *domain.Product) error {
	product.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx,
		`UPDATE products
		 SET sku = $1, name = $2, brand = $3, category = $4, unit_price = $5,
		     stock_quantity = $6, updated_at = $7
		 WHERE id = $8 AND store_id = $9`,
		product.SKU, product.Name, product.Brand, product.Category,
		product.UnitPrice, product.StockQuantity, product.UpdatedAt,
		product.ID, product.StoreID)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicateSKU
		}
		return fmt.Errorf("productRepo.Update: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("productRepo.Update rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, storeID, productID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM products WHERE id = $1 AND store_id = $2", productID, storeID)
	if err != nil {
		return fmt.Errorf("productRepo.Delete: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("productRepo.Delete rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DecrementStock applies a conditional atomic decrement: the update only
// lands when stock_quantity >= quantity at commit time, so concurrent
// sales of the same product cannot lose updates.
func (r *productRepo) DecrementStock(ctx context.Context, storeID, productID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return domain.ErrInvalidStockChange
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE products
		 SET stock_quantity = stock_quantity - $1, updated_at = $2
		 WHERE id = $3 AND store_id = $4 AND stock_quantity >= $1`,
		quantity, time.Now().UTC(), productID, storeID)
	if err != nil {
		return fmt.Errorf("productRepo.DecrementStock: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("productRepo.DecrementStock rows: %w", err)
	}
	if rows == 0 {
		// Either the product is gone or stock fell below quantity.
		if _, gerr := r.GetByID(ctx, storeID, productID); gerr != nil {
			return gerr
		}
		return domain.ErrInsufficientStock
	}
	return nil
}

// RestoreStock adds units back after a confirmation aborted partway
// through its decrements.
func (r *productRepo) RestoreStock(ctx context.Context, storeID, productID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return domain.ErrInvalidStockChange
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE products
		 SET stock_quantity = stock_quantity + $1, updated_at = $2
		 WHERE id = $3 AND store_id = $4`,
		quantity, time.Now().UTC(), productID, storeID)
	if err != nil {
		return fmt.Errorf("productRepo.RestoreStock: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("productRepo.RestoreStock rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
