package port

import (
	"context"

	"github.com/google/uuid"

	"duka/internal/domain"
)

// Catalog is the narrow read-plus-decrement capability the sales engine
// needs. Search retrieves candidates by substring/token overlap on name
// and brand; an empty result is not an error. DecrementStock is a
// conditional atomic update that fails with domain.ErrInsufficientStock
// when fewer than quantity units remain at commit time. RestoreStock
// adds units back, undoing a decrement from a confirmation that could
// not complete.
type Catalog interface {
	Search(ctx context.Context, storeID uuid.UUID, query string) ([]domain.Product, error)
	GetByID(ctx context.Context, storeID, productID uuid.UUID) (*domain.Product, error)
	DecrementStock(ctx context.Context, storeID, productID uuid.UUID, quantity int) error
	RestoreStock(ctx context.Context, storeID, productID uuid.UUID, quantity int) error
}

// ProductRepository extends Catalog with the management surface.
// All query methods include storeID to enforce store isolation at the
// data layer.
type ProductRepository interface {
	Catalog
	Create(ctx context.Context, product *domain.Product) error
	ListByStore(ctx context.Context, storeID uuid.UUID, offset, limit int) ([]domain.Product, int, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, storeID, productID uuid.UUID) error
}
