package port

import (
	"context"

	"github.com/google/uuid"

	"duka/internal/domain"
)

// StoreRepository defines the contract for store persistence.
type StoreRepository interface {
	Create(ctx context.Context, store *domain.Store) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Store, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Store, error)
}

// UserRepository defines the contract for user persistence.
// All query methods include storeID to enforce store isolation.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, storeID, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, storeID uuid.UUID, email string) (*domain.User, error)
}

// ReceiptRepository defines the contract for receipt persistence.
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *domain.Receipt) error
	GetByID(ctx context.Context, storeID, receiptID uuid.UUID) (*domain.Receipt, error)
	ListByStore(ctx context.Context, storeID uuid.UUID, offset, limit int) ([]domain.Receipt, int, error)
	UpdateStatus(ctx context.Context, storeID, receiptID uuid.UUID, from, to domain.ReceiptStatus) error
}
