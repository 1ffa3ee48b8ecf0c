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
)

type storeRepo struct {
	db *sqlx.DB
}

// NewStoreRepo creates a new PostgreSQL-backed StoreRepository.
func NewStoreRepo(db *sqlx.DB) port.StoreRepository {
	return &storeRepo{db: db}
}

func (r *storeRepo) Create(ctx context.Context, store *domain.Store) error {
	store.ID = uuid.New()
	now := time.Now().UTC()
	store.CreatedAt = now
	store.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO stores (id, name, slug, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		store.ID, store.Name, store.Slug, store.IsActive, store.CreatedAt, store.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicateStoreSlug
		}
		return fmt.Errorf("storeRepo.Create: %w", err)
	}
	return nil
}

func (r *storeRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Store, error) {
	var store domain.Store
	err := r.db.GetContext(ctx, &store, "SELECT * FROM stores WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("storeRepo.GetByID: %w", err)
	}
	return &store, nil
}

func (r *storeRepo) GetBySlug(ctx context.Context, slug string) (*domain.Store, error) {
	var store domain.Store
	err := r.db.GetContext(ctx, &store, "SELECT * FROM stores WHERE slug = $1", slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("storeRepo.GetBySlug: %w", err)
	}
	return &store, nil
}
