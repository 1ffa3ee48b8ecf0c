package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"duka/internal/domain"
)

// MockStoreRepo is a mock implementation of port.StoreRepository.
type MockStoreRepo struct {
	mock.Mock
}

func (m *MockStoreRepo) Create(ctx context.Context, store *domain.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

func (m *MockStoreRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Store), args.Error(1)
}

func (m *MockStoreRepo) GetBySlug(ctx context.Context, slug string) (*domain.Store, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Store), args.Error(1)
}
