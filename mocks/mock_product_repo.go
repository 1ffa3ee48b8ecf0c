package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"duka/internal/domain"
)

// MockProductRepo is a mock implementation of port.ProductRepository.
type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) Search(ctx context.Context, storeID uuid.UUID, query string) ([]domain.Product, error) {
	args := m.Called(ctx, storeID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepo) GetByID(ctx context.Context, storeID, productID uuid.UUID) (*domain.Product, error) {
	args := m.Called(ctx, storeID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepo) DecrementStock(ctx context.Context, storeID, productID uuid.UUID, quantity int) error {
	args := m.Called(ctx, storeID, productID, quantity)
	return args.Error(0)
}

func (m *MockProductRepo) RestoreStock(ctx context.Context, storeID, productID uuid.UUID, quantity int) error {
	args := m.Called(ctx, storeID, productID, quantity)
	return args.Error(0)
}

func (m *MockProductRepo) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepo) ListByStore(ctx context.Context, storeID uuid.UUID, offset, limit int) ([]domain.Product, int, error) {
	args := m.Called(ctx, storeID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *MockProductRepo) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepo) Delete(ctx context.Context, storeID, productID uuid.UUID) error {
	args := m.Called(ctx, storeID, productID)
	return args.Error(0)
}
