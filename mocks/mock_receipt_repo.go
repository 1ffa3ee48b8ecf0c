package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"duka/internal/domain"
)

// MockReceiptRepo is a mock implementation of port.ReceiptRepository.
type MockReceiptRepo struct {
	mock.Mock
}

func (m *MockReceiptRepo) Create(ctx context.Context, receipt *domain.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockReceiptRepo) GetByID(ctx context.Context, storeID, receiptID uuid.UUID) (*domain.Receipt, error) {
	args := m.Called(ctx, storeID, receiptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockReceiptRepo) ListByStore(ctx context.Context, storeID uuid.UUID, offset, limit int) ([]domain.Receipt, int, error) {
	args := m.Called(ctx, storeID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Receipt), args.Int(1), args.Error(2)
}

func (m *MockReceiptRepo) UpdateStatus(ctx context.Context, storeID, receiptID uuid.UUID, from, to domain.ReceiptStatus) error {
	args := m.Called(ctx, storeID, receiptID, from, to)
	return args.Error(0)
}
