package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"duka/internal/domain"
	"duka/internal/parser"
	"duka/internal/service"
)

// MockSalesService is a mock implementation of service.SalesService.
type MockSalesService struct {
	mock.Mock
}

func (m *MockSalesService) ParseMessage(message string) service.ParseResult {
	args := m.Called(message)
	return args.Get(0).(service.ParseResult)
}

func (m *MockSalesService) ComputeReceipt(ctx context.Context, storeID uuid.UUID, items []parser.ParsedLineItem) (*domain.Receipt, error) {
	args := m.Called(ctx, storeID, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockSalesService) PreviewSale(ctx context.Context, storeID uuid.UUID, message string) (*domain.Receipt, error) {
	args := m.Called(ctx, storeID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockSalesService) RecordSale(ctx context.Context, storeID, userID uuid.UUID, message, customerName string) (*domain.Receipt, error) {
	args := m.Called(ctx, storeID, userID, message, customerName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockSalesService) ConfirmSale(ctx context.Context, storeID, receiptID uuid.UUID) (*domain.Receipt, error) {
	args := m.Called(ctx, storeID, receiptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockSalesService) CancelSale(ctx context.Context, storeID, receiptID uuid.UUID) error {
	args := m.Called(ctx, storeID, receiptID)
	return args.Error(0)
}

func (m *MockSalesService) GetReceipt(ctx context.Context, storeID, receiptID uuid.UUID) (*domain.Receipt, error) {
	args := m.Called(ctx, storeID, receiptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockSalesService) ListReceipts(ctx context.Context, storeID uuid.UUID, offset, limit int) ([]domain.Receipt, int, error) {
	args := m.Called(ctx, storeID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Receipt), args.Int(1), args.Error(2)
}
