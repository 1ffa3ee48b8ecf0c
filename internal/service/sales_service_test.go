package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"duka/internal/config"
	"duka/internal/domain"
	"duka/internal/matcher"
	"duka/internal/parser"
	"duka/internal/service"
	"duka/internal/textnorm"
	"duka/mocks"
)

func testSalesConfig() config.SalesConfig {
	return config.SalesConfig{
		TaxRate:           0.05,
		StrictStock:       false,
		MatchThreshold:    0.3,
		LookupConcurrency: 4,
	}
}

func newSalesService(catalog *mocks.MockProductRepo, receipts *mocks.MockReceiptRepo, cfg config.SalesConfig) service.SalesService {
	m := matcher.New(textnorm.NewDefaultCorrector(), cfg.MatchThreshold)
	return service.NewSalesService(catalog, receipts, m, cfg)
}

func breadProduct(storeID uuid.UUID, stock int) domain.Product {
	return domain.Product{
		ID:            uuid.New(),
		StoreID:       storeID,
		SKU:           "BRD-001",
		Name:          "Bread",
		Brand:         "Lobels",
		UnitPrice:     1.50,
		StockQuantity: stock,
	}
}

func milkProduct(storeID uuid.UUID, stock int) domain.Product {
	return domain.Product{
		ID:            uuid.New(),
		StoreID:       storeID,
		SKU:           "MLK-001",
		Name:          "Milk",
		Brand:         "Dairibord",
		UnitPrice:     1.20,
		StockQuantity: stock,
	}
}

func TestComputeReceipt_TotalsAndTax(t *testing.T) {
	storeID := uuid.New()
	catalog := new(mocks.MockProductRepo)
	receipts := new(mocks.MockReceiptRepo)
	svc := newSalesService(catalog, receipts, testSalesConfig())

	bread := breadProduct(storeID, 40)
	milk := milkProduct(storeID, 30)
	catalog.On("Search", mock.Anything, storeID, "bread").Return([]domain.Product{bread}, nil)
	catalog.On("Search", mock.Anything, storeID, "milk").Return([]domain.Product{milk}, nil)

	items, warnings := parser.ExtractLines("2 bread @ 1.50 and 1 milk")
	require.Len(t, items, 2)
	require.Empty(t, warnings)

	receipt, err := svc.ComputeReceipt(context.Background(), storeID, items)
	require.NoError(t, err)

	require.Len(t, receipt.Lines, 2)
	assert.Equal(t, "Bread", receipt.Lines[0].ProductName)
	assert.Equal(t, 2, receipt.Lines[0].Quantity)
	assert.InDelta(t, 3.00, receipt.Lines[0].LineTotal, 0.0001)
	assert.Equal(t, "Milk", receipt.Lines[1].ProductName)

	assert.InDelta(t, 4.20, receipt.Subtotal, 0.0001)
	assert.InDelta(t, 0.21, receipt.TaxAmount, 0.0001)
	assert.InDelta(t, 4.41, receipt.Total, 0.0001)
	assert.InDelta(t, receipt.Subtotal+receipt.TaxAmount, receipt.Total, 0.0001)
	assert.Empty(t, receipt.Warnings)
	assert.Empty(t, receipt.Errors)
}

func TestComputeReceipt_PriceHintDivergenceWarns(t *testing.T) {
	storeID := uuid.New()
	catalog := new(mocks.MockProductRepo)
	svc := newSalesService(catalog, new(mocks.MockReceiptRepo), testSalesConfig())

	catalog.On("Search", mock.Anything, storeID, "bread").
		Return([]domain.Product{breadProduct(storeID, 40)}, nil)

	items, _ := parser.ExtractLines("2 bread @ 1.25")
	receipt, err := svc.ComputeReceipt(context.Background(), storeID, items)
	require.NoError(t, err)

	// catalog price wins
	require.Len(t, receipt.Lines, 1)
	assert.InDelta(t, 1.50, receipt.Lines[0].UnitPrice, 0.0001)
	assert.InDelta(t, 3.00, receipt.Lines[0].LineTotal, 0.0001)

	require.Len(t, receipt.Warnings, 1)
	assert.Contains(t, receipt.Warnings[0], "1.25")
	assert.Contains(t, receipt.Warnings[0], "1.50")
}

func TestComputeReceipt_MatchingHintNoWarning(t *testing.T) {
	storeID := uuid.New()
	catalog := new(mocks.MockProductRepo)
	svc := newSalesService(catalog, new(mocks.MockReceiptRepo), testSalesConfig())

	catalog.On("Search", mock.Anything, storeID, "bread").
		Return([]domain.Product{breadProduct(storeID, 40)}, nil)

	items, _ := parser.ExtractLines("2 bread @ 1.50")
	receipt, err := svc.ComputeReceipt(context.Background(), storeID, items)
	require.NoError(t, err)
	assert.Empty(t, receipt.Warnings)
}

func TestComputeReceipt_UnmatchedItemExcludedWithError(t *testing.T) {
	storeID := uuid.New()
	catalog := new(mocks.MockProductRepo)
	svc := newSalesService(catalog, new(mocks.MockReceiptRepo), testSalesConfig())

	catalog.On("Search", mock.Anything, storeID, "bread").
		Return([]domain.Product{breadProduct(storeID, 40)}, nil)
	catalog.On("Search", mock.Anything, storeID, mock.Anything).
		Return([]domain.Product{}, nil)

	items, _ := parser.ExtractLines("2 bread, 1 wheelbarrow")
	receipt, err := svc.ComputeReceipt(context.Background(), storeID, items)
	require.NoError(t, err)

	// the matched line is still computed
	require.Len(t, receipt.Lines, 1)
	assert.InDelta(t, 3.00, receipt.Subtotal, 0.0001)

	require.Len(t, receipt.Errors, 1)
	assert.Contains(t, receipt.Errors[0], "no matching product")
	assert.Contains(t, receipt.Errors[0], "wheelbarrow")
}

func TestComputeReceipt_StockShortfallWarnsByDefault(t *testing.T) {
	storeID := uuid.New()
	catalog := new(mocks.MockProductRepo)
	svc := newSalesService(catalog, new(mocks.MockReceiptRepo), testSalesConfig())

	catalog.On("Search", mock.Anything, storeID, "bread").
		Return([]domain.Product{breadProduct(storeID, 2)}, nil)

	items, _ := parser.ExtractLines("5 bread")
	receipt, err := svc.ComputeReceipt(context.Background(), storeID, items)
	require.NoError(t, err)

	// line is kept; the receipt records the shortfall
	require.Len(t, receipt.Lines, 1)
	assert.Equal(t, 5, receipt.Lines[0].Quantity)
	require.Len(t, receipt.Warnings, 1)
	assert.Contains(t, receipt.Warnings[0], "requested 5, available 2")
	assert.Empty(t, receipt.Errors)
}

func TestComputeReceipt_StockShortfallExcludesInStrictMode(t *testing.T) {
	storeID := uuid.New()
	cfg := testSalesConfig()
	cfg.StrictStock = true
	catalog := new(mocks.MockProductRepo)
	svc := newSalesService(catalog, new(mocks.MockReceiptRepo), cfg)

	catalog.On("Search", mock.Anything, storeID, "bread").
		Return([]domain.Product{breadProduct(storeID, 2)}, nil)

	items, _ := parser.ExtractLines("5 bread")
	receipt, err := svc.ComputeReceipt(context.Background(), storeID, items)
	require.NoError(t, err)

	assert.Empty(t, receipt.Lines)
	assert.InDelta(t, 0, receipt.Total, 0.0001)
	require.Len(t, receipt.Errors, 1)
	assert.Contains(t, receipt.Errors[0], "insufficient stock")
}

func TestComputeReceipt_ZeroValueConfig(t *testing.T) {
	storeID := uuid.New()
	catalog := new(mocks.MockProductRepo)
	svc := newSalesService(catalog, new(mocks.MockReceiptRepo), config.SalesConfig{})

	catalog.On("Search", mock.Anything, storeID, "bread").
		Return([]domain.Product{breadProduct(storeID, 40)}, nil)

	items, _ := parser.ExtractLines("2 bread")
	receipt, err := svc.ComputeReceipt(context.Background(), storeID, items)
	require.NoError(t, err)
	require.Len(t, receipt.Lines, 1)
	assert.InDelta(t, 0, receipt.TaxAmount, 0.0001)
}

func TestComputeReceipt_EmptyItems(t *testing.T) {
	svc := newSalesService(new(mocks.MockProductRepo), new(mocks.MockReceiptRepo), testSalesConfig())

	receipt, err := svc.ComputeReceipt(context.Background(), uuid.New(), nil)
	require.NoError(t, err)
	assert.Empty(t, receipt.Lines)
	assert.InDelta(t, 0, receipt.Total, 0.0001)
}

func TestRecordSale_PersistsPendingReceipt(t *testing.T) {
	storeID := uuid.New()
	userID := uuid.New()
	catalog := new(mocks.MockProductRepo)
	receipts := new(mocks.MockReceiptRepo)
	svc := newSalesService(catalog, receipts, testSalesConfig())

	catalog.On("Search", mock.Anything, storeID, "bread").
		Return([]domain.Product{breadProduct(storeID, 40)}, nil)
	receipts.On("Create", mock.Anything, mock.AnythingOfType("*domain.Receipt")).Return(nil)

	receipt, err := svc.RecordSale(context.Background(), storeID, userID, "2 bread @ 1.50", "Mrs Moyo")
	require.NoError(t, err)

	assert.Equal(t, domain.ReceiptStatusPending, receipt.Status)
	assert.Equal(t, storeID, receipt.StoreID)
	assert.Equal(t, userID, receipt.CreatedBy)
	assert.Equal(t, "Mrs Moyo", receipt.CustomerName)
	assert.Equal(t, "2 bread @ 1.50", receipt.RawMessage)
	receipts.AssertExpectations(t)
}

func TestRecordSale_NothingParsed(t *testing.T) {
	svc := newSalesService(new(mocks.MockProductRepo), new(mocks.MockReceiptRepo), testSalesConfig())

	_, err := svc.RecordSale(context.Background(), uuid.New(), uuid.New(), "???", "")
	assert.ErrorIs(t, err, domain.ErrNothingParsed)
}

func TestPreviewSale_DoesNotPersist(t *testing.T) {
	storeID := uuid.New()
	catalog := new(mocks.MockProductRepo)
	receipts := new(mocks.MockReceiptRepo)
	svc := newSalesService(catalog, receipts, testSalesConfig())

	catalog.On("Search", mock.Anything, storeID, "bread").
		Return([]domain.Product{breadProduct(storeID, 40)}, nil)

	receipt, err := svc.PreviewSale(context.Background(), storeID, "2 bread")
	require.NoError(t, err)
	assert.Len(t, receipt.Lines, 1)
	receipts.AssertNotCalled(t, "Create")
}

func TestConfirmSale_DecrementsStockAndConfirms(t *testing.T) {
	storeID := uuid.New()
	receiptID := uuid.New()
	catalog := new(mocks.MockProductRepo)
	receipts := new(mocks.MockReceiptRepo)
	svc := newSalesService(catalog, receipts, testSalesConfig())

	bread := breadProduct(storeID, 40)
	pending := &domain.Receipt{
		ID:      receiptID,
		StoreID: storeID,
		Status:  domain.ReceiptStatusPending,
		Lines: domain.ReceiptLines{
			{ProductID: bread.ID, ProductName: bread.Name, Quantity: 2, UnitPrice: 1.50, LineTotal: 3.00},
		},
	}

	receipts.On("GetByID", mock.Anything, storeID, receiptID).Return(pending, nil)
	catalog.On("GetByID", mock.Anything, storeID, bread.ID).Return(&bread, nil)
	catalog.On("DecrementStock", mock.Anything, storeID, bread.ID, 2).Return(nil)
	receipts.On("UpdateStatus", mock.Anything, storeID, receiptID,
		domain.ReceiptStatusPending, domain.ReceiptStatusConfirmed).Return(nil)

	confirmed, err := svc.ConfirmSale(context.Background(), storeID, receiptID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReceiptStatusConfirmed, confirmed.Status)
	catalog.AssertExpectations(t)
	receipts.AssertExpectations(t)
}

func TestConfirmSale_RestoresAppliedDecrementsThenRetries(t *testing.T) {
	storeID := uuid.New()
	receiptID := uuid.New()
	catalog := new(mocks.MockProductRepo)
	receipts := new(mocks.MockReceiptRepo)
	svc := newSalesService(catalog, receipts, testSalesConfig())

	bread := breadProduct(storeID, 3)
	milk := milkProduct(storeID, 1)
	pending := &domain.Receipt{
		ID:      receiptID,
		StoreID: storeID,
		Status:  domain.ReceiptStatusPending,
		Lines: domain.ReceiptLines{
			{ProductID: bread.ID, ProductName: bread.Name, Quantity: 2, UnitPrice: 1.50, LineTotal: 3.00},
			{ProductID: milk.ID, ProductName: milk.Name, Quantity: 1, UnitPrice: 1.20, LineTotal: 1.20},
		},
	}
	receipts.On("GetByID", mock.Anything, storeID, receiptID).Return(pending, nil)
	catalog.On("GetByID", mock.Anything, storeID, bread.ID).Return(&bread, nil)
	catalog.On("GetByID", mock.Anything, storeID, milk.ID).Return(&milk, nil)

	// Track the net effect on bread stock across both attempts.
	breadStock := 3
	catalog.On("DecrementStock", mock.Anything, storeID, bread.ID, 2).Return(nil).
		Run(func(mock.Arguments) { breadStock -= 2 })
	catalog.On("RestoreStock", mock.Anything, storeID, bread.ID, 2).Return(nil).
		Run(func(mock.Arguments) { breadStock += 2 })

	// A concurrent sale wins the milk between the pre-check and the
	// decrement on the first attempt only.
	catalog.On("DecrementStock", mock.Anything, storeID, milk.ID, 1).
		Return(domain.ErrInsufficientStock).Once()
	catalog.On("DecrementStock", mock.Anything, storeID, milk.ID, 1).Return(nil).Once()
	receipts.On("UpdateStatus", mock.Anything, storeID, receiptID,
		domain.ReceiptStatusPending, domain.ReceiptStatusConfirmed).Return(nil).Once()

	_, err := svc.ConfirmSale(context.Background(), storeID, receiptID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 3, breadStock, "failed confirmation must leave stock untouched")
	receipts.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	confirmed, err := svc.ConfirmSale(context.Background(), storeID, receiptID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReceiptStatusConfirmed, confirmed.Status)
	assert.Equal(t, 1, breadStock, "bread stock must be decremented exactly once across confirm retries")
	catalog.AssertExpectations(t)
	receipts.AssertExpectations(t)
}

func TestConfirmSale_RestoresDecrementsWhenStatusUpdateFails(t *testing.T) {
	storeID := uuid.New()
	receiptID := uuid.New()
	catalog := new(mocks.MockProductRepo)
	receipts := new(mocks.MockReceiptRepo)
	svc := newSalesService(catalog, receipts, testSalesConfig())

	bread := breadProduct(storeID, 40)
	pending := &domain.Receipt{
		ID:      receiptID,
		StoreID: storeID,
		Status:  domain.ReceiptStatusPending,
		Lines: domain.ReceiptLines{
			{ProductID: bread.ID, ProductName: bread.Name, Quantity: 2, UnitPrice: 1.50, LineTotal: 3.00},
		},
	}
	receipts.On("GetByID", mock.Anything, storeID, receiptID).Return(pending, nil)
	catalog.On("GetByID", mock.Anything, storeID, bread.ID).Return(&bread, nil)
	catalog.On("DecrementStock", mock.Anything, storeID, bread.ID, 2).Return(nil)
	catalog.On("RestoreStock", mock.Anything, storeID, bread.ID, 2).Return(nil)
	receipts.On("UpdateStatus", mock.Anything, storeID, receiptID,
		domain.ReceiptStatusPending, domain.ReceiptStatusConfirmed).
		Return(domain.ErrNotFound)

	_, err := svc.ConfirmSale(context.Background(), storeID, receiptID)
	require.Error(t, err)
	catalog.AssertCalled(t, "RestoreStock", mock.Anything, storeID, bread.ID, 2)
}

func TestConfirmSale_RejectsNonPending(t *testing.T) {
	storeID := uuid.New()
	receiptID := uuid.New()
	receipts := new(mocks.MockReceiptRepo)
	svc := newSalesService(new(mocks.MockProductRepo), receipts, testSalesConfig())

	receipts.On("GetByID", mock.Anything, storeID, receiptID).
		Return(&domain.Receipt{ID: receiptID, Status: domain.ReceiptStatusConfirmed}, nil)

	_, err := svc.ConfirmSale(context.Background(), storeID, receiptID)
	assert.ErrorIs(t, err, domain.ErrReceiptNotPending)
}

func TestConfirmSale_StockCheckedBeforeAnyDecrement(t *testing.T) {
	storeID := uuid.New()
	receiptID := uuid.New()
	catalog := new(mocks.MockProductRepo)
	receipts := new(mocks.MockReceiptRepo)
	svc := newSalesService(catalog, receipts, testSalesConfig())

	bread := breadProduct(storeID, 1)
	pending := &domain.Receipt{
		ID:      receiptID,
		StoreID: storeID,
		Status:  domain.ReceiptStatusPending,
		Lines: domain.ReceiptLines{
			{ProductID: bread.ID, ProductName: bread.Name, Quantity: 2},
		},
	}
	receipts.On("GetByID", mock.Anything, storeID, receiptID).Return(pending, nil)
	catalog.On("GetByID", mock.Anything, storeID, bread.ID).Return(&bread, nil)

	_, err := svc.ConfirmSale(context.Background(), storeID, receiptID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	catalog.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	receipts.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelSale_GuardedTransition(t *testing.T) {
	storeID := uuid.New()
	receiptID := uuid.New()
	receipts := new(mocks.MockReceiptRepo)
	svc := newSalesService(new(mocks.MockProductRepo), receipts, testSalesConfig())

	receipts.On("UpdateStatus", mock.Anything, storeID, receiptID,
		domain.ReceiptStatusPending, domain.ReceiptStatusCancelled).Return(nil)

	err := svc.CancelSale(context.Background(), storeID, receiptID)
	require.NoError(t, err)
	receipts.AssertExpectations(t)
}

func TestParseMessage_PassesThroughWarnings(t *testing.T) {
	svc := newSalesService(new(mocks.MockProductRepo), new(mocks.MockReceiptRepo), testSalesConfig())

	result := svc.ParseMessage("2 bread, ???")
	assert.Len(t, result.Items, 1)
	assert.Len(t, result.Warnings, 1)
}
