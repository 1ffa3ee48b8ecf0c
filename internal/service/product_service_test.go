package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"duka/internal/domain"
	"duka/internal/matcher"
	"duka/internal/service"
	"duka/internal/textnorm"
	"duka/mocks"
)

func newProductService(repo *mocks.MockProductRepo) service.ProductService {
	m := matcher.New(textnorm.NewDefaultCorrector(), 0.3)
	return service.NewProductService(repo, m)
}

func TestProductService_Create_RequiresOwner(t *testing.T) {
	repo := new(mocks.MockProductRepo)
	svc := newProductService(repo)

	_, err := svc.Create(context.Background(), domain.RoleStaff, &service.CreateProductInput{
		StoreID: uuid.New(),
		SKU:     "BRD-001",
		Name:    "Bread",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductService_Create_TrimsFields(t *testing.T) {
	repo := new(mocks.MockProductRepo)
	svc := newProductService(repo)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)

	product, err := svc.Create(context.Background(), domain.RoleOwner, &service.CreateProductInput{
		StoreID:   uuid.New(),
		SKU:       "  BRD-001 ",
		Name:      " White Bread ",
		Brand:     " Lobels ",
		UnitPrice: 1.50,
	})
	require.NoError(t, err)
	assert.Equal(t, "BRD-001", product.SKU)
	assert.Equal(t, "White Bread", product.Name)
	assert.Equal(t, "Lobels", product.Brand)
}

func TestProductService_Create_RejectsNegativePrice(t *testing.T) {
	svc := newProductService(new(mocks.MockProductRepo))

	_, err := svc.Create(context.Background(), domain.RoleOwner, &service.CreateProductInput{
		StoreID:   uuid.New(),
		SKU:       "BRD-001",
		Name:      "Bread",
		UnitPrice: -1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStockChange)
}

func TestProductService_Delete_RequiresOwner(t *testing.T) {
	repo := new(mocks.MockProductRepo)
	svc := newProductService(repo)

	err := svc.Delete(context.Background(), domain.RoleStaff, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestProductService_List_SearchUsesCatalogSearch(t *testing.T) {
	repo := new(mocks.MockProductRepo)
	svc := newProductService(repo)
	storeID := uuid.New()

	found := []domain.Product{
		{ID: uuid.New(), Name: "White Bread"},
		{ID: uuid.New(), Name: "Brown Bread"},
	}
	repo.On("Search", mock.Anything, storeID, "bread").Return(found, nil)

	products, total, err := svc.List(context.Background(), storeID, "bread", 0, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, products, 2)
	repo.AssertNotCalled(t, "ListByStore", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProductService_List_PaginatesSearchResults(t *testing.T) {
	repo := new(mocks.MockProductRepo)
	svc := newProductService(repo)
	storeID := uuid.New()

	found := []domain.Product{
		{Name: "A"}, {Name: "B"}, {Name: "C"},
	}
	repo.On("Search", mock.Anything, storeID, "x").Return(found, nil)

	products, total, err := svc.List(context.Background(), storeID, "x", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, products, 1)
	assert.Equal(t, "B", products[0].Name)
}

func TestProductService_PriceInquiry(t *testing.T) {
	repo := new(mocks.MockProductRepo)
	svc := newProductService(repo)
	storeID := uuid.New()

	bread := domain.Product{ID: uuid.New(), Name: "White Bread", Brand: "Lobels", UnitPrice: 1.50}
	repo.On("Search", mock.Anything, storeID, "white bread").
		Return([]domain.Product{bread}, nil)

	quote, err := svc.PriceInquiry(context.Background(), storeID, "white bread")
	require.NoError(t, err)
	require.NotNil(t, quote.Product)
	assert.Equal(t, "White Bread", quote.Product.Name)
	assert.InDelta(t, 1.50, quote.UnitPrice, 0.0001)
	assert.Equal(t, matcher.MethodExact, quote.Method)
}

func TestProductService_PriceInquiry_NoMatch(t *testing.T) {
	repo := new(mocks.MockProductRepo)
	svc := newProductService(repo)
	storeID := uuid.New()

	repo.On("Search", mock.Anything, storeID, mock.Anything).
		Return([]domain.Product{}, nil)

	quote, err := svc.PriceInquiry(context.Background(), storeID, "wheelbarrow")
	require.NoError(t, err)
	assert.Nil(t, quote.Product)
	assert.Equal(t, matcher.MethodNone, quote.Method)
}

func TestProductService_PriceInquiry_EmptyQuery(t *testing.T) {
	svc := newProductService(new(mocks.MockProductRepo))

	_, err := svc.PriceInquiry(context.Background(), uuid.New(), "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyMessage)
}
