package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"duka/internal/domain"
	"duka/internal/matcher"
	"duka/internal/port"
)

// CreateProductInput is the DTO for adding a catalog product.
type CreateProductInput struct {
	StoreID       uuid.UUID
	SKU           string
	Name          string
	Brand         string
	Category      string
	UnitPrice     float64
	StockQuantity int
}

// UpdateProductInput is the DTO for updating a catalog product.
type UpdateProductInput struct {
	StoreID       uuid.UUID
	ProductID     uuid.UUID
	SKU           string
	Name          string
	Brand         string
	Category      string
	UnitPrice     float64
	StockQuantity int
}

// PriceQuote is the answer to a free-text price inquiry.
type PriceQuote struct {
	Query     string          `json:"query"`
	Product   *domain.Product `json:"product,omitempty"`
	Score     float64         `json:"score"`
	Method    matcher.Method  `json:"method"`
	UnitPrice float64         `json:"unit_price"`
}

// ProductService defines the catalog management contract. Writes require
// the owner role; reads are open to all store users.
type ProductService interface {
	Create(ctx context.Context, role domain.UserRole, input *CreateProductInput) (*domain.Product, error)
	GetByID(ctx context.Context, storeID, productID uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, storeID uuid.UUID, search string, offset, limit int) ([]domain.Product, int, error)
	Update(ctx context.Context, role domain.UserRole, input *UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, role domain.UserRole, storeID, productID uuid.UUID) error
	PriceInquiry(ctx context.Context, storeID uuid.UUID, query string) (*PriceQuote, error)
}

type productService struct {
	productRepo port.ProductRepository
	matcher     *matcher.Matcher
}

// NewProductService creates a new ProductService implementation.
func NewProductService(productRepo port.ProductRepository, m *matcher.Matcher) ProductService {
	return &productService{
		productRepo: productRepo,
		matcher:     m,
	}
}

func (s *productService) Create(ctx context.Context, role domain.UserRole, input *CreateProductInput) (*domain.Product, error) {
	if role != domain.RoleOwner {
		return nil, domain.ErrForbidden
	}
	if input.UnitPrice < 0 || input.StockQuantity < 0 {
		return nil, fmt.Errorf("product.Create: %w", domain.ErrInvalidStockChange)
	}

	product := &domain.Product{
		StoreID:       input.StoreID,
		SKU:           strings.TrimSpace(input.SKU),
		Name:          strings.TrimSpace(input.Name),
		Brand:         strings.TrimSpace(input.Brand),
		Category:      strings.TrimSpace(input.Category),
		UnitPrice:     input.UnitPrice,
		StockQuantity: input.StockQuantity,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("product.Create: %w", err)
	}
	return product, nil
}

func (s *productService) GetByID(ctx context.Context, storeID, productID uuid.UUID) (*domain.Product, error) {
	return s.productRepo.GetByID(ctx, storeID, productID)
}

func (s *productService) List(ctx context.Context, storeID uuid.UUID, search string, offset, limit int) ([]domain.Product, int, error) {
	if q := strings.TrimSpace(search); q != "" {
		products, err := s.productRepo.Search(ctx, storeID, q)
		if err != nil {
			return nil, 0, fmt.Errorf("product.List: %w", err)
		}
		return paginate(products, offset, limit), len(products), nil
	}
	return s.productRepo.ListByStore(ctx, storeID, offset, limit)
}

func paginate(products []domain.Product, offset, limit int) []domain.Product {
	if offset >= len(products) {
		return []domain.Product{}
	}
	end := offset + limit
	if limit <= 0 || end > len(products) {
		end = len(products)
	}
	return products[offset:end]
}

func (s *productService) Update(ctx context.Context, role domain.UserRole, input *UpdateProductInput) (*domain.Product, error) {
	if role != domain.RoleOwner {
		return nil, domain.ErrForbidden
	}

	product, err := s.productRepo.GetByID(ctx, input.StoreID, input.ProductID)
	if err != nil {
		return nil, err
	}
	product.SKU = strings.TrimSpace(input.SKU)
	product.Name = strings.TrimSpace(input.Name)
	product.Brand = strings.TrimSpace(input.Brand)
	product.Category = strings.TrimSpace(input.Category)
	product.UnitPrice = input.UnitPrice
	product.StockQuantity = input.StockQuantity

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("product.Update: %w", err)
	}
	return product, nil
}

func (s *productService) Delete(ctx context.Context, role domain.UserRole, storeID, productID uuid.UUID) error {
	if role != domain.RoleOwner {
		return domain.ErrForbidden
	}
	return s.productRepo.Delete(ctx, storeID, productID)
}

// PriceInquiry resolves a free-text product name the same way the sales
// flow does and reports the catalog price of the best match.
func (s *productService) PriceInquiry(ctx context.Context, storeID uuid.UUID, query string) (*PriceQuote, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrEmptyMessage
	}

	result, err := s.matcher.Match(ctx, storeID, query, s.productRepo)
	if err != nil {
		return nil, fmt.Errorf("product.PriceInquiry: %w", err)
	}

	quote := &PriceQuote{
		Query:  query,
		Score:  result.Score,
		Method: result.Method,
	}
	if result.Candidate != nil {
		quote.Product = result.Candidate
		quote.UnitPrice = result.Candidate.UnitPrice
	}
	return quote, nil
}
