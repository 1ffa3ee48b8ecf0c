package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"duka/internal/service"
)

// ProductHandler handles catalog management and price inquiry endpoints.
type ProductHandler struct {
	productService service.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ProductInput is the body for create/update product requests.
type ProductInput struct {
	SKU           string  `json:"sku" binding:"required"`
	Name          string  `json:"name" binding:"required"`
	Brand         string  `json:"brand"`
	Category      string  `json:"category"`
	UnitPrice     float64 `json:"unit_price" binding:"min=0"`
	StockQuantity int     `json:"stock_quantity" binding:"min=0"`
}

// Create handles POST /api/v1/products
func (h *ProductHandler) Create(c *gin.Context) {
	storeID, _, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	product, err := h.productService.Create(c.Request.Context(), role, &service.CreateProductInput{
		StoreID:       storeID,
		SKU:           input.SKU,
		Name:          input.Name,
		Brand:         input.Brand,
		Category:      input.Category,
		UnitPrice:     input.UnitPrice,
		StockQuantity: input.StockQuantity,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, product)
}

// Get handles GET /api/v1/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	storeID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid product id")
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), storeID, productID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, product)
}

// List handles GET /api/v1/products?search=...
func (h *ProductHandler) List(c *gin.Context) {
	storeID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	offset, limit := parsePagination(c)
	products, total, err := h.productService.List(c.Request.Context(), storeID, c.Query("search"), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, products, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Update handles PUT /api/v1/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	storeID, _, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid product id")
		return
	}

	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	product, err := h.productService.Update(c.Request.Context(), role, &service.UpdateProductInput{
		StoreID:       storeID,
		ProductID:     productID,
		SKU:           input.SKU,
		Name:          input.Name,
		Brand:         input.Brand,
		Category:      input.Category,
		UnitPrice:     input.UnitPrice,
		StockQuantity: input.StockQuantity,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, product)
}

// Delete handles DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	storeID, _, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid product id")
		return
	}

	if err := h.productService.Delete(c.Request.Context(), role, storeID, productID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "product deleted"})
}

// Price handles GET /api/v1/products/price?q=...
// The query is resolved with the same fuzzy matching as the sales flow.
func (h *ProductHandler) Price(c *gin.Context) {
	storeID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	query := c.Query("q")
	if query == "" {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "q query parameter is required")
		return
	}

	quote, err := h.productService.PriceInquiry(c.Request.Context(), storeID, query)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, quote)
}
