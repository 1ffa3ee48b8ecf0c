package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"duka/internal/service"
)

// SalesHandler handles the sales message endpoints: parsing, preview,
// recording, and the confirm/cancel lifecycle.
type SalesHandler struct {
	salesService service.SalesService
}

// NewSalesHandler creates a new SalesHandler.
func NewSalesHandler(salesService service.SalesService) *SalesHandler {
	return &SalesHandler{salesService: salesService}
}

// MessageInput is the body for endpoints that accept a free-text sales message.
type MessageInput struct {
	Message      string `json:"message" binding:"required"`
	CustomerName string `json:"customer_name"`
}

// Parse handles POST /api/v1/sales/parse
// It extracts line items from the message without touching the catalog.
func (h *SalesHandler) Parse(c *gin.Context) {
	var input MessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if strings.TrimSpace(input.Message) == "" {
		RespondError(c, http.StatusBadRequest, "EMPTY_MESSAGE", "message must not be empty")
		return
	}

	RespondOK(c, h.salesService.ParseMessage(input.Message))
}

// Preview handles POST /api/v1/sales/preview
// It parses and prices the message but persists nothing.
func (h *SalesHandler) Preview(c *gin.Context) {
	storeID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input MessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if strings.TrimSpace(input.Message) == "" {
		RespondError(c, http.StatusBadRequest, "EMPTY_MESSAGE", "message must not be empty")
		return
	}

	receipt, err := h.salesService.PreviewSale(c.Request.Context(), storeID, input.Message)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, receipt)
}

// Record handles POST /api/v1/sales
// It parses, prices, and stores the receipt as pending.
func (h *SalesHandler) Record(c *gin.Context) {
	storeID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input MessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if strings.TrimSpace(input.Message) == "" {
		RespondError(c, http.StatusBadRequest, "EMPTY_MESSAGE", "message must not be empty")
		return
	}

	receipt, err := h.salesService.RecordSale(c.Request.Context(), storeID, userID, input.Message, input.CustomerName)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, receipt)
}

// Confirm handles POST /api/v1/sales/:id/confirm
func (h *SalesHandler) Confirm(c *gin.Context) {
	storeID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid receipt id")
		return
	}

	receipt, err := h.salesService.ConfirmSale(c.Request.Context(), storeID, receiptID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, receipt)
}

// Cancel handles POST /api/v1/sales/:id/cancel
func (h *SalesHandler) Cancel(c *gin.Context) {
	storeID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid receipt id")
		return
	}

	if err := h.salesService.CancelSale(c.Request.Context(), storeID, receiptID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "receipt cancelled"})
}

// Get handles GET /api/v1/sales/:id
func (h *SalesHandler) Get(c *gin.Context) {
	storeID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid receipt id")
		return
	}

	receipt, err := h.salesService.GetReceipt(c.Request.Context(), storeID, receiptID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, receipt)
}

// List handles GET /api/v1/sales
func (h *SalesHandler) List(c *gin.Context) {
	storeID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	offset, limit := parsePagination(c)
	receipts, total, err := h.salesService.ListReceipts(c.Request.Context(), storeID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, receipts, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// parsePagination extracts offset and limit from query params with defaults.
func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
