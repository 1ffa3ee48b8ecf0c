package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"duka/internal/domain"
	"duka/internal/handler"
	"duka/internal/middleware"
	"duka/internal/parser"
	"duka/internal/service"
	"duka/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authedContext(w *httptest.ResponseRecorder, storeID, userID uuid.UUID, role domain.UserRole) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.ContextKeyStoreID, storeID)
	c.Set(middleware.ContextKeyUserID, userID)
	c.Set(middleware.ContextKeyRole, string(role))
	return c
}

func jsonRequest(c *gin.Context, method, path string, payload interface{}) {
	body, _ := json.Marshal(payload)
	c.Request, _ = http.NewRequest(method, path, bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
}

func TestSalesHandler_Parse_Success(t *testing.T) {
	mockSales := new(mocks.MockSalesService)
	h := handler.NewSalesHandler(mockSales)

	mockSales.On("ParseMessage", "2 bread and 1 milk").Return(service.ParseResult{
		Items: []parser.ParsedLineItem{
			{Quantity: 2, RawName: "bread"},
			{Quantity: 1, RawName: "milk"},
		},
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	jsonRequest(c, http.MethodPost, "/api/v1/sales/parse", map[string]string{"message": "2 bread and 1 milk"})

	h.Parse(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestSalesHandler_Parse_EmptyMessage(t *testing.T) {
	h := handler.NewSalesHandler(new(mocks.MockSalesService))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	jsonRequest(c, http.MethodPost, "/api/v1/sales/parse", map[string]string{"message": "   "})

	h.Parse(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSalesHandler_Record_Success(t *testing.T) {
	mockSales := new(mocks.MockSalesService)
	h := handler.NewSalesHandler(mockSales)

	storeID := uuid.New()
	userID := uuid.New()
	receipt := &domain.Receipt{
		ID:      uuid.New(),
		StoreID: storeID,
		Status:  domain.ReceiptStatusPending,
		Total:   4.41,
	}
	mockSales.On("RecordSale", mock.Anything, storeID, userID, "2 bread and 1 milk", "").
		Return(receipt, nil)

	w := httptest.NewRecorder()
	c := authedContext(w, storeID, userID, domain.RoleStaff)
	jsonRequest(c, http.MethodPost, "/api/v1/sales", map[string]string{"message": "2 bread and 1 milk"})

	h.Record(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSales.AssertExpectations(t)
}

func TestSalesHandler_Record_MissingAuthContext(t *testing.T) {
	h := handler.NewSalesHandler(new(mocks.MockSalesService))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	jsonRequest(c, http.MethodPost, "/api/v1/sales", map[string]string{"message": "2 bread"})

	h.Record(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSalesHandler_Confirm_InvalidID(t *testing.T) {
	h := handler.NewSalesHandler(new(mocks.MockSalesService))

	w := httptest.NewRecorder()
	c := authedContext(w, uuid.New(), uuid.New(), domain.RoleStaff)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	jsonRequest(c, http.MethodPost, "/api/v1/sales/not-a-uuid/confirm", nil)

	h.Confirm(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSalesHandler_Confirm_NotPending(t *testing.T) {
	mockSales := new(mocks.MockSalesService)
	h := handler.NewSalesHandler(mockSales)

	storeID := uuid.New()
	receiptID := uuid.New()
	mockSales.On("ConfirmSale", mock.Anything, storeID, receiptID).
		Return(nil, domain.ErrReceiptNotPending)

	w := httptest.NewRecorder()
	c := authedContext(w, storeID, uuid.New(), domain.RoleStaff)
	c.Params = gin.Params{{Key: "id", Value: receiptID.String()}}
	jsonRequest(c, http.MethodPost, "/api/v1/sales/"+receiptID.String()+"/confirm", nil)

	h.Confirm(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "RECEIPT_NOT_PENDING", resp.Error.Code)
}

func TestSalesHandler_List_Paginated(t *testing.T) {
	mockSales := new(mocks.MockSalesService)
	h := handler.NewSalesHandler(mockSales)

	storeID := uuid.New()
	mockSales.On("ListReceipts", mock.Anything, storeID, 0, 20).
		Return([]domain.Receipt{{ID: uuid.New()}}, 1, nil)

	w := httptest.NewRecorder()
	c := authedContext(w, storeID, uuid.New(), domain.RoleStaff)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/sales", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Total)
}
