package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrStoreInactive      = errors.New("store is inactive")
	ErrUserInactive       = errors.New("user is inactive")
	ErrDuplicateEmail     = errors.New("email already exists for this store")
	ErrDuplicateStoreSlug = errors.New("store slug already exists")
	ErrDuplicateSKU       = errors.New("sku already exists for this store")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrReceiptNotPending  = errors.New("receipt is not pending")
	ErrEmptyMessage       = errors.New("transaction message is empty")
	ErrNothingParsed      = errors.New("no line items could be parsed from message")
	ErrCatalogUnavailable = errors.New("product catalog unavailable")
	ErrInvalidStockChange = errors.New("stock adjustment must be positive")
)
