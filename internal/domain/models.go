package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Store represents a single retail store with its own product catalog.
type Store struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// User represents an authenticated user belonging to a store.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	StoreID      uuid.UUID `db:"store_id" json:"store_id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Product is a sellable catalog entry. Stock and price are authoritative
// here; prices stated in a transaction message never override them.
type Product struct {
	ID            uuid.UUID `db:"id" json:"id"`
	StoreID       uuid.UUID `db:"store_id" json:"store_id"`
	SKU           string    `db:"sku" json:"sku"`
	Name          string    `db:"name" json:"name"`
	Brand         string    `db:"brand" json:"brand"`
	Category      string    `db:"category" json:"category"`
	UnitPrice     float64   `db:"unit_price" json:"unit_price"`
	StockQuantity int       `db:"stock_quantity" json:"stock_quantity"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ReceiptLine is one resolved, priced line of a receipt. UnitPrice always
// originates from the catalog at resolution time.
type ReceiptLine struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	LineTotal   float64   `json:"line_total"`
}

// ReceiptLines is stored as a JSONB column.
type ReceiptLines []ReceiptLine

// Value implements driver.Valuer for JSONB storage.
func (l ReceiptLines) Value() (driver.Value, error) {
	if l == nil {
		l = ReceiptLines{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB retrieval.
func (l *ReceiptLines) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = ReceiptLines{}
		return nil
	default:
		return fmt.Errorf("ReceiptLines.Scan: unsupported type %T", src)
	}
}

// StringList is a JSONB-backed list of warning/error messages.
type StringList []string

// Value implements driver.Valuer for JSONB storage.
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		s = StringList{}
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB retrieval.
func (s *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	case nil:
		*s = StringList{}
		return nil
	default:
		return fmt.Errorf("StringList.Scan: unsupported type %T", src)
	}
}

// Receipt is the structured, priced outcome of resolving a transaction
// message against the catalog. Total always equals Subtotal + TaxAmount
// at 2 decimal places.
type Receipt struct {
	ID           uuid.UUID     `db:"id" json:"id"`
	StoreID      uuid.UUID     `db:"store_id" json:"store_id"`
	CreatedBy    uuid.UUID     `db:"created_by" json:"created_by"`
	CustomerName string        `db:"customer_name" json:"customer_name,omitempty"`
	RawMessage   string        `db:"raw_message" json:"raw_message"`
	Status       ReceiptStatus `db:"status" json:"status"`
	Lines        ReceiptLines  `db:"lines" json:"lines"`
	Subtotal     float64       `db:"subtotal" json:"subtotal"`
	TaxRate      float64       `db:"tax_rate" json:"tax_rate"`
	TaxAmount    float64       `db:"tax_amount" json:"tax_amount"`
	Total        float64       `db:"total" json:"total"`
	Warnings     StringList    `db:"warnings" json:"warnings"`
	Errors       StringList    `db:"errors" json:"errors"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}
