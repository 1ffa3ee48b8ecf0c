package domain

// UserRole defines the role hierarchy within a store.
type UserRole string

const (
	RoleOwner UserRole = "owner"
	RoleStaff UserRole = "staff"
)

// ReceiptStatus represents the lifecycle of a recorded sale.
type ReceiptStatus string

const (
	ReceiptStatusPending   ReceiptStatus = "pending"
	ReceiptStatusConfirmed ReceiptStatus = "confirmed"
	ReceiptStatusCancelled ReceiptStatus = "cancelled"
)
