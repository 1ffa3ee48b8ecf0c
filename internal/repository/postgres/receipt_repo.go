package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"duka/internal/domain"
	"duka/internal/port"
)

type receiptRepo struct {
	db *sqlx.DB
}

// NewReceiptRepo creates a new PostgreSQL-backed ReceiptRepository.
func NewReceiptRepo(db *sqlx.DB) port.ReceiptRepository {
	return &receiptRepo{db: db}
}

func (r *receiptRepo) Create(ctx context.Context, receipt *domain.Receipt) error {
	receipt.ID = uuid.New()
	now := time.Now().UTC()
	receipt.CreatedAt = now
	receipt.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO receipts (id, store_id, created_by, customer_name, raw_message, status,
		   lines, subtotal, tax_rate, tax_amount, total, warnings, errors, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		receipt.ID, receipt.StoreID, receipt.CreatedBy, receipt.CustomerName,
		receipt.RawMessage, receipt.Status, receipt.Lines, receipt.Subtotal,
		receipt.TaxRate, receipt.TaxAmount, receipt.Total, receipt.Warnings,
		receipt.Errors, receipt.CreatedAt, receipt.UpdatedAt)
	if err != nil {
		return fmt.Errorf("receiptRepo.Create: %w", err)
	}
	return nil
}

func (r *receiptRepo) GetByID(ctx context.Context, storeID, receiptID uuid.UUID) (*domain.Receipt, error) {
	var receipt domain.Receipt
	err := r.db.GetContext(ctx, &receipt,
		"SELECT * FROM receipts WHERE id = $1 AND store_id = $2", receiptID, storeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("receiptRepo.GetByID: %w", err)
	}
	return &receipt, nil
}

func (r *receiptRepo) ListByStore(ctx context.Context, storeID uuid.UUID, offset, limit int) ([]domain.Receipt, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM receipts WHERE store_id = $1", storeID)
	if err != nil {
		return nil, 0, fmt.Errorf("receiptRepo.ListByStore count: %w", err)
	}

	var receipts []domain.Receipt
	err = r.db.SelectContext(ctx, &receipts,
		"SELECT * FROM receipts WHERE store_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		storeID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("receiptRepo.ListByStore: %w", err)
	}
	return receipts, total, nil
}

// UpdateStatus transitions a receipt from one status to another. The
// expected current status guards against double confirmation.
func (r *receiptRepo) UpdateStatus(ctx context.Context, storeID, receiptID uuid.UUID, from, to domain.ReceiptStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE receipts SET status = $1, updated_at = $2
		 WHERE id = $3 AND store_id = $4 AND status = $5`,
		to, time.Now().UTC(), receiptID, storeID, from)
	if err != nil {
		return fmt.Errorf("receiptRepo.UpdateStatus: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("receiptRepo.UpdateStatus rows: %w", err)
	}
	if rows == 0 {
		if _, gerr := r.GetByID(ctx, storeID, receiptID); gerr != nil {
			return gerr
		}
		return domain.ErrReceiptNotPending
	}
	return nil
}
