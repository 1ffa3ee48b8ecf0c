package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/google/uuid"

	"duka/internal/config"
	"duka/internal/domain"
	"duka/internal/matcher"
	"duka/internal/parser"
	"duka/internal/port"
)

// priceHintTolerance is the absolute divergence between a stated price
// and the catalog price below which no warning is raised.
const priceHintTolerance = 0.01

// ParseResult is what SalesService.ParseMessage returns: the extracted
// line items plus warnings for segments that matched no pattern.
type ParseResult struct {
	Items    []parser.ParsedLineItem `json:"items"`
	Warnings []string                `json:"warnings"`
}

// SalesService turns free-text sales messages into priced receipts and
// manages the pending/confirm/cancel lifecycle.
type SalesService interface {
	ParseMessage(message string) ParseResult
	ComputeReceipt(ctx context.Context, storeID uuid.UUID, items []parser.ParsedLineItem) (*domain.Receipt, error)
	PreviewSale(ctx context.Context, storeID uuid.UUID, message string) (*domain.Receipt, error)
	RecordSale(ctx context.Context, storeID, userID uuid.UUID, message, customerName string) (*domain.Receipt, error)
	ConfirmSale(ctx context.Context, storeID, receiptID uuid.UUID) (*domain.Receipt, error)
	CancelSale(ctx context.Context, storeID, receiptID uuid.UUID) error
	GetReceipt(ctx context.Context, storeID, receiptID uuid.UUID) (*domain.Receipt, error)
	ListReceipts(ctx context.Context, storeID uuid.UUID, offset, limit int) ([]domain.Receipt, int, error)
}

type salesService struct {
	catalog     port.Catalog
	receiptRepo port.ReceiptRepository
	matcher     *matcher.Matcher
	cfg         config.SalesConfig
}

// NewSalesService creates a new SalesService implementation.
func NewSalesService(
	catalog port.Catalog,
	receiptRepo port.ReceiptRepository,
	m *matcher.Matcher,
	cfg config.SalesConfig,
) SalesService {
	if cfg.LookupConcurrency < 1 {
		cfg.LookupConcurrency = 1
	}
	return &salesService{
		catalog:     catalog,
		receiptRepo: receiptRepo,
		matcher:     m,
		cfg:         cfg,
	}
}

func (s *salesService) ParseMessage(message string) ParseResult {
	items, warnings := parser.ExtractLines(message)
	return ParseResult{Items: items, Warnings: warnings}
}

// resolution pairs an item with its match outcome, in message order.
type resolution struct {
	item  parser.ParsedLineItem
	match matcher.Result
	err   error
}

// ComputeReceipt resolves each line item against the catalog and
// aggregates the priced lines. Business-level problems (no match,
// insufficient stock) land in the receipt's warnings/errors without
// aborting the batch; only infrastructure failures return an error.
func (s *salesService) ComputeReceipt(ctx context.Context, storeID uuid.UUID, items []parser.ParsedLineItem) (*domain.Receipt, error) {
	resolutions := s.resolveItems(ctx, storeID, items)

	receipt := &domain.Receipt{
		StoreID:  storeID,
		TaxRate:  s.cfg.TaxRate,
		Lines:    domain.ReceiptLines{},
		Warnings: domain.StringList{},
		Errors:   domain.StringList{},
	}

	var subtotal float64
	for _, res := range resolutions {
		if res.err != nil {
			return nil, fmt.Errorf("sales.ComputeReceipt: %w", res.err)
		}
		if res.match.Candidate == nil {
			receipt.Errors = append(receipt.Errors,
				fmt.Sprintf("no matching product for %q", res.item.RawName))
			continue
		}

		product := res.match.Candidate
		item := res.item

		// The catalog price is authoritative. A stated price is only a
		// consistency check.
		if item.UnitPriceHint != nil && math.Abs(*item.UnitPriceHint-product.UnitPrice) > priceHintTolerance {
			receipt.Warnings = append(receipt.Warnings,
				fmt.Sprintf("price for %q: message says %.2f, catalog says %.2f - using catalog price",
					product.Name, *item.UnitPriceHint, product.UnitPrice))
		}

		if product.StockQuantity < item.Quantity {
			msg := fmt.Sprintf("insufficient stock for %q: requested %d, available %d",
				product.Name, item.Quantity, product.StockQuantity)
			if s.cfg.StrictStock {
				receipt.Errors = append(receipt.Errors, msg)
				continue
			}
			receipt.Warnings = append(receipt.Warnings, msg)
		}

		lineTotal := round2(float64(item.Quantity) * product.UnitPrice)
		receipt.Lines = append(receipt.Lines, domain.ReceiptLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   product.UnitPrice,
			LineTotal:   lineTotal,
		})
		subtotal += lineTotal
	}

	receipt.Subtotal = round2(subtotal)
	receipt.TaxAmount = round2(receipt.Subtotal * receipt.TaxRate)
	receipt.Total = round2(receipt.Subtotal + receipt.TaxAmount)
	return receipt, nil
}

// resolveItems matches items concurrently. Lookups are read-only and the
// matcher holds no shared mutable state, so a bounded pool per message is
// safe.
func (s *salesService) resolveItems(ctx context.Context, storeID uuid.UUID, items []parser.ParsedLineItem) []resolution {
	resolutions := make([]resolution, len(items))
	sem := make(chan struct{}, s.cfg.LookupConcurrency)
	var wg sync.WaitGroup

	for i := range items {
		i := i
		sem <- struct{}{} // acquire
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }() // release

			m, err := s.matcher.Match(ctx, storeID, items[i].RawName, s.catalog)
			resolutions[i] = resolution{item: items[i], match: m, err: err}
		}()
	}
	wg.Wait()
	return resolutions
}

// PreviewSale parses and prices a message without persisting anything.
func (s *salesService) PreviewSale(ctx context.Context, storeID uuid.UUID, message string) (*domain.Receipt, error) {
	parsed := s.ParseMessage(message)
	receipt, err := s.ComputeReceipt(ctx, storeID, parsed.Items)
	if err != nil {
		return nil, err
	}
	receipt.Warnings = append(parsed.Warnings, receipt.Warnings...)
	receipt.RawMessage = message
	return receipt, nil
}

// RecordSale parses, prices, and stores the receipt as pending. Stock is
// untouched until ConfirmSale.
func (s *salesService) RecordSale(ctx context.Context, storeID, userID uuid.UUID, message, customerName string) (*domain.Receipt, error) {
	parsed := s.ParseMessage(message)
	if len(parsed.Items) == 0 {
		return nil, domain.ErrNothingParsed
	}

	receipt, err := s.ComputeReceipt(ctx, storeID, parsed.Items)
	if err != nil {
		return nil, err
	}
	receipt.Warnings = append(parsed.Warnings, receipt.Warnings...)
	receipt.RawMessage = message
	receipt.CreatedBy = userID
	receipt.CustomerName = customerName
	receipt.Status = domain.ReceiptStatusPending

	if err := s.receiptRepo.Create(ctx, receipt); err != nil {
		return nil, fmt.Errorf("sales.RecordSale: %w", err)
	}
	log.Printf("sales: recorded pending receipt %s (store %s, %d lines, total %.2f)",
		receipt.ID, storeID, len(receipt.Lines), receipt.Total)
	return receipt, nil
}

// ConfirmSale commits a pending receipt: each line's stock is decremented
// with a conditional atomic update, then the receipt is marked confirmed.
// Stock levels are re-checked up front so a shortfall discovered since
// recording fails the confirmation before any decrement happens. If a
// later decrement or the status update still fails, the decrements
// already applied are restored so the receipt stays pending with stock
// untouched and the confirmation can be retried.
func (s *salesService) ConfirmSale(ctx context.Context, storeID, receiptID uuid.UUID) (*domain.Receipt, error) {
	receipt, err := s.receiptRepo.GetByID(ctx, storeID, receiptID)
	if err != nil {
		return nil, err
	}
	if receipt.Status != domain.ReceiptStatusPending {
		return nil, domain.ErrReceiptNotPending
	}

	for _, line := range receipt.Lines {
		product, err := s.catalog.GetByID(ctx, storeID, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("sales.ConfirmSale: %w", err)
		}
		if product.StockQuantity < line.Quantity {
			return nil, fmt.Errorf("%q: %w", line.ProductName, domain.ErrInsufficientStock)
		}
	}

	applied := make([]domain.ReceiptLine, 0, len(receipt.Lines))
	for _, line := range receipt.Lines {
		if err := s.catalog.DecrementStock(ctx, storeID, line.ProductID, line.Quantity); err != nil {
			s.restoreApplied(ctx, storeID, applied)
			return nil, fmt.Errorf("sales.ConfirmSale %q: %w", line.ProductName, err)
		}
		applied = append(applied, line)
	}

	if err := s.receiptRepo.UpdateStatus(ctx, storeID, receiptID,
		domain.ReceiptStatusPending, domain.ReceiptStatusConfirmed); err != nil {
		s.restoreApplied(ctx, storeID, applied)
		return nil, err
	}
	receipt.Status = domain.ReceiptStatusConfirmed
	log.Printf("sales: confirmed receipt %s (store %s)", receiptID, storeID)
	return receipt, nil
}

// restoreApplied undoes decrements committed earlier in an aborted
// confirmation. Restore failures are logged; the receipt is still
// pending, so an operator can reconcile from the log line.
func (s *salesService) restoreApplied(ctx context.Context, storeID uuid.UUID, lines []domain.ReceiptLine) {
	for _, line := range lines {
		if err := s.catalog.RestoreStock(ctx, storeID, line.ProductID, line.Quantity); err != nil {
			log.Printf("sales: failed to restore %d x %s (store %s) after aborted confirmation: %v",
				line.Quantity, line.ProductID, storeID, err)
		}
	}
}

// CancelSale discards a pending receipt. No stock was touched, so
// cancellation leaves no residue.
func (s *salesService) CancelSale(ctx context.Context, storeID, receiptID uuid.UUID) error {
	return s.receiptRepo.UpdateStatus(ctx, storeID, receiptID,
		domain.ReceiptStatusPending, domain.ReceiptStatusCancelled)
}

func (s *salesService) GetReceipt(ctx context.Context, storeID, receiptID uuid.UUID) (*domain.Receipt, error) {
	return s.receiptRepo.GetByID(ctx, storeID, receiptID)
}

func (s *salesService) ListReceipts(ctx context.Context, storeID uuid.UUID, offset, limit int) ([]domain.Receipt, int, error) {
	return s.receiptRepo.ListByStore(ctx, storeID, offset, limit)
}

// round2 rounds to the configured currency precision of 2 decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
