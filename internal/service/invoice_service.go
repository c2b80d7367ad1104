package service

import (
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/staffline/expense-erp/internal/models"
	"github.com/staffline/expense-erp/internal/watch"
)

// Invoice validation errors.
var (
	ErrInvoiceNumberRequired = errors.New("invoice_number is required")
	ErrInvoiceNameRequired   = errors.New("company_name or candidate_name is required")
)

// InvoiceService manages the immutable invoice history.
type InvoiceService struct {
	invoices InvoiceStore
	expenses *ExpenseService
	pub      Publisher
	logger   *zap.Logger
}

// NewInvoiceService creates an invoice service. pub may be nil.
func NewInvoiceService(invoices InvoiceStore, expenses *ExpenseService, pub Publisher, logger *zap.Logger) *InvoiceService {
	if pub == nil {
		pub = nopPublisher{}
	}
	return &InvoiceService{invoices: invoices, expenses: expenses, pub: pub, logger: logger}
}

// Create validates and stores a new invoice. Missing item amounts and
// the subtotal/total are derived from the line items; an explicit
// total is kept as-is.
func (s *InvoiceService) Create(inv *models.Invoice) error {
	if inv.InvoiceNumber == "" {
		return ErrInvoiceNumberRequired
	}
	if inv.CompanyName == "" && inv.CandidateName == "" {
		return ErrInvoiceNameRequired
	}

	for i := range inv.Items {
		item := &inv.Items[i]
		if item.Amount.IsZero() && item.Quantity > 0 {
			item.Amount = item.Rate.Mul(decimal.NewFromInt(int64(item.Quantity)))
		}
	}
	if inv.Subtotal.IsZero() {
		for _, item := range inv.Items {
			inv.Subtotal = inv.Subtotal.Add(item.Amount)
		}
	}
	if inv.Total.IsZero() {
		inv.Total = inv.Subtotal.Sub(inv.Discount).Add(inv.Tax)
	}

	if err := s.invoices.Create(inv); err != nil {
		return err
	}
	s.pub.Publish(watch.Event{Collection: watch.CollectionInvoices, Op: watch.OpCreated, ID: inv.ID})
	return nil
}

// Get returns one invoice.
func (s *InvoiceService) Get(id int64) (*models.Invoice, error) {
	return s.invoices.GetByID(id)
}

// List returns the invoice history in creation order.
func (s *InvoiceService) List() ([]*models.Invoice, error) {
	return s.invoices.List()
}

// Delete removes an invoice. Expenses that matched it silently lose
// their revenue link, since matching is recomputed, never persisted.
func (s *InvoiceService) Delete(id int64) error {
	if err := s.invoices.Delete(id); err != nil {
		return err
	}
	s.pub.Publish(watch.Event{Collection: watch.CollectionInvoices, Op: watch.OpDeleted, ID: id})
	return nil
}

// MarkReceived records that the invoice was paid and cascades the
// receipt to every matched expense as an explicit batch, returning
// per-item outcomes rather than failing silently partway.
func (s *InvoiceService) MarkReceived(id int64) (BulkResult, error) {
	inv, err := s.invoices.GetByID(id)
	if err != nil {
		return BulkResult{}, err
	}

	result, err := s.expenses.MarkMatchedReceived(inv)
	if err != nil {
		return BulkResult{}, err
	}

	s.logger.Info("Invoice receipt cascaded to expenses",
		zap.Int64("invoice_id", id),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed))
	return result, nil
}
