package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/staffline/expense-erp/internal/models"
)

// InvoiceRepository handles invoice database operations. Invoices are
// immutable after creation; there is no Update.
type InvoiceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewInvoiceRepository creates a new invoice repository.
func NewInvoiceRepository(db *sql.DB, logger *zap.Logger) *InvoiceRepository {
	return &InvoiceRepository{db: db, logger: logger}
}

// Create inserts a new invoice record and assigns its ID.
func (r *InvoiceRepository) Create(inv *models.Invoice) error {
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal invoice items: %w", err)
	}

	query := `
		INSERT INTO invoices (
			invoice_number, date, due_date, company_name, candidate_name,
			items, subtotal, discount, tax, total
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		inv.InvoiceNumber,
		inv.Date,
		inv.DueDate,
		inv.CompanyName,
		inv.CandidateName,
		string(items),
		inv.Subtotal.String(),
		inv.Discount.String(),
		inv.Tax.String(),
		inv.Total.String(),
	)
	if err != nil {
		r.logger.Error("Failed to create invoice", zap.Error(err))
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	inv.ID = id
	return nil
}

// GetByID retrieves an invoice by ID, or ErrNotFound.
func (r *InvoiceRepository) GetByID(id int64) (*models.Invoice, error) {
	row := r.db.QueryRow(`
		SELECT id, invoice_number, date, due_date, company_name, candidate_name,
			items, subtotal, discount, tax, total, created_at
		FROM invoices WHERE id = ?`, id)

	inv, err := scanInvoice(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get invoice", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return inv, nil
}

// List returns the full invoice history, oldest first. Order matters:
// the matcher's "first match wins" semantics follow creation order.
func (r *InvoiceRepository) List() ([]*models.Invoice, error) {
	var invoices []*models.Invoice
	err := withListRetry(func() error {
		rows, err := r.db.Query(`
			SELECT id, invoice_number, date, due_date, company_name, candidate_name,
				items, subtotal, discount, tax, total, created_at
			FROM invoices ORDER BY id ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		invoices = invoices[:0]
		for rows.Next() {
			inv, err := scanInvoice(rows)
			if err != nil {
				return fmt.Errorf("failed to scan invoice: %w", err)
			}
			invoices = append(invoices, inv)
		}
		return rows.Err()
	})
	if err != nil {
		r.logger.Error("Failed to list invoices", zap.Error(err))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

// Delete removes an invoice by ID.
func (r *InvoiceRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM invoices WHERE id = ?", id)
	if err != nil {
		r.logger.Error("Failed to delete invoice", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanInvoice(row rowScanner) (*models.Invoice, error) {
	var (
		inv      models.Invoice
		items    string
		subtotal string
		discount string
		tax      string
		total    string
	)

	err := row.Scan(
		&inv.ID,
		&inv.InvoiceNumber,
		&inv.Date,
		&inv.DueDate,
		&inv.CompanyName,
		&inv.CandidateName,
		&items,
		&subtotal,
		&discount,
		&tax,
		&total,
		&inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(items), &inv.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal invoice items: %w", err)
	}
	inv.Subtotal = parseAmount(subtotal)
	inv.Discount = parseAmount(discount)
	inv.Tax = parseAmount(tax)
	inv.Total = parseAmount(total)
	return &inv, nil
}
