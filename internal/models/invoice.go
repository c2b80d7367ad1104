package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is an immutable billing record generated for a client or
// company. It is never updated after creation, only deleted.
type Invoice struct {
	ID            int64           `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	Date          time.Time       `json:"date"`
	DueDate       time.Time       `json:"due_date"`
	CompanyName   string          `json:"company_name"`
	CandidateName string          `json:"candidate_name"`
	Items         []InvoiceItem   `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	CreatedAt     time.Time       `json:"created_at"`
}

// InvoiceItem is a single billed line on an invoice.
type InvoiceItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}
