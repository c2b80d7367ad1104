package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Report periods.
const (
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

// ProfitLossReport is a point-in-time snapshot of a profit/loss
// computation. Once saved it never changes, regardless of later edits
// to the expenses and invoices it was derived from.
type ProfitLossReport struct {
	ID        int64           `json:"id"`
	Period    string          `json:"period"` // monthly or yearly
	Month     int             `json:"month,omitempty"`
	Year      int             `json:"year"`
	Revenue   decimal.Decimal `json:"revenue"`
	Expenses  decimal.Decimal `json:"expenses"`
	Profit    decimal.Decimal `json:"profit"`
	Rows      []ReportRow     `json:"rows"`
	CreatedAt time.Time       `json:"created_at"`
}

// ReportRow is one reconciled expense line inside a saved report.
type ReportRow struct {
	ExpenseID     int64           `json:"expense_id"`
	Company       string          `json:"company"`
	CandidateName string          `json:"candidate_name,omitempty"`
	InvoiceNumber string          `json:"invoice_number,omitempty"`
	Revenue       decimal.Decimal `json:"revenue"`
	Expense       decimal.Decimal `json:"expense"`
	Profit        decimal.Decimal `json:"profit"`
}
