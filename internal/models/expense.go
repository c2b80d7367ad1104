package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense statuses. An expense moves pending -> received, or
// pending -> partial -> received; "paid" marks the payout side complete.
const (
	StatusPending  = "pending"
	StatusReceived = "received"
	StatusPartial  = "partial"
	StatusPaid     = "paid"
)

// Expense is a cost record submitted by an employee, pending
// reconciliation against invoiced revenue.
type Expense struct {
	ID          int64           `json:"id"`
	UserID      string          `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`

	Company       string `json:"company"`
	ClientName    string `json:"client_name"`
	CandidateName string `json:"candidate_name"`
	Sector        string `json:"sector"`
	ServiceName   string `json:"service_name"`

	// Overdue is the manual override flag; the effective overdue state is
	// always derived through recon.Classify, never read from storage alone.
	Overdue     bool   `json:"overdue"`
	OverdueDays string `json:"overdue_days,omitempty"`

	Status          string          `json:"status"`
	PartialPayment  bool            `json:"partial_payment"`
	PartialAmount   decimal.Decimal `json:"partial_amount"`
	PartialReceived bool            `json:"partial_received"`

	FileURL  string `json:"file_url,omitempty"`
	FileName string `json:"file_name,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExpenseFilter narrows expense listings. Zero values mean "no filter".
type ExpenseFilter struct {
	UserID string
	Month  int // 1..12
	Year   int
	Search string // matched against company, client and candidate names
}
