package models

import "github.com/shopspring/decimal"

// ServiceCharge is an entry in the static price list. Managed by admins
// only; its lifecycle is independent of expenses and invoices.
type ServiceCharge struct {
	ID     int64           `json:"id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Sector string          `json:"sector"`
}
