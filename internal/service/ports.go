// Package service implements the application services: expense
// lifecycle management, invoice history, the price list and
// profit/loss reporting. Services own the business rules; handlers
// stay thin.
package service

import (
	"github.com/staffline/expense-erp/internal/models"
	"github.com/staffline/expense-erp/internal/watch"
)

// ExpenseStore is the persistence surface the expense service needs.
type ExpenseStore interface {
	Create(exp *models.Expense) error
	GetByID(id int64) (*models.Expense, error)
	List(filter models.ExpenseFilter) ([]*models.Expense, error)
	Update(exp *models.Expense) error
	Delete(id int64) error
}

// InvoiceStore is the persistence surface for invoice history.
type InvoiceStore interface {
	Create(inv *models.Invoice) error
	GetByID(id int64) (*models.Invoice, error)
	List() ([]*models.Invoice, error)
	Delete(id int64) error
}

// ReportStore is the persistence surface for saved snapshots.
type ReportStore interface {
	Create(report *models.ProfitLossReport) error
	GetByID(id int64) (*models.ProfitLossReport, error)
	List() ([]*models.ProfitLossReport, error)
	Delete(id int64) error
}

// ChargeStore is the persistence surface for the price list.
type ChargeStore interface {
	Create(sc *models.ServiceCharge) error
	List() ([]*models.ServiceCharge, error)
	Update(sc *models.ServiceCharge) error
	Delete(id int64) error
}

// Publisher receives change events after successful mutations.
type Publisher interface {
	Publish(ev watch.Event)
}

// nopPublisher is used when no hub is wired, e.g. in tests.
type nopPublisher struct{}

func (nopPublisher) Publish(watch.Event) {}
