// Package worker runs background jobs for the ERP service.
package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/staffline/expense-erp/internal/models"
	"github.com/staffline/expense-erp/internal/recon"
	"github.com/staffline/expense-erp/internal/watch"
)

// ExpenseLister is the slice of the expense store the scanner needs.
type ExpenseLister interface {
	List(filter models.ExpenseFilter) ([]*models.Expense, error)
}

// OverdueScanner periodically recomputes overdue classification over
// all open expenses, logs a summary and publishes a change event so
// subscribed views refresh. Classification itself stays derived; the
// scanner never writes the computed state back to storage.
type OverdueScanner struct {
	expenses ExpenseLister
	hub      *watch.Hub
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewOverdueScanner creates a scanner. interval must be positive.
func NewOverdueScanner(expenses ExpenseLister, hub *watch.Hub, interval time.Duration, logger *zap.Logger) *OverdueScanner {
	return &OverdueScanner{
		expenses: expenses,
		hub:      hub,
		interval: interval,
		now:      time.Now,
		logger:   logger,
	}
}

// Run scans on every tick until the context is cancelled.
func (s *OverdueScanner) Run(ctx context.Context) {
	s.logger.Info("Overdue scanner started", zap.Duration("interval", s.interval))
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Overdue scanner stopped")
			return
		case <-ticker.C:
			s.scan()
		}
	}
}

// scan performs a single pass.
func (s *OverdueScanner) scan() {
	expenses, err := s.expenses.List(models.ExpenseFilter{})
	if err != nil {
		s.logger.Error("Overdue scan failed to list expenses", zap.Error(err))
		return
	}

	now := s.now()
	count := 0
	maxDays := 0
	for _, exp := range expenses {
		if exp.Status == models.StatusReceived || exp.Status == models.StatusPaid {
			continue
		}
		od := recon.Classify(exp, now)
		if od.IsOverdue {
			count++
			if od.DaysOverdue > maxDays {
				maxDays = od.DaysOverdue
			}
		}
	}

	s.logger.Info("Overdue scan completed",
		zap.Int("open_expenses", len(expenses)),
		zap.Int("overdue", count),
		zap.Int("max_days_overdue", maxDays))

	if count > 0 && s.hub != nil {
		s.hub.Publish(watch.Event{Collection: watch.CollectionExpenses, Op: watch.OpUpdated})
	}
}
