package worker

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/staffline/expense-erp/internal/models"
	"github.com/staffline/expense-erp/internal/watch"
)

type staticLister struct {
	expenses []*models.Expense
	err      error
}

func (l *staticLister) List(models.ExpenseFilter) ([]*models.Expense, error) {
	return l.expenses, l.err
}

func TestOverdueScanner_PublishesWhenOverdueFound(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	lister := &staticLister{expenses: []*models.Expense{
		{Status: models.StatusPending, Overdue: true, Amount: decimal.NewFromInt(100), Date: now.AddDate(0, 0, -10)},
		{Status: models.StatusReceived, Overdue: true, Date: now.AddDate(0, 0, -10)}, // closed, ignored
	}}

	hub := watch.NewHub(zap.NewNop())
	got := make(chan watch.Event, 1)
	defer hub.Subscribe(watch.CollectionExpenses, func(ev watch.Event) { got <- ev })()

	s := NewOverdueScanner(lister, hub, time.Minute, zap.NewNop())
	s.now = func() time.Time { return now }
	s.scan()

	select {
	case ev := <-got:
		assert.Equal(t, watch.OpUpdated, ev.Op)
	case <-time.After(time.Second):
		t.Fatal("expected a change event after finding overdue expenses")
	}
}

func TestOverdueScanner_QuietWhenNothingOverdue(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	lister := &staticLister{expenses: []*models.Expense{
		{Status: models.StatusPending, Amount: decimal.NewFromInt(100), Date: now},
	}}

	hub := watch.NewHub(zap.NewNop())
	got := make(chan watch.Event, 1)
	defer hub.Subscribe(watch.CollectionExpenses, func(ev watch.Event) { got <- ev })()

	s := NewOverdueScanner(lister, hub, time.Minute, zap.NewNop())
	s.now = func() time.Time { return now }
	s.scan()

	select {
	case ev := <-got:
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}
