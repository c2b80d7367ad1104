package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/staffline/expense-erp/internal/models"
	"github.com/staffline/expense-erp/internal/recon"
)

func newExpenseService(t *testing.T) (*ExpenseService, *mockExpenseStore, *mockInvoiceStore) {
	t.Helper()
	expenses := newMockExpenseStore()
	invoices := &mockInvoiceStore{}
	svc := NewExpenseService(expenses, invoices, recon.MatchCompanyFirst, nil, zap.NewNop())
	return svc, expenses, invoices
}

func testExpense(userID, company string, amount int64) *models.Expense {
	return &models.Expense{
		UserID:  userID,
		Company: company,
		Amount:  decimal.NewFromInt(amount),
		Date:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestExpenseService_CreateDefaultsToPending(t *testing.T) {
	svc, store, _ := newExpenseService(t)

	exp := testExpense("u1", "Acme", 1000)
	require.NoError(t, svc.Create(exp))
	assert.NotZero(t, exp.ID)

	stored, err := store.GetByID(exp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestExpenseService_CreateValidation(t *testing.T) {
	svc, _, _ := newExpenseService(t)

	tests := []struct {
		name string
		exp  *models.Expense
		want error
	}{
		{"missing user", &models.Expense{Amount: decimal.NewFromInt(1), Date: time.Now()}, ErrUserIDRequired},
		{"zero amount", &models.Expense{UserID: "u1", Date: time.Now()}, ErrAmountNotPositive},
		{"negative amount", &models.Expense{UserID: "u1", Amount: decimal.NewFromInt(-5), Date: time.Now()}, ErrAmountNotPositive},
		{"missing date", &models.Expense{UserID: "u1", Amount: decimal.NewFromInt(1)}, ErrDateRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, svc.Create(tt.exp), tt.want)
		})
	}
}

func TestExpenseService_ViewMatchesInvoiceRevenue(t *testing.T) {
	svc, _, invoices := newExpenseService(t)

	exp := testExpense("u1", "Acme", 1000)
	require.NoError(t, svc.Create(exp))
	require.NoError(t, invoices.Create(&models.Invoice{
		InvoiceNumber: "INV-1",
		CompanyName:   "ACME",
		Total:         decimal.NewFromInt(1500),
	}))

	view, err := svc.Get(exp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), view.MatchedID, "case-insensitive company match")
	assert.True(t, view.TotalOwed.Equal(decimal.NewFromInt(1500)))
}

func TestExpenseService_PartialThenSettle(t *testing.T) {
	svc, store, _ := newExpenseService(t)

	exp := testExpense("u1", "Acme", 1000)
	require.NoError(t, svc.Create(exp))

	updated, err := svc.MarkPartial(exp.ID, decimal.NewFromInt(400))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPartial, updated.Status)

	view, err := svc.Get(exp.ID)
	require.NoError(t, err)
	assert.True(t, view.Balance.Equal(decimal.NewFromInt(600)), "balance = %s", view.Balance)

	settled, err := svc.Settle(exp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReceived, settled.Status)
	assert.True(t, settled.PartialReceived)
	assert.True(t, settled.PartialAmount.Equal(decimal.NewFromInt(1000)),
		"partial amount snaps to the resolved total")

	stored, err := store.GetByID(exp.ID)
	require.NoError(t, err)
	view = svc.view(stored, nil)
	assert.True(t, view.Balance.IsZero())
}

func TestExpenseService_NoReopeningReceived(t *testing.T) {
	svc, _, _ := newExpenseService(t)

	exp := testExpense("u1", "Acme", 100)
	require.NoError(t, svc.Create(exp))

	_, err := svc.MarkReceived(exp.ID)
	require.NoError(t, err)

	_, err = svc.MarkPartial(exp.ID, decimal.NewFromInt(10))
	assert.Error(t, err, "received is final for receipt transitions")
}

func TestExpenseService_ListOverdue(t *testing.T) {
	svc, _, _ := newExpenseService(t)
	svc.now = func() time.Time { return time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC) }

	manual := testExpense("u1", "Acme", 100)
	manual.Overdue = true
	require.NoError(t, svc.Create(manual))

	clean := testExpense("u1", "Globex", 200)
	require.NoError(t, svc.Create(clean))

	stalePartial := testExpense("u2", "Initech", 300)
	stalePartial.PartialPayment = true
	stalePartial.Date = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) // 61 days old
	require.NoError(t, svc.Create(stalePartial))

	overdue, err := svc.ListOverdue(models.ExpenseFilter{})
	require.NoError(t, err)
	require.Len(t, overdue, 2)

	// User-scoped listing only sees that user's overdue expenses.
	overdue, err = svc.ListOverdue(models.ExpenseFilter{UserID: "u2"})
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "Initech", overdue[0].Company)
}

func TestExpenseService_BulkDeletePartialFailure(t *testing.T) {
	svc, store, _ := newExpenseService(t)

	var ids []int64
	for i := 0; i < 3; i++ {
		exp := testExpense("u1", "Acme", 100)
		require.NoError(t, svc.Create(exp))
		ids = append(ids, exp.ID)
	}
	store.failOn[ids[1]] = errInjected

	result := svc.BulkDelete(ids)

	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Items, 3)
	assert.True(t, result.Items[0].Success)
	assert.False(t, result.Items[1].Success)
	assert.Equal(t, errInjected.Error(), result.Items[1].Error)
	assert.True(t, result.Items[2].Success, "failure on item 2 does not abort item 3")

	// Items 1 and 3 really are gone; item 2 survived.
	_, err := store.GetByID(ids[0])
	assert.Error(t, err)
	_, err = store.GetByID(ids[1])
	assert.NoError(t, err)
	_, err = store.GetByID(ids[2])
	assert.Error(t, err)
}

func TestExpenseService_MarkMatchedReceived(t *testing.T) {
	svc, store, invoices := newExpenseService(t)

	inv := &models.Invoice{InvoiceNumber: "INV-1", CompanyName: "Acme", Total: decimal.NewFromInt(500)}
	require.NoError(t, invoices.Create(inv))

	matched := testExpense("u1", "acme", 100)
	require.NoError(t, svc.Create(matched))
	unmatched := testExpense("u1", "Globex", 100)
	require.NoError(t, svc.Create(unmatched))
	already := testExpense("u1", "ACME", 100)
	require.NoError(t, svc.Create(already))
	_, err := svc.MarkReceived(already.ID)
	require.NoError(t, err)

	result, err := svc.MarkMatchedReceived(inv)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, result.Items, 1, "unmatched and already-received expenses are skipped")
	assert.Equal(t, matched.ID, result.Items[0].ID)

	stored, err := store.GetByID(matched.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReceived, stored.Status)

	storedUnmatched, err := store.GetByID(unmatched.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, storedUnmatched.Status)
}
