package recon

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/staffline/expense-erp/internal/models"
)

func TestBalance_NoInvoiceMatch(t *testing.T) {
	exp := &models.Expense{
		Amount:         decimal.NewFromInt(1000),
		PartialPayment: true,
		PartialAmount:  decimal.NewFromInt(400),
	}

	got := Balance(exp, nil)
	assert.True(t, got.Equal(decimal.NewFromInt(600)), "balance = %s", got)
}

func TestBalance_InvoiceTotalTakesPrecedence(t *testing.T) {
	exp := &models.Expense{
		Amount:         decimal.NewFromInt(1000),
		PartialPayment: true,
		PartialAmount:  decimal.NewFromInt(400),
	}
	inv := &models.Invoice{Total: decimal.NewFromInt(1500)}

	got := Balance(exp, inv)
	assert.True(t, got.Equal(decimal.NewFromInt(1100)), "balance = %s", got)
}

func TestBalance_ZeroPartialAmount(t *testing.T) {
	exp := &models.Expense{Amount: decimal.NewFromInt(250), PartialPayment: true}

	got := Balance(exp, nil)
	assert.True(t, got.Equal(decimal.NewFromInt(250)))
}

func TestSettleBalance(t *testing.T) {
	exp := &models.Expense{
		Amount:         decimal.NewFromInt(1000),
		Status:         models.StatusPartial,
		PartialPayment: true,
		PartialAmount:  decimal.NewFromInt(400),
	}
	inv := &models.Invoice{Total: decimal.NewFromInt(1500)}

	SettleBalance(exp, inv)

	assert.Equal(t, models.StatusReceived, exp.Status)
	assert.True(t, exp.PartialReceived)
	assert.True(t, exp.PartialAmount.Equal(decimal.NewFromInt(1500)),
		"partial amount snaps up to the resolved total")
	assert.True(t, Balance(exp, inv).IsZero())
}

func TestSettleBalance_NoInvoice(t *testing.T) {
	exp := &models.Expense{
		Amount:         decimal.NewFromInt(1000),
		Status:         models.StatusPartial,
		PartialPayment: true,
		PartialAmount:  decimal.NewFromInt(999),
	}

	SettleBalance(exp, nil)

	assert.True(t, exp.PartialAmount.Equal(decimal.NewFromInt(1000)))
	assert.True(t, Balance(exp, nil).IsZero())
}
