package recon

import (
	"github.com/shopspring/decimal"

	"github.com/staffline/expense-erp/internal/models"
)

// TotalOwed resolves the full amount due for an expense. When a
// matching invoice exists its total takes precedence over the raw
// expense amount.
func TotalOwed(exp *models.Expense, matched *models.Invoice) decimal.Decimal {
	if matched != nil {
		return matched.Total
	}
	return exp.Amount
}

// Balance is the outstanding amount on a partially paid expense:
// the resolved total minus whatever has been received so far.
func Balance(exp *models.Expense, matched *models.Invoice) decimal.Decimal {
	return TotalOwed(exp, matched).Sub(exp.PartialAmount)
}

// SettleBalance settles the remaining balance on a partial payment.
// The partial amount is snapped up to the full resolved total, so the
// balance is zero afterwards; this is a deliberate "settle remaining
// balance" operation, not a passthrough of whatever was received.
func SettleBalance(exp *models.Expense, matched *models.Invoice) {
	exp.PartialAmount = TotalOwed(exp, matched)
	exp.PartialReceived = true
	exp.Status = models.StatusReceived
}
