package recon

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/staffline/expense-erp/internal/models"
)

// Statement is a live profit/loss view over a set of expenses. It is
// recomputed on demand; persisting it as an immutable snapshot is the
// report service's job.
type Statement struct {
	Rows     []models.ReportRow
	Revenue  decimal.Decimal
	Expenses decimal.Decimal
	Profit   decimal.Decimal
}

// ProfitLoss reconciles each expense against the invoice number the
// admin assigned to it (keyed by expense ID) and aggregates period
// totals. An expense with no assignment, or an assignment that resolves
// to no invoice, contributes zero revenue and therefore negative
// profit. This flow is deliberate manual reconciliation, distinct from
// the automatic name matcher.
func ProfitLoss(expenses []*models.Expense, invoices []*models.Invoice, assigned map[int64]string) Statement {
	st := Statement{
		Revenue:  decimal.Zero,
		Expenses: decimal.Zero,
		Profit:   decimal.Zero,
	}

	for _, exp := range expenses {
		number := assigned[exp.ID]
		revenue := decimal.Zero
		if inv := LookupInvoice(invoices, number); inv != nil {
			revenue = inv.Total
		}
		profit := revenue.Sub(exp.Amount)

		st.Rows = append(st.Rows, models.ReportRow{
			ExpenseID:     exp.ID,
			Company:       exp.Company,
			CandidateName: exp.CandidateName,
			InvoiceNumber: number,
			Revenue:       revenue,
			Expense:       exp.Amount,
			Profit:        profit,
		})

		st.Revenue = st.Revenue.Add(revenue)
		st.Expenses = st.Expenses.Add(exp.Amount)
		st.Profit = st.Profit.Add(profit)
	}

	return st
}

// LookupInvoice resolves an invoice by number. Match attempts run in
// priority order: exact, then case-insensitive, then trimmed. The
// looser passes only run when the stricter ones found nothing, so an
// exact match always wins over a sloppier one.
func LookupInvoice(invoices []*models.Invoice, number string) *models.Invoice {
	if number == "" {
		return nil
	}
	for _, inv := range invoices {
		if inv.InvoiceNumber == number {
			return inv
		}
	}
	for _, inv := range invoices {
		if strings.EqualFold(inv.InvoiceNumber, number) {
			return inv
		}
	}
	trimmed := strings.TrimSpace(number)
	for _, inv := range invoices {
		if strings.EqualFold(strings.TrimSpace(inv.InvoiceNumber), trimmed) {
			return inv
		}
	}
	return nil
}
