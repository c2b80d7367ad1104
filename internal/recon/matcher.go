// Package recon implements the expense/invoice reconciliation core:
// matching expenses to invoices, deriving overdue state, tracking
// partial-payment balances and aggregating profit/loss totals. All
// functions are pure; callers supply the collections and the clock.
package recon

import (
	"strings"

	"github.com/staffline/expense-erp/internal/models"
)

// MatchPolicy selects how an expense is linked to an invoice. The link
// is recomputed on every call and never persisted, so renaming a
// company after invoicing silently breaks it.
type MatchPolicy int

const (
	// MatchCompanyFirst links by company name, falling back to the
	// candidate name when no company matches. This is the historical
	// behaviour and the default.
	MatchCompanyFirst MatchPolicy = iota

	// MatchCandidateFirst links by candidate name, falling back to the
	// company name.
	MatchCandidateFirst

	// MatchRequireBoth links only when company and candidate names both
	// match the same invoice.
	MatchRequireBoth
)

// Match returns the first invoice linked to the expense under the given
// policy, or nil when no invoice matches. Comparison is exact after
// trimming and case folding; there is no fuzzy matching and no
// tie-break beyond slice order. A nil result means "no revenue
// recognized yet", not an error.
func Match(exp *models.Expense, invoices []*models.Invoice, policy MatchPolicy) *models.Invoice {
	switch policy {
	case MatchCandidateFirst:
		if inv := firstMatch(invoices, func(inv *models.Invoice) bool {
			return nameEqual(exp.CandidateName, inv.CandidateName)
		}); inv != nil {
			return inv
		}
		return firstMatch(invoices, func(inv *models.Invoice) bool {
			return nameEqual(exp.Company, inv.CompanyName)
		})
	case MatchRequireBoth:
		return firstMatch(invoices, func(inv *models.Invoice) bool {
			return nameEqual(exp.Company, inv.CompanyName) &&
				nameEqual(exp.CandidateName, inv.CandidateName)
		})
	default: // MatchCompanyFirst
		if inv := firstMatch(invoices, func(inv *models.Invoice) bool {
			return nameEqual(exp.Company, inv.CompanyName)
		}); inv != nil {
			return inv
		}
		return firstMatch(invoices, func(inv *models.Invoice) bool {
			return nameEqual(exp.CandidateName, inv.CandidateName)
		})
	}
}

func firstMatch(invoices []*models.Invoice, pred func(*models.Invoice) bool) *models.Invoice {
	for _, inv := range invoices {
		if pred(inv) {
			return inv
		}
	}
	return nil
}

// nameEqual compares names case-insensitively after trimming. Empty
// names never match anything; otherwise every blank-company expense
// would link to the first blank-company invoice.
func nameEqual(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(a, b)
}
