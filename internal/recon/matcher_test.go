package recon

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffline/expense-erp/internal/models"
)

func invoice(id int64, company, candidate string, total float64) *models.Invoice {
	return &models.Invoice{
		ID:            id,
		InvoiceNumber: "INV-" + decimal.NewFromInt(id).String(),
		CompanyName:   company,
		CandidateName: candidate,
		Total:         decimal.NewFromFloat(total),
	}
}

func TestMatch_CaseInsensitiveCompany(t *testing.T) {
	exp := &models.Expense{Company: "Acme", Amount: decimal.NewFromInt(1000)}
	invoices := []*models.Invoice{invoice(1, "ACME", "", 1500)}

	got := Match(exp, invoices, MatchCompanyFirst)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.ID)

	// profit = invoice total - expense amount
	profit := got.Total.Sub(exp.Amount)
	assert.True(t, profit.Equal(decimal.NewFromInt(500)), "profit = %s", profit)
}

func TestMatch_FirstInSliceWins(t *testing.T) {
	exp := &models.Expense{Company: "acme"}
	invoices := []*models.Invoice{
		invoice(1, "Acme", "", 100),
		invoice(2, "ACME", "", 200),
	}

	got := Match(exp, invoices, MatchCompanyFirst)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.ID)
}

func TestMatch_CandidateFallback(t *testing.T) {
	exp := &models.Expense{Company: "Globex", CandidateName: "Jane Doe"}
	invoices := []*models.Invoice{
		invoice(1, "Initech", "jane doe", 900),
	}

	got := Match(exp, invoices, MatchCompanyFirst)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.ID)
}

func TestMatch_CompanyTakesPrecedenceOverCandidate(t *testing.T) {
	exp := &models.Expense{Company: "Acme", CandidateName: "Jane Doe"}
	invoices := []*models.Invoice{
		invoice(1, "Globex", "Jane Doe", 100),
		invoice(2, "Acme", "Someone Else", 200),
	}

	got := Match(exp, invoices, MatchCompanyFirst)
	require.NotNil(t, got)
	assert.Equal(t, int64(2), got.ID, "company pass runs before candidate fallback")

	got = Match(exp, invoices, MatchCandidateFirst)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.ID)
}

func TestMatch_RequireBoth(t *testing.T) {
	exp := &models.Expense{Company: "Acme", CandidateName: "Jane Doe"}
	invoices := []*models.Invoice{
		invoice(1, "Acme", "Someone Else", 100),
		invoice(2, "Globex", "Jane Doe", 200),
		invoice(3, "acme ", " jane doe", 300),
	}

	got := Match(exp, invoices, MatchRequireBoth)
	require.NotNil(t, got)
	assert.Equal(t, int64(3), got.ID)
}

func TestMatch_NoMatchReturnsNil(t *testing.T) {
	exp := &models.Expense{Company: "Acme", CandidateName: "Jane Doe"}
	invoices := []*models.Invoice{invoice(1, "Globex", "John Roe", 100)}

	assert.Nil(t, Match(exp, invoices, MatchCompanyFirst))
	assert.Nil(t, Match(exp, nil, MatchCompanyFirst))
}

func TestMatch_EmptyNamesNeverMatch(t *testing.T) {
	exp := &models.Expense{Company: "", CandidateName: "  "}
	invoices := []*models.Invoice{invoice(1, "", "", 100)}

	assert.Nil(t, Match(exp, invoices, MatchCompanyFirst))
}
