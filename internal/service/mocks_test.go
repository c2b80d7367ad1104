package service

import (
	"errors"
	"sort"

	"github.com/staffline/expense-erp/internal/models"
	"github.com/staffline/expense-erp/internal/repository"
)

// In-memory stores for service tests, mirroring repository semantics.

type mockExpenseStore struct {
	nextID   int64
	byID     map[int64]*models.Expense
	failOn   map[int64]error // per-ID injected failures for Delete/Update
	listErr  error
	createCt int
}

func newMockExpenseStore() *mockExpenseStore {
	return &mockExpenseStore{byID: make(map[int64]*models.Expense), failOn: make(map[int64]error)}
}

func (m *mockExpenseStore) Create(exp *models.Expense) error {
	m.nextID++
	exp.ID = m.nextID
	cp := *exp
	m.byID[exp.ID] = &cp
	m.createCt++
	return nil
}

func (m *mockExpenseStore) GetByID(id int64) (*models.Expense, error) {
	exp, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *exp
	return &cp, nil
}

func (m *mockExpenseStore) List(filter models.ExpenseFilter) ([]*models.Expense, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*models.Expense
	for _, exp := range m.byID {
		if filter.UserID != "" && exp.UserID != filter.UserID {
			continue
		}
		if filter.Year != 0 && exp.Date.Year() != filter.Year {
			continue
		}
		if filter.Month != 0 && int(exp.Date.Month()) != filter.Month {
			continue
		}
		cp := *exp
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockExpenseStore) Update(exp *models.Expense) error {
	if err := m.failOn[exp.ID]; err != nil {
		return err
	}
	if _, ok := m.byID[exp.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *exp
	m.byID[exp.ID] = &cp
	return nil
}

func (m *mockExpenseStore) Delete(id int64) error {
	if err := m.failOn[id]; err != nil {
		return err
	}
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type mockInvoiceStore struct {
	nextID int64
	list   []*models.Invoice
}

func (m *mockInvoiceStore) Create(inv *models.Invoice) error {
	m.nextID++
	inv.ID = m.nextID
	cp := *inv
	m.list = append(m.list, &cp)
	return nil
}

func (m *mockInvoiceStore) GetByID(id int64) (*models.Invoice, error) {
	for _, inv := range m.list {
		if inv.ID == id {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockInvoiceStore) List() ([]*models.Invoice, error) {
	out := make([]*models.Invoice, 0, len(m.list))
	for _, inv := range m.list {
		cp := *inv
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockInvoiceStore) Delete(id int64) error {
	for i, inv := range m.list {
		if inv.ID == id {
			m.list = append(m.list[:i], m.list[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type mockReportStore struct {
	nextID int64
	byID   map[int64]*models.ProfitLossReport
}

func newMockReportStore() *mockReportStore {
	return &mockReportStore{byID: make(map[int64]*models.ProfitLossReport)}
}

func (m *mockReportStore) Create(report *models.ProfitLossReport) error {
	m.nextID++
	report.ID = m.nextID
	cp := *report
	cp.Rows = append([]models.ReportRow(nil), report.Rows...)
	m.byID[report.ID] = &cp
	return nil
}

func (m *mockReportStore) GetByID(id int64) (*models.ProfitLossReport, error) {
	report, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *report
	return &cp, nil
}

func (m *mockReportStore) List() ([]*models.ProfitLossReport, error) {
	var out []*models.ProfitLossReport
	for _, r := range m.byID {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *mockReportStore) Delete(id int64) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

var errInjected = errors.New("injected failure")
