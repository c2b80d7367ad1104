package service

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/staffline/expense-erp/internal/models"
	"github.com/staffline/expense-erp/internal/recon"
	"github.com/staffline/expense-erp/internal/watch"
)

// Report validation errors.
var (
	ErrInvalidPeriod = errors.New("period must be monthly or yearly")
	ErrYearRequired  = errors.New("year is required")
	ErrMonthRequired = errors.New("month is required for monthly reports")
)

// Exporter renders a saved report to a file and returns its path.
type Exporter interface {
	Export(report *models.ProfitLossReport) (string, error)
}

// ReportService computes live profit/loss views and persists them as
// immutable snapshots.
type ReportService struct {
	expenses ExpenseStore
	invoices InvoiceStore
	reports  ReportStore
	exporter Exporter
	pub      Publisher
	logger   *zap.Logger
}

// NewReportService creates a report service. exporter and pub may be
// nil when exports or change events aren't needed.
func NewReportService(
	expenses ExpenseStore,
	invoices InvoiceStore,
	reports ReportStore,
	exporter Exporter,
	pub Publisher,
	logger *zap.Logger,
) *ReportService {
	if pub == nil {
		pub = nopPublisher{}
	}
	return &ReportService{
		expenses: expenses,
		invoices: invoices,
		reports:  reports,
		exporter: exporter,
		pub:      pub,
		logger:   logger,
	}
}

// ReportRequest describes a profit/loss computation: the period to
// cover and the invoice number the admin assigned to each expense row.
// Assignment is manual by design; it is a separate flow from the
// automatic name matcher.
type ReportRequest struct {
	Period   string           `json:"period"` // monthly or yearly
	Month    int              `json:"month,omitempty"`
	Year     int              `json:"year"`
	Search   string           `json:"search,omitempty"`
	Assigned map[int64]string `json:"assigned"` // expense ID -> invoice number
}

func (req *ReportRequest) validate() error {
	if req.Period != models.PeriodMonthly && req.Period != models.PeriodYearly {
		return ErrInvalidPeriod
	}
	if req.Year == 0 {
		return ErrYearRequired
	}
	if req.Period == models.PeriodMonthly && (req.Month < 1 || req.Month > 12) {
		return ErrMonthRequired
	}
	return nil
}

// Compute returns the live profit/loss view for the request. Nothing
// is persisted; edits to expenses or invoices change the next call's
// result.
func (s *ReportService) Compute(req ReportRequest) (recon.Statement, error) {
	if err := req.validate(); err != nil {
		return recon.Statement{}, err
	}

	filter := models.ExpenseFilter{Year: req.Year, Search: req.Search}
	if req.Period == models.PeriodMonthly {
		filter.Month = req.Month
	}

	expenses, err := s.expenses.List(filter)
	if err != nil {
		return recon.Statement{}, err
	}
	invoices, err := s.invoices.List()
	if err != nil {
		return recon.Statement{}, err
	}

	return recon.ProfitLoss(expenses, invoices, req.Assigned), nil
}

// Save computes the view and persists it as an immutable snapshot.
// Later edits or deletions of the source expenses and invoices never
// change a saved report.
func (s *ReportService) Save(req ReportRequest) (*models.ProfitLossReport, error) {
	st, err := s.Compute(req)
	if err != nil {
		return nil, err
	}

	report := &models.ProfitLossReport{
		Period:   req.Period,
		Month:    req.Month,
		Year:     req.Year,
		Revenue:  st.Revenue,
		Expenses: st.Expenses,
		Profit:   st.Profit,
		Rows:     st.Rows,
	}
	if req.Period == models.PeriodYearly {
		report.Month = 0
	}

	if err := s.reports.Create(report); err != nil {
		return nil, err
	}

	s.logger.Info("Profit/loss snapshot saved",
		zap.Int64("id", report.ID),
		zap.String("period", report.Period),
		zap.Int("year", report.Year),
		zap.Int("month", report.Month))
	s.pub.Publish(watch.Event{Collection: watch.CollectionReports, Op: watch.OpCreated, ID: report.ID})
	return report, nil
}

// Get returns a saved snapshot.
func (s *ReportService) Get(id int64) (*models.ProfitLossReport, error) {
	return s.reports.GetByID(id)
}

// List returns saved snapshots, newest first.
func (s *ReportService) List() ([]*models.ProfitLossReport, error) {
	return s.reports.List()
}

// Delete removes a saved snapshot.
func (s *ReportService) Delete(id int64) error {
	if err := s.reports.Delete(id); err != nil {
		return err
	}
	s.pub.Publish(watch.Event{Collection: watch.CollectionReports, Op: watch.OpDeleted, ID: id})
	return nil
}

// Export writes a saved snapshot to a spreadsheet and returns the file
// path.
func (s *ReportService) Export(id int64) (string, error) {
	if s.exporter == nil {
		return "", fmt.Errorf("no exporter configured")
	}
	report, err := s.reports.GetByID(id)
	if err != nil {
		return "", err
	}
	return s.exporter.Export(report)
}
