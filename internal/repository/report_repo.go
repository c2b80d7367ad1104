package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/staffline/expense-erp/internal/models"
)

// ReportRepository persists profit/loss snapshots. Saved reports are
// immutable; there is no Update.
type ReportRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewReportRepository creates a new report repository.
func NewReportRepository(db *sql.DB, logger *zap.Logger) *ReportRepository {
	return &ReportRepository{db: db, logger: logger}
}

// Create stores a snapshot and assigns its ID.
func (r *ReportRepository) Create(report *models.ProfitLossReport) error {
	rows, err := json.Marshal(report.Rows)
	if err != nil {
		return fmt.Errorf("failed to marshal report rows: %w", err)
	}

	query := `
		INSERT INTO profit_loss_reports (
			period, month, year, revenue, expenses, profit, report_data
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		report.Period,
		report.Month,
		report.Year,
		report.Revenue.String(),
		report.Expenses.String(),
		report.Profit.String(),
		string(rows),
	)
	if err != nil {
		r.logger.Error("Failed to create report", zap.Error(err))
		return fmt.Errorf("failed to create report: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	report.ID = id
	return nil
}

// GetByID retrieves a saved report, or ErrNotFound.
func (r *ReportRepository) GetByID(id int64) (*models.ProfitLossReport, error) {
	row := r.db.QueryRow(`
		SELECT id, period, month, year, revenue, expenses, profit, report_data, created_at
		FROM profit_loss_reports WHERE id = ?`, id)

	report, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get report", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return report, nil
}

// List returns saved reports, newest first.
func (r *ReportRepository) List() ([]*models.ProfitLossReport, error) {
	rows, err := r.db.Query(`
		SELECT id, period, month, year, revenue, expenses, profit, report_data, created_at
		FROM profit_loss_reports ORDER BY created_at DESC, id DESC`)
	if err != nil {
		r.logger.Error("Failed to list reports", zap.Error(err))
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.ProfitLossReport
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// Delete removes a saved report by ID.
func (r *ReportRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM profit_loss_reports WHERE id = ?", id)
	if err != nil {
		r.logger.Error("Failed to delete report", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete report: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanReport(row rowScanner) (*models.ProfitLossReport, error) {
	var (
		report   models.ProfitLossReport
		revenue  string
		expenses string
		profit   string
		data     string
	)

	err := row.Scan(
		&report.ID,
		&report.Period,
		&report.Month,
		&report.Year,
		&revenue,
		&expenses,
		&profit,
		&data,
		&report.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(data), &report.Rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report rows: %w", err)
	}
	report.Revenue = parseAmount(revenue)
	report.Expenses = parseAmount(expenses)
	report.Profit = parseAmount(profit)
	return &report, nil
}
