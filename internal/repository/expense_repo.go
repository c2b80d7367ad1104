// Package repository implements SQLite persistence for the ERP
// entities.
package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/staffline/expense-erp/internal/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = sql.ErrNoRows

// ExpenseRepository handles expense database operations.
type ExpenseRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewExpenseRepository creates a new expense repository.
func NewExpenseRepository(db *sql.DB, logger *zap.Logger) *ExpenseRepository {
	return &ExpenseRepository{db: db, logger: logger}
}

const expenseColumns = `id, user_id, amount, description, date, company, client_name,
	candidate_name, sector, service_name, overdue, overdue_days, status,
	partial_payment, partial_amount, partial_received, file_url, file_name,
	created_at, updated_at`

// Create inserts a new expense and assigns its ID.
func (r *ExpenseRepository) Create(exp *models.Expense) error {
	query := `
		INSERT INTO expenses (
			user_id, amount, description, date, company, client_name,
			candidate_name, sector, service_name, overdue, overdue_days, status,
			partial_payment, partial_amount, partial_received, file_url, file_name
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		exp.UserID,
		exp.Amount.String(),
		exp.Description,
		exp.Date,
		exp.Company,
		exp.ClientName,
		exp.CandidateName,
		exp.Sector,
		exp.ServiceName,
		exp.Overdue,
		exp.OverdueDays,
		exp.Status,
		exp.PartialPayment,
		exp.PartialAmount.String(),
		exp.PartialReceived,
		exp.FileURL,
		exp.FileName,
	)
	if err != nil {
		r.logger.Error("Failed to create expense", zap.Error(err))
		return fmt.Errorf("failed to create expense: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	exp.ID = id
	return nil
}

// GetByID retrieves an expense by ID, or ErrNotFound.
func (r *ExpenseRepository) GetByID(id int64) (*models.Expense, error) {
	row := r.db.QueryRow(
		fmt.Sprintf("SELECT %s FROM expenses WHERE id = ?", expenseColumns), id)

	exp, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get expense", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return exp, nil
}

// List returns expenses matching the filter, newest first. Transient
// lock errors are retried a fixed number of times.
func (r *ExpenseRepository) List(filter models.ExpenseFilter) ([]*models.Expense, error) {
	var (
		conds []string
		args  []interface{}
	)

	if filter.UserID != "" {
		conds = append(conds, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.Year != 0 {
		conds = append(conds, "CAST(strftime('%Y', date) AS INTEGER) = ?")
		args = append(args, filter.Year)
	}
	if filter.Month != 0 {
		conds = append(conds, "CAST(strftime('%m', date) AS INTEGER) = ?")
		args = append(args, filter.Month)
	}
	if filter.Search != "" {
		conds = append(conds, "(company LIKE ? OR client_name LIKE ? OR candidate_name LIKE ?)")
		like := "%" + filter.Search + "%"
		args = append(args, like, like, like)
	}

	query := fmt.Sprintf("SELECT %s FROM expenses", expenseColumns)
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY date DESC, id DESC"

	var expenses []*models.Expense
	err := withListRetry(func() error {
		rows, err := r.db.Query(query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		expenses = expenses[:0]
		for rows.Next() {
			exp, err := scanExpense(rows)
			if err != nil {
				return fmt.Errorf("failed to scan expense: %w", err)
			}
			expenses = append(expenses, exp)
		}
		return rows.Err()
	})
	if err != nil {
		r.logger.Error("Failed to list expenses", zap.Error(err))
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

// Update persists the mutable fields of an expense.
func (r *ExpenseRepository) Update(exp *models.Expense) error {
	query := `
		UPDATE expenses SET
			amount = ?, description = ?, date = ?, company = ?, client_name = ?,
			candidate_name = ?, sector = ?, service_name = ?, overdue = ?,
			overdue_days = ?, status = ?, partial_payment = ?, partial_amount = ?,
			partial_received = ?, file_url = ?, file_name = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		exp.Amount.String(),
		exp.Description,
		exp.Date,
		exp.Company,
		exp.ClientName,
		exp.CandidateName,
		exp.Sector,
		exp.ServiceName,
		exp.Overdue,
		exp.OverdueDays,
		exp.Status,
		exp.PartialPayment,
		exp.PartialAmount.String(),
		exp.PartialReceived,
		exp.FileURL,
		exp.FileName,
		exp.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update expense", zap.Int64("id", exp.ID), zap.Error(err))
		return fmt.Errorf("failed to update expense: %w", err)
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

// Delete removes an expense by ID.
func (r *ExpenseRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		r.logger.Error("Failed to delete expense", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete expense: %w", err)
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

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	var (
		exp           models.Expense
		amount        string
		partialAmount string
		date          time.Time
	)

	err := row.Scan(
		&exp.ID,
		&exp.UserID,
		&amount,
		&exp.Description,
		&date,
		&exp.Company,
		&exp.ClientName,
		&exp.CandidateName,
		&exp.Sector,
		&exp.ServiceName,
		&exp.Overdue,
		&exp.OverdueDays,
		&exp.Status,
		&exp.PartialPayment,
		&partialAmount,
		&exp.PartialReceived,
		&exp.FileURL,
		&exp.FileName,
		&exp.CreatedAt,
		&exp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	exp.Amount = parseAmount(amount)
	exp.PartialAmount = parseAmount(partialAmount)
	exp.Date = date
	return &exp, nil
}
