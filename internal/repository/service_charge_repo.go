package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/staffline/expense-erp/internal/models"
)

// ServiceChargeRepository handles the static price list.
type ServiceChargeRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewServiceChargeRepository creates a new service charge repository.
func NewServiceChargeRepository(db *sql.DB, logger *zap.Logger) *ServiceChargeRepository {
	return &ServiceChargeRepository{db: db, logger: logger}
}

// Create inserts a new service charge and assigns its ID.
func (r *ServiceChargeRepository) Create(sc *models.ServiceCharge) error {
	result, err := r.db.Exec(
		"INSERT INTO service_charges (name, amount, sector) VALUES (?, ?, ?)",
		sc.Name, sc.Amount.String(), sc.Sector)
	if err != nil {
		r.logger.Error("Failed to create service charge", zap.Error(err))
		return fmt.Errorf("failed to create service charge: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	sc.ID = id
	return nil
}

// List returns all service charges ordered by name.
func (r *ServiceChargeRepository) List() ([]*models.ServiceCharge, error) {
	rows, err := r.db.Query("SELECT id, name, amount, sector FROM service_charges ORDER BY name")
	if err != nil {
		r.logger.Error("Failed to list service charges", zap.Error(err))
		return nil, fmt.Errorf("failed to list service charges: %w", err)
	}
	defer rows.Close()

	var charges []*models.ServiceCharge
	for rows.Next() {
		var (
			sc     models.ServiceCharge
			amount string
		)
		if err := rows.Scan(&sc.ID, &sc.Name, &amount, &sc.Sector); err != nil {
			return nil, fmt.Errorf("failed to scan service charge: %w", err)
		}
		sc.Amount = parseAmount(amount)
		charges = append(charges, &sc)
	}
	return charges, rows.Err()
}

// Update replaces a service charge's fields.
func (r *ServiceChargeRepository) Update(sc *models.ServiceCharge) error {
	result, err := r.db.Exec(
		"UPDATE service_charges SET name = ?, amount = ?, sector = ? WHERE id = ?",
		sc.Name, sc.Amount.String(), sc.Sector, sc.ID)
	if err != nil {
		r.logger.Error("Failed to update service charge", zap.Int64("id", sc.ID), zap.Error(err))
		return fmt.Errorf("failed to update service charge: %w", err)
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

// Delete removes a service charge by ID.
func (r *ServiceChargeRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM service_charges WHERE id = ?", id)
	if err != nil {
		r.logger.Error("Failed to delete service charge", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete service charge: %w", err)
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
