package service

import (
	"errors"

	"go.uber.org/zap"

	"github.com/staffline/expense-erp/internal/models"
)

// ErrChargeNameRequired is returned for a price list entry without a name.
var ErrChargeNameRequired = errors.New("name is required")

// ChargeService manages the static service price list (admin only).
type ChargeService struct {
	charges ChargeStore
	logger  *zap.Logger
}

// NewChargeService creates a charge service.
func NewChargeService(charges ChargeStore, logger *zap.Logger) *ChargeService {
	return &ChargeService{charges: charges, logger: logger}
}

// Create validates and stores a price list entry.
func (s *ChargeService) Create(sc *models.ServiceCharge) error {
	if sc.Name == "" {
		return ErrChargeNameRequired
	}
	if sc.Amount.IsNegative() {
		return ErrAmountNotPositive
	}
	return s.charges.Create(sc)
}

// List returns the full price list.
func (s *ChargeService) List() ([]*models.ServiceCharge, error) {
	return s.charges.List()
}

// Update replaces a price list entry.
func (s *ChargeService) Update(sc *models.ServiceCharge) error {
	if sc.Name == "" {
		return ErrChargeNameRequired
	}
	if sc.Amount.IsNegative() {
		return ErrAmountNotPositive
	}
	return s.charges.Update(sc)
}

// Delete removes a price list entry.
func (s *ChargeService) Delete(id int64) error {
	return s.charges.Delete(id)
}
