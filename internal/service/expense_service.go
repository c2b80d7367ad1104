package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/staffline/expense-erp/internal/domain/lifecycle"
	"github.com/staffline/expense-erp/internal/models"
	"github.com/staffline/expense-erp/internal/recon"
	"github.com/staffline/expense-erp/internal/watch"
)

// Validation errors surfaced to handlers.
var (
	ErrAmountNotPositive = errors.New("amount must be positive")
	ErrUserIDRequired    = errors.New("user_id is required")
	ErrDateRequired      = errors.New("date is required")
)

// ExpenseService manages the expense lifecycle and the derived views
// (overdue listings, balances) built on the reconciliation core.
type ExpenseService struct {
	expenses ExpenseStore
	invoices InvoiceStore
	machine  *lifecycle.Machine
	policy   recon.MatchPolicy
	pub      Publisher
	now      func() time.Time
	logger   *zap.Logger
}

// NewExpenseService creates an expense service. pub may be nil.
func NewExpenseService(
	expenses ExpenseStore,
	invoices InvoiceStore,
	policy recon.MatchPolicy,
	pub Publisher,
	logger *zap.Logger,
) *ExpenseService {
	if pub == nil {
		pub = nopPublisher{}
	}
	return &ExpenseService{
		expenses: expenses,
		invoices: invoices,
		machine:  lifecycle.NewMachine(),
		policy:   policy,
		pub:      pub,
		now:      time.Now,
		logger:   logger,
	}
}

// ExpenseView is an expense enriched with derived reconciliation state.
type ExpenseView struct {
	*models.Expense
	IsOverdue   bool            `json:"is_overdue"`
	DaysOverdue int             `json:"days_overdue"`
	TotalOwed   decimal.Decimal `json:"total_owed"`
	Balance     decimal.Decimal `json:"balance"`
	MatchedID   int64           `json:"matched_invoice_id,omitempty"`
}

// Create validates and stores a new expense in the pending status.
func (s *ExpenseService) Create(exp *models.Expense) error {
	if exp.UserID == "" {
		return ErrUserIDRequired
	}
	if !exp.Amount.IsPositive() {
		return ErrAmountNotPositive
	}
	if exp.Date.IsZero() {
		return ErrDateRequired
	}
	if exp.Status == "" {
		exp.Status = models.StatusPending
	}
	if !lifecycle.Status(exp.Status).IsValid() {
		return fmt.Errorf("%w: %q", lifecycle.ErrInvalidStatus, exp.Status)
	}

	if err := s.expenses.Create(exp); err != nil {
		return err
	}
	s.pub.Publish(watch.Event{Collection: watch.CollectionExpenses, Op: watch.OpCreated, ID: exp.ID})
	return nil
}

// Get returns one expense with its derived state.
func (s *ExpenseService) Get(id int64) (*ExpenseView, error) {
	exp, err := s.expenses.GetByID(id)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoices.List()
	if err != nil {
		return nil, err
	}
	return s.view(exp, invoices), nil
}

// List returns filtered expenses with derived state.
func (s *ExpenseService) List(filter models.ExpenseFilter) ([]*ExpenseView, error) {
	expenses, err := s.expenses.List(filter)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoices.List()
	if err != nil {
		return nil, err
	}

	views := make([]*ExpenseView, 0, len(expenses))
	for _, exp := range expenses {
		views = append(views, s.view(exp, invoices))
	}
	return views, nil
}

// ListOverdue returns the expenses currently classified overdue.
// Admins pass an empty UserID to see everyone's.
func (s *ExpenseService) ListOverdue(filter models.ExpenseFilter) ([]*ExpenseView, error) {
	views, err := s.List(filter)
	if err != nil {
		return nil, err
	}

	overdue := views[:0]
	for _, v := range views {
		if v.IsOverdue {
			overdue = append(overdue, v)
		}
	}
	return overdue, nil
}

// Update persists edits to an expense's descriptive fields and manual
// overdue flag. Status changes go through ChangeStatus, not here.
func (s *ExpenseService) Update(exp *models.Expense) error {
	current, err := s.expenses.GetByID(exp.ID)
	if err != nil {
		return err
	}
	if !exp.Amount.IsPositive() {
		return ErrAmountNotPositive
	}

	// The receipt status is owned by the lifecycle machine.
	exp.Status = current.Status
	exp.PartialReceived = current.PartialReceived

	if err := s.expenses.Update(exp); err != nil {
		return err
	}
	s.pub.Publish(watch.Event{Collection: watch.CollectionExpenses, Op: watch.OpUpdated, ID: exp.ID})
	return nil
}

// Delete removes an expense.
func (s *ExpenseService) Delete(id int64) error {
	if err := s.expenses.Delete(id); err != nil {
		return err
	}
	s.pub.Publish(watch.Event{Collection: watch.CollectionExpenses, Op: watch.OpDeleted, ID: id})
	return nil
}

// MarkReceived records full receipt of payment.
func (s *ExpenseService) MarkReceived(id int64) (*models.Expense, error) {
	return s.fire(id, lifecycle.TriggerMarkReceived, nil)
}

// MarkPaid records that the employee payout completed.
func (s *ExpenseService) MarkPaid(id int64) (*models.Expense, error) {
	return s.fire(id, lifecycle.TriggerMarkPaid, nil)
}

// MarkPartial records an installment payment of the given amount.
func (s *ExpenseService) MarkPartial(id int64, amount decimal.Decimal) (*models.Expense, error) {
	if amount.IsNegative() {
		return nil, ErrAmountNotPositive
	}
	return s.fire(id, lifecycle.TriggerMarkPartial, func(exp *models.Expense) {
		exp.PartialPayment = true
		exp.PartialAmount = amount
		exp.PartialReceived = false
	})
}

// Settle settles the remaining balance on a partial payment: the
// partial amount snaps up to the resolved total and the expense moves
// to received.
func (s *ExpenseService) Settle(id int64) (*models.Expense, error) {
	invoices, err := s.invoices.List()
	if err != nil {
		return nil, err
	}
	return s.fire(id, lifecycle.TriggerSettle, func(exp *models.Expense) {
		recon.SettleBalance(exp, recon.Match(exp, invoices, s.policy))
	})
}

// fire loads the expense, applies the trigger plus any extra mutation,
// and persists. The mutation runs before the machine fires so guards
// see the updated fields; SettleBalance's own status write is then
// confirmed by the machine transition.
func (s *ExpenseService) fire(id int64, trigger lifecycle.Trigger, mutate func(*models.Expense)) (*models.Expense, error) {
	exp, err := s.expenses.GetByID(id)
	if err != nil {
		return nil, err
	}

	prior := exp.Status
	if mutate != nil {
		mutate(exp)
	}
	exp.Status = prior
	if err := s.machine.Fire(exp, trigger); err != nil {
		return nil, err
	}

	if err := s.expenses.Update(exp); err != nil {
		return nil, err
	}

	s.logger.Info("Expense status changed",
		zap.Int64("id", exp.ID),
		zap.String("from", prior),
		zap.String("to", exp.Status),
		zap.String("trigger", trigger.String()))
	s.pub.Publish(watch.Event{Collection: watch.CollectionExpenses, Op: watch.OpUpdated, ID: exp.ID})
	return exp, nil
}

// BulkDelete deletes each expense independently and reports per-item
// outcomes. A failure partway through does not roll back earlier
// deletes; the result makes the partial state explicit.
func (s *ExpenseService) BulkDelete(ids []int64) BulkResult {
	var result BulkResult
	for _, id := range ids {
		err := s.expenses.Delete(id)
		if err != nil {
			s.logger.Error("Bulk delete item failed", zap.Int64("id", id), zap.Error(err))
		} else {
			s.pub.Publish(watch.Event{Collection: watch.CollectionExpenses, Op: watch.OpDeleted, ID: id})
		}
		result.add(id, err)
	}
	return result
}

// MarkMatchedReceived marks every expense matched to the invoice as
// received, one item at a time, reporting per-item outcomes. Expenses
// already received or paid are skipped.
func (s *ExpenseService) MarkMatchedReceived(inv *models.Invoice) (BulkResult, error) {
	expenses, err := s.expenses.List(models.ExpenseFilter{})
	if err != nil {
		return BulkResult{}, err
	}
	invoices, err := s.invoices.List()
	if err != nil {
		return BulkResult{}, err
	}

	var result BulkResult
	for _, exp := range expenses {
		matched := recon.Match(exp, invoices, s.policy)
		if matched == nil || matched.ID != inv.ID {
			continue
		}
		if !s.machine.CanFire(exp, lifecycle.TriggerMarkReceived) {
			continue
		}
		_, err := s.MarkReceived(exp.ID)
		result.add(exp.ID, err)
	}
	return result, nil
}

// view derives the reconciliation state for one expense.
func (s *ExpenseService) view(exp *models.Expense, invoices []*models.Invoice) *ExpenseView {
	matched := recon.Match(exp, invoices, s.policy)
	od := recon.Classify(exp, s.now())

	v := &ExpenseView{
		Expense:     exp,
		IsOverdue:   od.IsOverdue,
		DaysOverdue: od.DaysOverdue,
		TotalOwed:   recon.TotalOwed(exp, matched),
		Balance:     recon.Balance(exp, matched),
	}
	if matched != nil {
		v.MatchedID = matched.ID
	}
	return v
}
