package lifecycle

import (
	"fmt"

	"github.com/staffline/expense-erp/internal/models"
)

// GuardFunc decides whether a transition applies to a given expense.
type GuardFunc func(exp *models.Expense) bool

type transition struct {
	to    Status
	guard GuardFunc
}

// Machine validates and applies receipt-status transitions. It is
// stateless with respect to any particular expense; the current status
// always comes from the expense record itself.
type Machine struct {
	transitions map[Status]map[Trigger][]transition
}

// NewMachine builds the receipt lifecycle machine:
//
//	pending  --MARK_RECEIVED--> received
//	pending  --MARK_PARTIAL-->  partial
//	partial  --SETTLE-->        received   (only for partial payments)
//	partial  --MARK_RECEIVED--> received
//	received --MARK_PAID-->     paid
func NewMachine() *Machine {
	m := &Machine{transitions: make(map[Status]map[Trigger][]transition)}

	m.permit(StatusPending, TriggerMarkReceived, StatusReceived, nil)
	m.permit(StatusPending, TriggerMarkPartial, StatusPartial, nil)
	m.permit(StatusPartial, TriggerSettle, StatusReceived, func(exp *models.Expense) bool {
		return exp.PartialPayment
	})
	m.permit(StatusPartial, TriggerMarkReceived, StatusReceived, nil)
	m.permit(StatusReceived, TriggerMarkPaid, StatusPaid, nil)

	return m
}

func (m *Machine) permit(from Status, trigger Trigger, to Status, guard GuardFunc) {
	if !from.IsValid() || !to.IsValid() {
		panic(fmt.Sprintf("invalid transition %s -> %s", from, to))
	}
	byTrigger, ok := m.transitions[from]
	if !ok {
		byTrigger = make(map[Trigger][]transition)
		m.transitions[from] = byTrigger
	}
	byTrigger[trigger] = append(byTrigger[trigger], transition{to: to, guard: guard})
}

// CanFire reports whether the trigger is permitted for the expense's
// current status, guards included.
func (m *Machine) CanFire(exp *models.Expense, trigger Trigger) bool {
	for _, t := range m.transitions[Status(exp.Status)][trigger] {
		if t.guard == nil || t.guard(exp) {
			return true
		}
	}
	return false
}

// Fire applies the trigger to the expense, updating its status, or
// returns ErrInvalidTransition / ErrGuardFailed without touching it.
func (m *Machine) Fire(exp *models.Expense, trigger Trigger) error {
	current := Status(exp.Status)
	if !current.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, exp.Status)
	}

	candidates := m.transitions[current][trigger]
	if len(candidates) == 0 {
		return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, trigger, current)
	}

	for _, t := range candidates {
		if t.guard == nil || t.guard(exp) {
			exp.Status = string(t.to)
			return nil
		}
	}
	return fmt.Errorf("%w: %s from %s", ErrGuardFailed, trigger, current)
}

// PermittedTriggers returns the triggers that could fire for the
// expense in its current status.
func (m *Machine) PermittedTriggers(exp *models.Expense) []Trigger {
	var triggers []Trigger
	for trigger := range m.transitions[Status(exp.Status)] {
		if m.CanFire(exp, trigger) {
			triggers = append(triggers, trigger)
		}
	}
	return triggers
}
