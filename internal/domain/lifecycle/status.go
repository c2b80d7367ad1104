// Package lifecycle models the receipt lifecycle of an expense as an
// explicit state machine: pending -> received, or pending -> partial ->
// received, with a final received -> paid step once the payout clears.
// The overdue flag is an orthogonal derived property, not a state.
package lifecycle

// Status is an expense receipt status.
type Status string

const (
	StatusPending  Status = "pending"
	StatusReceived Status = "received"
	StatusPartial  Status = "partial"
	StatusPaid     Status = "paid"
)

var validStatuses = map[Status]bool{
	StatusPending:  true,
	StatusReceived: true,
	StatusPartial:  true,
	StatusPaid:     true,
}

// IsValid reports whether s is a known receipt status.
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// IsTerminal reports whether no further receipt transitions are
// allowed. Received is not terminal only because the payout step
// (MarkPaid) may still follow; no transition leads back to pending or
// partial from either.
func (s Status) IsTerminal() bool {
	return s == StatusPaid
}

func (s Status) String() string {
	return string(s)
}

// Trigger is an event that advances the receipt lifecycle.
type Trigger string

const (
	// TriggerMarkReceived records full receipt of payment.
	TriggerMarkReceived Trigger = "MARK_RECEIVED"

	// TriggerMarkPartial records an installment payment.
	TriggerMarkPartial Trigger = "MARK_PARTIAL"

	// TriggerSettle settles the remaining balance of a partial payment.
	TriggerSettle Trigger = "SETTLE"

	// TriggerMarkPaid records that the employee payout completed.
	TriggerMarkPaid Trigger = "MARK_PAID"
)

func (t Trigger) String() string {
	return string(t)
}
