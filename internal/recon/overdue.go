package recon

import (
	"strconv"
	"strings"
	"time"

	"github.com/staffline/expense-erp/internal/models"
)

// GracePeriod is the window an unsettled partial payment may age before
// it is considered overdue, when no explicit due offset is set.
const GracePeriod = 30 * 24 * time.Hour

// Overdue is the derived overdue state of an expense. Both the boolean
// and the day count come from the same due-date derivation, so they
// cannot drift apart.
type Overdue struct {
	IsOverdue   bool
	DaysOverdue int
	DueDate     time.Time
}

// Classify derives the overdue state of an expense at the given
// instant. Precedence:
//
//  1. Manual flag with a day offset: due = date + offset days, overdue
//     once the due date has passed.
//  2. Manual flag without an offset: overdue unconditionally.
//  3. Unsettled partial payment: overdue once the expense date is older
//     than the grace period.
//  4. Otherwise not overdue.
//
// DaysOverdue counts whole days past the due date, never negative, and
// is non-decreasing as now advances.
func Classify(exp *models.Expense, now time.Time) Overdue {
	switch {
	case exp.Overdue && strings.TrimSpace(exp.OverdueDays) != "":
		due := exp.Date.AddDate(0, 0, parseDayOffset(exp.OverdueDays))
		return Overdue{
			IsOverdue:   due.Before(now),
			DaysOverdue: daysPast(due, now),
			DueDate:     due,
		}
	case exp.Overdue:
		// Manual override with no offset: due immediately.
		return Overdue{
			IsOverdue:   true,
			DaysOverdue: daysPast(exp.Date, now),
			DueDate:     exp.Date,
		}
	case exp.PartialPayment && !exp.PartialReceived:
		due := exp.Date.Add(GracePeriod)
		return Overdue{
			IsOverdue:   due.Before(now),
			DaysOverdue: daysPast(due, now),
			DueDate:     due,
		}
	default:
		return Overdue{}
	}
}

// parseDayOffset reads the stored day offset. The field is free text in
// the legacy data; anything non-numeric counts as a zero offset.
func parseDayOffset(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// daysPast returns the number of whole days now is past due, rounding
// partial days up, floored at zero.
func daysPast(due, now time.Time) int {
	if !due.Before(now) {
		return 0
	}
	elapsed := now.Sub(due)
	days := int(elapsed / (24 * time.Hour))
	if elapsed%(24*time.Hour) != 0 {
		days++
	}
	return days
}
