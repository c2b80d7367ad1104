package repository

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	listRetries    = 3
	listRetryDelay = 200 * time.Millisecond
)

// withListRetry retries fn up to three times with a fixed delay when it
// fails with a transient lock error. Only list queries use this; writes
// surface their first error to the caller.
func withListRetry(fn func() error) error {
	var err error
	for attempt := 0; attempt < listRetries; attempt++ {
		if err = fn(); err == nil || !isTransient(err) {
			return err
		}
		time.Sleep(listRetryDelay)
	}
	return err
}

func isTransient(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}

// parseAmount reads a stored decimal column. Legacy rows may hold empty
// or malformed text; those count as zero rather than failing the scan.
func parseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
