// Package alerts derives advisory display flags from catalog state. The
// flags are never part of billing correctness; overselling is prevented by
// the store's conditional decrement alone.
package alerts

import (
	"time"

	"pharmaflow/internal/models"
)

// Flag is an advisory label on a medicine.
type Flag string

const (
	FlagExpired      Flag = "EXPIRED"
	FlagExpiringSoon Flag = "EXPIRING_SOON"
	FlagLowStock     Flag = "LOW_STOCK"
)

// Thresholds configures the calculator. Values come from process-wide
// configuration, read once at startup.
type Thresholds struct {
	ExpiringSoonDays  int
	LowStockThreshold int
}

// DefaultThresholds matches the recognized configuration defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{ExpiringSoonDays: 30, LowStockThreshold: 10}
}

// Compute evaluates the flags for a medicine as of today. Rules are
// independent and additive: a low-stock medicine can also be expired.
// An expiry on today's date counts as EXPIRED, not EXPIRING_SOON; the
// expiring-soon window covers tomorrow through today+ExpiringSoonDays
// inclusive.
func Compute(med *models.Medicine, today time.Time, t Thresholds) []Flag {
	var flags []Flag
	today = truncateToDay(today)

	if med.ExpiryDate != nil {
		expiry := truncateToDay(*med.ExpiryDate)
		switch {
		case !expiry.After(today):
			flags = append(flags, FlagExpired)
		case daysBetween(today, expiry) <= t.ExpiringSoonDays:
			flags = append(flags, FlagExpiringSoon)
		}
	}

	if med.StockQty <= t.LowStockThreshold {
		flags = append(flags, FlagLowStock)
	}

	return flags
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
