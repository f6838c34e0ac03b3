package domain

import (
	"math"
	"time"
)

// ExpiringSoonWindowDays is the look-ahead used by the classifier.
const ExpiringSoonWindowDays = 30

const msPerDay = 24 * 60 * 60 * 1000

// ExpiryState is the deadline bucket of an item.
type ExpiryState string

const (
	ExpiryLifetime     ExpiryState = "lifetime"
	ExpiryActive       ExpiryState = "active"
	ExpiryExpiringSoon ExpiryState = "expiring_soon"
	ExpiryExpired      ExpiryState = "expired"
)

// ParseExpiryState validates a client supplied bucket name.
func ParseExpiryState(raw string) (ExpiryState, bool) {
	switch s := ExpiryState(raw); s {
	case ExpiryLifetime, ExpiryActive, ExpiryExpiringSoon, ExpiryExpired:
		return s, true
	}
	return "", false
}

// DaysUntil returns ceil((expiry - now) / 1 day) measured in milliseconds.
func DaysUntil(expiry, now time.Time) int {
	diff := expiry.Sub(now).Milliseconds()
	return int(math.Ceil(float64(diff) / msPerDay))
}

// Classify buckets a deadline. Lifetime items and items with no date are
// never expiring or expired. An expiry instant equal to now is not yet
// expired and lands in expiring_soon.
func Classify(category StorageCategory, expiry *time.Time, now time.Time) ExpiryState {
	if category == CategoryLifetime || expiry == nil {
		return ExpiryLifetime
	}
	if expiry.Before(now) {
		return ExpiryExpired
	}
	if DaysUntil(*expiry, now) <= ExpiringSoonWindowDays {
		return ExpiryExpiringSoon
	}
	return ExpiryActive
}

// DaysLeft is DaysUntil for items with a deadline and nil otherwise.
func DaysLeft(category StorageCategory, expiry *time.Time, now time.Time) *int {
	if category == CategoryLifetime || expiry == nil {
		return nil
	}
	d := DaysUntil(*expiry, now)
	return &d
}
