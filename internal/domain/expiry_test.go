package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func at(t time.Time) *time.Time { return &t }

func TestClassify_LifetimeNeverExpires(t *testing.T) {
	dates := []*time.Time{
		nil,
		at(now.AddDate(-5, 0, 0)),
		at(now.Add(-time.Millisecond)),
		at(now),
		at(now.AddDate(0, 0, 3)),
		at(now.AddDate(2, 0, 0)),
	}
	for _, d := range dates {
		got := Classify(CategoryLifetime, d, now)
		assert.Equal(t, ExpiryLifetime, got)
		assert.NotEqual(t, ExpiryExpiringSoon, got)
		assert.NotEqual(t, ExpiryExpired, got)
	}
}

func TestClassify_ExpiringSoonWindow(t *testing.T) {
	for days := 1; days <= ExpiringSoonWindowDays; days++ {
		expiry := now.AddDate(0, 0, days)
		assert.Equal(t, days, DaysUntil(expiry, now))
		assert.Equal(t, ExpiryExpiringSoon, Classify(CategorySpecificDate, &expiry, now), "days=%d", days)
	}
}

func TestClassify_PartialDayRoundsUp(t *testing.T) {
	expiry := now.Add(30*24*time.Hour + time.Minute)
	assert.Equal(t, 31, DaysUntil(expiry, now))
	assert.Equal(t, ExpiryActive, Classify(CategorySpecificDate, &expiry, now))

	soon := now.Add(time.Minute)
	assert.Equal(t, 1, DaysUntil(soon, now))
	assert.Equal(t, ExpiryExpiringSoon, Classify(CategorySpecificDate, &soon, now))
}

func TestClassify_PastDeadlineIsExpired(t *testing.T) {
	for _, d := range []time.Duration{time.Millisecond, time.Hour, 24 * time.Hour, 400 * 24 * time.Hour} {
		expiry := now.Add(-d)
		assert.Equal(t, ExpiryExpired, Classify(CategorySpecificDate, &expiry, now), "d=%s", d)
	}
}

func TestClassify_SameDayEarlierIsExpired(t *testing.T) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	assert.Equal(t, ExpiryExpired, Classify(CategorySpecificDate, &midnight, now))
}

func TestClassify_ExactInstantIsExpiringSoon(t *testing.T) {
	expiry := now
	assert.Equal(t, 0, DaysUntil(expiry, now))
	assert.Equal(t, ExpiryExpiringSoon, Classify(CategorySpecificDate, &expiry, now))
}

func TestClassify_FarFutureIsActive(t *testing.T) {
	expiry := now.AddDate(0, 0, 31)
	assert.Equal(t, ExpiryActive, Classify(CategorySpecificDate, &expiry, now))
}

func TestClassify_SpecificDateWithoutExpiry(t *testing.T) {
	assert.Equal(t, ExpiryLifetime, Classify(CategorySpecificDate, nil, now))
}

func TestDaysLeft(t *testing.T) {
	assert.Nil(t, DaysLeft(CategoryLifetime, at(now.AddDate(0, 0, 3)), now))
	got := DaysLeft(CategorySpecificDate, at(now.AddDate(0, 0, 3)), now)
	if assert.NotNil(t, got) {
		assert.Equal(t, 3, *got)
	}
	past := DaysLeft(CategorySpecificDate, at(now.AddDate(0, 0, -2)), now)
	if assert.NotNil(t, past) {
		assert.Equal(t, -2, *past)
	}
}

func TestParseExpiryState(t *testing.T) {
	s, ok := ParseExpiryState("expiring_soon")
	assert.True(t, ok)
	assert.Equal(t, ExpiryExpiringSoon, s)

	_, ok = ParseExpiryState("soon")
	assert.False(t, ok)
}
