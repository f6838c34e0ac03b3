package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/e-ashyoviy-dalillar/evidence-service/internal/domain"
)

var (
	now      = time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	tashkent = time.FixedZone("UZT", 5*60*60)
)

func TestNewEvidenceResponse_Defaults(t *testing.T) {
	ev := domain.Evidence{
		ID:       "a1b2c3d4-0000-0000-0000-000000000000",
		Category: domain.CategoryLifetime,
		Status:   domain.EvidenceStatusActive,
	}
	resp := NewEvidenceResponse(ev, now, tashkent)

	assert.Equal(t, "EV-A1B2C3D4", resp.EvidenceNumber)
	assert.Equal(t, "-", resp.Location)
	assert.Equal(t, "-", resp.StorageLocation)
	assert.Equal(t, "lifetime", resp.StorageType)
	assert.Equal(t, domain.ExpiryLifetime, resp.ExpiryState)
	assert.Nil(t, resp.DaysLeft)
	assert.Nil(t, resp.ExpiryDate)
	assert.NotNil(t, resp.Images)

	ev.CaseNumber = "CASE-7"
	assert.Equal(t, "CASE-7", NewEvidenceResponse(ev, now, tashkent).EvidenceNumber)
	ev.Name = "Knife"
	assert.Equal(t, "Knife", NewEvidenceResponse(ev, now, tashkent).EvidenceNumber)
}

func TestNewEvidenceResponse_DateRenderedInLocation(t *testing.T) {
	// 2025-03-20 00:00 in Tashkent is 19:00 UTC the day before.
	expiry := time.Date(2025, 3, 19, 19, 0, 0, 0, time.UTC)
	ev := domain.Evidence{
		ID:         "x",
		Name:       "Phone",
		Location:   "Shelf 2",
		Category:   domain.CategorySpecificDate,
		ExpiryDate: &expiry,
		Status:     domain.EvidenceStatusActive,
	}
	resp := NewEvidenceResponse(ev, now, tashkent)

	require.NotNil(t, resp.ExpiryDate)
	assert.Equal(t, "2025-03-20", *resp.ExpiryDate)
	assert.Equal(t, "2025-03-20", resp.StorageDeadline)
	assert.Equal(t, "specific_date", resp.StorageType)
	assert.Equal(t, domain.ExpiryExpiringSoon, resp.ExpiryState)
	require.NotNil(t, resp.DaysLeft)
	assert.Equal(t, 9, *resp.DaysLeft)
	assert.Equal(t, "Shelf 2", resp.StorageLocation)
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate(" 2025-04-01 ", tashkent)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, 3, 31, 19, 0, 0, 0, time.UTC)))

	got, err = ParseDate("", tashkent)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ParseDate("01/04/2025", tashkent)
	assert.Error(t, err)
}

func TestNewHistoryList_ChangeLogSorted(t *testing.T) {
	out := NewHistoryList([]domain.EvidenceHistory{{
		ID:     "h1",
		Action: domain.HistoryUpdated,
		Changes: map[string]domain.FieldChange{
			"location":   {Old: "A", New: "B"},
			"caseNumber": {Old: "1", New: "2"},
		},
	}, {ID: "h2", Action: domain.HistoryCreated}})

	require.Len(t, out, 2)
	assert.Equal(t, "caseNumber: 1 -> 2; location: A -> B", out[0].ChangeLog)
	assert.NotNil(t, out[1].Changes)
	assert.Equal(t, "", out[1].ChangeLog)
}

func TestStatsConversions(t *testing.T) {
	stats := NewStatsResponse(domain.EvidenceStats{Total: 3, Expired: 1, TotalUsers: 2})
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Expired)

	monthly := NewMonthlyResponse(domain.MonthlyStats{Year: 2025, Month: 2, ByDay: make([]domain.DayCount, 28)})
	assert.Len(t, monthly.ByDay, 28)
}
