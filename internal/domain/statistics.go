package domain

import "time"

// EvidenceStats are the dashboard counters.
type EvidenceStats struct {
	Total      int
	Active     int
	Expiring   int
	Expired    int
	Completed  int
	Removed    int
	ThisMonth  int
	Lifetime   int
	Today      int
	TotalUsers int
}

// DayCount is the number of items created on one day of a month.
type DayCount struct {
	Day     int
	Created int
}

// MonthlyStats summarises one calendar month.
type MonthlyStats struct {
	Year      int
	Month     int
	Created   int
	Completed int
	Removed   int
	ByDay     []DayCount
}

// ComputeStats counts items for the dashboard. Days and months are taken in
// loc. Expiring only counts active items; expired counts any item whose
// deadline has passed.
func ComputeStats(items []Evidence, now time.Time, loc *time.Location) EvidenceStats {
	now = now.In(loc)
	y, m, d := now.Date()

	var s EvidenceStats
	s.Total = len(items)
	for i := range items {
		ev := &items[i]
		state := ev.ExpiryState(now)
		switch ev.Status {
		case EvidenceStatusActive:
			s.Active++
			if state == ExpiryExpiringSoon {
				s.Expiring++
			}
		case EvidenceStatusCompleted:
			s.Completed++
		case EvidenceStatusRemoved:
			s.Removed++
		}
		if state == ExpiryExpired {
			s.Expired++
		}
		if ev.Category == CategoryLifetime {
			s.Lifetime++
		}
		cy, cm, cd := ev.CreatedAt.In(loc).Date()
		if cy == y && cm == m {
			s.ThisMonth++
			if cd == d {
				s.Today++
			}
		}
	}
	return s
}

// ComputeMonthly summarises activity in the given month. ByDay holds one
// entry per calendar day.
func ComputeMonthly(items []Evidence, year int, month time.Month, loc *time.Location) MonthlyStats {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)
	days := int(end.Sub(start).Hours()/24 + 0.5)

	out := MonthlyStats{Year: year, Month: int(month), ByDay: make([]DayCount, days)}
	for i := range out.ByDay {
		out.ByDay[i].Day = i + 1
	}
	within := func(t *time.Time) bool {
		return t != nil && !t.Before(start) && t.Before(end)
	}
	for i := range items {
		ev := &items[i]
		if within(&ev.CreatedAt) {
			out.Created++
			out.ByDay[ev.CreatedAt.In(loc).Day()-1].Created++
		}
		if within(ev.CompletedAt) {
			out.Completed++
		}
		if within(ev.RemovedAt) {
			out.Removed++
		}
	}
	return out
}
