package dto

import "github.com/e-ashyoviy-dalillar/evidence-service/internal/domain"

// StatsResponse carries the dashboard counters.
type StatsResponse struct {
	Total      int `json:"total"`
	Active     int `json:"active"`
	Expiring   int `json:"expiring"`
	Expired    int `json:"expired"`
	Completed  int `json:"completed"`
	Removed    int `json:"removed"`
	ThisMonth  int `json:"thisMonth"`
	Lifetime   int `json:"lifetime"`
	Today      int `json:"today"`
	TotalUsers int `json:"totalUsers"`
}

func NewStatsResponse(s domain.EvidenceStats) StatsResponse {
	return StatsResponse(s)
}

type DayCountResponse struct {
	Day     int `json:"day"`
	Created int `json:"created"`
}

// MonthlyResponse summarises one month.
type MonthlyResponse struct {
	Year      int                `json:"year"`
	Month     int                `json:"month"`
	Created   int                `json:"created"`
	Completed int                `json:"completed"`
	Removed   int                `json:"removed"`
	ByDay     []DayCountResponse `json:"byDay"`
}

func NewMonthlyResponse(m domain.MonthlyStats) MonthlyResponse {
	out := MonthlyResponse{
		Year:      m.Year,
		Month:     m.Month,
		Created:   m.Created,
		Completed: m.Completed,
		Removed:   m.Removed,
		ByDay:     make([]DayCountResponse, 0, len(m.ByDay)),
	}
	for _, d := range m.ByDay {
		out.ByDay = append(out.ByDay, DayCountResponse(d))
	}
	return out
}

// PageMeta describes a paginated listing.
type PageMeta struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// UploadResponse is returned after storing an image.
type UploadResponse struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}
