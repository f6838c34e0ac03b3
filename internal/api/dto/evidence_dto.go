package dto

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/e-ashyoviy-dalillar/evidence-service/internal/domain"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// CreateEvidenceRequest payload.
type CreateEvidenceRequest struct {
	Name           string   `json:"name" validate:"required,max=255"`
	CaseNumber     string   `json:"caseNumber" validate:"max=255"`
	Description    string   `json:"description" validate:"max=5000"`
	Location       string   `json:"location" validate:"max=255"`
	Category       string   `json:"category" validate:"required,storage_category"`
	ExpiryDate     string   `json:"expiryDate" validate:"omitempty,datetime=2006-01-02"`
	ImageURL       string   `json:"imageUrl" validate:"omitempty,url"`
	ImageURLs      []string `json:"imageUrls" validate:"omitempty,max=20,dive,url"`
	AccountFileURL string   `json:"accountFileUrl" validate:"omitempty,url"`
}

// Images merges the single and list forms of the image field.
func (r CreateEvidenceRequest) Images() []string {
	out := append([]string{}, r.ImageURLs...)
	if r.ImageURL != "" {
		out = append(out, r.ImageURL)
	}
	return out
}

// UpdateEvidenceRequest is a partial update. Reason is mandatory.
type UpdateEvidenceRequest struct {
	Name           *string   `json:"name" validate:"omitempty,min=1,max=255"`
	CaseNumber     *string   `json:"caseNumber" validate:"omitempty,max=255"`
	Description    *string   `json:"description" validate:"omitempty,max=5000"`
	Location       *string   `json:"location" validate:"omitempty,max=255"`
	Category       *string   `json:"category" validate:"omitempty,storage_category"`
	ExpiryDate     *string   `json:"expiryDate" validate:"omitempty,datetime=2006-01-02"`
	ImageURLs      *[]string `json:"imageUrls" validate:"omitempty,max=20,dive,url"`
	AccountFileURL *string   `json:"accountFileUrl" validate:"omitempty,url"`
	Reason         string    `json:"reason" validate:"required,max=1000"`
}

// CompleteEvidenceRequest payload.
type CompleteEvidenceRequest struct {
	Reason         string `json:"reason" validate:"required,max=1000"`
	AccountFileURL string `json:"accountFileUrl" validate:"omitempty,url"`
}

// RemoveEvidenceRequest payload.
type RemoveEvidenceRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

// EvidenceResponse is the client shape of an item. Besides the stored
// fields it carries the dashboard aliases and the deadline classification.
type EvidenceResponse struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	EvidenceNumber   string             `json:"evidenceNumber"`
	CaseNumber       string             `json:"caseNumber"`
	EMaterialNumber  string             `json:"eMaterialNumber"`
	Description      string             `json:"description"`
	EventDetails     string             `json:"eventDetails"`
	Location         string             `json:"location"`
	StorageLocation  string             `json:"storageLocation"`
	Category         string             `json:"category"`
	StorageType      string             `json:"storageType"`
	ExpiryDate       *string            `json:"expiryDate"`
	StorageDeadline  string             `json:"storageDeadline"`
	ExpiryState      domain.ExpiryState `json:"expiryState"`
	DaysLeft         *int               `json:"daysLeft"`
	Status           string             `json:"status"`
	Images           []string           `json:"images"`
	AccountFile      string             `json:"accountFile,omitempty"`
	EnteredBy        string             `json:"enteredBy"`
	InvestigatorID   *string            `json:"investigatorId"`
	CompletionReason string             `json:"completionReason,omitempty"`
	CompletedAt      *time.Time         `json:"completedAt,omitempty"`
	RemovalReason    string             `json:"removalReason,omitempty"`
	RemovedAt        *time.Time         `json:"removedAt,omitempty"`
	RemovedBy        string             `json:"removedBy,omitempty"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

// NewEvidenceResponse maps an item, classifying its deadline at now in loc.
func NewEvidenceResponse(ev domain.Evidence, now time.Time, loc *time.Location) EvidenceResponse {
	resp := EvidenceResponse{
		ID:               ev.ID,
		Name:             ev.Name,
		EvidenceNumber:   evidenceNumber(ev),
		CaseNumber:       ev.CaseNumber,
		EMaterialNumber:  ev.CaseNumber,
		Description:      ev.Description,
		EventDetails:     ev.Description,
		Location:         defaultString(ev.Location, "-"),
		StorageLocation:  defaultString(ev.Location, "-"),
		Category:         string(ev.Category),
		StorageType:      storageType(ev.Category),
		ExpiryState:      ev.ExpiryState(now),
		DaysLeft:         domain.DaysLeft(ev.Category, ev.ExpiryDate, now),
		Status:           string(ev.Status),
		Images:           ev.ImageURLs,
		AccountFile:      ev.AccountFileURL,
		EnteredBy:        ev.EnteredBy,
		InvestigatorID:   ev.InvestigatorID,
		CompletionReason: ev.CompletionReason,
		CompletedAt:      ev.CompletedAt,
		RemovalReason:    ev.RemovalReason,
		RemovedAt:        ev.RemovedAt,
		RemovedBy:        ev.RemovedBy,
		CreatedAt:        ev.CreatedAt,
		UpdatedAt:        ev.UpdatedAt,
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	if ev.ExpiryDate != nil && ev.Category != domain.CategoryLifetime {
		date := ev.ExpiryDate.In(loc).Format(DateLayout)
		resp.ExpiryDate = &date
		resp.StorageDeadline = date
	}
	return resp
}

// NewEvidenceList maps a slice of items.
func NewEvidenceList(items []domain.Evidence, now time.Time, loc *time.Location) []EvidenceResponse {
	out := make([]EvidenceResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewEvidenceResponse(it, now, loc))
	}
	return out
}

// HistoryResponse is one audit entry.
type HistoryResponse struct {
	ID        string                        `json:"id"`
	Action    domain.HistoryAction          `json:"action"`
	EditedBy  string                        `json:"editedBy"`
	EditDate  time.Time                     `json:"editDate"`
	Reason    string                        `json:"reason"`
	Changes   map[string]domain.FieldChange `json:"changes"`
	ChangeLog string                        `json:"changeLog"`
}

// NewHistoryList maps audit entries.
func NewHistoryList(entries []domain.EvidenceHistory) []HistoryResponse {
	out := make([]HistoryResponse, 0, len(entries))
	for _, e := range entries {
		changes := e.Changes
		if changes == nil {
			changes = map[string]domain.FieldChange{}
		}
		out = append(out, HistoryResponse{
			ID:        e.ID,
			Action:    e.Action,
			EditedBy:  e.ChangedBy,
			EditDate:  e.CreatedAt,
			Reason:    e.Reason,
			Changes:   changes,
			ChangeLog: changeLog(changes),
		})
	}
	return out
}

// ParseDate reads a YYYY-MM-DD date as midnight in loc.
func ParseDate(raw string, loc *time.Location) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, raw, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func changeLog(changes map[string]domain.FieldChange) string {
	lines := make([]string, 0, len(changes))
	for _, field := range slices.Sorted(maps.Keys(changes)) {
		c := changes[field]
		lines = append(lines, fmt.Sprintf("%s: %v -> %v", field, c.Old, c.New))
	}
	return strings.Join(lines, "; ")
}

func evidenceNumber(ev domain.Evidence) string {
	switch {
	case strings.TrimSpace(ev.Name) != "":
		return ev.Name
	case strings.TrimSpace(ev.CaseNumber) != "":
		return ev.CaseNumber
	}
	short := strings.ReplaceAll(ev.ID, "-", "")
	if len(short) > 8 {
		short = short[:8]
	}
	return "EV-" + strings.ToUpper(short)
}

func storageType(c domain.StorageCategory) string {
	if c == domain.CategoryLifetime {
		return "lifetime"
	}
	return "specific_date"
}

func defaultString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
