package events

import (
	"time"

	"github.com/e-ashyoviy-dalillar/evidence-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEvidenceCreated   EventType = "evidence_created"
	EventEvidenceUpdated   EventType = "evidence_updated"
	EventEvidenceCompleted EventType = "evidence_completed"
	EventEvidenceRemoved   EventType = "evidence_removed"
	EventEvidenceExpiring  EventType = "evidence_expiring"
)

// MutationTypes lists the events that change stored evidence.
var MutationTypes = []EventType{
	EventEvidenceCreated,
	EventEvidenceUpdated,
	EventEvidenceCompleted,
	EventEvidenceRemoved,
}

// Actor is the account that caused an event. Empty for system events.
type Actor struct {
	Username string      `json:"username,omitempty"`
	Role     domain.Role `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	EvidenceID string      `json:"evidence_id"`
	Actor      Actor       `json:"actor"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// EvidenceChangedPayload describes a create, update, complete or remove.
type EvidenceChangedPayload struct {
	Name       string                        `json:"name"`
	CaseNumber string                        `json:"case_number"`
	Status     domain.EvidenceStatus         `json:"status"`
	Reason     string                        `json:"reason,omitempty"`
	Changes    map[string]domain.FieldChange `json:"changes,omitempty"`
}

// EvidenceExpiringPayload is published by the expiry scan.
type EvidenceExpiringPayload struct {
	Name       string    `json:"name"`
	CaseNumber string    `json:"case_number"`
	EnteredBy  string    `json:"entered_by"`
	ExpiryDate time.Time `json:"expiry_date"`
	DaysLeft   int       `json:"days_left"`
}
