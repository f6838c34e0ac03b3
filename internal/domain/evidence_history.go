package domain

import "time"

// HistoryAction captures what happened to an item.
type HistoryAction string

const (
	HistoryCreated   HistoryAction = "created"
	HistoryUpdated   HistoryAction = "updated"
	HistoryCompleted HistoryAction = "completed"
	HistoryRemoved   HistoryAction = "removed"
)

// FieldChange holds the before and after value of one field.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// EvidenceHistory is an immutable audit trail entry.
type EvidenceHistory struct {
	ID         string
	EvidenceID string
	Action     HistoryAction
	ChangedBy  string
	Reason     string
	Changes    map[string]FieldChange
	CreatedAt  time.Time
}
