package domain

import (
	"strings"
	"time"
)

// StorageCategory tells whether an item is kept forever or until a date.
type StorageCategory string

const (
	CategoryLifetime     StorageCategory = "LIFETIME"
	CategorySpecificDate StorageCategory = "SPECIFIC_DATE"
)

// ParseStorageCategory accepts both the stored spelling and the
// lower-case storage type used by clients.
func ParseStorageCategory(raw string) (StorageCategory, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "LIFETIME":
		return CategoryLifetime, true
	case "SPECIFIC_DATE":
		return CategorySpecificDate, true
	}
	return "", false
}

// EvidenceStatus enumerates the lifecycle of an item.
type EvidenceStatus string

const (
	EvidenceStatusActive    EvidenceStatus = "active"
	EvidenceStatusCompleted EvidenceStatus = "completed"
	EvidenceStatusRemoved   EvidenceStatus = "removed"
)

// Valid reports whether s is a known status.
func (s EvidenceStatus) Valid() bool {
	switch s {
	case EvidenceStatusActive, EvidenceStatusCompleted, EvidenceStatusRemoved:
		return true
	}
	return false
}

// CanTransitionTo enforces active -> completed|removed. Completed and
// removed items are terminal.
func (s EvidenceStatus) CanTransitionTo(next EvidenceStatus) bool {
	if s != EvidenceStatusActive {
		return false
	}
	return next == EvidenceStatusCompleted || next == EvidenceStatusRemoved
}

// Evidence is a physical item held in storage.
type Evidence struct {
	ID               string
	Name             string
	CaseNumber       string
	Description      string
	Location         string
	Category         StorageCategory
	ExpiryDate       *time.Time
	Status           EvidenceStatus
	ImageURLs        []string
	AccountFileURL   string
	EnteredBy        string
	InvestigatorID   *string
	CompletionReason string
	CompletedAt      *time.Time
	RemovalReason    string
	RemovedAt        *time.Time
	RemovedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Validate normalizes the expiry date against the category.
func (e *Evidence) Validate() error {
	switch e.Category {
	case CategoryLifetime:
		e.ExpiryDate = nil
	case CategorySpecificDate:
		if e.ExpiryDate == nil {
			return ErrExpiryRequired
		}
	default:
		return ErrInvalidCategory
	}
	return nil
}

// ExpiryState classifies the item at now.
func (e *Evidence) ExpiryState(now time.Time) ExpiryState {
	return Classify(e.Category, e.ExpiryDate, now)
}

// EvidenceFilter narrows evidence listings.
type EvidenceFilter struct {
	Status         *EvidenceStatus
	Category       *StorageCategory
	InvestigatorID *string
	EnteredBy      *string
	Search         string
	// Expiry keeps items in one classifier bucket evaluated at Now.
	Expiry *ExpiryState
	Now    time.Time
	// OwnerScope limits results to items entered by this username or with
	// no owner at all.
	OwnerScope *string
	Limit      int
	Offset     int
}

// ScopeFor applies the role filter of user to f.
func (f *EvidenceFilter) ScopeFor(user User) {
	if user.Role.HasGlobalVisibility() {
		f.OwnerScope = nil
		return
	}
	name := user.Username
	f.OwnerScope = &name
}
