package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/e-ashyoviy-dalillar/evidence-service/internal/domain"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/events"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/observability"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/repository"
)

// MaxExpiringDays caps the look-ahead of the expiring listing.
const MaxExpiringDays = 365

const dateLayout = "2006-01-02"

// EvidenceService coordinates evidence workflows.
type EvidenceService struct {
	evidence   repository.EvidenceRepository
	history    repository.EvidenceHistoryRepository
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	loc        *time.Location
	now        func() time.Time
}

// EvidenceDependencies bundles collaborators for the evidence service.
type EvidenceDependencies struct {
	EvidenceRepo repository.EvidenceRepository
	HistoryRepo  repository.EvidenceHistoryRepository
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
	// Location renders calendar dates in history entries. Defaults to UTC.
	Location *time.Location
	Clock    func() time.Time
}

// EvidenceQuery describes listing filters.
type EvidenceQuery struct {
	Status         *domain.EvidenceStatus
	Category       *domain.StorageCategory
	Expiry         *domain.ExpiryState
	InvestigatorID *string
	Search         string
	Page           int
	Limit          int
}

// EvidencePage is one page of a listing together with the instant the
// deadlines were classified at.
type EvidencePage struct {
	Items []domain.Evidence
	Total int
	Page  int
	Limit int
	Now   time.Time
}

// EvidenceInput describes a new item.
type EvidenceInput struct {
	Name           string
	CaseNumber     string
	Description    string
	Location       string
	Category       domain.StorageCategory
	ExpiryDate     *time.Time
	ImageURLs      []string
	AccountFileURL string
}

// EvidencePatch describes a partial update. Nil fields stay untouched.
type EvidencePatch struct {
	Name           *string
	CaseNumber     *string
	Description    *string
	Location       *string
	Category       *domain.StorageCategory
	ExpiryDate     *time.Time
	ImageURLs      *[]string
	AccountFileURL *string
	Reason         string
}

// NewEvidenceService constructs the service.
func NewEvidenceService(deps EvidenceDependencies) *EvidenceService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	return &EvidenceService{
		evidence:   deps.EvidenceRepo,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		loc:        loc,
		now:        clock,
	}
}

// Now returns the service clock.
func (s *EvidenceService) Now() time.Time {
	return s.now()
}

// List returns the caller's visible items matching the query.
func (s *EvidenceService) List(ctx context.Context, user domain.User, q EvidenceQuery) (*EvidencePage, error) {
	page, limit := normalizePage(q.Page, q.Limit)
	now := s.now()

	filter := domain.EvidenceFilter{
		Status:         q.Status,
		Category:       q.Category,
		Expiry:         q.Expiry,
		InvestigatorID: q.InvestigatorID,
		Search:         q.Search,
		Now:            now,
		Limit:          limit,
		Offset:         (page - 1) * limit,
	}
	filter.ScopeFor(user)

	items, err := s.evidence.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.evidence.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &EvidencePage{
		Items: domain.FilterForUser(items, user),
		Total: total,
		Page:  page,
		Limit: limit,
		Now:   now,
	}, nil
}

// Expiring returns active dated items visible to user whose deadline has
// not passed yet and is at most days days away, soonest first.
func (s *EvidenceService) Expiring(ctx context.Context, user domain.User, days int) ([]domain.Evidence, time.Time, error) {
	if days < 0 {
		days = 0
	}
	if days > MaxExpiringDays {
		days = MaxExpiringDays
	}
	now := s.now()

	var scope domain.EvidenceFilter
	scope.ScopeFor(user)

	// Items past their deadline belong to the expired bucket.
	from := now.Add(-time.Nanosecond)
	to := now.Add(time.Duration(days) * 24 * time.Hour)
	items, err := s.evidence.ListExpiring(ctx, from, to, scope.OwnerScope)
	if err != nil {
		return nil, now, err
	}

	out := make([]domain.Evidence, 0, len(items))
	for _, ev := range domain.FilterForUser(items, user) {
		if ev.ExpiryDate == nil || ev.ExpiryDate.Before(now) {
			continue
		}
		if d := domain.DaysUntil(*ev.ExpiryDate, now); d <= days {
			out = append(out, ev)
		}
	}
	return out, now, nil
}

// Get returns one item. Items hidden from the caller are reported as missing.
func (s *EvidenceService) Get(ctx context.Context, user domain.User, id string) (*domain.Evidence, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrEvidenceNotFound
	}
	ev, err := s.evidence.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.VisibleTo(user, *ev) {
		return nil, domain.ErrEvidenceNotFound
	}
	return ev, nil
}

// Create records a new item owned by the caller.
func (s *EvidenceService) Create(ctx context.Context, user domain.User, input EvidenceInput) (*domain.Evidence, error) {
	if !user.Role.CanManageEvidence() {
		return nil, domain.ErrForbidden
	}

	ev := &domain.Evidence{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(input.Name),
		CaseNumber:     strings.TrimSpace(input.CaseNumber),
		Description:    strings.TrimSpace(input.Description),
		Location:       strings.TrimSpace(input.Location),
		Category:       input.Category,
		ExpiryDate:     input.ExpiryDate,
		Status:         domain.EvidenceStatusActive,
		ImageURLs:      input.ImageURLs,
		AccountFileURL: strings.TrimSpace(input.AccountFileURL),
		EnteredBy:      user.Username,
		InvestigatorID: &user.ID,
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}

	if err := s.evidence.Create(ctx, ev); err != nil {
		return nil, err
	}
	if err := s.record(ctx, ev.ID, domain.HistoryCreated, user, "", nil); err != nil {
		return nil, err
	}

	s.metrics.RecordMutation(string(domain.HistoryCreated))
	s.publishEvent(ctx, events.EventEvidenceCreated, ev, user, "", nil)
	return ev, nil
}

// Update applies a partial change to an active item.
func (s *EvidenceService) Update(ctx context.Context, user domain.User, id string, patch EvidencePatch) (*domain.Evidence, error) {
	reason := strings.TrimSpace(patch.Reason)
	if reason == "" {
		return nil, domain.ErrReasonRequired
	}

	ev, err := s.editable(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if ev.Status != domain.EvidenceStatusActive {
		return nil, domain.ErrInvalidStatusTransition
	}

	changes := map[string]domain.FieldChange{}
	setString(changes, "name", &ev.Name, patch.Name)
	setString(changes, "caseNumber", &ev.CaseNumber, patch.CaseNumber)
	setString(changes, "description", &ev.Description, patch.Description)
	setString(changes, "location", &ev.Location, patch.Location)
	setString(changes, "accountFileUrl", &ev.AccountFileURL, patch.AccountFileURL)

	oldExpiry := ev.ExpiryDate
	oldCategory := ev.Category
	if patch.Category != nil {
		ev.Category = *patch.Category
	}
	if patch.ExpiryDate != nil {
		ev.ExpiryDate = patch.ExpiryDate
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	if ev.Category != oldCategory {
		changes["category"] = domain.FieldChange{Old: oldCategory, New: ev.Category}
	}
	if !sameInstant(oldExpiry, ev.ExpiryDate) {
		changes["expiryDate"] = domain.FieldChange{Old: s.formatDate(oldExpiry), New: s.formatDate(ev.ExpiryDate)}
	}
	if patch.ImageURLs != nil && !slices.Equal(ev.ImageURLs, *patch.ImageURLs) {
		changes["images"] = domain.FieldChange{Old: len(ev.ImageURLs), New: len(*patch.ImageURLs)}
		ev.ImageURLs = *patch.ImageURLs
	}

	if len(changes) == 0 {
		return ev, nil
	}

	if err := s.evidence.Update(ctx, ev); err != nil {
		return nil, err
	}
	if err := s.record(ctx, ev.ID, domain.HistoryUpdated, user, reason, changes); err != nil {
		return nil, err
	}

	s.metrics.RecordMutation(string(domain.HistoryUpdated))
	s.publishEvent(ctx, events.EventEvidenceUpdated, ev, user, reason, changes)
	return ev, nil
}

// Complete closes an active item.
func (s *EvidenceService) Complete(ctx context.Context, user domain.User, id, reason, accountFileURL string) (*domain.Evidence, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.ErrReasonRequired
	}

	ev, err := s.editable(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if !ev.Status.CanTransitionTo(domain.EvidenceStatusCompleted) {
		return nil, domain.ErrInvalidStatusTransition
	}

	now := s.now()
	changes := map[string]domain.FieldChange{"status": {Old: ev.Status, New: domain.EvidenceStatusCompleted}}
	ev.Status = domain.EvidenceStatusCompleted
	ev.CompletionReason = reason
	ev.CompletedAt = &now
	if url := strings.TrimSpace(accountFileURL); url != "" {
		changes["accountFileUrl"] = domain.FieldChange{Old: ev.AccountFileURL, New: url}
		ev.AccountFileURL = url
	}

	if err := s.evidence.Update(ctx, ev); err != nil {
		return nil, err
	}
	if err := s.record(ctx, ev.ID, domain.HistoryCompleted, user, reason, changes); err != nil {
		return nil, err
	}

	s.metrics.RecordMutation(string(domain.HistoryCompleted))
	s.publishEvent(ctx, events.EventEvidenceCompleted, ev, user, reason, changes)
	return ev, nil
}

// Remove soft-deletes an active item.
func (s *EvidenceService) Remove(ctx context.Context, user domain.User, id, reason string) (*domain.Evidence, error) {
	reason = strings.TrimSpace(reason)

	ev, err := s.editable(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if !ev.Status.CanTransitionTo(domain.EvidenceStatusRemoved) {
		return nil, domain.ErrInvalidStatusTransition
	}

	now := s.now()
	changes := map[string]domain.FieldChange{"status": {Old: ev.Status, New: domain.EvidenceStatusRemoved}}
	ev.Status = domain.EvidenceStatusRemoved
	ev.RemovalReason = reason
	ev.RemovedAt = &now
	ev.RemovedBy = user.Username

	if err := s.evidence.Update(ctx, ev); err != nil {
		return nil, err
	}
	if err := s.record(ctx, ev.ID, domain.HistoryRemoved, user, reason, changes); err != nil {
		return nil, err
	}

	s.metrics.RecordMutation(string(domain.HistoryRemoved))
	s.publishEvent(ctx, events.EventEvidenceRemoved, ev, user, reason, changes)
	return ev, nil
}

// History returns the audit trail of a visible item, oldest first.
func (s *EvidenceService) History(ctx context.Context, user domain.User, id string) ([]domain.EvidenceHistory, error) {
	if _, err := s.Get(ctx, user, id); err != nil {
		return nil, err
	}
	return s.history.ListByEvidence(ctx, id)
}

func (s *EvidenceService) editable(ctx context.Context, user domain.User, id string) (*domain.Evidence, error) {
	ev, err := s.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanModify(user, *ev) {
		return nil, domain.ErrForbidden
	}
	return ev, nil
}

func (s *EvidenceService) record(ctx context.Context, evidenceID string, action domain.HistoryAction, user domain.User, reason string, changes map[string]domain.FieldChange) error {
	if s.history == nil {
		return nil
	}
	return s.history.Create(ctx, &domain.EvidenceHistory{
		ID:         uuid.NewString(),
		EvidenceID: evidenceID,
		Action:     action,
		ChangedBy:  user.Username,
		Reason:     reason,
		Changes:    changes,
	})
}

func (s *EvidenceService) publishEvent(ctx context.Context, eventType events.EventType, ev *domain.Evidence, user domain.User, reason string, changes map[string]domain.FieldChange) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		EvidenceID: ev.ID,
		Actor:      events.Actor{Username: user.Username, Role: user.Role},
		Timestamp:  s.now(),
		Payload: events.EvidenceChangedPayload{
			Name:       ev.Name,
			CaseNumber: ev.CaseNumber,
			Status:     ev.Status,
			Reason:     reason,
			Changes:    changes,
		},
	})
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func setString(changes map[string]domain.FieldChange, field string, dst *string, src *string) {
	if src == nil {
		return
	}
	next := strings.TrimSpace(*src)
	if next == *dst {
		return
	}
	changes[field] = domain.FieldChange{Old: *dst, New: next}
	*dst = next
}

func (s *EvidenceService) formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(s.loc).Format(dateLayout)
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
