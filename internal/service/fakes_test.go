package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/e-ashyoviy-dalillar/evidence-service/internal/domain"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/events"
)

type fakeEvidenceRepo struct {
	mu    sync.Mutex
	items map[string]domain.Evidence
	order []string
	last  domain.EvidenceFilter
	// onList runs after List has taken its snapshot.
	onList func()
}

func newFakeEvidenceRepo(items ...domain.Evidence) *fakeEvidenceRepo {
	r := &fakeEvidenceRepo{items: map[string]domain.Evidence{}}
	for _, it := range items {
		r.items[it.ID] = it
		r.order = append(r.order, it.ID)
	}
	return r
}

func (r *fakeEvidenceRepo) Create(_ context.Context, ev *domain.Evidence) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}
	ev.UpdatedAt = ev.CreatedAt
	r.items[ev.ID] = *ev
	r.order = append(r.order, ev.ID)
	return nil
}

func (r *fakeEvidenceRepo) Update(_ context.Context, ev *domain.Evidence) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[ev.ID]; !ok {
		return domain.ErrEvidenceNotFound
	}
	r.items[ev.ID] = *ev
	return nil
}

func (r *fakeEvidenceRepo) GetByID(_ context.Context, id string) (*domain.Evidence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.items[id]
	if !ok {
		return nil, domain.ErrEvidenceNotFound
	}
	return &ev, nil
}

func (r *fakeEvidenceRepo) matching(f domain.EvidenceFilter) []domain.Evidence {
	out := []domain.Evidence{}
	for _, id := range r.order {
		ev := r.items[id]
		if f.Status != nil && ev.Status != *f.Status {
			continue
		}
		if f.Category != nil && ev.Category != *f.Category {
			continue
		}
		if f.EnteredBy != nil && ev.EnteredBy != *f.EnteredBy {
			continue
		}
		if f.OwnerScope != nil && ev.EnteredBy != "" && ev.EnteredBy != *f.OwnerScope {
			continue
		}
		if f.Expiry != nil && ev.ExpiryState(f.Now) != *f.Expiry {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(ev.Name+" "+ev.CaseNumber), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

func (r *fakeEvidenceRepo) List(_ context.Context, f domain.EvidenceFilter) ([]domain.Evidence, error) {
	r.mu.Lock()
	r.last = f
	out := r.matching(f)
	hook := r.onList
	r.onList = nil
	r.mu.Unlock()
	if hook != nil {
		hook()
	}
	if f.Limit > 0 {
		if f.Offset >= len(out) {
			return []domain.Evidence{}, nil
		}
		end := f.Offset + f.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[f.Offset:end]
	}
	return out, nil
}

func (r *fakeEvidenceRepo) Count(_ context.Context, f domain.EvidenceFilter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.matching(f)), nil
}

func (r *fakeEvidenceRepo) ListExpiring(_ context.Context, from, to time.Time, owner *string) ([]domain.Evidence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	status := domain.EvidenceStatusActive
	category := domain.CategorySpecificDate
	out := []domain.Evidence{}
	for _, ev := range r.matching(domain.EvidenceFilter{Status: &status, Category: &category, OwnerScope: owner}) {
		if ev.ExpiryDate != nil && ev.ExpiryDate.After(from) && !ev.ExpiryDate.After(to) {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiryDate.Before(*out[j].ExpiryDate) })
	return out, nil
}

type fakeHistoryRepo struct {
	entries []domain.EvidenceHistory
}

func (r *fakeHistoryRepo) Create(_ context.Context, e *domain.EvidenceHistory) error {
	e.CreatedAt = time.Now()
	r.entries = append(r.entries, *e)
	return nil
}

func (r *fakeHistoryRepo) ListByEvidence(_ context.Context, id string) ([]domain.EvidenceHistory, error) {
	out := []domain.EvidenceHistory{}
	for _, e := range r.entries {
		if e.EvidenceID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users   map[string]domain.User
	touched map[string]time.Time
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]domain.User{}, touched: map[string]time.Time{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	for _, existing := range r.users {
		if strings.EqualFold(existing.Username, u.Username) {
			return domain.ErrUsernameTaken
		}
	}
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *domain.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Username, username) {
			u := u
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) List(context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) Count(context.Context) (int, error) {
	return len(r.users), nil
}

func (r *fakeUserRepo) TouchLastActivity(_ context.Context, id string, at time.Time) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	r.touched[id] = at
	return nil
}

type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, e events.Event) error {
	d.published = append(d.published, e)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}
