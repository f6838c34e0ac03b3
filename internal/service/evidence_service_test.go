package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/e-ashyoviy-dalillar/evidence-service/internal/domain"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/events"
)

const (
	idOwned   = "11111111-1111-1111-1111-111111111111"
	idForeign = "22222222-2222-2222-2222-222222222222"
	idOrphan  = "33333333-3333-3333-3333-333333333333"
	idDone    = "44444444-4444-4444-4444-444444444444"
)

var (
	fixedNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	admin        = domain.User{ID: "a0000000-0000-0000-0000-000000000000", Username: "admin", Role: domain.RoleAdmin}
	investigator = domain.User{ID: "b0000000-0000-0000-0000-000000000000", Username: "alisher", Role: domain.RoleInvestigator}
	colleague    = domain.User{ID: "c0000000-0000-0000-0000-000000000000", Username: "bobur", Role: domain.RoleInvestigator}
	management   = domain.User{ID: "d0000000-0000-0000-0000-000000000000", Username: "boss", Role: domain.RoleManagement}
)

func datePtr(days int) *time.Time {
	t := fixedNow.AddDate(0, 0, days)
	return &t
}

func seedEvidence() []domain.Evidence {
	return []domain.Evidence{
		{ID: idOwned, Name: "Knife", CaseNumber: "C-1", Category: domain.CategorySpecificDate, ExpiryDate: datePtr(5), Status: domain.EvidenceStatusActive, EnteredBy: "alisher"},
		{ID: idForeign, Name: "Phone", CaseNumber: "C-2", Category: domain.CategorySpecificDate, ExpiryDate: datePtr(90), Status: domain.EvidenceStatusActive, EnteredBy: "bobur"},
		{ID: idOrphan, Name: "Coat", CaseNumber: "C-3", Category: domain.CategoryLifetime, Status: domain.EvidenceStatusActive},
		{ID: idDone, Name: "Bag", CaseNumber: "C-4", Category: domain.CategorySpecificDate, ExpiryDate: datePtr(-3), Status: domain.EvidenceStatusCompleted, EnteredBy: "alisher"},
	}
}

type evidenceFixture struct {
	svc        *EvidenceService
	repo       *fakeEvidenceRepo
	history    *fakeHistoryRepo
	dispatcher *recordingDispatcher
}

func newEvidenceFixture() evidenceFixture {
	f := evidenceFixture{
		repo:       newFakeEvidenceRepo(seedEvidence()...),
		history:    &fakeHistoryRepo{},
		dispatcher: &recordingDispatcher{},
	}
	f.svc = NewEvidenceService(EvidenceDependencies{
		EvidenceRepo: f.repo,
		HistoryRepo:  f.history,
		Dispatcher:   f.dispatcher,
		Clock:        func() time.Time { return fixedNow },
	})
	return f
}

func TestEvidenceService_ListScopesInvestigators(t *testing.T) {
	f := newEvidenceFixture()
	ctx := context.Background()

	page, err := f.svc.List(ctx, investigator, EvidenceQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, []string{idOwned, idOrphan, idDone}, evidenceIDs(page.Items))
	require.NotNil(t, f.repo.last.OwnerScope)
	assert.Equal(t, "alisher", *f.repo.last.OwnerScope)

	page, err = f.svc.List(ctx, management, EvidenceQuery{})
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	assert.Nil(t, f.repo.last.OwnerScope)
}

func TestEvidenceService_ListPagingAndExpiryFilter(t *testing.T) {
	f := newEvidenceFixture()
	soon := domain.ExpiryExpiringSoon

	page, err := f.svc.List(context.Background(), admin, EvidenceQuery{Expiry: &soon})
	require.NoError(t, err)
	assert.Equal(t, []string{idOwned}, evidenceIDs(page.Items))
	assert.Equal(t, fixedNow, page.Now)

	page, err = f.svc.List(context.Background(), admin, EvidenceQuery{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, []string{idDone}, evidenceIDs(page.Items))
	assert.Equal(t, 3, f.repo.last.Offset)
}

func TestEvidenceService_GetHidesForeignItems(t *testing.T) {
	f := newEvidenceFixture()
	ctx := context.Background()

	_, err := f.svc.Get(ctx, investigator, idForeign)
	assert.ErrorIs(t, err, domain.ErrEvidenceNotFound)

	ev, err := f.svc.Get(ctx, investigator, idOrphan)
	require.NoError(t, err)
	assert.Equal(t, "Coat", ev.Name)

	_, err = f.svc.Get(ctx, admin, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrEvidenceNotFound)
}

func TestEvidenceService_Expiring(t *testing.T) {
	f := newEvidenceFixture()
	items, now, err := f.svc.Expiring(context.Background(), admin, 30)
	require.NoError(t, err)
	assert.Equal(t, fixedNow, now)
	assert.Equal(t, []string{idOwned}, evidenceIDs(items))

	items, _, err = f.svc.Expiring(context.Background(), admin, 1000)
	require.NoError(t, err)
	assert.Equal(t, []string{idOwned, idForeign}, evidenceIDs(items))

	items, _, err = f.svc.Expiring(context.Background(), colleague, 365)
	require.NoError(t, err)
	assert.Equal(t, []string{idForeign}, evidenceIDs(items))
}

func TestEvidenceService_ExpiringSkipsPastDeadlines(t *testing.T) {
	f := newEvidenceFixture()
	lapsed := fixedNow.Add(-3 * time.Hour)
	require.NoError(t, f.repo.Create(context.Background(), &domain.Evidence{
		ID: "55555555-5555-5555-5555-555555555555", Name: "Gloves", CaseNumber: "C-5",
		Category: domain.CategorySpecificDate, ExpiryDate: &lapsed,
		Status: domain.EvidenceStatusActive, EnteredBy: "alisher",
	}))

	items, _, err := f.svc.Expiring(context.Background(), admin, 30)
	require.NoError(t, err)
	assert.Equal(t, []string{idOwned}, evidenceIDs(items))

	items, _, err = f.svc.Expiring(context.Background(), admin, 0)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestEvidenceService_Create(t *testing.T) {
	f := newEvidenceFixture()

	ev, err := f.svc.Create(context.Background(), investigator, EvidenceInput{
		Name:       " Laptop ",
		CaseNumber: "C-9",
		Category:   domain.CategorySpecificDate,
		ExpiryDate: datePtr(40),
	})
	require.NoError(t, err)
	assert.Equal(t, "Laptop", ev.Name)
	assert.Equal(t, "alisher", ev.EnteredBy)
	assert.Equal(t, domain.EvidenceStatusActive, ev.Status)
	require.NotNil(t, ev.InvestigatorID)
	assert.Equal(t, investigator.ID, *ev.InvestigatorID)

	require.Len(t, f.history.entries, 1)
	assert.Equal(t, domain.HistoryCreated, f.history.entries[0].Action)
	require.Len(t, f.dispatcher.published, 1)
	assert.Equal(t, events.EventEvidenceCreated, f.dispatcher.published[0].Type)
}

func TestEvidenceService_CreateRules(t *testing.T) {
	f := newEvidenceFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, management, EvidenceInput{Name: "x", Category: domain.CategoryLifetime})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.Create(ctx, admin, EvidenceInput{Name: "x", Category: domain.CategorySpecificDate})
	assert.ErrorIs(t, err, domain.ErrExpiryRequired)

	ev, err := f.svc.Create(ctx, admin, EvidenceInput{Name: "x", Category: domain.CategoryLifetime, ExpiryDate: datePtr(3)})
	require.NoError(t, err)
	assert.Nil(t, ev.ExpiryDate)
}

func TestEvidenceService_UpdateTracksChanges(t *testing.T) {
	f := newEvidenceFixture()
	location := "Shelf 9"
	name := "Knife"

	ev, err := f.svc.Update(context.Background(), investigator, idOwned, EvidencePatch{
		Location:   &location,
		Name:       &name,
		ExpiryDate: datePtr(60),
		Reason:     "moved",
	})
	require.NoError(t, err)
	assert.Equal(t, "Shelf 9", ev.Location)

	require.Len(t, f.history.entries, 1)
	entry := f.history.entries[0]
	assert.Equal(t, domain.HistoryUpdated, entry.Action)
	assert.Equal(t, "moved", entry.Reason)
	assert.Contains(t, entry.Changes, "location")
	assert.Contains(t, entry.Changes, "expiryDate")
	assert.NotContains(t, entry.Changes, "name")
	assert.Equal(t, "2025-05-09", entry.Changes["expiryDate"].New)
}

func TestEvidenceService_UpdateExpiryUsesLocalCalendar(t *testing.T) {
	tashkent := time.FixedZone("UZT", 5*60*60)
	stored := time.Date(2025, 4, 1, 0, 0, 0, 0, tashkent).UTC()
	repo := newFakeEvidenceRepo(domain.Evidence{
		ID: idOwned, Name: "Knife", CaseNumber: "C-1", Category: domain.CategorySpecificDate,
		ExpiryDate: &stored, Status: domain.EvidenceStatusActive, EnteredBy: "alisher",
	})
	history := &fakeHistoryRepo{}
	svc := NewEvidenceService(EvidenceDependencies{
		EvidenceRepo: repo,
		HistoryRepo:  history,
		Dispatcher:   &recordingDispatcher{},
		Location:     tashkent,
		Clock:        func() time.Time { return fixedNow },
	})
	ctx := context.Background()

	same := time.Date(2025, 4, 1, 0, 0, 0, 0, tashkent)
	_, err := svc.Update(ctx, investigator, idOwned, EvidencePatch{ExpiryDate: &same, Reason: "resubmit"})
	require.NoError(t, err)
	assert.Empty(t, history.entries)

	next := time.Date(2025, 4, 2, 0, 0, 0, 0, tashkent)
	_, err = svc.Update(ctx, investigator, idOwned, EvidencePatch{ExpiryDate: &next, Reason: "extended"})
	require.NoError(t, err)
	require.Len(t, history.entries, 1)
	change := history.entries[0].Changes["expiryDate"]
	assert.Equal(t, "2025-04-01", change.Old)
	assert.Equal(t, "2025-04-02", change.New)
}

func TestEvidenceService_UpdateRules(t *testing.T) {
	f := newEvidenceFixture()
	ctx := context.Background()
	loc := "x"

	_, err := f.svc.Update(ctx, investigator, idOwned, EvidencePatch{Location: &loc})
	assert.ErrorIs(t, err, domain.ErrReasonRequired)

	_, err = f.svc.Update(ctx, colleague, idOwned, EvidencePatch{Location: &loc, Reason: "r"})
	assert.ErrorIs(t, err, domain.ErrEvidenceNotFound)

	_, err = f.svc.Update(ctx, investigator, idOrphan, EvidencePatch{Location: &loc, Reason: "r"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.Update(ctx, management, idOwned, EvidencePatch{Location: &loc, Reason: "r"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.Update(ctx, admin, idDone, EvidencePatch{Location: &loc, Reason: "r"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)

	assert.Empty(t, f.history.entries)
}

func TestEvidenceService_CompleteAndRemove(t *testing.T) {
	f := newEvidenceFixture()
	ctx := context.Background()

	_, err := f.svc.Complete(ctx, investigator, idOwned, "  ", "")
	assert.ErrorIs(t, err, domain.ErrReasonRequired)

	ev, err := f.svc.Complete(ctx, investigator, idOwned, "returned to owner", "https://files/act.pdf")
	require.NoError(t, err)
	assert.Equal(t, domain.EvidenceStatusCompleted, ev.Status)
	assert.Equal(t, "https://files/act.pdf", ev.AccountFileURL)
	require.NotNil(t, ev.CompletedAt)
	assert.Equal(t, fixedNow, *ev.CompletedAt)

	_, err = f.svc.Remove(ctx, investigator, idOwned, "oops")
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)

	ev, err = f.svc.Remove(ctx, admin, idForeign, "")
	require.NoError(t, err)
	assert.Equal(t, domain.EvidenceStatusRemoved, ev.Status)
	assert.Equal(t, "admin", ev.RemovedBy)

	history, err := f.svc.History(ctx, admin, idOwned)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.HistoryCompleted, history[0].Action)

	types := []events.EventType{}
	for _, e := range f.dispatcher.published {
		types = append(types, e.Type)
	}
	assert.Equal(t, []events.EventType{events.EventEvidenceCompleted, events.EventEvidenceRemoved}, types)
}

func evidenceIDs(items []domain.Evidence) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}
