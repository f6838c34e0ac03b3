package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/e-ashyoviy-dalillar/evidence-service/internal/auth"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/cache"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/domain"
)

func TestUserService_CreateUpdateDelete(t *testing.T) {
	repo := newFakeUserRepo(admin)
	svc := NewUserService(repo, bcrypt.MinCost, nil, zap.NewNop())
	ctx := context.Background()

	user, err := svc.Create(ctx, UserInput{Username: " alisher ", FullName: "Alisher K", Password: "pw123456", Role: "INVESTIGATOR"})
	require.NoError(t, err)
	assert.Equal(t, "alisher", user.Username)
	assert.Equal(t, domain.RoleInvestigator, user.Role)
	assert.NoError(t, auth.ComparePassword(user.PasswordHash, "pw123456"))

	_, err = svc.Create(ctx, UserInput{Username: "ALISHER", Password: "x", Role: domain.RoleAdmin})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	_, err = svc.Create(ctx, UserInput{Username: "guest", Password: "x", Role: "guest"})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	role := domain.RoleManagement
	phone := "+998901112233"
	updated, err := svc.Update(ctx, user.ID, UserPatch{Role: &role, PhoneNumber: &phone})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManagement, updated.Role)
	assert.Equal(t, phone, updated.PhoneNumber)

	assert.ErrorIs(t, svc.Delete(ctx, admin, admin.ID), domain.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, admin, user.ID))
	assert.ErrorIs(t, svc.Delete(ctx, admin, user.ID), domain.ErrUserNotFound)
}

func TestUserService_EnsureBootstrapAdmin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, bcrypt.MinCost, nil, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, "", "pw"))
	assert.Empty(t, repo.users)

	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, "root", "pw"))
	require.Len(t, repo.users, 1)

	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, "other", "pw"))
	assert.Len(t, repo.users, 1)

	u, err := repo.GetByUsername(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)
}

type countingInvalidator struct {
	calls int
	err   error
}

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.calls++
	return c.err
}

func TestUserService_MutationsInvalidateStats(t *testing.T) {
	repo := newFakeUserRepo(admin)
	stats := &countingInvalidator{}
	svc := NewUserService(repo, bcrypt.MinCost, stats, zap.NewNop())
	ctx := context.Background()

	user, err := svc.Create(ctx, UserInput{Username: "dilnoza", Password: "pw123456", Role: domain.RoleInvestigator})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.calls)

	_, err = svc.Create(ctx, UserInput{Username: "dilnoza", Password: "pw123456", Role: domain.RoleInvestigator})
	require.Error(t, err)
	assert.Equal(t, 1, stats.calls)

	require.NoError(t, svc.Delete(ctx, admin, user.ID))
	assert.Equal(t, 2, stats.calls)

	stats.err = errors.New("redis down")
	_, err = svc.Create(ctx, UserInput{Username: "timur", Password: "pw123456", Role: domain.RoleManagement})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.calls)
}

func TestUserService_DashboardSeesNewAccount(t *testing.T) {
	users := newFakeUserRepo(admin)
	mr := miniredis.RunT(t)
	stats := NewStatisticsService(StatisticsDependencies{
		EvidenceRepo: newFakeEvidenceRepo(seedEvidence()...),
		UserRepo:     users,
		Cache:        cache.NewStatsCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute),
		Logger:       zap.NewNop(),
		Location:     time.UTC,
		Clock:        func() time.Time { return fixedNow },
	})
	svc := NewUserService(users, bcrypt.MinCost, stats, zap.NewNop())
	ctx := context.Background()

	before, err := stats.Dashboard(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 1, before.TotalUsers)

	_, err = svc.Create(ctx, UserInput{Username: "dilnoza", Password: "pw123456", Role: domain.RoleInvestigator})
	require.NoError(t, err)

	after, err := stats.Dashboard(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 2, after.TotalUsers)
}
