package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/e-ashyoviy-dalillar/evidence-service/internal/cache"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/domain"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/repository"
)

// StatsCache stores dashboard counters per visibility scope.
type StatsCache interface {
	Version(ctx context.Context) (int64, error)
	Get(ctx context.Context, version int64, scope string) (domain.EvidenceStats, bool, error)
	Set(ctx context.Context, version int64, scope string, stats domain.EvidenceStats) error
	Invalidate(ctx context.Context) error
}

// StatisticsService computes dashboard counters.
type StatisticsService struct {
	evidence repository.EvidenceRepository
	users    repository.UserRepository
	cache    StatsCache
	logger   *zap.Logger
	loc      *time.Location
	now      func() time.Time
}

// StatisticsDependencies bundles collaborators for the statistics service.
type StatisticsDependencies struct {
	EvidenceRepo repository.EvidenceRepository
	UserRepo     repository.UserRepository
	Cache        StatsCache
	Logger       *zap.Logger
	Location     *time.Location
	Clock        func() time.Time
}

// NewStatisticsService constructs the service.
func NewStatisticsService(deps StatisticsDependencies) *StatisticsService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	return &StatisticsService{
		evidence: deps.EvidenceRepo,
		users:    deps.UserRepo,
		cache:    deps.Cache,
		logger:   deps.Logger,
		loc:      loc,
		now:      clock,
	}
}

// Dashboard counts the caller's visible set.
func (s *StatisticsService) Dashboard(ctx context.Context, user domain.User) (domain.EvidenceStats, error) {
	scope := cache.Scope(user)
	cached := s.cache != nil
	var version int64
	if cached {
		v, err := s.cache.Version(ctx)
		if err != nil {
			s.logger.Warn("stats cache read failed", zap.Error(err))
			cached = false
		}
		version = v
	}
	if cached {
		stats, ok, err := s.cache.Get(ctx, version, scope)
		if err != nil {
			s.logger.Warn("stats cache read failed", zap.Error(err))
		} else if ok {
			return stats, nil
		}
	}

	var filter domain.EvidenceFilter
	filter.ScopeFor(user)
	stats, err := s.compute(ctx, filter)
	if err != nil {
		return stats, err
	}

	if cached {
		if err := s.cache.Set(ctx, version, scope, stats); err != nil {
			s.logger.Warn("stats cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

// ForUser counts items entered by the account id. Investigators may only
// ask about themselves.
func (s *StatisticsService) ForUser(ctx context.Context, caller domain.User, id string) (domain.EvidenceStats, error) {
	if caller.Role == domain.RoleInvestigator && caller.ID != id {
		return domain.EvidenceStats{}, domain.ErrForbidden
	}
	target, err := s.users.GetByID(ctx, id)
	if err != nil {
		return domain.EvidenceStats{}, err
	}
	return s.compute(ctx, domain.EvidenceFilter{EnteredBy: &target.Username})
}

// Monthly summarises one calendar month of the caller's visible set.
func (s *StatisticsService) Monthly(ctx context.Context, user domain.User, year, month int) (domain.MonthlyStats, error) {
	if month < 1 || month > 12 || year < 1970 || year > 9999 {
		return domain.MonthlyStats{}, fmt.Errorf("%w: year=%d month=%d", errInvalidPeriod, year, month)
	}

	var filter domain.EvidenceFilter
	filter.ScopeFor(user)
	items, err := s.evidence.List(ctx, filter)
	if err != nil {
		return domain.MonthlyStats{}, err
	}
	return domain.ComputeMonthly(domain.FilterForUser(items, user), year, time.Month(month), s.loc), nil
}

// CurrentPeriod returns the year and month of now in the service timezone.
func (s *StatisticsService) CurrentPeriod() (int, int) {
	now := s.now().In(s.loc)
	return now.Year(), int(now.Month())
}

// Invalidate drops cached dashboard counters.
func (s *StatisticsService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx)
}

func (s *StatisticsService) compute(ctx context.Context, filter domain.EvidenceFilter) (domain.EvidenceStats, error) {
	items, err := s.evidence.List(ctx, filter)
	if err != nil {
		return domain.EvidenceStats{}, err
	}
	stats := domain.ComputeStats(items, s.now(), s.loc)

	total, err := s.users.Count(ctx)
	if err != nil {
		return domain.EvidenceStats{}, err
	}
	stats.TotalUsers = total
	return stats, nil
}
