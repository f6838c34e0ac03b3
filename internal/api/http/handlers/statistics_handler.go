package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/e-ashyoviy-dalillar/evidence-service/internal/api/dto"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/domain"
)

// StatisticsAPI is the part of the statistics service used by StatisticsHandler.
type StatisticsAPI interface {
	Dashboard(ctx context.Context, user domain.User) (domain.EvidenceStats, error)
	ForUser(ctx context.Context, caller domain.User, id string) (domain.EvidenceStats, error)
	Monthly(ctx context.Context, user domain.User, year, month int) (domain.MonthlyStats, error)
	CurrentPeriod() (int, int)
}

// StatisticsHandler serves dashboard counters.
type StatisticsHandler struct {
	stats StatisticsAPI
}

// NewStatisticsHandler constructs handler.
func NewStatisticsHandler(stats StatisticsAPI) *StatisticsHandler {
	return &StatisticsHandler{stats: stats}
}

// Dashboard GET /api/statistics/dashboard.
func (h *StatisticsHandler) Dashboard(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	stats, err := h.stats.Dashboard(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStatsResponse(stats)})
}

// ForUser GET /api/statistics/users/:id.
func (h *StatisticsHandler) ForUser(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	stats, err := h.stats.ForUser(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStatsResponse(stats)})
}

// Monthly GET /api/statistics/monthly?year&month. Defaults to the current month.
func (h *StatisticsHandler) Monthly(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	year, month := h.stats.CurrentPeriod()
	year = c.QueryInt("year", year)
	month = c.QueryInt("month", month)
	stats, err := h.stats.Monthly(c.UserContext(), user, year, month)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMonthlyResponse(stats)})
}
