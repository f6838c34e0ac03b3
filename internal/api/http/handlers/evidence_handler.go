package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/e-ashyoviy-dalillar/evidence-service/internal/api/dto"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/domain"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/service"
	apperrors "github.com/e-ashyoviy-dalillar/evidence-service/pkg/util/errorutil"
)

const defaultExpiringDays = domain.ExpiringSoonWindowDays

// EvidenceAPI is the part of the evidence service used by EvidenceHandler.
type EvidenceAPI interface {
	Now() time.Time
	List(ctx context.Context, user domain.User, q service.EvidenceQuery) (*service.EvidencePage, error)
	Expiring(ctx context.Context, user domain.User, days int) ([]domain.Evidence, time.Time, error)
	Get(ctx context.Context, user domain.User, id string) (*domain.Evidence, error)
	Create(ctx context.Context, user domain.User, input service.EvidenceInput) (*domain.Evidence, error)
	Update(ctx context.Context, user domain.User, id string, patch service.EvidencePatch) (*domain.Evidence, error)
	Complete(ctx context.Context, user domain.User, id, reason, accountFileURL string) (*domain.Evidence, error)
	Remove(ctx context.Context, user domain.User, id, reason string) (*domain.Evidence, error)
	History(ctx context.Context, user domain.User, id string) ([]domain.EvidenceHistory, error)
}

// EvidenceHandler serves the evidence endpoints.
type EvidenceHandler struct {
	evidence EvidenceAPI
	validate *Validator
	loc      *time.Location
}

// NewEvidenceHandler constructs handler. Dates are read and rendered in loc.
func NewEvidenceHandler(evidence EvidenceAPI, validate *Validator, loc *time.Location) *EvidenceHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &EvidenceHandler{evidence: evidence, validate: validate, loc: loc}
}

// List GET /api/evidence.
func (h *EvidenceHandler) List(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	q, err := parseEvidenceQuery(c)
	if err != nil {
		return err
	}
	page, err := h.evidence.List(c.UserContext(), user, q)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.NewEvidenceList(page.Items, page.Now, h.loc),
		"meta": dto.PageMeta{Page: page.Page, Limit: page.Limit, Total: page.Total},
	})
}

// Expiring GET /api/evidence/expiring.
func (h *EvidenceHandler) Expiring(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	days := c.QueryInt("days", defaultExpiringDays)
	items, now, err := h.evidence.Expiring(c.UserContext(), user, days)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEvidenceList(items, now, h.loc)})
}

// Get GET /api/evidence/:id.
func (h *EvidenceHandler) Get(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	ev, err := h.evidence.Get(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEvidenceResponse(*ev, h.evidence.Now(), h.loc)})
}

// Create POST /api/evidence.
func (h *EvidenceHandler) Create(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateEvidenceRequest
	if err := h.validate.bind(c, &req); err != nil {
		return err
	}
	category, _ := domain.ParseStorageCategory(req.Category)
	input := service.EvidenceInput{
		Name:           req.Name,
		CaseNumber:     req.CaseNumber,
		Description:    req.Description,
		Location:       req.Location,
		Category:       category,
		ImageURLs:      req.Images(),
		AccountFileURL: req.AccountFileURL,
	}
	if category == domain.CategorySpecificDate {
		if input.ExpiryDate, err = h.parseDate(req.ExpiryDate); err != nil {
			return err
		}
	}
	ev, err := h.evidence.Create(c.UserContext(), user, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewEvidenceResponse(*ev, h.evidence.Now(), h.loc)})
}

// Update PATCH /api/evidence/:id.
func (h *EvidenceHandler) Update(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.UpdateEvidenceRequest
	if err := h.validate.bind(c, &req); err != nil {
		return err
	}
	patch := service.EvidencePatch{
		Name:           req.Name,
		CaseNumber:     req.CaseNumber,
		Description:    req.Description,
		Location:       req.Location,
		ImageURLs:      req.ImageURLs,
		AccountFileURL: req.AccountFileURL,
		Reason:         req.Reason,
	}
	if req.Category != nil {
		category, _ := domain.ParseStorageCategory(*req.Category)
		patch.Category = &category
	}
	if req.ExpiryDate != nil {
		if patch.ExpiryDate, err = h.parseDate(*req.ExpiryDate); err != nil {
			return err
		}
	}
	ev, err := h.evidence.Update(c.UserContext(), user, c.Params("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEvidenceResponse(*ev, h.evidence.Now(), h.loc)})
}

// Complete POST /api/evidence/:id/complete.
func (h *EvidenceHandler) Complete(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CompleteEvidenceRequest
	if err := h.validate.bind(c, &req); err != nil {
		return err
	}
	ev, err := h.evidence.Complete(c.UserContext(), user, c.Params("id"), req.Reason, req.AccountFileURL)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEvidenceResponse(*ev, h.evidence.Now(), h.loc)})
}

// Remove POST /api/evidence/:id/remove and DELETE /api/evidence/:id. The
// reason is optional for DELETE and may come as a body or query parameter.
func (h *EvidenceHandler) Remove(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.RemoveEvidenceRequest
	if len(c.Body()) > 0 {
		if err := h.validate.bind(c, &req); err != nil {
			return err
		}
	}
	if req.Reason == "" {
		req.Reason = c.Query("reason")
	}
	if c.Method() == fiber.MethodPost && strings.TrimSpace(req.Reason) == "" {
		return apperrors.NewValidationError("validation failed", map[string]any{"reason": "reason is required"})
	}
	ev, err := h.evidence.Remove(c.UserContext(), user, c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEvidenceResponse(*ev, h.evidence.Now(), h.loc)})
}

// History GET /api/evidence/:id/history.
func (h *EvidenceHandler) History(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	entries, err := h.evidence.History(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewHistoryList(entries)})
}

func (h *EvidenceHandler) parseDate(raw string) (*time.Time, error) {
	t, err := dto.ParseDate(raw, h.loc)
	if err != nil {
		return nil, apperrors.NewValidationError("validation failed", map[string]any{"expiryDate": "expiryDate must be a date in YYYY-MM-DD format"})
	}
	return t, nil
}

func parseEvidenceQuery(c *fiber.Ctx) (service.EvidenceQuery, error) {
	q := service.EvidenceQuery{
		InvestigatorID: queryString(c, "investigatorId"),
		Search:         strings.TrimSpace(c.Query("search")),
		Page:           c.QueryInt("page", 1),
		Limit:          c.QueryInt("limit", 0),
	}
	details := map[string]any{}
	if q.InvestigatorID != nil {
		if _, err := uuid.Parse(*q.InvestigatorID); err != nil {
			details["investigatorId"] = "investigatorId must be a UUID"
		}
	}
	if raw := c.Query("status"); raw != "" && raw != "all" {
		status := domain.EvidenceStatus(strings.ToLower(raw))
		if status.Valid() {
			q.Status = &status
		} else {
			details["status"] = "status must be one of: active, completed, removed"
		}
	}
	if raw := c.Query("category"); raw != "" {
		if category, ok := domain.ParseStorageCategory(raw); ok {
			q.Category = &category
		} else {
			details["category"] = "category must be LIFETIME or SPECIFIC_DATE"
		}
	}
	if raw := c.Query("expiry"); raw != "" {
		if state, ok := domain.ParseExpiryState(strings.ToLower(raw)); ok {
			q.Expiry = &state
		} else {
			details["expiry"] = "expiry must be one of: active, expiring_soon, expired, lifetime"
		}
	}
	if len(details) > 0 {
		return q, apperrors.NewValidationError("invalid query", details)
	}
	return q, nil
}
