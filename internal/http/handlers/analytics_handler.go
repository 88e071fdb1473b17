package handlers

import (
	"github.com/earngage/backend/internal/apperr"
	"github.com/earngage/backend/internal/http/dto"
	"github.com/earngage/backend/internal/middleware"
	"github.com/earngage/backend/internal/models"
	"github.com/earngage/backend/internal/rbac"
	"github.com/earngage/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
	campaignService  *services.CampaignService
	log              *zap.Logger
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService, campaignService *services.CampaignService, log *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService, campaignService: campaignService, log: log}
}

// RecordEvent stores a client-side event attributed to the caller.
func (h *AnalyticsHandler) RecordEvent(c *fiber.Ctx) error {
	var req dto.RecordEventRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	e := &models.AnalyticsEvent{
		EventType:   req.EventType,
		UserID:      middleware.GetUserID(c),
		CampaignID:  req.CampaignID,
		ProfileID:   req.ProfileID,
		ProfileType: req.ProfileType,
		Metadata:    req.Metadata,
	}
	if err := h.analyticsService.RecordEvent(c.UserContext(), e); err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: e})
}

func (h *AnalyticsHandler) CampaignViews(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.authorizeCampaign(c, id); err != nil {
		return writeError(c, h.log, err)
	}

	res, err := h.analyticsService.GetCampaignViewAnalytics(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: res})
}

func (h *AnalyticsHandler) CampaignApplications(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.authorizeCampaign(c, id); err != nil {
		return writeError(c, h.log, err)
	}

	res, err := h.analyticsService.GetCampaignApplicationAnalytics(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: res})
}

// Creator serves /analytics/creators/:id; "me" resolves to the caller.
func (h *AnalyticsHandler) Creator(c *fiber.Ctx) error {
	id, err := h.subject(c)
	if err != nil {
		return writeError(c, h.log, err)
	}

	res, err := h.analyticsService.GetCreatorAnalytics(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: res})
}

func (h *AnalyticsHandler) Brand(c *fiber.Ctx) error {
	id, err := h.subject(c)
	if err != nil {
		return writeError(c, h.log, err)
	}

	res, err := h.analyticsService.GetBrandAnalytics(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: res})
}

func (h *AnalyticsHandler) Platform(c *fiber.Ctx) error {
	res, err := h.analyticsService.GetPlatformAnalytics(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: res})
}

// Events lists raw events between ?start= and ?end= (YYYY-MM-DD), optionally of one ?type=.
func (h *AnalyticsHandler) Events(c *fiber.Ctx) error {
	evts, err := h.analyticsService.GetByDateRange(c.UserContext(), c.Query("start"), c.Query("end"), c.Query("type"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: evts})
}

func (h *AnalyticsHandler) subject(c *fiber.Ctx) (string, error) {
	userID := middleware.GetUserID(c)
	id := c.Params("id")
	if id == "" || id == "me" {
		return userID, nil
	}
	if !rbac.CanActFor(middleware.GetUserType(c), userID, id) {
		return "", apperr.Forbidden("Analytics of other users are not available")
	}
	return id, nil
}

func (h *AnalyticsHandler) authorizeCampaign(c *fiber.Ctx, id string) error {
	campaign, err := h.campaignService.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	if !rbac.CanActFor(middleware.GetUserType(c), middleware.GetUserID(c), campaign.BrandUserID) {
		return apperr.Forbidden("Only the owning brand can view campaign analytics")
	}
	return nil
}
