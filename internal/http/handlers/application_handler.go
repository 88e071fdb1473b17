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

type ApplicationHandler struct {
	applicationService *services.ApplicationService
	campaignService    *services.CampaignService
	log                *zap.Logger
}

func NewApplicationHandler(applicationService *services.ApplicationService, campaignService *services.CampaignService, log *zap.Logger) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService, campaignService: campaignService, log: log}
}

func (h *ApplicationHandler) Apply(c *fiber.Ctx) error {
	var req dto.CreateApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	app := &models.Application{
		CampaignID:    req.CampaignID,
		CreatorUserID: middleware.GetUserID(c),
		Proposal:      req.Proposal,
		Price:         req.Price,
	}
	if err := h.applicationService.Create(c.UserContext(), app); err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: app})
}

func (h *ApplicationHandler) MyApplications(c *fiber.Ctx) error {
	apps, err := h.applicationService.GetByCreator(c.UserContext(), middleware.GetUserID(c), c.Query("status"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: apps})
}

// GetApplication is visible to the applicant, the campaign's brand and admins.
func (h *ApplicationHandler) GetApplication(c *fiber.Ctx) error {
	ctx := c.UserContext()
	app, err := h.applicationService.GetByID(ctx, c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}

	userID, role := middleware.GetUserID(c), middleware.GetUserType(c)
	if !rbac.CanActFor(role, userID, app.CreatorUserID) {
		if err := h.authorizeCampaign(c, app.CampaignID); err != nil {
			return writeError(c, h.log, err)
		}
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: app})
}

func (h *ApplicationHandler) UpdateApplication(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.authorizeApplicant(c, id); err != nil {
		return writeError(c, h.log, err)
	}

	var upd models.ApplicationUpdate
	if err := c.BodyParser(&upd); err != nil {
		return badRequest(c, "invalid request body")
	}
	// feedback belongs to the brand
	upd.Feedback = nil

	app, err := h.applicationService.Update(c.UserContext(), id, upd)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: app})
}

func (h *ApplicationHandler) WithdrawApplication(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.authorizeApplicant(c, id); err != nil {
		return writeError(c, h.log, err)
	}

	if err := h.applicationService.Delete(c.UserContext(), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

// ChangeStatus is the brand's review decision.
func (h *ApplicationHandler) ChangeStatus(c *fiber.Ctx) error {
	ctx := c.UserContext()
	app, err := h.applicationService.GetByID(ctx, c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	if err := h.authorizeCampaign(c, app.CampaignID); err != nil {
		return writeError(c, h.log, err)
	}

	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	updated, err := h.applicationService.ChangeStatus(ctx, app.ID, req.Status, req.Feedback)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: updated})
}

func (h *ApplicationHandler) CampaignApplications(c *fiber.Ctx) error {
	campaignID := c.Params("id")
	if err := h.authorizeCampaign(c, campaignID); err != nil {
		return writeError(c, h.log, err)
	}

	apps, err := h.applicationService.GetByCampaign(c.UserContext(), campaignID, c.Query("status"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: apps})
}

func (h *ApplicationHandler) CampaignApplicationAnalytics(c *fiber.Ctx) error {
	campaignID := c.Params("id")
	if err := h.authorizeCampaign(c, campaignID); err != nil {
		return writeError(c, h.log, err)
	}

	stats, err := h.applicationService.GetAnalytics(c.UserContext(), campaignID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: stats})
}

func (h *ApplicationHandler) HasApplied(c *fiber.Ctx) error {
	applied, err := h.applicationService.HasCreatorApplied(c.UserContext(), middleware.GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: fiber.Map{"applied": applied}})
}

// ByStatus lists applications across the platform. Admin only.
func (h *ApplicationHandler) ByStatus(c *fiber.Ctx) error {
	status := c.Query("status", models.ApplicationStatusPending)
	apps, err := h.applicationService.GetByStatus(c.UserContext(), status)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: apps})
}

func (h *ApplicationHandler) authorizeApplicant(c *fiber.Ctx, id string) error {
	app, err := h.applicationService.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	if !rbac.CanActFor(middleware.GetUserType(c), middleware.GetUserID(c), app.CreatorUserID) {
		return apperr.Forbidden("Only the applicant can change this application")
	}
	return nil
}

func (h *ApplicationHandler) authorizeCampaign(c *fiber.Ctx, campaignID string) error {
	campaign, err := h.campaignService.GetByID(c.UserContext(), campaignID)
	if err != nil {
		return err
	}
	if !rbac.CanActFor(middleware.GetUserType(c), middleware.GetUserID(c), campaign.BrandUserID) {
		return apperr.Forbidden("Only the owning brand can review applications")
	}
	return nil
}
