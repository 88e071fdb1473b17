package handlers

import (
	"strconv"

	"github.com/earngage/backend/internal/apperr"
	"github.com/earngage/backend/internal/http/dto"
	"github.com/earngage/backend/internal/middleware"
	"github.com/earngage/backend/internal/models"
	"github.com/earngage/backend/internal/rbac"
	"github.com/earngage/backend/internal/rowstore"
	"github.com/earngage/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// listFilters are the query params ListCampaigns passes to the row store.
var listFilters = []string{"status", "category", "brandUserId", "title_contains"}

// numericFilters are parsed as numbers so stores compare them numerically.
var numericFilters = []string{"budget_gte", "budget_lte"}

type CampaignHandler struct {
	campaignService  *services.CampaignService
	analyticsService *services.AnalyticsService
	log              *zap.Logger
}

func NewCampaignHandler(campaignService *services.CampaignService, analyticsService *services.AnalyticsService, log *zap.Logger) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService, analyticsService: analyticsService, log: log}
}

func (h *CampaignHandler) CreateCampaign(c *fiber.Ctx) error {
	var req dto.CreateCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	campaign := req.Campaign(middleware.GetUserID(c))
	if err := h.campaignService.Create(c.UserContext(), campaign); err != nil {
		return writeError(c, h.log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: campaign})
}

// GetCampaign returns the campaign with its brand and counts a view for anyone but the owner.
func (h *CampaignHandler) GetCampaign(c *fiber.Ctx) error {
	ctx := c.UserContext()
	campaign, err := h.campaignService.GetByID(ctx, c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}

	if viewer := middleware.GetUserID(c); viewer != campaign.BrandUserID {
		_ = h.analyticsService.TrackCampaignView(ctx, campaign.ID, viewer)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: campaign})
}

func (h *CampaignHandler) ListCampaigns(c *fiber.Ctx) error {
	f := rowstore.Filter{}
	for _, key := range listFilters {
		if v := c.Query(key); v != "" {
			f[key] = v
		}
	}
	for _, key := range numericFilters {
		v := c.Query(key)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return badRequest(c, key+" must be a number")
		}
		f[key] = n
	}
	page, size := pageParams(c)

	campaigns, err := h.campaignService.GetAll(c.UserContext(), f, page, size)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.PageResponse{OK: true, Data: campaigns, Page: page, PageSize: size})
}

func (h *CampaignHandler) ListActive(c *fiber.Ctx) error {
	page, size := pageParams(c)
	campaigns, err := h.campaignService.GetActive(c.UserContext(), page, size)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.PageResponse{OK: true, Data: campaigns, Page: page, PageSize: size})
}

func (h *CampaignHandler) Search(c *fiber.Ctx) error {
	var q models.CampaignSearch
	if err := c.BodyParser(&q); err != nil {
		return badRequest(c, "invalid request body")
	}
	page, size := pageParams(c)

	campaigns, err := h.campaignService.Search(c.UserContext(), q, page, size)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.PageResponse{OK: true, Data: campaigns, Page: page, PageSize: size})
}

func (h *CampaignHandler) Recommended(c *fiber.Ctx) error {
	campaigns, err := h.campaignService.GetRecommended(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: campaigns})
}

func (h *CampaignHandler) MyCampaigns(c *fiber.Ctx) error {
	campaigns, err := h.campaignService.GetByBrand(c.UserContext(), middleware.GetUserID(c), c.Query("status"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: campaigns})
}

func (h *CampaignHandler) BrandCampaigns(c *fiber.Ctx) error {
	campaigns, err := h.campaignService.GetByBrand(c.UserContext(), c.Params("id"), c.Query("status"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: campaigns})
}

func (h *CampaignHandler) UpdateCampaign(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.authorize(c, id); err != nil {
		return writeError(c, h.log, err)
	}

	var upd models.CampaignUpdate
	if err := c.BodyParser(&upd); err != nil {
		return badRequest(c, "invalid request body")
	}

	campaign, err := h.campaignService.Update(c.UserContext(), id, upd)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: campaign})
}

func (h *CampaignHandler) DeleteCampaign(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.authorize(c, id); err != nil {
		return writeError(c, h.log, err)
	}

	if err := h.campaignService.Delete(c.UserContext(), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *CampaignHandler) ChangeStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.authorize(c, id); err != nil {
		return writeError(c, h.log, err)
	}

	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	campaign, err := h.campaignService.ChangeStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: campaign})
}

func (h *CampaignHandler) GetStats(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.authorize(c, id); err != nil {
		return writeError(c, h.log, err)
	}

	stats, err := h.campaignService.GetStats(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: stats})
}

// authorize lets the owning brand and admins manage campaign id.
func (h *CampaignHandler) authorize(c *fiber.Ctx, id string) error {
	campaign, err := h.campaignService.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	if !rbac.CanActFor(middleware.GetUserType(c), middleware.GetUserID(c), campaign.BrandUserID) {
		return apperr.Forbidden("Only the owning brand can manage this campaign")
	}
	return nil
}
