package handlers

import (
	"github.com/earngage/backend/internal/http/dto"
	"github.com/earngage/backend/internal/middleware"
	"github.com/earngage/backend/internal/models"
	"github.com/earngage/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService      *services.UserService
	analyticsService *services.AnalyticsService
	log              *zap.Logger
}

func NewUserHandler(userService *services.UserService, analyticsService *services.AnalyticsService, log *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, analyticsService: analyticsService, log: log}
}

func (h *UserHandler) GetMyProfile(c *fiber.Ctx) error {
	profile, err := h.userService.GetUserProfile(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: profile})
}

// CreateMyProfile creates the profile matching the caller's type for accounts that have none.
func (h *UserHandler) CreateMyProfile(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	ctx := c.UserContext()

	var err error
	switch middleware.GetUserType(c) {
	case models.UserTypeCreator:
		var p models.CreatorProfile
		if err := c.BodyParser(&p); err != nil {
			return badRequest(c, "invalid request body")
		}
		p.UserID = userID
		err = h.userService.CreateCreatorProfile(ctx, &p)
	case models.UserTypeBrand:
		var p models.BrandProfile
		if err := c.BodyParser(&p); err != nil {
			return badRequest(c, "invalid request body")
		}
		p.UserID = userID
		err = h.userService.CreateBrandProfile(ctx, &p)
	default:
		return badRequest(c, "this account type has no profile")
	}
	if err != nil {
		return writeError(c, h.log, err)
	}

	profile, err := h.userService.GetUserProfile(ctx, userID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: profile})
}

func (h *UserHandler) UpdateMyProfile(c *fiber.Ctx) error {
	var upd models.ProfileUpdate
	if err := c.BodyParser(&upd); err != nil {
		return badRequest(c, "invalid request body")
	}

	profile, err := h.userService.UpdateProfile(c.UserContext(), middleware.GetUserID(c), upd)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: profile})
}

func (h *UserHandler) GetMyStats(c *fiber.Ctx) error {
	stats, err := h.userService.GetUserStats(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: stats})
}

// GetProfile returns another user's profile and records the view.
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	ctx := c.UserContext()
	profile, err := h.userService.GetUserProfile(ctx, c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}

	h.trackView(c, profile.User.ID, profile.User.UserType)
	return c.JSON(dto.SuccessResponse{OK: true, Data: profile})
}

func (h *UserHandler) GetCreator(c *fiber.Ctx) error {
	profile, err := h.userService.GetCreatorProfile(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}

	h.trackView(c, profile.UserID, models.UserTypeCreator)
	return c.JSON(dto.SuccessResponse{OK: true, Data: profile})
}

func (h *UserHandler) GetBrand(c *fiber.Ctx) error {
	profile, err := h.userService.GetBrandProfile(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}

	h.trackView(c, profile.UserID, models.UserTypeBrand)
	return c.JSON(dto.SuccessResponse{OK: true, Data: profile})
}

func (h *UserHandler) ListCreators(c *fiber.Ctx) error {
	page, size := pageParams(c)
	creators, err := h.userService.GetAllCreators(c.UserContext(), page, size)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.PageResponse{OK: true, Data: creators, Page: page, PageSize: size})
}

func (h *UserHandler) ListBrands(c *fiber.Ctx) error {
	page, size := pageParams(c)
	brands, err := h.userService.GetAllBrands(c.UserContext(), page, size)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.PageResponse{OK: true, Data: brands, Page: page, PageSize: size})
}

func (h *UserHandler) Search(c *fiber.Ctx) error {
	var q services.UserSearch
	if err := c.BodyParser(&q); err != nil {
		return badRequest(c, "invalid request body")
	}

	res, err := h.userService.SearchUsers(c.UserContext(), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: res})
}

// trackView records a profile view unless the owner is looking at their own profile.
func (h *UserHandler) trackView(c *fiber.Ctx, profileUserID, profileType string) {
	viewer := middleware.GetUserID(c)
	if viewer == profileUserID {
		return
	}
	if profileType != models.UserTypeCreator && profileType != models.UserTypeBrand {
		return
	}
	_ = h.analyticsService.TrackProfileView(c.UserContext(), profileUserID, profileType, viewer)
}
