package handlers

import (
	"github.com/earngage/backend/internal/http/dto"
	"github.com/earngage/backend/internal/middleware"
	"github.com/earngage/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
	log                 *zap.Logger
}

func NewNotificationHandler(notificationService *services.NotificationService, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, log: log}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	page, size := pageParams(c)
	notes, err := h.notificationService.ListForUser(c.UserContext(), middleware.GetUserID(c), c.QueryBool("unread"), page, size)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.PageResponse{OK: true, Data: notes, Page: page, PageSize: size})
}

func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	n, err := h.notificationService.UnreadCount(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.CountResponse{Count: n})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	n, err := h.notificationService.MarkRead(c.UserContext(), middleware.GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: n})
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	n, err := h.notificationService.MarkAllRead(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.CountResponse{Count: n})
}
