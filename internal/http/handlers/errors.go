package handlers

import (
	"errors"

	"github.com/earngage/backend/internal/apperr"
	"github.com/earngage/backend/internal/http/dto"
	"github.com/earngage/backend/internal/middleware"
	"github.com/earngage/backend/internal/rowstore"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var kindStatus = map[apperr.Kind]int{
	apperr.KindNotFound:          fiber.StatusNotFound,
	apperr.KindValidation:        fiber.StatusBadRequest,
	apperr.KindInvalidTransition: fiber.StatusConflict,
	apperr.KindDuplicate:         fiber.StatusConflict,
	apperr.KindTransport:         fiber.StatusBadGateway,
	apperr.KindUnauthorized:      fiber.StatusUnauthorized,
	apperr.KindForbidden:         fiber.StatusForbidden,
}

// writeError renders a service error. Unknown errors are logged and hidden behind a 500.
func writeError(c *fiber.Ctx, log *zap.Logger, err error) error {
	reqID := middleware.GetRequestID(c)

	var e *apperr.Error
	if errors.As(err, &e) {
		status, ok := kindStatus[e.Kind]
		if !ok {
			status = fiber.StatusInternalServerError
		}
		if e.Kind == apperr.KindTransport {
			log.Warn("row store call failed",
				zap.String("request_id", reqID),
				zap.Int("upstream_status", e.Status),
				zap.Error(err),
			)
		}
		return c.Status(status).JSON(dto.ErrorResponse{
			Error:     e.Error(),
			Kind:      string(e.Kind),
			Details:   e.Details,
			RequestID: reqID,
		})
	}

	log.Error("unhandled error", zap.String("request_id", reqID), zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error:     "internal server error",
		RequestID: reqID,
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error:     msg,
		Kind:      string(apperr.KindValidation),
		RequestID: middleware.GetRequestID(c),
	})
}

// pageParams reads ?page=&pageSize= falling back to the row store defaults.
func pageParams(c *fiber.Ctx) (int, int) {
	return c.QueryInt("page", rowstore.DefaultPage), c.QueryInt("pageSize", rowstore.DefaultPageSize)
}
