package handlers

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/earngage/backend/internal/apperr"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestWriteErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperr.NotFound("Campaign not found"), fiber.StatusNotFound},
		{apperr.Validation("title is required"), fiber.StatusBadRequest},
		{apperr.InvalidTransition("Only draft campaigns can be deleted"), fiber.StatusConflict},
		{apperr.Duplicate("You have already applied to this campaign"), fiber.StatusConflict},
		{apperr.Transport(503, "upstream down", nil, nil), fiber.StatusBadGateway},
		{apperr.Unauthorized("Invalid email or password"), fiber.StatusUnauthorized},
		{apperr.Forbidden("no"), fiber.StatusForbidden},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error { return writeError(c, zap.NewNop(), tt.err) })

		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
		if assert.NoError(t, err) {
			assert.Equal(t, tt.want, resp.StatusCode, tt.err.Error())
		}
	}
}
