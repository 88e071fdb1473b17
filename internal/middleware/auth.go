package middleware

import (
	"context"
	"strings"

	"github.com/earngage/backend/internal/auth"
	"github.com/earngage/backend/internal/rbac"
	"github.com/earngage/backend/internal/session"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	CtxUserID   = "user_id"
	CtxUserType = "user_type"
	CtxToken    = "token"

	// HeaderRowsToken carries a caller's own Rows API token, forwarded instead of ROWS_API_TOKEN.
	HeaderRowsToken = "X-Rows-Token"
)

type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*auth.Claims, error)
}

// AuthMiddleware checks the bearer token. When the caller also sends X-Rows-Token,
// a session carrying it is put into the request context for the row store client.
func AuthMiddleware(validator TokenValidator, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization format"})
		}

		claims, err := validator.ValidateToken(c.UserContext(), tokenStr)
		if err != nil {
			log.Debug("token rejected", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}

		c.Locals(CtxUserID, claims.UserID)
		c.Locals(CtxUserType, claims.UserType)
		c.Locals(CtxToken, tokenStr)
		if rowsToken := c.Get(HeaderRowsToken); rowsToken != "" {
			c.SetUserContext(session.WithSession(c.UserContext(), session.NewMemory(rowsToken)))
		}

		return c.Next()
	}
}

func GetUserID(c *fiber.Ctx) string {
	id, _ := c.Locals(CtxUserID).(string)
	return id
}

func GetUserType(c *fiber.Ctx) string {
	t, _ := c.Locals(CtxUserType).(string)
	return t
}

func GetToken(c *fiber.Ctx) string {
	t, _ := c.Locals(CtxToken).(string)
	return t
}

// RequirePermission rejects callers whose user type lacks perm.
func RequirePermission(perm string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !rbac.HasPermission(GetUserType(c), perm) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "insufficient permissions"})
		}
		return c.Next()
	}
}
