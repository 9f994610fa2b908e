package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"shopapi/internal/auth"
	"shopapi/internal/domain"
	applog "shopapi/internal/log"
)

type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// RequireAuth admits requests carrying a valid bearer token and stores its
// claims in Locals("claims").
func RequireAuth(tokens TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			c.Status(fiber.StatusUnauthorized)
			applog.Security(c, "auth.token.missing", nil)
			return domain.ErrUnauthorized
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			c.Status(fiber.StatusUnauthorized)
			applog.Security(c, "auth.token.reject", map[string]any{"reason": err.Error()})
			return domain.ErrUnauthorized
		}
		c.Locals("claims", claims)
		c.Locals("user_id", claims.Subject)
		return c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func actor(c *fiber.Ctx) domain.Actor {
	claims, _ := c.Locals("claims").(*auth.Claims)
	if claims == nil {
		return domain.Actor{}
	}
	return domain.Actor{UserID: claims.Subject, RoleID: claims.RoleID}
}
