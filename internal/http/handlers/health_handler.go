package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	applog "shopapi/internal/log"
)

type HealthHandler struct {
	DB *sqlx.DB
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()
	if err := h.DB.PingContext(ctx); err != nil {
		applog.Error(c, "health.db.fail", err, nil)
		return render(c, fiber.StatusServiceUnavailable, fiber.Map{"ok": false})
	}
	return render(c, fiber.StatusOK, fiber.Map{"ok": true})
}
