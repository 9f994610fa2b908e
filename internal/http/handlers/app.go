package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	applog "shopapi/internal/log"
	"shopapi/internal/metrics"
)

const bodyLimit = 1 << 20 // 1 MiB

// NewApp builds the fiber app with middleware and routes.
func NewApp(d *Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "shopapi",
		ErrorHandler: ErrorHandler,
		BodyLimit:    bodyLimit,
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(applog.Access())
	app.Use(d.Metrics.Middleware())
	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: HeaderTotalCount,
	}))

	// ---------- Ops ----------
	app.Get("/healthz", d.HealthHandler.Check)
	app.Get("/metrics", metrics.Handler(d.Gatherer))

	// ---------- API ----------
	api := app.Group("/api/v1")

	authLimiter := limiter.New(limiter.Config{
		Max:        d.Config.AuthRateMax,
		Expiration: rateWindow(d.Config.AuthRateWindow),
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|" + c.Path()
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.auth.hit", nil)
			return renderError(c, fiber.StatusTooManyRequests, "too many attempts, please try again later", nil)
		},
	})
	api.Post("/auth/signup", authLimiter, d.AuthHandler.Signup)
	api.Post("/auth/login", authLimiter, d.AuthHandler.Login)

	users := api.Group("/users", RequireAuth(d.Signer))
	users.Get("/", d.UserHandler.List)
	users.Get("/me", d.UserHandler.Me)
	users.Get("/:id", d.UserHandler.Get)
	users.Patch("/:id", d.UserHandler.Update)
	users.Delete("/:id", d.UserHandler.Delete)

	return app
}

func rateWindow(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Minute
	}
	return d
}
