package log

import (
	"io"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Setup points the process logger at w. An empty level means info.
func Setup(w io.Writer, level string) error {
	lvl := zerolog.InfoLevel
	if level != "" {
		parsed, err := zerolog.ParseLevel(level)
		if err != nil {
			return err
		}
		lvl = parsed
	}
	zerolog.TimeFieldFormat = time.RFC3339
	logger = zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return nil
}

// L returns the process logger for code that has no request at hand.
func L() *zerolog.Logger { return &logger }

func write(ev *zerolog.Event, c *fiber.Ctx, action string, err error, fields map[string]any) {
	if ev == nil {
		return
	}
	ev = ev.Str("action", action)
	if c != nil {
		ev = withRequest(ev, c)
	}
	if err != nil {
		ev = ev.Err(err)
	}
	if len(fields) > 0 {
		ev = ev.Dict("fields", zerolog.Dict().Fields(fields))
	}
	ev.Send()
}

func withRequest(ev *zerolog.Event, c *fiber.Ctx) *zerolog.Event {
	ev = ev.Str("ip", c.IP()).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", c.Response().StatusCode())
	if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
		ev = ev.Str("req_id", rid)
	}
	if uid, ok := c.Locals("user_id").(string); ok && uid != "" {
		ev = ev.Str("user_id", uid)
	}
	return ev
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	write(logger.Info(), c, action, nil, fields)
}

func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write(logger.Log().Str(zerolog.LevelFieldName, "audit"), c, action, nil, fields)
}

func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write(logger.Warn(), c, action, nil, fields)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write(logger.Error(), c, action, err, fields)
}

// Access logs one line per request once the handler chain has run. Errors are
// resolved through the app's ErrorHandler first so the logged status is final.
func Access() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		ev := logger.Info()
		if ev == nil {
			return nil
		}
		withRequest(ev, c).
			Dur("latency", time.Since(start)).
			Msg("request")
		return nil
	}
}
