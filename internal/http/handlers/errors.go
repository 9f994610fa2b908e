package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"shopapi/internal/domain"
	applog "shopapi/internal/log"
)

const friendlyMessage = "Something went wrong. Please try again."

// ErrorHandler turns errors returned by handlers into JSON responses. Anything
// not in the domain taxonomy is logged and answered with a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var (
		verr *domain.ValidationError
		ferr *fiber.Error
	)
	switch {
	case errors.As(err, &verr):
		return renderError(c, fiber.StatusBadRequest, "validation failed", verr.Violations)
	case errors.Is(err, domain.ErrDuplicateEmail):
		return renderError(c, fiber.StatusConflict, err.Error(), nil)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return renderError(c, fiber.StatusUnauthorized, domain.ErrInvalidCredentials.Error(), nil)
	case errors.Is(err, domain.ErrUnauthorized):
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		return renderError(c, fiber.StatusUnauthorized, domain.ErrUnauthorized.Error(), nil)
	case errors.Is(err, domain.ErrForbidden):
		return renderError(c, fiber.StatusForbidden, domain.ErrForbidden.Error(), nil)
	case errors.Is(err, domain.ErrNotFound):
		return renderError(c, fiber.StatusNotFound, domain.ErrNotFound.Error(), nil)
	case errors.As(err, &ferr) && ferr.Code < fiber.StatusInternalServerError:
		return renderError(c, ferr.Code, ferr.Message, nil)
	}

	status := fiber.StatusInternalServerError
	if ferr != nil {
		status = ferr.Code
	}
	applog.Error(c, "server.error", err, nil)
	return renderError(c, status, friendlyMessage, nil)
}
