package handlers

import (
	"github.com/gofiber/fiber/v2"

	"shopapi/internal/domain"
)

type errorBody struct {
	Error      string             `json:"error"`
	Violations []domain.Violation `json:"violations,omitempty"`
}

func render(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(data)
}

func renderError(c *fiber.Ctx, status int, msg string, vs []domain.Violation) error {
	return render(c, status, errorBody{Error: msg, Violations: vs})
}

// parseJSON decodes the request body into out. A body that is not a JSON
// object is a validation failure, not a server error.
func parseJSON(c *fiber.Ctx, out any) error {
	if !c.Is("json") {
		return &domain.ValidationError{Violations: []domain.Violation{
			{Field: "body", Message: "content type must be application/json"},
		}}
	}
	if err := c.BodyParser(out); err != nil {
		return &domain.ValidationError{Violations: []domain.Violation{
			{Field: "body", Message: "must be a JSON object"},
		}}
	}
	return nil
}
