package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "shopapi/internal/log"
	"shopapi/internal/metrics"
	"shopapi/internal/services"
	"shopapi/internal/validate"
)

type AuthHandler struct {
	Auth    *services.AuthService
	Metrics metrics.Recorder
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var in validate.SignupInput
	if err := parseJSON(c, &in); err != nil {
		h.Metrics.RecordSignup(err)
		return err
	}

	u, err := h.Auth.Signup(c.UserContext(), in)
	h.Metrics.RecordSignup(err)
	if err != nil {
		applog.Security(c, "auth.signup.fail", map[string]any{"reason": metrics.Outcome(err)})
		return err
	}

	c.Locals("user_id", u.ID)
	applog.Audit(c, "auth.signup.success", map[string]any{"email": u.Email, "role_id": u.RoleID})
	return render(c, fiber.StatusCreated, fiber.Map{
		"message": "User created successfully",
		"user":    u,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in validate.LoginInput
	if err := parseJSON(c, &in); err != nil {
		h.Metrics.RecordLogin(err)
		return err
	}

	res, err := h.Auth.Login(c.UserContext(), in)
	h.Metrics.RecordLogin(err)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": in.Email, "reason": metrics.Outcome(err)})
		return err
	}

	c.Locals("user_id", res.User.ID)
	applog.Audit(c, "auth.login.success", map[string]any{"email": res.User.Email})
	return render(c, fiber.StatusOK, res)
}
