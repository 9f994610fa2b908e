package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"shopapi/internal/domain"
	applog "shopapi/internal/log"
	"shopapi/internal/services"
	"shopapi/internal/validate"
)

// HeaderTotalCount carries the number of users behind a paged listing.
const HeaderTotalCount = "X-Total-Count"

type UserHandler struct {
	Users *services.UserService
}

// List serves GET /users?skip=&take=&orderBy=.
func (h *UserHandler) List(c *fiber.Ctx) error {
	page, vs := validate.Page(c.Query("skip"), c.Query("take"), c.Query("orderBy"))
	if err := domain.NewValidationError(vs); err != nil {
		return err
	}
	users, total, err := h.Users.List(c.UserContext(), page)
	if err != nil {
		return err
	}
	c.Set(HeaderTotalCount, strconv.Itoa(total))
	return render(c, fiber.StatusOK, users)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	u, err := h.Users.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return render(c, fiber.StatusOK, u)
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	u, err := h.Users.Get(c.UserContext(), actor(c).UserID)
	if err != nil {
		return err
	}
	return render(c, fiber.StatusOK, u)
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	var in validate.UpdateUserInput
	if err := parseJSON(c, &in); err != nil {
		return err
	}
	id := c.Params("id")
	u, err := h.Users.Update(c.UserContext(), actor(c), id, in)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			applog.Security(c, "users.update.denied", map[string]any{"target": id})
		}
		return err
	}
	applog.Audit(c, "users.update", map[string]any{"target": u.ID})
	return render(c, fiber.StatusOK, u)
}

// Delete cancels the user's pending orders, unpublishes what they sell and
// removes the account.
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	removal, err := h.Users.Delete(c.UserContext(), actor(c), id)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			applog.Security(c, "users.delete.denied", map[string]any{"target": id})
		}
		return err
	}
	applog.Audit(c, "users.delete", map[string]any{
		"target":               id,
		"cancelled_orders":     removal.CancelledOrders,
		"unpublished_products": removal.UnpublishedProducts,
	})
	return c.SendStatus(fiber.StatusNoContent)
}
