package handlers

import (
	"vetopay/internal/services/user"
	"vetopay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetProfile handles GET /api/users/me.
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := utils.GetUserID(c)
	if err != nil {
		return err
	}
	profile, err := h.userService.GetProfile(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return utils.Success(c, profile)
}

// UpdateProfile handles PATCH /api/users/me.
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := utils.GetUserID(c)
	if err != nil {
		return err
	}
	var input user.ProfileInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	profile, err := h.userService.UpdateProfile(c.UserContext(), userID, input)
	if err != nil {
		return err
	}
	return utils.Success(c, profile)
}
