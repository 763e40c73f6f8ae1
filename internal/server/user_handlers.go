package server

import (
	"askme/internal/models"
	"askme/internal/service"

	"github.com/gofiber/fiber/v2"
)

type updateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar"`
}

// GetMyProfile handles GET /api/users/me
// @Summary Current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Router /users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetUserByID(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
// @Summary Update settings
// @Description Update names, email and avatar. Empty fields are left unchanged.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body updateProfileRequest true "Settings"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /users/me [put]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateSettings(c.UserContext(), service.UpdateSettingsInput{
		UserID:    currentUserID(c),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Avatar:    req.Avatar,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// GetAvatar handles GET /api/users/:id/avatar
// @Summary User avatar
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} object{avatar=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/avatar [get]
func (s *Server) GetAvatar(c *fiber.Ctx) error {
	id, err := parseID(c, "user")
	if err != nil {
		return nil
	}
	avatar, err := s.userService.Avatar(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"avatar": avatar})
}

// PromoteToStaff handles POST /api/admin/users/:id/promote (staff only)
func (s *Server) PromoteToStaff(c *fiber.Ctx) error {
	return s.setStaff(c, true)
}

// DemoteFromStaff handles POST /api/admin/users/:id/demote (staff only)
func (s *Server) DemoteFromStaff(c *fiber.Ctx) error {
	return s.setStaff(c, false)
}

func (s *Server) setStaff(c *fiber.Ctx, staff bool) error {
	targetID, err := parseID(c, "user")
	if err != nil {
		return nil
	}
	user, err := s.userService.SetStaff(c.UserContext(), targetID, staff)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}
