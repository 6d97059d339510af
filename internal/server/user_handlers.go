package server

import (
	"context"
	"errors"
	"io"
	"time"

	"skillswap/internal/models"
	"skillswap/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SearchUsers handles GET /api/users/search
// @Summary Search users
// @Description Find public users by free text, location, skill type and level
// @Tags users
// @Produce json
// @Param q query string false "Free text over name, bio and skill names"
// @Param location query string false "Location substring"
// @Param skillType query string false "offered, wanted or all"
// @Param level query string false "beginner, intermediate, expert or all"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.User
// @Failure 400 {object} models.ErrorResponse
// @Router /users/search [get]
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	page := parsePagination(c, 20)

	users, err := s.userSvc().SearchUsers(ctx, service.SearchInput{
		Query:     c.Query("q"),
		Location:  c.Query("location"),
		SkillType: c.Query("skillType"),
		Level:     c.Query("level"),
		Limit:     page.Limit,
		Offset:    page.Offset,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{
				"error": "Request timeout",
			})
		}
		return respondServiceError(c, err)
	}

	for i := range users {
		users[i].RedactEmail()
	}
	return c.JSON(users)
}

// GetPublicProfile handles GET /api/users/:id
// @Summary Public profile
// @Description Profile with skills and availability. Private profiles are visible to their owner and admins only.
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (s *Server) GetPublicProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	viewerID, viewerIsAdmin := s.optionalViewer(c)
	user, err := s.userSvc().GetPublicProfile(c.UserContext(), id, viewerID, viewerIsAdmin)
	if err != nil {
		return respondServiceError(c, err)
	}
	if viewerID != user.ID && !viewerIsAdmin {
		user.RedactEmail()
	}

	return c.JSON(user)
}

// UpdateProfile handles PUT /api/users/profile
// @Summary Update profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ProfileUpdate true "Fields to change"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Router /users/profile [put]
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req models.ProfileUpdate
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userSvc().UpdateProfile(c.UserContext(), currentUserID(c), req)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// UploadAvatar handles POST /api/users/profile/avatar (multipart field "avatar")
// @Summary Upload avatar
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "JPEG, PNG or WebP image"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Router /users/profile/avatar [post]
func (s *Server) UploadAvatar(c *fiber.Ctx) error {
	file, err := c.FormFile("avatar")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("No file uploaded"))
	}
	if file.Size > s.avatarSvc().MaxUploadSizeBytes() {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("File too large"))
	}

	src, err := file.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Unable to read uploaded file"))
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Unable to read uploaded file"))
	}

	user, err := s.avatarSvc().Upload(c.UserContext(), service.UploadAvatarInput{
		UserID:      currentUserID(c),
		Filename:    file.Filename,
		ContentType: file.Header.Get(fiber.HeaderContentType),
		Content:     content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// GetAdminUsers handles GET /api/admin/users
// @Summary List users (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.User
// @Router /admin/users [get]
func (s *Server) GetAdminUsers(c *fiber.Ctx) error {
	page := parsePagination(c, 50)

	users, err := s.userSvc().ListUsers(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(users)
}

// PromoteToAdmin handles POST /api/admin/users/:id/promote-admin
func (s *Server) PromoteToAdmin(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	target, err := s.userSvc().SetAdmin(c.UserContext(), targetID, true)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "User promoted to admin", "user": target})
}

// DemoteFromAdmin handles POST /api/admin/users/:id/demote-admin
func (s *Server) DemoteFromAdmin(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if targetID == currentUserID(c) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("You cannot demote yourself"))
	}

	target, err := s.userSvc().SetAdmin(c.UserContext(), targetID, false)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "User demoted from admin", "user": target})
}
