package server

import (
	"skillswap/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetAnnouncements handles GET /api/announcements
// @Summary Active announcements
// @Tags announcements
// @Produce json
// @Success 200 {array} models.Announcement
// @Router /announcements [get]
func (s *Server) GetAnnouncements(c *fiber.Ctx) error {
	announcements, err := s.moderationSvc().ActiveAnnouncements(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(announcements)
}

// GetAdminAnnouncements handles GET /api/admin/announcements
func (s *Server) GetAdminAnnouncements(c *fiber.Ctx) error {
	announcements, err := s.moderationSvc().ListAnnouncements(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(announcements)
}

// CreateAnnouncement handles POST /api/admin/announcements
// @Summary Publish an announcement (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.AnnouncementInput true "Announcement"
// @Success 201 {object} models.Announcement
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/announcements [post]
func (s *Server) CreateAnnouncement(c *fiber.Ctx) error {
	var req service.AnnouncementInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	announcement, err := s.moderationSvc().CreateAnnouncement(c.UserContext(), currentUserID(c), req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(announcement)
}

// UpdateAnnouncement handles PUT /api/admin/announcements/:id. Omitted fields are kept.
func (s *Server) UpdateAnnouncement(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req service.AnnouncementInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	announcement, err := s.moderationSvc().UpdateAnnouncement(c.UserContext(), id, req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(announcement)
}

// DeleteAnnouncement handles DELETE /api/admin/announcements/:id
func (s *Server) DeleteAnnouncement(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.moderationSvc().DeleteAnnouncement(c.UserContext(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Announcement deleted"})
}
