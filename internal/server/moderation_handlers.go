package server

import (
	"strings"

	"skillswap/internal/models"
	"skillswap/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReport handles POST /api/reports
// @Summary Report content
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{reported_user_id=int,content_type=string,content_id=string,reason=string,description=string} true "Report"
// @Success 201 {object} models.Report
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /reports [post]
func (s *Server) CreateReport(c *fiber.Ctx) error {
	var req struct {
		ReportedUserID *uint  `json:"reported_user_id"`
		ContentType    string `json:"content_type"`
		ContentID      string `json:"content_id"`
		Reason         string `json:"reason"`
		Description    string `json:"description"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	report, err := s.moderationSvc().CreateReport(c.UserContext(), service.CreateReportInput{
		ReporterID:     currentUserID(c),
		ReportedUserID: req.ReportedUserID,
		ContentType:    models.ReportContentType(strings.ToLower(strings.TrimSpace(req.ContentType))),
		ContentID:      req.ContentID,
		Reason:         req.Reason,
		Description:    strings.TrimSpace(req.Description),
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}

// GetAdminReports handles GET /api/admin/reports?status=
// @Summary List reports (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, reviewed or resolved"
// @Success 200 {array} models.Report
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/reports [get]
func (s *Server) GetAdminReports(c *fiber.Ctx) error {
	page := parsePagination(c, 50)
	status := models.ReportStatus(strings.ToLower(strings.TrimSpace(c.Query("status"))))

	reports, err := s.moderationSvc().ListReports(c.UserContext(), status, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(reports)
}

// UpdateReportStatus handles PUT /api/admin/reports/:id
func (s *Server) UpdateReportStatus(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	status := models.ReportStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	report, err := s.moderationSvc().UpdateReportStatus(c.UserContext(), id, status)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(report)
}

// ModerateUser handles POST /api/admin/users/:id/moderate
// @Summary Warn, suspend or ban a user (admin)
// @Description Omitting duration_days makes the action permanent.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body object{action=string,reason=string,duration_days=int} true "Moderation action"
// @Success 201 {object} models.UserModeration
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/users/{id}/moderate [post]
func (s *Server) ModerateUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Action       string `json:"action"`
		Reason       string `json:"reason"`
		DurationDays *int   `json:"duration_days"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	record, err := s.moderationSvc().ModerateUser(c.UserContext(), service.ModerateUserInput{
		AdminID:      currentUserID(c),
		UserID:       targetID,
		Action:       models.UserModerationAction(strings.ToLower(strings.TrimSpace(req.Action))),
		Reason:       req.Reason,
		DurationDays: req.DurationDays,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}

// LiftUserModeration handles POST /api/admin/users/:id/lift
func (s *Server) LiftUserModeration(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	n, err := s.moderationSvc().LiftUserModeration(c.UserContext(), currentUserID(c), targetID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Moderation lifted", "deactivated": n})
}

// GetUserModerationHistory handles GET /api/admin/users/:id/moderation
func (s *Server) GetUserModerationHistory(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	history, err := s.moderationSvc().UserModerationHistory(c.UserContext(), targetID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(history)
}

// ModerateSkill handles POST /api/admin/skills/:id/moderate
// @Summary Flag, reject or approve a skill (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Skill ID"
// @Param request body object{action=string,reason=string} true "Moderation action"
// @Success 201 {object} models.SkillModeration
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/skills/{id}/moderate [post]
func (s *Server) ModerateSkill(c *fiber.Ctx) error {
	skillID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Action string `json:"action"`
		Reason string `json:"reason"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	record, err := s.moderationSvc().ModerateSkill(c.UserContext(), service.ModerateSkillInput{
		AdminID: currentUserID(c),
		SkillID: skillID,
		Action:  models.SkillModerationAction(strings.ToLower(strings.TrimSpace(req.Action))),
		Reason:  req.Reason,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}

// GetSkillModerationHistory handles GET /api/admin/skills/:id/moderation
func (s *Server) GetSkillModerationHistory(c *fiber.Ctx) error {
	skillID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	history, err := s.moderationSvc().SkillModerationHistory(c.UserContext(), skillID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(history)
}

// GetAdminStats handles GET /api/admin/stats
// @Summary Platform statistics (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.PlatformStats
// @Router /admin/stats [get]
func (s *Server) GetAdminStats(c *fiber.Ctx) error {
	stats, err := s.moderationSvc().Stats(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(stats)
}

// GetPublicStats handles GET /api/stats
// @Summary Landing-page statistics
// @Tags stats
// @Produce json
// @Success 200 {object} models.PublicStats
// @Router /stats [get]
func (s *Server) GetPublicStats(c *fiber.Ctx) error {
	stats, err := s.moderationSvc().PublicStats(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(stats)
}

// GetActivityReport handles GET /api/admin/activity-report
// @Summary Activity export (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.ActivityReport
// @Router /admin/activity-report [get]
func (s *Server) GetActivityReport(c *fiber.Ctx) error {
	report, err := s.moderationSvc().ActivityReport(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}

	c.Set(fiber.HeaderContentDisposition, `attachment; filename="skillswap-activity-`+report.GeneratedAt.Format("20060102-150405")+`.json"`)
	return c.JSON(report)
}
