package server

import (
	"skillswap/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMySkills handles GET /api/skills
// @Summary Own skills
// @Tags skills
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Skill
// @Router /skills [get]
func (s *Server) GetMySkills(c *fiber.Ctx) error {
	skills, err := s.userSvc().ListSkills(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(skills)
}

// CreateSkill handles POST /api/skills
// @Summary Add a skill
// @Tags skills
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.SkillInput true "Skill"
// @Success 201 {object} models.Skill
// @Failure 400 {object} models.ErrorResponse
// @Router /skills [post]
func (s *Server) CreateSkill(c *fiber.Ctx) error {
	var req service.SkillInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	skill, err := s.userSvc().CreateSkill(c.UserContext(), currentUserID(c), req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(skill)
}

// UpdateSkill handles PUT /api/skills/:id
// @Summary Update an own skill
// @Tags skills
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Skill ID"
// @Param request body service.SkillInput true "Skill"
// @Success 200 {object} models.Skill
// @Failure 404 {object} models.ErrorResponse
// @Router /skills/{id} [put]
func (s *Server) UpdateSkill(c *fiber.Ctx) error {
	skillID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req service.SkillInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	skill, err := s.userSvc().UpdateSkill(c.UserContext(), currentUserID(c), skillID, req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(skill)
}

// DeleteSkill handles DELETE /api/skills/:id
// @Summary Delete an own skill
// @Tags skills
// @Security BearerAuth
// @Param id path int true "Skill ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /skills/{id} [delete]
func (s *Server) DeleteSkill(c *fiber.Ctx) error {
	skillID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.userSvc().DeleteSkill(c.UserContext(), currentUserID(c), skillID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Skill deleted"})
}

// GetMyAvailability handles GET /api/availability
func (s *Server) GetMyAvailability(c *fiber.Ctx) error {
	slots, err := s.userSvc().GetAvailability(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(slots)
}

// ReplaceAvailability handles PUT /api/availability. The body is the complete new
// list of weekly slots; an empty array clears them.
// @Summary Replace availability
// @Tags availability
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body []service.SlotInput true "Weekly slots"
// @Success 200 {array} models.Availability
// @Failure 400 {object} models.ErrorResponse
// @Router /availability [put]
func (s *Server) ReplaceAvailability(c *fiber.Ctx) error {
	var req []service.SlotInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	slots, err := s.userSvc().SetAvailability(c.UserContext(), currentUserID(c), req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(slots)
}
