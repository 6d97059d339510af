package server

import (
	"strings"
	"time"

	"skillswap/internal/models"
	"skillswap/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createSwapRequest struct {
	ReceiverID       uint       `json:"receiver_id"`
	OfferedSkillID   *uint      `json:"offered_skill_id"`
	RequestedSkillID *uint      `json:"requested_skill_id"`
	Message          string     `json:"message"`
	ProposedTime     *time.Time `json:"proposed_time"`
}

// CreateSwapRequest handles POST /api/swap-requests
// @Summary Propose a swap
// @Tags swaps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createSwapRequest true "Swap proposal"
// @Success 201 {object} models.SwapRequest
// @Failure 400 {object} models.ErrorResponse
// @Router /swap-requests [post]
func (s *Server) CreateSwapRequest(c *fiber.Ctx) error {
	var req createSwapRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	swap, err := s.swapSvc().Create(c.UserContext(), service.CreateSwapInput{
		RequesterID:      currentUserID(c),
		ReceiverID:       req.ReceiverID,
		OfferedSkillID:   req.OfferedSkillID,
		RequestedSkillID: req.RequestedSkillID,
		Message:          strings.TrimSpace(req.Message),
		ProposedTime:     req.ProposedTime,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(swap)
}

// GetMySwapRequests handles GET /api/swap-requests
// @Summary Own swap requests
// @Description Requests the caller sent or received, newest first
// @Tags swaps
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.SwapRequest
// @Router /swap-requests [get]
func (s *Server) GetMySwapRequests(c *fiber.Ctx) error {
	swaps, err := s.swapSvc().ListForUser(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(swaps)
}

// GetSwapRequest handles GET /api/swap-requests/:id
func (s *Server) GetSwapRequest(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	swap, err := s.swapSvc().Get(c.UserContext(), id, currentUserID(c), isAdmin(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(swap)
}

// UpdateSwapStatus handles PUT /api/swap-requests/:id/status
// @Summary Change swap status
// @Description accepted and rejected are reserved to the receiver; completed and cancelled to either participant.
// @Tags swaps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Swap request ID"
// @Param request body object{status=string} true "Target status"
// @Success 200 {object} models.SwapRequest
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /swap-requests/{id}/status [put]
func (s *Server) UpdateSwapStatus(c *fiber.Ctx) error {
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
	if strings.TrimSpace(req.Status) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("status is required"))
	}

	status := models.SwapStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	swap, err := s.swapSvc().UpdateStatus(c.UserContext(), id, status, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(swap)
}

// GetAdminSwapRequests handles GET /api/admin/swap-requests
func (s *Server) GetAdminSwapRequests(c *fiber.Ctx) error {
	page := parsePagination(c, 50)

	swaps, err := s.swapSvc().ListAll(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(swaps)
}
