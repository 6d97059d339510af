package server

import (
	"strings"

	"skillswap/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReview handles POST /api/reviews
// @Summary Review a completed swap
// @Description Each participant may review the other participant once per swap.
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{swap_request_id=int,reviewee_id=int,rating=int,comment=string} true "Review"
// @Success 201 {object} models.Review
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /reviews [post]
func (s *Server) CreateReview(c *fiber.Ctx) error {
	var req struct {
		SwapRequestID uint   `json:"swap_request_id"`
		RevieweeID    *uint  `json:"reviewee_id"`
		Rating        int    `json:"rating"`
		Comment       string `json:"comment"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	review, err := s.reviewSvc().Create(c.UserContext(), service.CreateReviewInput{
		ReviewerID:    currentUserID(c),
		SwapRequestID: req.SwapRequestID,
		RevieweeID:    req.RevieweeID,
		Rating:        req.Rating,
		Comment:       strings.TrimSpace(req.Comment),
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(review)
}

// GetUserReviews handles GET /api/reviews/:userId
// @Summary Reviews received by a user
// @Tags reviews
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} models.ReviewSummary
// @Router /reviews/{userId} [get]
func (s *Server) GetUserReviews(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	summary, err := s.reviewSvc().ListForUser(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	for i := range summary.Reviews {
		summary.Reviews[i].Reviewer.RedactEmail()
	}
	return c.JSON(summary)
}
