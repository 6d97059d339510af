package service

import (
	"context"
	"math"
	"strconv"

	"skillswap/internal/models"
	"skillswap/internal/observability"
	"skillswap/internal/repository"
	"skillswap/internal/validation"
)

type ReviewService struct {
	reviewRepo repository.ReviewRepository
	swapRepo   repository.SwapRequestRepository
}

type CreateReviewInput struct {
	ReviewerID    uint
	SwapRequestID uint
	RevieweeID    *uint
	Rating        int
	Comment       string
}

func NewReviewService(reviewRepo repository.ReviewRepository, swapRepo repository.SwapRequestRepository) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, swapRepo: swapRepo}
}

// Create records a review of the other participant of a completed swap.
func (s *ReviewService) Create(ctx context.Context, in CreateReviewInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, models.NewValidationError("rating must be between 1 and 5")
	}
	if err := validation.ValidateMaxLength("comment", in.Comment, validation.MaxCommentLength); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	swap, err := s.swapRepo.GetByID(ctx, in.SwapRequestID)
	if err != nil {
		return nil, err
	}
	reviewee := swap.Counterpart(in.ReviewerID)
	if reviewee == 0 {
		return nil, models.NewNotFoundError("Swap request", in.SwapRequestID)
	}
	if swap.Status != models.SwapStatusCompleted {
		return nil, models.NewValidationError("Only completed swaps can be reviewed")
	}
	if in.RevieweeID != nil && *in.RevieweeID != reviewee {
		return nil, models.NewValidationError("reviewee_id must be the other participant of the swap")
	}

	exists, err := s.reviewRepo.ExistsForReviewer(ctx, in.ReviewerID, in.SwapRequestID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.NewConflictError("You have already reviewed this swap")
	}

	review := &models.Review{
		SwapRequestID: in.SwapRequestID,
		ReviewerID:    in.ReviewerID,
		RevieweeID:    reviewee,
		Rating:        in.Rating,
		Comment:       in.Comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	observability.ReviewsCreated.WithLabelValues(strconv.Itoa(in.Rating)).Inc()
	return review, nil
}

// ListForUser returns the reviews a user received, newest first, with the average rating
// rounded to two decimals.
func (s *ReviewService) ListForUser(ctx context.Context, revieweeID uint) (*models.ReviewSummary, error) {
	reviews, err := s.reviewRepo.ListForReviewee(ctx, revieweeID)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []models.Review{}
	}

	summary := &models.ReviewSummary{Reviews: reviews, Count: len(reviews)}
	if len(reviews) > 0 {
		total := 0
		for _, r := range reviews {
			total += r.Rating
		}
		summary.AverageRating = math.Round(float64(total)/float64(len(reviews))*100) / 100
	}
	return summary, nil
}
