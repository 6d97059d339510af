package repository

import (
	"context"

	"skillswap/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	ExistsForReviewer(ctx context.Context, reviewerID, swapRequestID uint) (bool, error)
	ListForReviewee(ctx context.Context, revieweeID uint) ([]models.Review, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository returns a new ReviewRepository implementation.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create inserts the review. A second review by the same reviewer for the same swap is a Conflict.
func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Omit("Reviewer").Create(review).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("You have already reviewed this swap")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reviewRepository) ExistsForReviewer(ctx context.Context, reviewerID, swapRequestID uint) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("reviewer_id = ? AND swap_request_id = ?", reviewerID, swapRequestID).
		Count(&n).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return n > 0, nil
}

func (r *reviewRepository) ListForReviewee(ctx context.Context, revieweeID uint) ([]models.Review, error) {
	var reviews []models.Review
	if err := readDB(r.db).WithContext(ctx).
		Preload("Reviewer").
		Where("reviewee_id = ?", revieweeID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reviews, nil
}
