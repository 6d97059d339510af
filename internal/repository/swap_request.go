package repository

import (
	"context"
	"time"

	"skillswap/internal/models"

	"gorm.io/gorm"
)

// SwapRequestRepository defines persistence operations for swap requests.
type SwapRequestRepository interface {
	Create(ctx context.Context, req *models.SwapRequest) error
	GetByID(ctx context.Context, id uint) (*models.SwapRequest, error)
	GetDetail(ctx context.Context, id uint) (*models.SwapRequest, error)
	ListForUser(ctx context.Context, userID uint) ([]models.SwapRequest, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.SwapRequest, error)
	UpdateStatusIfCurrent(ctx context.Context, id uint, from, to models.SwapStatus, at time.Time) (bool, error)
	CountByStatus(ctx context.Context, status models.SwapStatus) (int64, error)
}

type swapRequestRepository struct {
	db *gorm.DB
}

// NewSwapRequestRepository returns a new SwapRequestRepository implementation.
func NewSwapRequestRepository(db *gorm.DB) SwapRequestRepository {
	return &swapRequestRepository{db: db}
}

// withDetail preloads both participants, both skills, and the reviews (newest first).
func withDetail(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Requester").
		Preload("Receiver").
		Preload("OfferedSkill").
		Preload("RequestedSkill").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("reviews.created_at DESC, reviews.id DESC")
		})
}

func (r *swapRequestRepository) Create(ctx context.Context, req *models.SwapRequest) error {
	if err := r.db.WithContext(ctx).Omit("Requester", "Receiver", "OfferedSkill", "RequestedSkill", "Reviews").
		Create(req).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *swapRequestRepository) GetByID(ctx context.Context, id uint) (*models.SwapRequest, error) {
	var req models.SwapRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, notFoundOr(err, "Swap request", id)
	}
	return &req, nil
}

func (r *swapRequestRepository) GetDetail(ctx context.Context, id uint) (*models.SwapRequest, error) {
	var req models.SwapRequest
	if err := withDetail(r.db.WithContext(ctx)).First(&req, id).Error; err != nil {
		return nil, notFoundOr(err, "Swap request", id)
	}
	return &req, nil
}

func (r *swapRequestRepository) ListForUser(ctx context.Context, userID uint) ([]models.SwapRequest, error) {
	var reqs []models.SwapRequest
	if err := withDetail(readDB(r.db).WithContext(ctx)).
		Where("(requester_id = ? OR receiver_id = ?)", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&reqs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reqs, nil
}

func (r *swapRequestRepository) ListAll(ctx context.Context, limit, offset int) ([]models.SwapRequest, error) {
	limit, offset = clampPage(limit, offset, 50)
	var reqs []models.SwapRequest
	if err := withDetail(readDB(r.db).WithContext(ctx)).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&reqs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reqs, nil
}

// UpdateStatusIfCurrent moves the request from -> to only if its status is still from.
// It reports false when another writer changed the status first.
func (r *swapRequestRepository) UpdateStatusIfCurrent(ctx context.Context, id uint, from, to models.SwapStatus, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.SwapRequest{}).
		Where("id = ? AND status = ?", id, from).
		UpdateColumns(map[string]any{"status": to, "updated_at": at})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *swapRequestRepository) CountByStatus(ctx context.Context, status models.SwapStatus) (int64, error) {
	var n int64
	if err := readDB(r.db).WithContext(ctx).Model(&models.SwapRequest{}).
		Where("status = ?", status).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
