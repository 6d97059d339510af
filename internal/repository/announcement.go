package repository

import (
	"context"
	"time"

	"skillswap/internal/models"

	"gorm.io/gorm"
)

// AnnouncementRepository defines persistence operations for announcements.
type AnnouncementRepository interface {
	Create(ctx context.Context, a *models.Announcement) error
	GetByID(ctx context.Context, id uint) (*models.Announcement, error)
	Update(ctx context.Context, a *models.Announcement) error
	Delete(ctx context.Context, id uint) error
	ListAll(ctx context.Context) ([]models.Announcement, error)
	ListActive(ctx context.Context, now time.Time) ([]models.Announcement, error)
}

type announcementRepository struct {
	db *gorm.DB
}

// NewAnnouncementRepository returns a new AnnouncementRepository implementation.
func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(ctx context.Context, a *models.Announcement) error {
	if err := r.db.WithContext(ctx).Omit("CreatedBy").Create(a).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *announcementRepository) GetByID(ctx context.Context, id uint) (*models.Announcement, error) {
	var a models.Announcement
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, notFoundOr(err, "Announcement", id)
	}
	return &a, nil
}

func (r *announcementRepository) Update(ctx context.Context, a *models.Announcement) error {
	err := r.db.WithContext(ctx).Model(a).
		Select("title", "message", "type", "expires_at", "is_active").
		Updates(a).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *announcementRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Announcement{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Announcement", id)
	}
	return nil
}

func (r *announcementRepository) ListAll(ctx context.Context) ([]models.Announcement, error) {
	var out []models.Announcement
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return out, nil
}

// ListActive returns active announcements that have not expired at now, newest first.
func (r *announcementRepository) ListActive(ctx context.Context, now time.Time) ([]models.Announcement, error) {
	var out []models.Announcement
	if err := readDB(r.db).WithContext(ctx).
		Where("is_active = ?", true).
		Where("(expires_at IS NULL OR expires_at > ?)", now).
		Order("created_at DESC, id DESC").
		Find(&out).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return out, nil
}
