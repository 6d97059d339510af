package repository

import (
	"context"
	"time"

	"skillswap/internal/models"

	"gorm.io/gorm"
)

// ModerationRepository persists user and skill moderation records.
type ModerationRepository interface {
	CreateUserModeration(ctx context.Context, m *models.UserModeration) error
	HasActiveBan(ctx context.Context, userID uint, now time.Time) (bool, error)
	DeactivateUserModerations(ctx context.Context, userID uint) (int64, error)
	ListUserModerations(ctx context.Context, userID uint) ([]models.UserModeration, error)
	CreateSkillModeration(ctx context.Context, m *models.SkillModeration) error
	ListSkillModerations(ctx context.Context, skillID uint) ([]models.SkillModeration, error)
}

type moderationRepository struct {
	db *gorm.DB
}

// NewModerationRepository returns a new ModerationRepository implementation.
func NewModerationRepository(db *gorm.DB) ModerationRepository {
	return &moderationRepository{db: db}
}

func (r *moderationRepository) CreateUserModeration(ctx context.Context, m *models.UserModeration) error {
	if err := r.db.WithContext(ctx).Omit("Moderator", "User").Create(m).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// HasActiveBan reports whether an active ban on userID has no expiry or expires after now.
func (r *moderationRepository) HasActiveBan(ctx context.Context, userID uint, now time.Time) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.UserModeration{}).
		Where("user_id = ? AND action = ? AND is_active = ?", userID, models.UserModerationBan, true).
		Where("(expires_at IS NULL OR expires_at > ?)", now).
		Count(&n).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return n > 0, nil
}

func (r *moderationRepository) DeactivateUserModerations(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.UserModeration{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Update("is_active", false)
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *moderationRepository) ListUserModerations(ctx context.Context, userID uint) ([]models.UserModeration, error) {
	var out []models.UserModeration
	if err := r.db.WithContext(ctx).
		Preload("Moderator").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&out).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return out, nil
}

func (r *moderationRepository) CreateSkillModeration(ctx context.Context, m *models.SkillModeration) error {
	if err := r.db.WithContext(ctx).Omit("Moderator", "Skill").Create(m).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *moderationRepository) ListSkillModerations(ctx context.Context, skillID uint) ([]models.SkillModeration, error) {
	var out []models.SkillModeration
	if err := r.db.WithContext(ctx).
		Preload("Moderator").
		Where("skill_id = ?", skillID).
		Order("created_at DESC, id DESC").
		Find(&out).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return out, nil
}
