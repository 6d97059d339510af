package repository

import (
	"context"

	"skillswap/internal/models"

	"gorm.io/gorm"
)

// SkillRepository defines persistence operations for skills.
type SkillRepository interface {
	Create(ctx context.Context, skill *models.Skill) error
	GetByID(ctx context.Context, id uint) (*models.Skill, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Skill, error)
	ListAll(ctx context.Context, limit int) ([]models.Skill, error)
	Update(ctx context.Context, skill *models.Skill) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	CountOfferedPublic(ctx context.Context) (int64, error)
}

type skillRepository struct {
	db *gorm.DB
}

// NewSkillRepository returns a new SkillRepository implementation.
func NewSkillRepository(db *gorm.DB) SkillRepository {
	return &skillRepository{db: db}
}

func (r *skillRepository) Create(ctx context.Context, skill *models.Skill) error {
	if err := r.db.WithContext(ctx).Create(skill).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *skillRepository) GetByID(ctx context.Context, id uint) (*models.Skill, error) {
	var skill models.Skill
	if err := r.db.WithContext(ctx).First(&skill, id).Error; err != nil {
		return nil, notFoundOr(err, "Skill", id)
	}
	return &skill, nil
}

func (r *skillRepository) ListByUser(ctx context.Context, userID uint) ([]models.Skill, error) {
	var skills []models.Skill
	if err := readDB(r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&skills).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return skills, nil
}

func (r *skillRepository) ListAll(ctx context.Context, limit int) ([]models.Skill, error) {
	q := readDB(r.db).WithContext(ctx).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var skills []models.Skill
	if err := q.Find(&skills).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return skills, nil
}

func (r *skillRepository) Update(ctx context.Context, skill *models.Skill) error {
	err := r.db.WithContext(ctx).Model(skill).
		Select("name", "level", "type").
		Updates(skill).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *skillRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Skill{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Skill", id)
	}
	return nil
}

func (r *skillRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := readDB(r.db).WithContext(ctx).Model(&models.Skill{}).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

// CountOfferedPublic counts offered skills listed on public profiles, leaving out rejected ones.
func (r *skillRepository) CountOfferedPublic(ctx context.Context) (int64, error) {
	var n int64
	err := readDB(r.db).WithContext(ctx).Model(&models.Skill{}).
		Joins("JOIN users ON users.id = skills.user_id").
		Where("skills.type = ? AND users.is_public = ?", models.SkillTypeOffered, true).
		Where(rejectedSkillClause).
		Count(&n).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
