package repository

import (
	"context"
	"errors"
	"time"

	"skillswap/internal/models"
	"skillswap/internal/observability"

	"gorm.io/gorm"
)

// SearchParams are the filters of a user search. Empty strings and "all" disable a filter.
type SearchParams struct {
	Query     string
	Location  string
	SkillType string
	Level     string
	// HideRejectedSkills treats skills whose latest reject has no later approve as absent.
	HideRejectedSkills bool
	Now                time.Time
	Limit              int
	Offset             int
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetWithDetails(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateFields(ctx context.Context, id uint, fields map[string]any) error
	SetAdmin(ctx context.Context, id uint, isAdmin bool) error
	TouchLastActive(ctx context.Context, id uint, at time.Time) error
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	ListAdmins(ctx context.Context) ([]models.User, error)
	Count(ctx context.Context) (int64, error)
	CountPublic(ctx context.Context) (int64, error)
	Search(ctx context.Context, p SearchParams) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := readDB(r.db).WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFoundOr(err, "User", id)
	}
	return &user, nil
}

// GetWithDetails loads the user with skills (oldest first) and availability (by day, then start).
func (r *userRepository) GetWithDetails(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := readDB(r.db).WithContext(ctx).
		Preload("Skills", func(db *gorm.DB) *gorm.DB {
			return db.Order("skills.created_at ASC, skills.id ASC")
		}).
		Preload("Availability", orderSlots).
		First(&user, id).Error
	if err != nil {
		return nil, notFoundOr(err, "User", id)
	}
	return &user, nil
}

// GetByEmail returns nil, nil when no user has the address.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("An account with this email already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.User{ID: id}).Updates(fields)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	return nil
}

func (r *userRepository) SetAdmin(ctx context.Context, id uint, isAdmin bool) error {
	return r.UpdateFields(ctx, id, map[string]any{"is_admin": isAdmin})
}

func (r *userRepository) TouchLastActive(ctx context.Context, id uint, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_active_at", at).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	limit, offset = clampPage(limit, offset, 50)
	var users []models.User
	if err := readDB(r.db).WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) ListAdmins(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := readDB(r.db).WithContext(ctx).Where("is_admin = ?", true).Order("id ASC").Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := readDB(r.db).WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

func (r *userRepository) CountPublic(ctx context.Context) (int64, error) {
	var n int64
	if err := readDB(r.db).WithContext(ctx).Model(&models.User{}).Where("is_public = ?", true).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

const (
	rejectedSkillClause = `NOT EXISTS (
		SELECT 1 FROM skill_moderations m
		WHERE m.skill_id = skills.id AND m.action = 'reject'
		AND NOT EXISTS (
			SELECT 1 FROM skill_moderations m2
			WHERE m2.skill_id = m.skill_id AND m2.action = 'approve' AND m2.id > m.id
		)
	)`
	activeBanClause = `NOT EXISTS (
		SELECT 1 FROM user_moderations um
		WHERE um.user_id = users.id AND um.action = ? AND um.is_active = ?
		AND (um.expires_at IS NULL OR um.expires_at > ?)
	)`
)

// Search returns public, unbanned users with at least one visible skill that match every filter.
// The skill filters (query, type, level) each look for their own matching skill.
func (r *userRepository) Search(ctx context.Context, p SearchParams) ([]models.User, error) {
	defer observability.TrackQuery("search", "users")()

	limit, offset := clampPage(p.Limit, p.Offset, 20)
	now := p.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	skillExists := "EXISTS (SELECT 1 FROM skills WHERE skills.user_id = users.id"
	if p.HideRejectedSkills {
		skillExists += " AND " + rejectedSkillClause
	}

	q := readDB(r.db).WithContext(ctx).Model(&models.User{}).
		Where("users.is_public = ?", true).
		Where(activeBanClause, models.UserModerationBan, true, now).
		Where(skillExists + ")")

	if p.Location != "" {
		q = q.Where(`LOWER(users.location) LIKE ? ESCAPE '\'`, likePattern(p.Location))
	}
	if p.Query != "" {
		pattern := likePattern(p.Query)
		q = q.Where(
			"("+skillExists+` AND LOWER(skills.name) LIKE ? ESCAPE '\') OR LOWER(users.bio) LIKE ? ESCAPE '\')`,
			pattern, pattern,
		)
	}
	if p.SkillType != "" && p.SkillType != "all" {
		q = q.Where(skillExists+" AND skills.type = ?)", p.SkillType)
	}
	if p.Level != "" && p.Level != "all" {
		q = q.Where(skillExists+" AND skills.level = ?)", p.Level)
	}

	var users []models.User
	err := q.
		Preload("Skills", func(db *gorm.DB) *gorm.DB {
			if p.HideRejectedSkills {
				db = db.Where(rejectedSkillClause)
			}
			return db.Order("skills.created_at ASC, skills.id ASC")
		}).
		Preload("Availability", orderSlots).
		Order("users.updated_at DESC, users.id DESC").
		Limit(limit).Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	observability.SearchResults.Observe(float64(len(users)))
	return users, nil
}
