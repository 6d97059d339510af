package repository

import (
	"context"

	"skillswap/internal/models"

	"gorm.io/gorm"
)

// AvailabilityRepository defines persistence operations for weekly availability slots.
type AvailabilityRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]models.Availability, error)
	ReplaceForUser(ctx context.Context, userID uint, slots []models.Availability) ([]models.Availability, error)
}

type availabilityRepository struct {
	db *gorm.DB
}

// NewAvailabilityRepository returns a new AvailabilityRepository implementation.
func NewAvailabilityRepository(db *gorm.DB) AvailabilityRepository {
	return &availabilityRepository{db: db}
}

func orderSlots(db *gorm.DB) *gorm.DB {
	return db.Order("day_of_week ASC, start_time ASC, id ASC")
}

func (r *availabilityRepository) ListByUser(ctx context.Context, userID uint) ([]models.Availability, error) {
	var slots []models.Availability
	if err := orderSlots(readDB(r.db).WithContext(ctx).Where("user_id = ?", userID)).
		Find(&slots).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return slots, nil
}

// ReplaceForUser deletes every slot of userID and inserts slots in one transaction.
func (r *availabilityRepository) ReplaceForUser(ctx context.Context, userID uint, slots []models.Availability) ([]models.Availability, error) {
	var out []models.Availability
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Availability{}).Error; err != nil {
			return err
		}
		if len(slots) > 0 {
			rows := make([]models.Availability, len(slots))
			for i, s := range slots {
				rows[i] = models.Availability{
					UserID:    userID,
					DayOfWeek: s.DayOfWeek,
					StartTime: s.StartTime,
					EndTime:   s.EndTime,
				}
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return orderSlots(tx.Where("user_id = ?", userID)).Find(&out).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return out, nil
}
