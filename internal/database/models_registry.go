package database

import "skillswap/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Order matters for AutoMigrate: referenced tables come first.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Skill{},
		&models.Availability{},
		&models.SwapRequest{},
		&models.Review{},
		&models.Report{},
		&models.UserModeration{},
		&models.SkillModeration{},
		&models.Announcement{},
	}
}
