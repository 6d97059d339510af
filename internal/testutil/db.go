// Package testutil provides shared fixtures for backend tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"skillswap/internal/database"
	"skillswap/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewSQLiteDB opens a private in-memory SQLite database with the full schema migrated.
// The pool is pinned to one connection so every query sees the same memory database.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:skillswap_test_%d?mode=memory&cache=private&_foreign_keys=on", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(database.PersistentModels()...); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

// CreateUser inserts a public user with a unique email. Use opts to adjust fields.
func CreateUser(t testing.TB, db *gorm.DB, first string, opts ...func(*models.User)) *models.User {
	t.Helper()
	u := &models.User{
		Email:     fmt.Sprintf("%s.%d@example.com", first, dbSeq.Add(1)),
		Password:  "$2a$10$invalidhashforfixturesonly000000000000000000000000000",
		FirstName: first,
		LastName:  "Tester",
		IsPublic:  true,
	}
	for _, opt := range opts {
		opt(u)
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// Private marks a fixture user as not public.
func Private(u *models.User) { u.IsPublic = false }

// Admin marks a fixture user as an administrator.
func Admin(u *models.User) { u.IsAdmin = true }

// WithLocation sets a fixture user's location.
func WithLocation(loc string) func(*models.User) {
	return func(u *models.User) { u.Location = loc }
}

// WithBio sets a fixture user's bio.
func WithBio(bio string) func(*models.User) {
	return func(u *models.User) { u.Bio = bio }
}

// CreateSkill inserts a skill for userID.
func CreateSkill(t testing.TB, db *gorm.DB, userID uint, name string, typ models.SkillType, level models.SkillLevel) *models.Skill {
	t.Helper()
	s := &models.Skill{UserID: userID, Name: name, Type: typ, Level: level}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("create skill: %v", err)
	}
	return s
}

// CreateSwap inserts a swap request directly in the given status.
func CreateSwap(t testing.TB, db *gorm.DB, requesterID, receiverID uint, status models.SwapStatus) *models.SwapRequest {
	t.Helper()
	r := &models.SwapRequest{RequesterID: requesterID, ReceiverID: receiverID, Status: status}
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("create swap: %v", err)
	}
	return r
}
