package repository

import (
	"context"
	"testing"
	"time"

	"skillswap/internal/database"
	"skillswap/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newPostgresDB starts a throwaway Postgres container and applies the embedded migrations.
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("skillswap"),
		tcpostgres.WithUsername("skillswap"),
		tcpostgres.WithPassword("skillswap"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(ctx, db))
	return db
}

func TestPostgres_MigratedSchema(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()

	users := NewUserRepository(db)
	reviews := NewReviewRepository(db)

	a := &models.User{Email: "ana@example.com", Password: "x", FirstName: "Ana", IsPublic: true}
	b := &models.User{Email: "ben@example.com", Password: "x", FirstName: "Ben", IsPublic: true}
	require.NoError(t, users.Create(ctx, a))
	require.NoError(t, users.Create(ctx, b))
	assert.True(t, models.IsCode(users.Create(ctx, &models.User{Email: "ana@example.com", Password: "x"}), models.CodeConflict))

	skill := &models.Skill{UserID: a.ID, Name: "Guitar", Type: models.SkillTypeOffered, Level: models.SkillLevelExpert}
	require.NoError(t, NewSkillRepository(db).Create(ctx, skill))

	swap := &models.SwapRequest{RequesterID: a.ID, ReceiverID: b.ID, Status: models.SwapStatusCompleted}
	require.NoError(t, NewSwapRequestRepository(db).Create(ctx, swap))

	require.NoError(t, reviews.Create(ctx, &models.Review{SwapRequestID: swap.ID, ReviewerID: a.ID, RevieweeID: b.ID, Rating: 5}))
	err := reviews.Create(ctx, &models.Review{SwapRequestID: swap.ID, ReviewerID: a.ID, RevieweeID: b.ID, Rating: 3})
	assert.True(t, models.IsCode(err, models.CodeConflict), "got %v", err)

	found, err := users.Search(ctx, SearchParams{Query: "GUITAR", HideRejectedSkills: true})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, a.ID, found[0].ID)

	require.NoError(t, db.Delete(&models.User{}, a.ID).Error)
	var left int64
	require.NoError(t, db.Model(&models.Review{}).Where("swap_request_id = ?", swap.ID).Count(&left).Error)
	assert.Zero(t, left)
}
