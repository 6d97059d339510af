package repository

import (
	"context"
	"testing"
	"time"

	"skillswap/internal/models"
	"skillswap/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwapRequestRepository_CreateAndDetail(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewSwapRequestRepository(db)
	ctx := context.Background()

	a := testutil.CreateUser(t, db, "ana")
	b := testutil.CreateUser(t, db, "ben")
	guitar := testutil.CreateSkill(t, db, a.ID, "Guitar", models.SkillTypeOffered, models.SkillLevelExpert)

	req := &models.SwapRequest{
		RequesterID:    a.ID,
		ReceiverID:     b.ID,
		OfferedSkillID: &guitar.ID,
		Message:        "Lessons for lessons?",
		Status:         models.SwapStatusPending,
	}
	require.NoError(t, repo.Create(ctx, req))
	require.NotZero(t, req.ID)

	got, err := repo.GetDetail(ctx, req.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Requester)
	require.NotNil(t, got.OfferedSkill)
	assert.Equal(t, "Guitar", got.OfferedSkill.Name)
	assert.Equal(t, b.ID, got.Receiver.ID)
	assert.Nil(t, got.RequestedSkill)
	assert.Empty(t, got.Reviews)

	_, err = repo.GetByID(ctx, req.ID+100)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestSwapRequestRepository_ListForUser(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewSwapRequestRepository(db)
	ctx := context.Background()

	a := testutil.CreateUser(t, db, "ana")
	b := testutil.CreateUser(t, db, "ben")
	c := testutil.CreateUser(t, db, "cy")
	first := testutil.CreateSwap(t, db, a.ID, b.ID, models.SwapStatusPending)
	second := testutil.CreateSwap(t, db, c.ID, a.ID, models.SwapStatusAccepted)
	testutil.CreateSwap(t, db, b.ID, c.ID, models.SwapStatusPending)

	list, err := repo.ListForUser(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestSwapRequestRepository_UpdateStatusIfCurrent(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewSwapRequestRepository(db)
	ctx := context.Background()

	a := testutil.CreateUser(t, db, "ana")
	b := testutil.CreateUser(t, db, "ben")
	req := testutil.CreateSwap(t, db, a.ID, b.ID, models.SwapStatusPending)
	now := time.Now().UTC()

	ok, err := repo.UpdateStatusIfCurrent(ctx, req.ID, models.SwapStatusPending, models.SwapStatusAccepted, now)
	require.NoError(t, err)
	assert.True(t, ok)

	// A second writer still holding "pending" loses.
	ok, err = repo.UpdateStatusIfCurrent(ctx, req.ID, models.SwapStatusPending, models.SwapStatusCancelled, now)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SwapStatusAccepted, got.Status)

	n, err := repo.CountByStatus(ctx, models.SwapStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
