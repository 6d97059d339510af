package service

import (
	"context"
	"strings"
	"testing"

	"skillswap/internal/cache"
	"skillswap/internal/featureflags"
	"skillswap/internal/models"
	"skillswap/internal/repository"
	"skillswap/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserService(t *testing.T, flags string) (*UserService, *gorm.DB) {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	svc := NewUserService(
		repository.NewUserRepository(db),
		repository.NewSkillRepository(db),
		repository.NewAvailabilityRepository(db),
		featureflags.NewManager(flags),
	)
	return svc, db
}

func withMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })
	return mr
}

func strPtr(s string) *string { return &s }

func TestUserService_UpdateProfile_Validation(t *testing.T) {
	t.Parallel()
	svc, db := newUserService(t, "")
	u := testutil.CreateUser(t, db, "ana")

	tests := []struct {
		name string
		in   models.ProfileUpdate
	}{
		{"bio too long", models.ProfileUpdate{Bio: strPtr(strings.Repeat("x", 501))}},
		{"location too long", models.ProfileUpdate{Location: strPtr(strings.Repeat("x", 121))}},
		{"blank first name", models.ProfileUpdate{FirstName: strPtr("  ")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateProfile(context.Background(), u.ID, tt.in)
			assertCode(t, err, models.CodeValidation)
		})
	}
}

func TestUserService_UpdateProfile_PartialUpdate(t *testing.T) {
	t.Parallel()
	svc, db := newUserService(t, "")
	u := testutil.CreateUser(t, db, "ana", testutil.WithBio("my bio"), testutil.WithLocation("Lisbon"))

	hidden := false
	updated, err := svc.UpdateProfile(context.Background(), u.ID, models.ProfileUpdate{
		Location: strPtr(" Porto "),
		IsPublic: &hidden,
	})
	require.NoError(t, err)
	assert.Equal(t, "Porto", updated.Location)
	assert.Equal(t, "my bio", updated.Bio, "bio should be unchanged when not provided")
	assert.False(t, updated.IsPublic)

	_, err = svc.UpdateProfile(context.Background(), 9999, models.ProfileUpdate{Bio: strPtr("x")})
	assertCode(t, err, models.CodeNotFound)
}

func TestUserService_ProfileCacheInvalidation(t *testing.T) {
	mr := withMiniredis(t)
	svc, db := newUserService(t, "")
	ctx := context.Background()
	u := testutil.CreateUser(t, db, "ana")

	first, err := svc.GetUserWithSkills(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, first.Skills)
	assert.True(t, mr.Exists(cache.UserProfileKey(u.ID)))

	_, err = svc.CreateSkill(ctx, u.ID, SkillInput{Name: "Guitar", Level: models.SkillLevelExpert, Type: models.SkillTypeOffered})
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.UserProfileKey(u.ID)), "skill changes drop the cached profile")

	second, err := svc.GetUserWithSkills(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, second.Skills, 1)
	assert.Equal(t, "Guitar", second.Skills[0].Name)
}

func TestUserService_SkillsAreOwnerOnly(t *testing.T) {
	t.Parallel()
	svc, db := newUserService(t, "")
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	other := testutil.CreateUser(t, db, "other")

	skill, err := svc.CreateSkill(ctx, owner.ID, SkillInput{Name: " Chess ", Level: models.SkillLevelBeginner, Type: models.SkillTypeWanted})
	require.NoError(t, err)
	assert.Equal(t, "Chess", skill.Name)

	_, err = svc.UpdateSkill(ctx, other.ID, skill.ID, SkillInput{Name: "Go", Level: models.SkillLevelExpert, Type: models.SkillTypeOffered})
	assertCode(t, err, models.CodeNotFound)
	assertCode(t, svc.DeleteSkill(ctx, other.ID, skill.ID), models.CodeNotFound)

	_, err = svc.CreateSkill(ctx, owner.ID, SkillInput{Name: "Chess", Level: "guru", Type: models.SkillTypeWanted})
	assertCode(t, err, models.CodeValidation)
	_, err = svc.CreateSkill(ctx, owner.ID, SkillInput{Name: strings.Repeat("x", 81), Level: models.SkillLevelBeginner, Type: models.SkillTypeWanted})
	assertCode(t, err, models.CodeValidation)

	updated, err := svc.UpdateSkill(ctx, owner.ID, skill.ID, SkillInput{Name: "Chess", Level: models.SkillLevelIntermediate, Type: models.SkillTypeWanted})
	require.NoError(t, err)
	assert.Equal(t, models.SkillLevelIntermediate, updated.Level)

	require.NoError(t, svc.DeleteSkill(ctx, owner.ID, skill.ID))
	skills, err := svc.ListSkills(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, skills)
}

func TestUserService_SetAvailability(t *testing.T) {
	t.Parallel()
	svc, db := newUserService(t, "")
	ctx := context.Background()
	u := testutil.CreateUser(t, db, "ana")

	slots := []SlotInput{
		{DayOfWeek: 2, StartTime: "18:00", EndTime: "19:30"},
		{DayOfWeek: 2, StartTime: "08:00", EndTime: "09:00"},
	}
	first, err := svc.SetAvailability(ctx, u.ID, slots)
	require.NoError(t, err)
	second, err := svc.SetAvailability(ctx, u.ID, slots)
	require.NoError(t, err)

	require.Len(t, second, 2)
	assert.Len(t, first, 2)
	assert.Equal(t, "08:00", second[0].StartTime)

	for _, bad := range [][]SlotInput{
		{{DayOfWeek: 7, StartTime: "08:00", EndTime: "09:00"}},
		{{DayOfWeek: 1, StartTime: "10:00", EndTime: "09:00"}},
		{{DayOfWeek: 1, StartTime: "9:00", EndTime: "10:00"}},
	} {
		_, err := svc.SetAvailability(ctx, u.ID, bad)
		assertCode(t, err, models.CodeValidation)
	}

	stored, err := svc.GetAvailability(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 2, "a rejected replacement leaves the old slots")
}

func TestUserService_GetPublicProfile(t *testing.T) {
	t.Parallel()
	svc, db := newUserService(t, "")
	ctx := context.Background()
	private := testutil.CreateUser(t, db, "hidden", testutil.Private)
	viewer := testutil.CreateUser(t, db, "viewer")

	_, err := svc.GetPublicProfile(ctx, private.ID, viewer.ID, false)
	assertCode(t, err, models.CodeNotFound)

	_, err = svc.GetPublicProfile(ctx, private.ID, private.ID, false)
	require.NoError(t, err)
	_, err = svc.GetPublicProfile(ctx, private.ID, viewer.ID, true)
	require.NoError(t, err)
}

func TestUserService_SearchUsers(t *testing.T) {
	t.Parallel()

	t.Run("rejects unknown filters", func(t *testing.T) {
		svc := NewUserService(&userRepoStub{}, nil, nil, nil)
		_, err := svc.SearchUsers(context.Background(), SearchInput{SkillType: "sold"})
		assertCode(t, err, models.CodeValidation)
		_, err = svc.SearchUsers(context.Background(), SearchInput{Level: "guru"})
		assertCode(t, err, models.CodeValidation)
	})

	t.Run("passes normalized params and the moderation flag", func(t *testing.T) {
		var got repository.SearchParams
		repo := &userRepoStub{searchFn: func(_ context.Context, p repository.SearchParams) ([]models.User, error) {
			got = p
			return nil, nil
		}}
		svc := NewUserService(repo, nil, nil, featureflags.NewManager(""))
		users, err := svc.SearchUsers(context.Background(), SearchInput{Query: "  guitar ", SkillType: "ALL", Level: "Expert", Limit: 5})
		require.NoError(t, err)
		assert.NotNil(t, users, "no matches is an empty list")
		assert.Equal(t, "guitar", got.Query)
		assert.Equal(t, "all", got.SkillType)
		assert.Equal(t, "expert", got.Level)
		assert.Equal(t, 5, got.Limit)
		assert.True(t, got.HideRejectedSkills)
		assert.False(t, got.Now.IsZero())
	})

	t.Run("flag off disables skill moderation filtering", func(t *testing.T) {
		var got repository.SearchParams
		repo := &userRepoStub{searchFn: func(_ context.Context, p repository.SearchParams) ([]models.User, error) {
			got = p
			return nil, nil
		}}
		svc := NewUserService(repo, nil, nil, featureflags.NewManager("skill_moderation_search=off"))
		_, err := svc.SearchUsers(context.Background(), SearchInput{})
		require.NoError(t, err)
		assert.False(t, got.HideRejectedSkills)
	})
}

func TestUserService_SearchScenario(t *testing.T) {
	t.Parallel()
	svc, db := newUserService(t, "")
	ctx := context.Background()

	a := testutil.CreateUser(t, db, "ana")
	testutil.CreateSkill(t, db, a.ID, "Guitar", models.SkillTypeOffered, models.SkillLevelExpert)
	b := testutil.CreateUser(t, db, "ben")
	testutil.CreateSkill(t, db, b.ID, "Python", models.SkillTypeWanted, models.SkillLevelBeginner)

	byQuery, err := svc.SearchUsers(ctx, SearchInput{Query: "guitar"})
	require.NoError(t, err)
	require.Len(t, byQuery, 1)
	assert.Equal(t, a.ID, byQuery[0].ID)

	byType, err := svc.SearchUsers(ctx, SearchInput{SkillType: "wanted"})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, b.ID, byType[0].ID)
}
