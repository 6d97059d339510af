package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func withMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAsideCachesFetchResult(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *profile) func() error {
		return func() error {
			calls++
			*dest = profile{ID: 1, Name: "Ana"}
			return nil
		}
	}

	var first profile
	require.NoError(t, Aside(ctx, "profile", UserProfileKey(1), &first, UserProfileTTL, fetch(&first)))
	var second profile
	require.NoError(t, Aside(ctx, "profile", UserProfileKey(1), &second, UserProfileTTL, fetch(&second)))

	assert.Equal(t, 1, calls)
	assert.Equal(t, "Ana", second.Name)
	assert.True(t, mr.Exists("user:1:profile"))
	assert.Equal(t, UserProfileTTL, mr.TTL("user:1:profile"))

	InvalidateUser(ctx, 1)
	assert.False(t, mr.Exists("user:1:profile"))
}

func TestAsideWithoutClientFetchesEveryTime(t *testing.T) {
	SetClient(nil)
	calls := 0
	var p profile
	for i := 0; i < 2; i++ {
		require.NoError(t, Aside(context.Background(), "profile", UserProfileKey(2), &p, time.Minute, func() error {
			calls++
			return nil
		}))
	}
	assert.Equal(t, 2, calls)
}

func TestAsidePropagatesFetchError(t *testing.T) {
	mr := withMiniredis(t)
	boom := errors.New("boom")
	var p profile
	err := Aside(context.Background(), "profile", UserProfileKey(3), &p, time.Minute, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("user:3:profile"))
}

func TestAsideFallsBackWhenRedisDown(t *testing.T) {
	mr := withMiniredis(t)
	mr.Close()

	var p profile
	err := Aside(context.Background(), "profile", UserProfileKey(4), &p, time.Minute, func() error {
		p = profile{ID: 4}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, uint(4), p.ID)
}

func TestRevokeToken(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()

	revoked, err := IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, RevokeToken(ctx, "abc", time.Hour))
	revoked, err = IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.True(t, mr.Exists("blacklist:abc"))

	require.NoError(t, RevokeToken(ctx, "expired", 0))
	assert.False(t, mr.Exists("blacklist:expired"))
}
