package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	userProfileKeyFormat = "user:%d:profile"
	announcementsKey     = "announcements:active"
	blacklistKeyFormat   = "blacklist:%s"
)

const (
	UserProfileTTL   = 5 * time.Minute
	AnnouncementsTTL = time.Minute
)

// UserProfileKey is the key of a user's cached public profile.
func UserProfileKey(userID uint) string {
	return fmt.Sprintf(userProfileKeyFormat, userID)
}

// AnnouncementsKey is the key of the cached list of active announcements.
func AnnouncementsKey() string {
	return announcementsKey
}

// BlacklistKey is the revocation marker for a token ID.
func BlacklistKey(jti string) string {
	return fmt.Sprintf(blacklistKeyFormat, jti)
}

// Invalidate deletes key, ignoring errors and a disabled cache.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserProfileKey(userID))
}

func InvalidateAnnouncements(ctx context.Context) {
	Invalidate(ctx, AnnouncementsKey())
}

// RevokeToken marks jti as revoked until the token would have expired anyway.
func RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if client == nil || jti == "" {
		return nil
	}
	if ttl <= 0 {
		return nil
	}
	return client.Set(ctx, BlacklistKey(jti), "1", ttl).Err()
}

// IsRevoked reports whether jti was revoked. A disabled cache never reports revocation.
func IsRevoked(ctx context.Context, jti string) (bool, error) {
	if client == nil || jti == "" {
		return false, nil
	}
	n, err := client.Exists(ctx, BlacklistKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
