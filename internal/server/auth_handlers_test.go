package server

import (
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"skillswap/internal/cache"
	"skillswap/internal/models"
	"skillswap/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongPassword = "Sw4p-Skills!now"

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	register := map[string]string{
		"email":      "Ada@Example.com",
		"password":   strongPassword,
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"location":   "London",
	}

	resp := env.do(t, http.MethodPost, "/api/auth/register", "", register)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[authResponse](t, resp)
	assert.NotEmpty(t, created.Token)
	assert.Equal(t, "ada@example.com", created.User.Email)
	assert.True(t, created.User.IsPublic)
	assert.False(t, created.User.IsAdmin)

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/auth/register", "", register)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("registration validation", func(t *testing.T) {
		cases := []map[string]string{
			{"email": "x@example.com", "password": "short", "first_name": "X"},
			{"email": "not-an-email", "password": strongPassword, "first_name": "X"},
			{"email": "y@example.com", "password": strongPassword},
			{"password": strongPassword, "first_name": "X"},
		}
		for i, body := range cases {
			resp := env.do(t, http.MethodPost, "/api/auth/register", "", body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "case %d", i)
		}
	})

	t.Run("login", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "ada@example.com", "password": strongPassword,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		logged := decode[authResponse](t, resp)
		assert.Equal(t, created.User.ID, logged.User.ID)
		require.NotNil(t, logged.User.LastActiveAt)

		resp = env.do(t, http.MethodGet, "/api/auth/user", logged.Token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		me := decode[models.User](t, resp)
		assert.Equal(t, "Ada", me.FirstName)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		for _, body := range []map[string]string{
			{"email": "ada@example.com", "password": "Wrong-Password1!"},
			{"email": "ghost@example.com", "password": strongPassword},
		} {
			resp := env.do(t, http.MethodPost, "/api/auth/login", "", body)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			errBody := decode[models.ErrorResponse](t, resp)
			assert.Equal(t, "Invalid credentials", errBody.Error)
		}
	})
}

func TestLoginRefusesBannedUser(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "banned@example.com", "password": strongPassword, "first_name": "Bo",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[authResponse](t, resp)

	admin := testutil.CreateUser(t, env.db, "Admin", testutil.Admin)
	require.NoError(t, env.db.Create(&models.UserModeration{
		UserID: created.User.ID, ModeratorID: admin.ID,
		Action: models.UserModerationBan, Reason: "spam", IsActive: true,
	}).Error)

	resp = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "banned@example.com", "password": strongPassword,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateUser(t, env.db, "Grace")
	banned := testutil.CreateUser(t, env.db, "Mallory")
	suspendedExpired := testutil.CreateUser(t, env.db, "Sam")
	admin := testutil.CreateUser(t, env.db, "Root", testutil.Admin)

	past := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, env.db.Create(&models.UserModeration{
		UserID: banned.ID, ModeratorID: admin.ID,
		Action: models.UserModerationBan, Reason: "abuse", IsActive: true,
	}).Error)
	require.NoError(t, env.db.Create(&models.UserModeration{
		UserID: suspendedExpired.ID, ModeratorID: admin.ID,
		Action: models.UserModerationBan, Reason: "cool-off", IsActive: true, ExpiresAt: &past,
	}).Error)

	signed := func(secret string, claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}
	claimsFor := func(id uint, exp time.Duration) jwt.MapClaims {
		return jwt.MapClaims{
			"sub": strconv.FormatUint(uint64(id), 10),
			"iss": "skillswap-api",
			"aud": "skillswap-client",
			"exp": time.Now().Add(exp).Unix(),
			"jti": "test-jti",
		}
	}

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{"valid token", "Bearer " + env.tokenFor(t, user), http.StatusOK},
		{"expired ban no longer applies", "Bearer " + env.tokenFor(t, suspendedExpired), http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"malformed bearer format", "Token " + env.tokenFor(t, user), http.StatusUnauthorized},
		{"expired token", "Bearer " + signed(testSecret, claimsFor(user.ID, -time.Hour)), http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signed("another-secret-another-secret-12345", claimsFor(user.ID, time.Hour)), http.StatusUnauthorized},
		{"deleted user", "Bearer " + signed(testSecret, claimsFor(99999, time.Hour)), http.StatusUnauthorized},
		{"banned user", "Bearer " + env.tokenFor(t, banned), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.doHeader(t, http.MethodGet, "/api/auth/user", tt.authHeader)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

// TestLogoutRevokesToken mutates the package-level cache client and must not run in parallel.
func TestLogoutRevokesToken(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache.SetClient(rdb)
	t.Cleanup(func() { cache.SetClient(nil) })

	env := newTestEnv(t)
	user := testutil.CreateUser(t, env.db, "Linus")
	token := env.tokenFor(t, user)

	resp := env.do(t, http.MethodGet, "/api/auth/user", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var blacklisted []string
	for _, k := range mr.Keys() {
		if strings.HasPrefix(k, "blacklist:") {
			blacklisted = append(blacklisted, k)
		}
	}
	require.Len(t, blacklisted, 1)
	ttl := mr.TTL(blacklisted[0])
	assert.Greater(t, ttl, 50*time.Minute)
	assert.LessOrEqual(t, ttl, time.Hour)

	resp = env.do(t, http.MethodGet, "/api/auth/user", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// A fresh token for the same user still works.
	resp = env.do(t, http.MethodGet, "/api/auth/user", env.tokenFor(t, user), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
