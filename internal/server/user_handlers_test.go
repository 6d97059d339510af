package server

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"skillswap/internal/models"
	"skillswap/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchUsersEndpoint(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateUser(t, env.db, "Alice", testutil.WithLocation("Lisbon"))
	bob := testutil.CreateUser(t, env.db, "Bob", testutil.WithLocation("Porto"))
	hidden := testutil.CreateUser(t, env.db, "Hidden", testutil.Private, testutil.WithLocation("Lisbon"))
	testutil.CreateSkill(t, env.db, alice.ID, "Guitar", models.SkillTypeOffered, models.SkillLevelExpert)
	testutil.CreateSkill(t, env.db, bob.ID, "Guitar", models.SkillTypeWanted, models.SkillLevelBeginner)
	testutil.CreateSkill(t, env.db, hidden.ID, "Guitar", models.SkillTypeOffered, models.SkillLevelExpert)

	t.Run("filters combine", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/api/users/search?q=guit&skillType=offered&level=all", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		users := decode[[]models.User](t, resp)
		require.Len(t, users, 1)
		assert.Equal(t, alice.ID, users[0].ID)
		require.Len(t, users[0].Skills, 1)
	})

	t.Run("location", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/api/users/search?location=porto", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		users := decode[[]models.User](t, resp)
		require.Len(t, users, 1)
		assert.Equal(t, bob.ID, users[0].ID)
	})

	t.Run("no match is an empty array", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/api/users/search?q=underwater+basket", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode[[]models.User](t, resp)
		assert.NotNil(t, body)
		assert.Empty(t, body)
	})

	t.Run("invalid filters", func(t *testing.T) {
		for _, query := range []string{"skillType=teaching", "level=advanced"} {
			resp := env.do(t, http.MethodGet, "/api/users/search?"+query, "", nil)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, query)
		}
	})
}

func TestPublicProfileVisibility(t *testing.T) {
	env := newTestEnv(t)
	owner := testutil.CreateUser(t, env.db, "Owner", testutil.Private, testutil.WithBio("quiet"))
	other := testutil.CreateUser(t, env.db, "Other")
	admin := testutil.CreateUser(t, env.db, "Admin", testutil.Admin)
	testutil.CreateSkill(t, env.db, owner.ID, "Pottery", models.SkillTypeOffered, models.SkillLevelIntermediate)

	path := fmt.Sprintf("/api/users/%d", owner.ID)
	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"anonymous", "", http.StatusNotFound},
		{"another user", env.tokenFor(t, other), http.StatusNotFound},
		{"garbage token is anonymous", "not-a-jwt", http.StatusNotFound},
		{"owner", env.tokenFor(t, owner), http.StatusOK},
		{"admin", env.tokenFor(t, admin), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, http.MethodGet, path, tt.token, nil)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}

	resp := env.do(t, http.MethodGet, fmt.Sprintf("/api/users/%d", other.ID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	profile := decode[models.User](t, resp)
	assert.Equal(t, "Other", profile.FirstName)
	assert.Empty(t, profile.Password)

	resp = env.do(t, http.MethodGet, "/api/users/777777", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPublicEndpointsHideEmails(t *testing.T) {
	env := newTestEnv(t)
	ana := testutil.CreateUser(t, env.db, "Ana")
	ben := testutil.CreateUser(t, env.db, "Ben")
	testutil.CreateSkill(t, env.db, ana.ID, "Guitar", models.SkillTypeOffered, models.SkillLevelExpert)
	swap := testutil.CreateSwap(t, env.db, ana.ID, ben.ID, models.SwapStatusCompleted)
	require.NoError(t, env.db.Create(&models.Review{SwapRequestID: swap.ID, ReviewerID: ben.ID, RevieweeID: ana.ID, Rating: 5}).Error)

	for _, path := range []string{
		"/api/users/search?q=guitar",
		fmt.Sprintf("/api/users/%d", ana.ID),
		fmt.Sprintf("/api/reviews/%d", ana.ID),
	} {
		resp := env.do(t, http.MethodGet, path, env.tokenFor(t, ben), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.NotContains(t, string(body), "@example.com", path)
		assert.NotContains(t, string(body), `"email"`, path)
	}

	resp := env.do(t, http.MethodGet, fmt.Sprintf("/api/users/%d", ana.ID), env.tokenFor(t, ana), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, ana.Email, decode[models.User](t, resp).Email, "owners see their own address")

	resp = env.do(t, http.MethodGet, "/api/auth/user", env.tokenFor(t, ana), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, ana.Email, decode[models.User](t, resp).Email)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateUser(t, env.db, "Ana")
	token := env.tokenFor(t, user)

	resp := env.do(t, http.MethodPut, "/api/users/profile", token, map[string]any{
		"bio":       "I teach guitar",
		"location":  "  Braga ",
		"is_public": false,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[models.User](t, resp)
	assert.Equal(t, "I teach guitar", updated.Bio)
	assert.Equal(t, "Braga", updated.Location)
	assert.False(t, updated.IsPublic)
	assert.Equal(t, "Ana", updated.FirstName)

	resp = env.do(t, http.MethodPut, "/api/users/profile", token, map[string]any{
		"bio": strings.Repeat("x", 5000),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPut, "/api/users/profile", token, map[string]any{"first_name": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSkillsAndAvailabilityEndpoints(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateUser(t, env.db, "Ines")
	intruder := testutil.CreateUser(t, env.db, "Ivo")
	token := env.tokenFor(t, user)

	resp := env.do(t, http.MethodPost, "/api/skills", token, map[string]string{
		"name": "  Sourdough ", "level": "expert", "type": "offered",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	skill := decode[models.Skill](t, resp)
	assert.Equal(t, "Sourdough", skill.Name)
	assert.Equal(t, user.ID, skill.UserID)

	resp = env.do(t, http.MethodPost, "/api/skills", token, map[string]string{
		"name": "Baking", "level": "advanced", "type": "offered",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	skillPath := fmt.Sprintf("/api/skills/%d", skill.ID)
	resp = env.do(t, http.MethodPut, skillPath, env.tokenFor(t, intruder), map[string]string{
		"name": "Stolen", "level": "beginner", "type": "wanted",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, http.MethodPut, skillPath, token, map[string]string{
		"name": "Sourdough bread", "level": "intermediate", "type": "offered",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.SkillLevelIntermediate, decode[models.Skill](t, resp).Level)

	resp = env.do(t, http.MethodGet, "/api/skills", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]models.Skill](t, resp), 1)

	resp = env.do(t, http.MethodDelete, skillPath, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = env.do(t, http.MethodDelete, skillPath, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	slots := []map[string]any{
		{"day_of_week": 3, "start_time": "18:00", "end_time": "20:00"},
		{"day_of_week": 1, "start_time": "09:00", "end_time": "10:30"},
	}
	resp = env.do(t, http.MethodPut, "/api/availability", token, slots)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stored := decode[[]models.Availability](t, resp)
	require.Len(t, stored, 2)
	assert.Equal(t, 1, stored[0].DayOfWeek)

	resp = env.do(t, http.MethodPut, "/api/availability", token, []map[string]any{
		{"day_of_week": 2, "start_time": "11:00", "end_time": "10:00"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/availability", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]models.Availability](t, resp), 2, "a rejected replacement keeps the old slots")

	resp = env.do(t, http.MethodPut, "/api/availability", token, []map[string]any{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]models.Availability](t, resp))
}

func TestUploadAvatarEndpoint(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateUser(t, env.db, "Pia")
	token := env.tokenFor(t, user)

	upload := func(t *testing.T, field string, content []byte) *http.Response {
		t.Helper()
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		part, err := w.CreateFormFile(field, "me.png")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/users/profile/avatar", &buf)
		req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		resp, err := env.app.Test(req, -1)
		require.NoError(t, err)
		t.Cleanup(func() { _ = resp.Body.Close() })
		return resp
	}

	resp := upload(t, "avatar", testutil.TinyPNG(t, 40, 30))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[models.User](t, resp)
	assert.True(t, strings.HasPrefix(updated.ProfileImageURL, "/media/avatars/"))
	assert.True(t, strings.HasSuffix(updated.ProfileImageURL, "/avatar.webp"))

	resp = env.do(t, http.MethodGet, updated.ProfileImageURL, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = upload(t, "avatar", []byte("definitely not an image"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = upload(t, "picture", testutil.TinyPNG(t, 8, 8))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
