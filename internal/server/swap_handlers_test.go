package server

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"skillswap/internal/models"
	"skillswap/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwapLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateUser(t, env.db, "Alice")
	bob := testutil.CreateUser(t, env.db, "Bob")
	carol := testutil.CreateUser(t, env.db, "Carol")
	guitar := testutil.CreateSkill(t, env.db, alice.ID, "Guitar", models.SkillTypeOffered, models.SkillLevelExpert)
	spanish := testutil.CreateSkill(t, env.db, bob.ID, "Spanish", models.SkillTypeOffered, models.SkillLevelIntermediate)

	aliceToken := env.tokenFor(t, alice)
	bobToken := env.tokenFor(t, bob)
	carolToken := env.tokenFor(t, carol)

	proposed := time.Date(2026, 11, 3, 18, 30, 0, 0, time.FixedZone("CET", 3600))
	resp := env.do(t, http.MethodPost, "/api/swap-requests", aliceToken, map[string]any{
		"receiver_id":        bob.ID,
		"offered_skill_id":   guitar.ID,
		"requested_skill_id": spanish.ID,
		"message":            "  Guitar for Spanish?  ",
		"proposed_time":      proposed,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	swap := decode[models.SwapRequest](t, resp)
	assert.Equal(t, models.SwapStatusPending, swap.Status)
	assert.Equal(t, "Guitar for Spanish?", swap.Message)
	require.NotNil(t, swap.ProposedTime)
	assert.True(t, proposed.Equal(*swap.ProposedTime))

	statusPath := fmt.Sprintf("/api/swap-requests/%d/status", swap.ID)
	detailPath := fmt.Sprintf("/api/swap-requests/%d", swap.ID)

	steps := []struct {
		name   string
		token  string
		status string
		want   int
	}{
		{"requester cannot accept", aliceToken, "accepted", http.StatusForbidden},
		{"stranger cannot see it", carolToken, "accepted", http.StatusNotFound},
		{"unknown status", bobToken, "paused", http.StatusBadRequest},
		{"pending cannot complete", bobToken, "completed", http.StatusBadRequest},
		{"receiver accepts", bobToken, "accepted", http.StatusOK},
		{"cannot accept twice", bobToken, "accepted", http.StatusBadRequest},
		{"requester completes", aliceToken, "completed", http.StatusOK},
		{"completed is terminal", bobToken, "cancelled", http.StatusBadRequest},
	}
	for _, step := range steps {
		resp := env.do(t, http.MethodPut, statusPath, step.token, map[string]string{"status": step.status})
		assert.Equal(t, step.want, resp.StatusCode, step.name)
	}

	resp = env.do(t, http.MethodGet, detailPath, bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	final := decode[models.SwapRequest](t, resp)
	assert.Equal(t, models.SwapStatusCompleted, final.Status)

	resp = env.do(t, http.MethodGet, detailPath, carolToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, http.MethodPut, statusPath, bobToken, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateSwapRequestValidation(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateUser(t, env.db, "Alice")
	bob := testutil.CreateUser(t, env.db, "Bob")
	bobsSkill := testutil.CreateSkill(t, env.db, bob.ID, "Chess", models.SkillTypeOffered, models.SkillLevelBeginner)
	token := env.tokenFor(t, alice)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing receiver", map[string]any{"message": "hi"}},
		{"self request", map[string]any{"receiver_id": alice.ID}},
		{"unknown receiver", map[string]any{"receiver_id": 4242}},
		{"offered skill not mine", map[string]any{"receiver_id": bob.ID, "offered_skill_id": bobsSkill.ID}},
		{"unknown requested skill", map[string]any{"receiver_id": bob.ID, "requested_skill_id": 4242}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, http.MethodPost, "/api/swap-requests", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}

	resp := env.do(t, http.MethodPost, "/api/swap-requests", "", map[string]any{"receiver_id": bob.ID})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGetMySwapRequests(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateUser(t, env.db, "Alice")
	bob := testutil.CreateUser(t, env.db, "Bob")
	carol := testutil.CreateUser(t, env.db, "Carol")

	testutil.CreateSwap(t, env.db, alice.ID, bob.ID, models.SwapStatusPending)
	testutil.CreateSwap(t, env.db, carol.ID, alice.ID, models.SwapStatusAccepted)
	testutil.CreateSwap(t, env.db, bob.ID, carol.ID, models.SwapStatusPending)

	resp := env.do(t, http.MethodGet, "/api/swap-requests", env.tokenFor(t, alice), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	mine := decode[[]models.SwapRequest](t, resp)
	assert.Len(t, mine, 2)

	loner := testutil.CreateUser(t, env.db, "Dana")
	resp = env.do(t, http.MethodGet, "/api/swap-requests", env.tokenFor(t, loner), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]models.SwapRequest](t, resp))
}

func TestReviewsOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateUser(t, env.db, "Alice")
	bob := testutil.CreateUser(t, env.db, "Bob")
	carol := testutil.CreateUser(t, env.db, "Carol")
	done := testutil.CreateSwap(t, env.db, alice.ID, bob.ID, models.SwapStatusCompleted)
	open := testutil.CreateSwap(t, env.db, alice.ID, bob.ID, models.SwapStatusAccepted)

	aliceToken := env.tokenFor(t, alice)
	bobToken := env.tokenFor(t, bob)

	tests := []struct {
		name  string
		token string
		body  map[string]any
		want  int
	}{
		{"rating out of range", aliceToken, map[string]any{"swap_request_id": done.ID, "rating": 6}, http.StatusBadRequest},
		{"swap not completed", aliceToken, map[string]any{"swap_request_id": open.ID, "rating": 5}, http.StatusBadRequest},
		{"not a participant", env.tokenFor(t, carol), map[string]any{"swap_request_id": done.ID, "rating": 5}, http.StatusNotFound},
		{"wrong reviewee", aliceToken, map[string]any{"swap_request_id": done.ID, "reviewee_id": carol.ID, "rating": 5}, http.StatusBadRequest},
		{"requester reviews receiver", aliceToken, map[string]any{"swap_request_id": done.ID, "reviewee_id": bob.ID, "rating": 5, "comment": "Great teacher"}, http.StatusCreated},
		{"second review is a conflict", aliceToken, map[string]any{"swap_request_id": done.ID, "rating": 1}, http.StatusConflict},
		{"receiver reviews requester", bobToken, map[string]any{"swap_request_id": done.ID, "rating": 4}, http.StatusCreated},
	}
	for _, tt := range tests {
		resp := env.do(t, http.MethodPost, "/api/reviews", tt.token, tt.body)
		assert.Equal(t, tt.want, resp.StatusCode, tt.name)
	}

	resp := env.do(t, http.MethodGet, fmt.Sprintf("/api/reviews/%d", bob.ID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summary := decode[models.ReviewSummary](t, resp)
	require.Len(t, summary.Reviews, 1)
	assert.Equal(t, 1, summary.Count)
	assert.Equal(t, 5.0, summary.AverageRating)
	assert.Equal(t, "Great teacher", summary.Reviews[0].Comment)

	resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/reviews/%d", carol.ID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	empty := decode[models.ReviewSummary](t, resp)
	assert.Empty(t, empty.Reviews)
	assert.Equal(t, 0.0, empty.AverageRating)
}
