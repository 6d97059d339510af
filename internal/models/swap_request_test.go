package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name          string
		from, to      SwapStatus
		role          SwapRole
		wantAllowed   bool
		wantPermitted bool
	}{
		{"receiver accepts", SwapStatusPending, SwapStatusAccepted, SwapRoleReceiver, true, true},
		{"requester cannot accept", SwapStatusPending, SwapStatusAccepted, SwapRoleRequester, true, false},
		{"receiver rejects", SwapStatusPending, SwapStatusRejected, SwapRoleReceiver, true, true},
		{"requester cancels pending", SwapStatusPending, SwapStatusCancelled, SwapRoleRequester, true, true},
		{"either completes accepted", SwapStatusAccepted, SwapStatusCompleted, SwapRoleRequester, true, true},
		{"receiver cancels accepted", SwapStatusAccepted, SwapStatusCancelled, SwapRoleReceiver, true, true},
		{"pending cannot complete", SwapStatusPending, SwapStatusCompleted, SwapRoleReceiver, false, false},
		{"completed is terminal", SwapStatusCompleted, SwapStatusCancelled, SwapRoleRequester, false, false},
		{"rejected is terminal", SwapStatusRejected, SwapStatusAccepted, SwapRoleReceiver, false, false},
		{"non participant", SwapStatusPending, SwapStatusCancelled, SwapRoleNone, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, permitted := CanTransition(tt.from, tt.to, tt.role)
			assert.Equal(t, tt.wantAllowed, allowed)
			assert.Equal(t, tt.wantPermitted, permitted)
		})
	}
}

func TestSwapStatusTerminal(t *testing.T) {
	assert.False(t, SwapStatusPending.Terminal())
	assert.False(t, SwapStatusAccepted.Terminal())
	assert.True(t, SwapStatusRejected.Terminal())
	assert.True(t, SwapStatusCompleted.Terminal())
	assert.True(t, SwapStatusCancelled.Terminal())
	assert.False(t, SwapStatus("archived").Valid())
}

func TestSwapRequestRoles(t *testing.T) {
	r := &SwapRequest{RequesterID: 1, ReceiverID: 2}
	assert.Equal(t, SwapRoleRequester, r.RoleOf(1))
	assert.Equal(t, SwapRoleReceiver, r.RoleOf(2))
	assert.Equal(t, SwapRoleNone, r.RoleOf(3))
	assert.Equal(t, uint(2), r.Counterpart(1))
	assert.Equal(t, uint(1), r.Counterpart(2))
	assert.Zero(t, r.Counterpart(3))
}

func TestUserModerationInForceAt(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, UserModeration{IsActive: true}.InForceAt(now))
	assert.True(t, UserModeration{IsActive: true, ExpiresAt: &future}.InForceAt(now))
	assert.False(t, UserModeration{IsActive: true, ExpiresAt: &past}.InForceAt(now))
	assert.False(t, UserModeration{IsActive: false}.InForceAt(now))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, 404, StatusFor(NewNotFoundError("User", 1)))
	assert.Equal(t, 400, StatusFor(NewValidationError("bad")))
	assert.Equal(t, 401, StatusFor(NewUnauthorizedError("no")))
	assert.Equal(t, 403, StatusFor(NewForbiddenError("no")))
	assert.Equal(t, 409, StatusFor(NewConflictError("dup")))
	assert.Equal(t, 500, StatusFor(NewInternalError(assert.AnError)))
	assert.Equal(t, 500, StatusFor(assert.AnError))
	assert.True(t, IsCode(NewConflictError("dup"), CodeConflict))
}
