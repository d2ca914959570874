package registrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_IsValid(t *testing.T) {
	for _, status := range []Status{StatusConfirmed, StatusWaitlisted, StatusCancelled} {
		assert.True(t, status.IsValid())
	}
	assert.False(t, Status("PENDING").IsValid(), "pending is never persisted")
	assert.False(t, Status("").IsValid())
}

func TestStatus_IsActive(t *testing.T) {
	assert.True(t, StatusConfirmed.IsActive())
	assert.True(t, StatusWaitlisted.IsActive())
	assert.False(t, StatusCancelled.IsActive())
}

func TestStatus_Transitions(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusWaitlisted, StatusConfirmed, true},
		{StatusWaitlisted, StatusCancelled, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusWaitlisted, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusWaitlisted, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestRegistration_Cancel(t *testing.T) {
	reg := Registration{Status: StatusConfirmed}

	reg.Cancel()

	assert.Equal(t, StatusCancelled, reg.Status)
	assert.NotNil(t, reg.CancelledAt)
}
