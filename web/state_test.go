package web

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signup-backend/subscribeclient"
)

func TestNewPlanScreen_Defaults(t *testing.T) {
	s := NewPlanScreen("", "")
	assert.Equal(t, "Guest", s.Email)
	assert.Equal(t, "premium", s.SelectedPlanID)
	assert.Equal(t, PhaseIdle, s.Phase)
	assert.Equal(t, "Subscribe Now", s.ButtonLabel())
	assert.False(t, s.ButtonDisabled())
}

func TestSubmit_BuildsRequest(t *testing.T) {
	s := NewPlanScreen("a@b.co", "").Select("standard")

	next, req := s.Submit()
	require.NotNil(t, req)
	assert.Equal(t, subscribeclient.Request{UserName: "a@b.co", PlanName: "Standard", DurationMonths: 1}, *req)
	assert.Equal(t, PhaseSubmitting, next.Phase)
	assert.Equal(t, "Subscribing...", next.ButtonLabel())
	assert.True(t, next.ButtonDisabled())

	// original value untouched
	assert.Equal(t, PhaseIdle, s.Phase)
}

func TestSubmit_RequiresKnownPlan(t *testing.T) {
	next, req := NewPlanScreen("a@b.co", "gold").Submit()
	assert.Nil(t, req)
	assert.Equal(t, PhaseFailed, next.Phase)
	assert.Equal(t, "Please select a plan first.", next.Error)
	assert.False(t, next.ButtonDisabled())
}

func TestSubmit_GuardedWhileBusy(t *testing.T) {
	submitting, req := NewPlanScreen("a@b.co", "").Submit()
	require.NotNil(t, req)

	again, req := submitting.Submit()
	assert.Nil(t, req)
	assert.Equal(t, submitting, again)

	done := submitting.Succeed("")
	again, req = done.Submit()
	assert.Nil(t, req)
	assert.Equal(t, done, again)
}

func TestResolve_Success(t *testing.T) {
	s, _ := NewPlanScreen("a@b.co", "basic").Submit()

	resp := &subscribeclient.Response{StatusCode: 201}
	done := s.Resolve(resp, nil, "http://api")
	assert.Equal(t, PhaseSucceeded, done.Phase)
	assert.Equal(t, "Active", done.Status, "falls back to Active")
	assert.Equal(t, "Membership Active", done.ButtonLabel())
	assert.True(t, done.ButtonDisabled())
	assert.False(t, done.CanSelect())

	// selection is frozen after success
	assert.Equal(t, "basic", done.Select("premium").SelectedPlanID)
}

func TestResolve_ReportedStatus(t *testing.T) {
	s, _ := NewPlanScreen("a@b.co", "").Submit()
	resp := &subscribeclient.Response{StatusCode: 201, SubscriptionStatus: "Inactive"}
	assert.Equal(t, "Inactive", s.Resolve(resp, nil, "").Status)
}

func TestResolve_Failures(t *testing.T) {
	tests := []struct {
		name string
		resp *subscribeclient.Response
		err  error
		want string
	}{
		{"error field wins", &subscribeclient.Response{StatusCode: 400, Error: "bad", Message: "worse"}, nil, "bad"},
		{"message", &subscribeclient.Response{StatusCode: 500, Message: "Server error"}, nil, "Server error"},
		{"fallback", &subscribeclient.Response{StatusCode: 502}, nil, "Subscription failed."},
		{"unreachable", nil, errors.New("dial tcp: refused"), "Could not reach backend. Make sure backend is running on http://localhost:5050"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := NewPlanScreen("a@b.co", "").Submit()
			failed := s.Resolve(tt.resp, tt.err, "http://localhost:5050")

			assert.Equal(t, PhaseFailed, failed.Phase)
			assert.Equal(t, tt.want, failed.Error)
			assert.Equal(t, "Subscribe Now", failed.ButtonLabel())
			assert.False(t, failed.ButtonDisabled())

			// a failed screen can submit again, which clears the error
			retry, req := failed.Submit()
			require.NotNil(t, req)
			assert.Empty(t, retry.Error)
			assert.Equal(t, PhaseSubmitting, retry.Phase)
		})
	}
}

func TestResolve_IgnoredOutsideSubmitting(t *testing.T) {
	s := NewPlanScreen("a@b.co", "")
	assert.Equal(t, s, s.Resolve(&subscribeclient.Response{StatusCode: 201}, nil, ""))
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "submitting", PhaseSubmitting.String())
	assert.Equal(t, "succeeded", PhaseSucceeded.String())
	assert.Equal(t, "failed", PhaseFailed.String())
}
