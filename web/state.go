package web

import (
	"fmt"
	"strings"

	"signup-backend/catalog"
	"signup-backend/subscribeclient"
)

// Phase is where the plans screen's submit control is.
//
//	Idle -> Submitting -> Succeeded (terminal)
//	                   -> Failed -> (resubmit) Submitting
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseSubmitting:
		return "submitting"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

const (
	guestEmail          = "Guest"
	defaultStatus       = "Active"
	msgSelectPlan       = "Please select a plan first."
	msgSubscribeFailed  = "Subscription failed."
	msgUnreachableFmt   = "Could not reach backend. Make sure backend is running on %s"
	msgPlanMismatchFmt  = "Plan name mismatch. Backend expects: %s. Your selected plan is: %s"
	subscriptionMonths  = 1
	labelSubscribe      = "Subscribe Now"
	labelSubscribing    = "Subscribing..."
	labelMembershipLive = "Membership Active"
)

// PlanScreen is the whole state of the plan selection screen. Transitions are
// methods returning a new value; nothing here does I/O.
type PlanScreen struct {
	Email          string
	SelectedPlanID string
	Phase          Phase
	Error          string
	Status         string
}

// NewPlanScreen starts a screen for email (default "Guest") with planID
// preselected (default: the catalog's default plan).
func NewPlanScreen(email, planID string) PlanScreen {
	if email == "" {
		email = guestEmail
	}
	if planID == "" {
		planID = catalog.Default().ID
	}
	return PlanScreen{Email: email, SelectedPlanID: planID, Phase: PhaseIdle}
}

// SelectedPlan resolves the selected id against the catalog.
func (s PlanScreen) SelectedPlan() (catalog.Plan, bool) {
	return catalog.Find(s.SelectedPlanID)
}

// CanSelect reports whether the user may still change plan.
func (s PlanScreen) CanSelect() bool { return s.Phase != PhaseSucceeded }

// Select changes the selected plan unless the subscription already went through.
func (s PlanScreen) Select(planID string) PlanScreen {
	if !s.CanSelect() {
		return s
	}
	s.SelectedPlanID = planID
	return s
}

// Submit runs the local checks and, when they pass, moves to Submitting and
// returns the request to send. A nil request means nothing should be sent:
// either a check failed (Error is set) or the control is disabled.
func (s PlanScreen) Submit() (PlanScreen, *subscribeclient.Request) {
	if s.ButtonDisabled() {
		return s, nil
	}
	s.Error = ""

	plan, ok := s.SelectedPlan()
	if !ok {
		return s.Fail(msgSelectPlan), nil
	}
	name := catalog.BackendName(plan)
	if !catalog.IsAcceptedName(name) {
		return s.Fail(fmt.Sprintf(msgPlanMismatchFmt, strings.Join(catalog.AcceptedNames(), ", "), plan.Name)), nil
	}

	s.Phase = PhaseSubmitting
	return s, &subscribeclient.Request{
		UserName:       s.Email,
		PlanName:       name,
		DurationMonths: subscriptionMonths,
	}
}

// Fail records msg and re-enables the submit control.
func (s PlanScreen) Fail(msg string) PlanScreen {
	s.Phase = PhaseFailed
	s.Error = msg
	return s
}

// Succeed marks the subscription as done with the reported status.
func (s PlanScreen) Succeed(status string) PlanScreen {
	if status == "" {
		status = defaultStatus
	}
	s.Phase = PhaseSucceeded
	s.Status = status
	s.Error = ""
	return s
}

// Resolve applies the outcome of the request returned by Submit. It is a
// no-op unless the screen is Submitting.
func (s PlanScreen) Resolve(resp *subscribeclient.Response, err error, apiBase string) PlanScreen {
	if s.Phase != PhaseSubmitting {
		return s
	}
	switch {
	case err != nil || resp == nil:
		return s.Fail(fmt.Sprintf(msgUnreachableFmt, apiBase))
	case !resp.OK():
		msg := resp.Error
		if msg == "" {
			msg = resp.Message
		}
		if msg == "" {
			msg = msgSubscribeFailed
		}
		return s.Fail(msg)
	default:
		return s.Succeed(resp.Status())
	}
}

// ButtonLabel is the submit control's text.
func (s PlanScreen) ButtonLabel() string {
	switch s.Phase {
	case PhaseSucceeded:
		return labelMembershipLive
	case PhaseSubmitting:
		return labelSubscribing
	default:
		return labelSubscribe
	}
}

// ButtonDisabled is true while a request is in flight or after success.
func (s PlanScreen) ButtonDisabled() bool {
	return s.Phase == PhaseSubmitting || s.Phase == PhaseSucceeded
}
