package subscriptions

import "time"

// PlanName is the tier a subscription was taken out on.
type PlanName string

const (
	PlanBasic    PlanName = "Basic"
	PlanStandard PlanName = "Standard"
	PlanPremium  PlanName = "Premium"
)

// PlanNames lists the accepted plan names in catalog order.
var PlanNames = []PlanName{PlanBasic, PlanStandard, PlanPremium}

// Valid reports whether p is one of the accepted plan names. Matching is exact.
func (p PlanName) Valid() bool {
	for _, n := range PlanNames {
		if p == n {
			return true
		}
	}
	return false
}

// Status is the lifecycle state of a subscription.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Subscription is one persisted subscription record, unique by Email.
type Subscription struct {
	ID             string    `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`
	UserName       string    `json:"userName" db:"user_name"`
	PlanName       PlanName  `json:"planName" db:"plan_name"`
	DurationMonths int       `json:"durationMonths" db:"duration_months"`
	Status         Status    `json:"subscriptionStatus" db:"subscription_status"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}
