package subscriptions

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"
)

// NotifyTimeout caps how long a successful create waits on the notifier.
const NotifyTimeout = 5 * time.Second

// Store is the persistence the service needs.
type Store interface {
	Create(ctx context.Context, in NewSubscription) (*Subscription, error)
}

// Notifier is told about every subscription that was persisted.
type Notifier interface {
	SubscriptionCreated(ctx context.Context, s *Subscription) error
}

// CreateRequest is the decoded POST /subscribe body. Values keep their JSON
// types (string, float64, bool, nil, ...) so the service can apply its own
// presence and coercion rules. Email is optional and forwarded as-is.
type CreateRequest struct {
	Email          any `json:"email"`
	UserName       any `json:"userName"`
	PlanName       any `json:"planName"`
	DurationMonths any `json:"durationMonths"`
}

// Service turns validated requests into stored subscriptions.
type Service struct {
	store         Store
	notifier      Notifier
	notifyTimeout time.Duration
	log           *slog.Logger
}

// NewService builds a Service. notifier may be nil.
func NewService(store Store, notifier Notifier, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, notifier: notifier, notifyTimeout: NotifyTimeout, log: log}
}

// Create validates req and inserts one Active subscription. Client input
// problems come back as *ValidationError and never reach the store; anything
// else is a store or unexpected failure.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Subscription, error) {
	if !truthy(req.UserName) || !truthy(req.PlanName) || req.DurationMonths == nil {
		return nil, &ValidationError{Message: MsgMissingFields}
	}
	months, ok := toNumber(req.DurationMonths)
	if !ok || math.IsNaN(months) || math.IsInf(months, 0) || months <= 0 {
		return nil, &ValidationError{Message: MsgInvalidDuration}
	}

	in := NewSubscription{
		UserName:       strings.TrimSpace(stringify(req.UserName)),
		PlanName:       stringify(req.PlanName),
		DurationMonths: months,
		Status:         StatusActive,
	}
	if req.Email != nil {
		in.Email = stringify(req.Email)
	}

	sub, err := s.store.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, sub)
	return sub, nil
}

// notify runs the notifier under its own deadline. The record is already
// stored, so a caller hanging up does not cancel the notification.
func (s *Service) notify(ctx context.Context, sub *Subscription) {
	if s.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()
	if err := s.notifier.SubscriptionCreated(ctx, sub); err != nil {
		s.log.Warn("subscription notification failed", "id", sub.ID, "error", err)
	}
}

// truthy follows the loose presence rule clients of this endpoint rely on:
// null, "", false and 0 all count as missing.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	default:
		return true
	}
}

// toNumber coerces a JSON value to a number the way a numeric form field is
// usually read: numbers pass through, booleans are 0/1, strings are trimmed
// and parsed as decimals (empty is 0). Unsigned 0x/0o/0b integers are
// accepted; digit separators and hex floats are not. Anything else is not a
// number.
func toNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		return parseNumber(strings.TrimSpace(t))
	default:
		return 0, false
	}
}

func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, true
	}
	if strings.ContainsRune(s, '_') {
		return 0, false
	}
	unsigned := strings.TrimLeft(s, "+-")
	if len(unsigned) > 2 && unsigned[0] == '0' && strings.ContainsRune("xXoObB", rune(unsigned[1])) {
		if unsigned != s {
			return 0, false
		}
		n, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return 0, false
		}
		return float64(n), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
