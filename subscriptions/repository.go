package subscriptions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

// NewSubscription is the unvalidated input to Repository.Create. Fields keep
// the shape they arrived in; the store normalizes and checks them.
type NewSubscription struct {
	Email          string
	UserName       string
	PlanName       string
	DurationMonths float64
	Status         Status
}

// Repository persists subscription records.
type Repository struct {
	db    *sqlx.DB
	now   func() time.Time
	newID func() string
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		db:    db,
		now:   func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		newID: uuid.NewString,
	}
}

const selectColumns = `id, email, user_name, plan_name, duration_months, subscription_status, created_at, updated_at`

// Create normalizes and validates in, then inserts exactly one record.
func (r *Repository) Create(ctx context.Context, in NewSubscription) (*Subscription, error) {
	s, err := r.build(in)
	if err != nil {
		return nil, err
	}
	_, err = r.db.NamedExecContext(ctx, `INSERT INTO subscriptions (`+selectColumns+`)
		VALUES (:id, :email, :user_name, :plan_name, :duration_months, :subscription_status, :created_at, :updated_at)`, s)
	if err != nil {
		return nil, translateError(err)
	}
	return s, nil
}

// build applies the record schema: trimming and lowercasing, defaults,
// required fields, enums and the duration bound.
func (r *Repository) build(in NewSubscription) (*Subscription, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, &SchemaError{Field: "email", Message: "is required"}
	}
	userName := strings.TrimSpace(in.UserName)
	if userName == "" {
		return nil, &SchemaError{Field: "userName", Message: "is required"}
	}
	if in.PlanName == "" {
		return nil, &SchemaError{Field: "planName", Message: "is required"}
	}
	plan := PlanName(in.PlanName)
	if !plan.Valid() {
		return nil, &SchemaError{Field: "planName", Message: fmt.Sprintf("%q is not a valid enum value", in.PlanName)}
	}
	months := in.DurationMonths
	if math.IsNaN(months) || math.IsInf(months, 0) || months != math.Trunc(months) {
		return nil, &SchemaError{Field: "durationMonths", Message: "must be a whole number"}
	}
	if months < 1 {
		return nil, &SchemaError{Field: "durationMonths", Message: "must be at least 1"}
	}
	if months > math.MaxInt32 {
		return nil, &SchemaError{Field: "durationMonths", Message: "is out of range"}
	}
	status := in.Status
	if status == "" {
		status = StatusActive
	}
	if !status.Valid() {
		return nil, &SchemaError{Field: "subscriptionStatus", Message: fmt.Sprintf("%q is not a valid enum value", status)}
	}

	now := r.now()
	return &Subscription{
		ID:             r.newID(),
		Email:          email,
		UserName:       userName,
		PlanName:       plan,
		DurationMonths: int(months),
		Status:         status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// GetByEmail returns the record for email after the same normalization
// Create applies.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Subscription, error) {
	var s Subscription
	err := r.db.GetContext(ctx, &s, `SELECT `+selectColumns+` FROM subscriptions WHERE email = ? LIMIT 1`,
		strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Count returns the number of stored subscriptions.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(1) FROM subscriptions`); err != nil {
		return 0, err
	}
	return n, nil
}

// Ping reports whether the store is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// translateError maps driver constraint errors onto the package's errors.
func translateError(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case 1062: // ER_DUP_ENTRY
			return fmt.Errorf("%w: %v", ErrDuplicateEmail, err)
		case 1048, 1265, 3819: // NOT NULL, enum truncation, CHECK
			return &SchemaError{Message: me.Message}
		}
		return err
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %v", ErrDuplicateEmail, err)
		case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
			return &SchemaError{Message: se.Error()}
		}
	}
	return err
}
