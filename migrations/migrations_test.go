package migrations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signup-backend/conn"
)

func TestMigrate_SQLiteCreatesSchema(t *testing.T) {
	db, err := conn.NewSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(db.DB, "sqlite3"))
	// second run has nothing to do
	require.NoError(t, Migrate(db.DB, "sqlite3"))

	now := time.Now().UTC()
	insert := `INSERT INTO subscriptions (id, email, user_name, plan_name, duration_months, subscription_status, created_at, updated_at) VALUES (?,?,?,?,?,?,?,?)`

	_, err = db.Exec(insert, "1", "a@example.com", "A", "Basic", 1, "Active", now, now)
	require.NoError(t, err)

	_, err = db.Exec(insert, "2", "a@example.com", "A", "Basic", 1, "Active", now, now)
	assert.Error(t, err, "email must be unique")

	_, err = db.Exec(insert, "3", "b@example.com", "B", "Gold", 1, "Active", now, now)
	assert.Error(t, err, "plan name is constrained")

	_, err = db.Exec(insert, "4", "c@example.com", "C", "Basic", 0, "Active", now, now)
	assert.Error(t, err, "duration must be at least one month")
}

func TestMigrate_Errors(t *testing.T) {
	err := Migrate(nil, "sqlite3")
	assert.True(t, errors.Is(err, ErrMigrationFailed))

	db, err := conn.NewSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	err = Migrate(db.DB, "postgres")
	assert.True(t, errors.Is(err, ErrMigrationFailed))
}
