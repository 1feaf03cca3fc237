package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

func TestBuildDayLockQueries(t *testing.T) {
	date := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	insert, args, err := buildDayLockInsert(3, date)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO calendar_day_locks (calendar_id,lock_date) VALUES ($1,$2) ON CONFLICT DO NOTHING", insert)
	assert.Equal(t, []interface{}{int64(3), "2025-01-06"}, args)

	sel, args, err := buildDayLockSelect(3, date)
	require.NoError(t, err)
	assert.Contains(t, sel, "FROM calendar_day_locks")
	assert.True(t, len(sel) > 0 && sel[len(sel)-len("FOR UPDATE"):] == "FOR UPDATE")
	assert.Len(t, args, 2)
}

func TestRepository_LockedReadOutsideTx(t *testing.T) {
	repo := NewRepository(nil)
	date := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	_, err := repo.CountForDate(context.Background(), 1, date, domain.CapacityStatuses, true)
	assert.ErrorIs(t, err, ErrLockOutsideTx)

	_, err = repo.IsSlotAvailable(context.Background(), 1, date, "09:00", 1, true)
	assert.ErrorIs(t, err, ErrLockOutsideTx)
}

func TestBuildIdentityLock(t *testing.T) {
	query, args, err := buildIdentityLock(3, "email:a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", query)
	assert.Equal(t, []interface{}{"booking:3:email:a@example.com"}, args)

	// Один и тот же человек в другом календаре не блокируется
	_, other, err := buildIdentityLock(4, "email:a@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, args, other)
}

func TestRepository_LockIdentityOutsideTx(t *testing.T) {
	repo := NewRepository(nil)

	err := repo.LockIdentity(context.Background(), 1, domain.Identity{Email: "a@example.com"})
	assert.ErrorIs(t, err, ErrLockOutsideTx)
}

func TestStatusStrings(t *testing.T) {
	got := statusStrings(domain.SourcesFor(domain.StatusCancelled))
	assert.ElementsMatch(t, []string{"pending", "confirmed"}, got)
}
