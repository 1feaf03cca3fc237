package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

func policy() *domain.CalendarPolicy {
	return &domain.CalendarPolicy{
		ID:                     4,
		Name:                   "Consular desk",
		Status:                 domain.CalendarActive,
		Timezone:               "Europe/Lisbon",
		SlotDurationMinutes:    20,
		MaxAppointmentsPerSlot: 2,
		AllowCancellation:      true,
		RequiresLogin:          true,
		AllowedRoles:           []string{"citizen", "resident"},
		WorkingHours: domain.WeeklySchedule{
			{Weekday: int(time.Monday), Start: types.MustTimeString("09:00"), End: types.MustTimeString("12:30")},
		},
	}
}

func TestBuildGetByIDQuery(t *testing.T) {
	query, args, err := buildGetByIDQuery(4)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(query, "SELECT id, name, status, timezone,"))
	assert.Contains(t, query, "allowed_roles, working_hours, created_at, updated_at FROM calendars")
	assert.True(t, strings.HasSuffix(query, "WHERE id = $1"))
	assert.Equal(t, []interface{}{int64(4)}, args)
}

func TestBuildUpdateQuery(t *testing.T) {
	now := time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC)

	query, args, err := buildUpdateQuery(4, policy(), now)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(query, "UPDATE calendars SET name = $1, status = $2, timezone = $3"))
	assert.Contains(t, query, "allowed_roles = $15, working_hours = $16, updated_at = $17")
	assert.True(t, strings.HasSuffix(query, "WHERE id = $18"))
	require.Len(t, args, 18)

	assert.Equal(t, "Consular desk", args[0])
	assert.Equal(t, now, args[16])
	assert.Equal(t, int64(4), args[17])

	roles, ok := args[14].(*pq.StringArray)
	require.True(t, ok, "allowed_roles must be bound as a Postgres array, got %T", args[14])
	assert.Equal(t, pq.StringArray{"citizen", "resident"}, *roles)

	hours, ok := args[15].([]byte)
	require.True(t, ok, "working_hours must be bound as JSON bytes, got %T", args[15])
	assert.JSONEq(t, `[{"weekday":1,"start":"09:00","end":"12:30"}]`, string(hours))
}

func TestBuildUpdateQuery_NilRolesBecomeEmptyArray(t *testing.T) {
	cal := policy()
	cal.AllowedRoles = nil

	_, args, err := buildUpdateQuery(4, cal, time.Now())
	require.NoError(t, err)

	roles, ok := args[14].(*pq.StringArray)
	require.True(t, ok)
	require.NotNil(t, *roles)
	assert.Empty(t, *roles)

	value, err := roles.Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", value)
}

func TestRepository_DecodePolicy(t *testing.T) {
	repo := NewRepository(nil, "UTC")

	t.Run("roles, hours and default timezone", func(t *testing.T) {
		cal := domain.CalendarPolicy{
			ID:                     4,
			Name:                   "Consular desk",
			Status:                 domain.CalendarActive,
			SlotDurationMinutes:    20,
			MaxAppointmentsPerSlot: 1,
		}

		err := repo.decodePolicy(&cal, pq.StringArray{"citizen"},
			[]byte(`[{"weekday":1,"start":"09:00","end":"12:30"}]`))
		require.NoError(t, err)

		assert.Equal(t, []string{"citizen"}, cal.AllowedRoles)
		assert.Equal(t, "UTC", cal.Timezone)
		require.Len(t, cal.WorkingHours, 1)
		assert.Equal(t, types.TimeString("12:30"), cal.WorkingHours[0].End)
	})

	t.Run("malformed hours", func(t *testing.T) {
		cal := *policy()
		err := repo.decodePolicy(&cal, nil, []byte(`{"weekday":`))
		assert.ErrorIs(t, err, ErrScanRow)
	})

	t.Run("stored policy breaks invariants", func(t *testing.T) {
		cal := *policy()
		cal.SlotDurationMinutes = 0
		err := repo.decodePolicy(&cal, nil, []byte(`[{"weekday":1,"start":"09:00","end":"12:30"}]`))
		assert.ErrorIs(t, err, ErrInvalidPolicy)
	})
}
