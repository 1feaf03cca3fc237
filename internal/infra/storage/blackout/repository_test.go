package blackout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBlockedDatesQuery(t *testing.T) {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	query, args, err := buildBlockedDatesQuery(7, date)
	require.NoError(t, err)

	assert.Contains(t, query, "FROM blocked_dates")
	assert.Contains(t, query, "(calendar_id = $1 OR calendar_id IS NULL)")
	assert.Contains(t, query, "start_date <= $2")
	assert.Contains(t, query, "(recurrence <> $3 OR end_date >= $4)")
	assert.Equal(t, []interface{}{int64(7), "2025-03-10", "none", "2025-03-10"}, args)
}

func TestBuildHolidaysQuery(t *testing.T) {
	date := time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)

	query, args, err := buildHolidaysQuery(date)
	require.NoError(t, err)

	assert.Contains(t, query, "FROM holidays")
	assert.Contains(t, query, "EXTRACT(MONTH FROM holiday_date) = $3")
	assert.Equal(t, []interface{}{"2025-12-25", true, 12, 25}, args)
}
