package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPolicy() *CalendarPolicy {
	return &CalendarPolicy{
		ID:                     1,
		Name:                   "Front desk",
		Status:                 CalendarActive,
		Timezone:               "America/Sao_Paulo",
		SlotDurationMinutes:    30,
		MaxAppointmentsPerSlot: 1,
		WorkingHours: WeeklySchedule{
			{Weekday: int(time.Monday), Start: "09:00", End: "12:00"},
		},
	}
}

func TestCalendarPolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *CalendarPolicy)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *CalendarPolicy) {}},
		{name: "empty timezone allowed", mutate: func(c *CalendarPolicy) { c.Timezone = "" }},
		{name: "unknown timezone", mutate: func(c *CalendarPolicy) { c.Timezone = "Mars/Olympus" }, wantErr: true},
		{name: "slot too short", mutate: func(c *CalendarPolicy) { c.SlotDurationMinutes = 1 }, wantErr: true},
		{name: "zero capacity", mutate: func(c *CalendarPolicy) { c.MaxAppointmentsPerSlot = 0 }, wantErr: true},
		{name: "unknown status", mutate: func(c *CalendarPolicy) { c.Status = "paused" }, wantErr: true},
		{name: "weekday out of range", mutate: func(c *CalendarPolicy) { c.WorkingHours[0].Weekday = 7 }, wantErr: true},
		{name: "start equals end", mutate: func(c *CalendarPolicy) { c.WorkingHours[0].End = "09:00" }, wantErr: true},
		{name: "start after end", mutate: func(c *CalendarPolicy) { c.WorkingHours[0].Start = "13:00" }, wantErr: true},
		{name: "malformed time", mutate: func(c *CalendarPolicy) { c.WorkingHours[0].Start = "9h" }, wantErr: true},
		{name: "empty role", mutate: func(c *CalendarPolicy) { c.AllowedRoles = []string{""} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validPolicy()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCalendarPolicy)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCalendarPolicy_RoleAllowed(t *testing.T) {
	c := validPolicy()
	assert.True(t, c.RoleAllowed(nil), "empty allow-list admits everyone")

	c.AllowedRoles = []string{"student", "staff"}
	assert.True(t, c.RoleAllowed([]string{"visitor", "staff"}))
	assert.False(t, c.RoleAllowed([]string{"visitor"}))
	assert.False(t, c.RoleAllowed(nil))
}

func TestCalendarPolicy_Location(t *testing.T) {
	c := validPolicy()
	assert.Equal(t, "America/Sao_Paulo", c.Location().String())

	c.Timezone = ""
	assert.Equal(t, time.UTC, c.Location())
}

func TestCalendarPolicy_LocationResolvedByValidate(t *testing.T) {
	c := validPolicy()
	require.NoError(t, c.Validate())

	first := c.Location()
	assert.Same(t, first, c.Location())
	assert.Equal(t, "America/Sao_Paulo", first.String())

	// Пояс сменили после проверки: кеш не используется
	c.Timezone = "Europe/Lisbon"
	assert.Equal(t, "Europe/Lisbon", c.Location().String())

	require.NoError(t, c.Validate())
	assert.Same(t, c.Location(), c.Location())
}
