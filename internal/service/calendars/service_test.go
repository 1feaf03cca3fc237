package calendars

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/calendars/models"
	"github.com/m04kA/SMC-BookingEngine/internal/testfixtures"
	"github.com/m04kA/SMC-BookingEngine/pkg/ptr"
)

var admin = domain.Actor{AccountID: 1, Permissions: []domain.Permission{domain.PermManageAppointments}}

func setup() (*Service, *testfixtures.Store) {
	store := testfixtures.NewStore()
	store.AddCalendar(testfixtures.Calendar(1))
	return NewService(testfixtures.Calendars{Store: store}, testfixtures.NopLogger{}), store
}

func TestService_GetByID(t *testing.T) {
	svc, _ := setup()

	resp, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Clinic", resp.Name)
	require.Len(t, resp.WorkingHours, 1)
	assert.Equal(t, "09:00", resp.WorkingHours[0].Start)

	_, err = svc.GetByID(context.Background(), 2)
	assert.ErrorIs(t, err, ErrCalendarNotFound)
}

func TestService_Update(t *testing.T) {
	svc, store := setup()

	resp, err := svc.Update(context.Background(), 1, &models.UpdateCalendarRequest{
		Actor:            admin,
		SlotsPerDay:      ptr.Ptr(4),
		RequiresApproval: ptr.Ptr(true),
		WorkingHours: &[]models.WorkingHoursDTO{
			{Weekday: 1, Start: "08:00", End: "12:00"},
			{Weekday: 1, Start: "13:00", End: "17:00"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.SlotsPerDay)
	assert.True(t, resp.RequiresApproval)
	assert.Len(t, resp.WorkingHours, 2)

	stored, err := store.GetCalendar(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 30, stored.SlotDurationMinutes)
}

func TestService_UpdateRejectsInvalidPolicy(t *testing.T) {
	svc, _ := setup()

	_, err := svc.Update(context.Background(), 1, &models.UpdateCalendarRequest{
		Actor:        admin,
		WorkingHours: &[]models.WorkingHoursDTO{{Weekday: 1, Start: "12:00", End: "09:00"}},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Update(context.Background(), 1, &models.UpdateCalendarRequest{Actor: admin, Status: ptr.Ptr("paused")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_UpdateRequiresAdmin(t *testing.T) {
	svc, _ := setup()

	_, err := svc.Update(context.Background(), 1, &models.UpdateCalendarRequest{
		Actor:       domain.Actor{AccountID: 3, Permissions: []domain.Permission{domain.PermBookAppointments}},
		SlotsPerDay: ptr.Ptr(1),
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.Update(context.Background(), 9, &models.UpdateCalendarRequest{Actor: admin})
	assert.ErrorIs(t, err, ErrCalendarNotFound)
}
