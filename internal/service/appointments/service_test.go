package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/events"
	"github.com/m04kA/SMC-BookingEngine/internal/service/appointments/models"
	"github.com/m04kA/SMC-BookingEngine/internal/testfixtures"
	"github.com/m04kA/SMC-BookingEngine/pkg/ptr"
)

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) {
	p.events = append(p.events, e)
}

var admin = domain.Actor{AccountID: 1, Permissions: []domain.Permission{domain.PermManageAppointments}}

func setup(t *testing.T) (*Service, *testfixtures.Store, *recordingPublisher) {
	t.Helper()
	store := testfixtures.NewStore()
	store.AddCalendar(testfixtures.Calendar(1))
	pub := &recordingPublisher{}
	svc := NewService(store, testfixtures.Calendars{Store: store}, pub, testfixtures.NewClock(time.Time{}), testfixtures.NopLogger{})
	return svc, store, pub
}

func TestService_GetByIDAccess(t *testing.T) {
	svc, store, _ := setup(t)

	b := testfixtures.Booking(1, testfixtures.Monday, "09:00")
	b.AccountID = ptr.Ptr(int64(10))
	b.ConfirmationToken = "secret"
	appt := store.Put(b)
	ctx := context.Background()

	_, err := svc.GetByID(ctx, appt.ID, domain.Actor{AccountID: 10}, "")
	assert.NoError(t, err)

	_, err = svc.GetByID(ctx, appt.ID, admin, "")
	assert.NoError(t, err)

	resp, err := svc.GetByID(ctx, appt.ID, domain.Actor{}, "secret")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-06", resp.Date)

	_, err = svc.GetByID(ctx, appt.ID, domain.Actor{AccountID: 11}, "wrong")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.GetByID(ctx, 999, admin, "")
	assert.ErrorIs(t, err, domain.ErrAppointmentNotFound)
}

func TestService_GetAccountAppointments(t *testing.T) {
	svc, store, _ := setup(t)

	for _, start := range []string{"09:00", "10:00"} {
		b := testfixtures.Booking(1, testfixtures.Monday, start)
		b.AccountID = ptr.Ptr(int64(10))
		store.Put(b)
	}
	cancelled := testfixtures.Booking(1, testfixtures.Monday, "11:00")
	cancelled.AccountID = ptr.Ptr(int64(10))
	cancelled.Status = domain.StatusCancelled
	store.Put(cancelled)

	ctx := context.Background()

	list, err := svc.GetAccountAppointments(ctx, &models.GetAccountAppointmentsRequest{Actor: domain.Actor{AccountID: 10}, AccountID: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, list.Total)

	list, err = svc.GetAccountAppointments(ctx, &models.GetAccountAppointmentsRequest{
		Actor:     admin,
		AccountID: 10,
		Status:    ptr.Ptr("cancelled"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)

	_, err = svc.GetAccountAppointments(ctx, &models.GetAccountAppointmentsRequest{Actor: domain.Actor{AccountID: 11}, AccountID: 10})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.GetAccountAppointments(ctx, &models.GetAccountAppointmentsRequest{Actor: admin, AccountID: 10, Status: ptr.Ptr("done")})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestService_ApprovePending(t *testing.T) {
	svc, store, pub := setup(t)

	b := testfixtures.Booking(1, testfixtures.Monday, "09:00")
	b.Status = domain.StatusPending
	appt := store.Put(b)

	resp, err := svc.UpdateStatus(context.Background(), appt.ID, &models.UpdateStatusRequest{Actor: admin, Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
	assert.NotNil(t, resp.ApprovedAt)

	stored, err := store.GetByID(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, stored.Status)
	assert.Equal(t, "admin:1", *stored.ApprovedBy)

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.AppointmentApproved, pub.events[0].Name)
	assert.Equal(t, "Clinic", pub.events[0].Calendar.Name)
}

func TestService_UpdateStatusRules(t *testing.T) {
	svc, store, pub := setup(t)
	ctx := context.Background()

	pending := testfixtures.Booking(1, testfixtures.Monday, "09:00")
	pending.Status = domain.StatusPending
	pendingAppt := store.Put(pending)

	cancelled := testfixtures.Booking(1, testfixtures.Monday, "10:00")
	cancelled.Status = domain.StatusCancelled
	cancelledAppt := store.Put(cancelled)

	confirmedAppt := store.Put(testfixtures.Booking(1, testfixtures.Monday, "11:00"))

	// pending -> completed минуя подтверждение
	_, err := svc.UpdateStatus(ctx, pendingAppt.ID, &models.UpdateStatusRequest{Actor: admin, Status: "completed"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = svc.UpdateStatus(ctx, cancelledAppt.ID, &models.UpdateStatusRequest{Actor: admin, Status: "no_show"})
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)

	_, err = svc.UpdateStatus(ctx, confirmedAppt.ID, &models.UpdateStatusRequest{Actor: admin, Status: "cancelled"})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = svc.UpdateStatus(ctx, confirmedAppt.ID, &models.UpdateStatusRequest{Actor: domain.Actor{AccountID: 5}, Status: "completed"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	resp, err := svc.UpdateStatus(ctx, confirmedAppt.ID, &models.UpdateStatusRequest{Actor: admin, Status: "no_show"})
	require.NoError(t, err)
	assert.Equal(t, "no_show", resp.Status)

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.AppointmentNoShow, pub.events[0].Name)
}
