package get_available_slots_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/events"
	"github.com/m04kA/SMC-BookingEngine/internal/service/blackout"
	"github.com/m04kA/SMC-BookingEngine/internal/service/capacity"
	"github.com/m04kA/SMC-BookingEngine/internal/service/interval"
	"github.com/m04kA/SMC-BookingEngine/internal/service/validation"
	"github.com/m04kA/SMC-BookingEngine/internal/testfixtures"
	"github.com/m04kA/SMC-BookingEngine/internal/usecase/create_booking"
	"github.com/m04kA/SMC-BookingEngine/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-BookingEngine/pkg/codegen"
	"github.com/m04kA/SMC-BookingEngine/pkg/nationalid"
)

type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, e events.Event) {}

func remaining(slots []domain.AvailableSlot, start string) (int, bool) {
	for _, s := range slots {
		if s.StartTime.String() == start {
			return s.AvailableSpots, true
		}
	}
	return 0, false
}

func TestBookThenList(t *testing.T) {
	cal := testfixtures.Calendar(1)
	cal.MaxAppointmentsPerSlot = 2

	store := testfixtures.NewStore()
	store.AddCalendar(cal)
	clock := testfixtures.NewClock(time.Time{})
	calendars := testfixtures.Calendars{Store: store}
	checker := blackout.NewChecker(store)
	gate := capacity.NewGate(store)
	gen, err := codegen.NewGenerator(codegen.DefaultLength)
	require.NoError(t, err)

	limiter := interval.NewLimiter(store, clock)
	booking := create_booking.NewUseCase(create_booking.Dependencies{
		Appointments: store,
		Calendars:    calendars,
		Validator:    validation.NewValidator(checker, gate, limiter, nationalid.CPFValidator{}, clock),
		Capacity:     gate,
		Interval:     limiter,
		Locks:        store,
		Codes:        gen,
		Hasher:       nationalid.NewHasher("salt"),
		TxManager:    store,
		Publisher:    nopPublisher{},
		TimeProvider: clock,
		Logger:       testfixtures.NopLogger{},
	}, create_booking.DefaultMaxCodeAttempts)
	listing := get_available_slots.NewUseCase(calendars, checker, gate, store, clock, testfixtures.NopLogger{})

	book := func(email string) error {
		_, err := booking.Execute(context.Background(), &create_booking.Request{
			CalendarID:   1,
			Date:         "2025-01-06",
			Time:         "10:00",
			Email:        email,
			NationalID:   "1234567",
			ConsentGiven: true,
		})
		return err
	}
	slotsFor := func() []domain.AvailableSlot {
		resp, err := listing.Execute(context.Background(), &get_available_slots.Request{CalendarID: 1, Date: "2025-01-06"})
		require.NoError(t, err)
		return resp.Slots
	}

	left, ok := remaining(slotsFor(), "10:00")
	require.True(t, ok)
	assert.Equal(t, 2, left)

	require.NoError(t, book("a@example.com"))
	left, ok = remaining(slotsFor(), "10:00")
	require.True(t, ok)
	assert.Equal(t, 1, left)

	require.NoError(t, book("b@example.com"))
	_, ok = remaining(slotsFor(), "10:00")
	assert.False(t, ok)

	assert.ErrorIs(t, book("c@example.com"), domain.ErrSlotFull)
}
