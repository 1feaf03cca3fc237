package capacity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-BookingEngine/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-BookingEngine/internal/testfixtures"
	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

func TestGate_CheckSlot(t *testing.T) {
	store := testfixtures.NewStore()
	cal := testfixtures.Calendar(1)
	cal.MaxAppointmentsPerSlot = 2
	gate := NewGate(store)
	ctx := context.Background()

	store.Put(testfixtures.Booking(1, testfixtures.Monday, "09:00"))
	require.NoError(t, gate.CheckSlot(ctx, cal, testfixtures.Monday, "09:00", false))

	store.Put(testfixtures.Booking(1, testfixtures.Monday, "09:00"))
	assert.ErrorIs(t, gate.CheckSlot(ctx, cal, testfixtures.Monday, "09:00", false), domain.ErrSlotFull)

	// Отмененные записи место не занимают
	cancelled := testfixtures.Booking(1, testfixtures.Monday, "09:30")
	cancelled.Status = domain.StatusCancelled
	store.Put(cancelled)
	store.Put(cancelled)
	assert.NoError(t, gate.CheckSlot(ctx, cal, testfixtures.Monday, "09:30", false))
}

func TestGate_CheckDaily(t *testing.T) {
	store := testfixtures.NewStore()
	cal := testfixtures.Calendar(1)
	gate := NewGate(store)
	ctx := context.Background()

	store.Put(testfixtures.Booking(1, testfixtures.Monday, "09:00"))
	store.Put(testfixtures.Booking(1, testfixtures.Monday, "10:00"))

	// Без лимита
	require.NoError(t, gate.CheckDaily(ctx, cal, testfixtures.Monday, false))

	cal.SlotsPerDay = 2
	assert.ErrorIs(t, gate.CheckDaily(ctx, cal, testfixtures.Monday, false), domain.ErrDailyLimit)

	cal.SlotsPerDay = 3
	assert.NoError(t, gate.Check(ctx, cal, testfixtures.Monday, "11:00", false))
}

func TestGate_LockedCheckRequiresTransaction(t *testing.T) {
	store := testfixtures.NewStore()
	gate := NewGate(store)

	err := gate.CheckSlot(context.Background(), testfixtures.Calendar(1), testfixtures.Monday, "09:00", true)
	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, appointmentRepo.ErrLockOutsideTx)

	err = store.Do(context.Background(), func(ctx context.Context) error {
		return gate.CheckSlot(ctx, testfixtures.Calendar(1), testfixtures.Monday, "09:00", true)
	})
	assert.NoError(t, err)
}

func TestGate_LockedDailyCheckRequiresTransaction(t *testing.T) {
	store := testfixtures.NewStore()
	gate := NewGate(store)

	cal := testfixtures.Calendar(1)
	cal.SlotsPerDay = 2

	err := gate.CheckDaily(context.Background(), cal, testfixtures.Monday, true)
	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, appointmentRepo.ErrLockOutsideTx)
	assert.ErrorContains(t, err, "CheckDaily")
}

func TestGate_Snapshot(t *testing.T) {
	store := testfixtures.NewStore()
	cal := testfixtures.Calendar(1)
	cal.MaxAppointmentsPerSlot = 3
	cal.SlotsPerDay = 3
	gate := NewGate(store)

	store.Put(testfixtures.Booking(1, testfixtures.Monday, "09:00"))
	store.Put(testfixtures.Booking(1, testfixtures.Monday, "09:00"))
	store.Put(testfixtures.Booking(1, testfixtures.Monday, "10:00"))

	snap, err := gate.Snapshot(context.Background(), cal, testfixtures.Monday)
	require.NoError(t, err)

	assert.Equal(t, 1, snap.Available(types.MustTimeString("09:00")))
	assert.Equal(t, 1, snap.Available(types.TimeString("09:00:00")))
	assert.Equal(t, 3, snap.Available(types.MustTimeString("11:00")))
	assert.True(t, snap.DailyCapReached())
}
