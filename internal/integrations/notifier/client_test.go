package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/events"
	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

func TestClient_Handle(t *testing.T) {
	var got Payload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "appointment.created", r.Header.Get("X-Event-Name"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	event := events.Event{
		Name:             events.AppointmentCreated,
		RequiresApproval: true,
		Appointment: domain.Appointment{
			ID:             5,
			Date:           time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
			StartTime:      types.MustTimeString("09:00"),
			EndTime:        types.MustTimeString("09:30"),
			Status:         domain.StatusPending,
			ValidationCode: "ABCD2345",
		},
		Calendar: domain.CalendarPolicy{ID: 1, Name: "Clinic"},
	}

	err := NewClient(server.URL, time.Second).Handle(context.Background(), event)
	require.NoError(t, err)

	assert.Equal(t, "appointment.created", got.Event)
	assert.True(t, got.RequiresApproval)
	assert.Equal(t, "2025-01-06", got.Appointment.Date)
	assert.Equal(t, "09:30", got.Appointment.EndTime)
	assert.Equal(t, "ABCD2345", got.Appointment.ValidationCode)
	assert.Equal(t, "Clinic", got.Calendar.Name)
}

func TestClient_HandleRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	err := NewClient(server.URL, time.Second).Handle(context.Background(), events.Event{Name: events.AppointmentCancelled})
	assert.ErrorIs(t, err, ErrRejected)
}
