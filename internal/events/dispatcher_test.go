package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

type recordingLogger struct {
	mu     sync.Mutex
	errors []string
}

func (l *recordingLogger) Info(format string, v ...interface{}) {}
func (l *recordingLogger) Warn(format string, v ...interface{}) {}
func (l *recordingLogger) Error(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, fmt.Sprintf(format, v...))
}

func TestDispatcher_PublishDeliversInOrder(t *testing.T) {
	log := &recordingLogger{}
	d := NewDispatcher(log)

	var got []string
	d.Subscribe("first", ListenerFunc(func(ctx context.Context, e Event) error {
		got = append(got, "first:"+string(e.Name))
		return nil
	}))
	d.Subscribe("second", ListenerFunc(func(ctx context.Context, e Event) error {
		got = append(got, "second:"+string(e.Name))
		return nil
	}))

	d.Publish(context.Background(), Event{Name: AppointmentCreated})

	assert.Equal(t, []string{"first:appointment.created", "second:appointment.created"}, got)
	assert.Empty(t, log.errors)
}

func TestDispatcher_ListenerFailuresAreLogged(t *testing.T) {
	log := &recordingLogger{}
	d := NewDispatcher(log)

	delivered := false
	d.Subscribe("broken", ListenerFunc(func(ctx context.Context, e Event) error {
		return errors.New("webhook down")
	}))
	d.Subscribe("panicky", ListenerFunc(func(ctx context.Context, e Event) error {
		panic("boom")
	}))
	d.Subscribe("healthy", ListenerFunc(func(ctx context.Context, e Event) error {
		delivered = true
		return nil
	}))

	d.Publish(context.Background(), Event{Name: AppointmentCancelled, Appointment: domain.Appointment{ID: 7}})

	assert.True(t, delivered)
	require.Len(t, log.errors, 2)
	assert.Contains(t, log.errors[0], "broken")
	assert.Contains(t, log.errors[1], "panicky")
}

func TestMetricsListener(t *testing.T) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_events_total"}, []string{"event"})
	l := NewMetricsListener(counter)

	require.NoError(t, l.Handle(context.Background(), Event{Name: AppointmentApproved}))
	require.NoError(t, l.Handle(context.Background(), Event{Name: AppointmentApproved}))

	assert.Equal(t, float64(2), testutil.ToFloat64(counter.WithLabelValues("appointment.approved")))
}

func TestForStatus(t *testing.T) {
	assert.Equal(t, AppointmentApproved, ForStatus(domain.StatusConfirmed))
	assert.Equal(t, AppointmentCancelled, ForStatus(domain.StatusCancelled))
	assert.Equal(t, AppointmentNoShow, ForStatus(domain.StatusNoShow))
}
