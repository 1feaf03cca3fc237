package events

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// NewLoggingListener пишет каждое событие в лог
func NewLoggingListener(logger Logger) Listener {
	return ListenerFunc(func(ctx context.Context, e Event) error {
		logger.Info("Event %s: appointment=%d calendar=%d status=%s actor=%s",
			e.Name, e.Appointment.ID, e.Calendar.ID, e.Appointment.Status, e.Actor)
		return nil
	})
}

// NewMetricsListener считает события по имени
func NewMetricsListener(counter *prometheus.CounterVec) Listener {
	return ListenerFunc(func(ctx context.Context, e Event) error {
		counter.WithLabelValues(string(e.Name)).Inc()
		return nil
	})
}
