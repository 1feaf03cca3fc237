package appointments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/events"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByAccountID(ctx context.Context, accountID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
	Transition(ctx context.Context, id int64, tr domain.Transition) (bool, error)
}

// CalendarRepository интерфейс репозитория календарей
type CalendarRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.CalendarPolicy, error)
}

// EventPublisher получатель событий после изменения статуса
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
