package events

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// Name имя события жизненного цикла записи
type Name string

const (
	AppointmentCreated   Name = "appointment.created"
	AppointmentApproved  Name = "appointment.approved"
	AppointmentCancelled Name = "appointment.cancelled"
	AppointmentCompleted Name = "appointment.completed"
	AppointmentNoShow    Name = "appointment.no_show"
)

// ForStatus имя события для перехода в статус
func ForStatus(status domain.AppointmentStatus) Name {
	switch status {
	case domain.StatusConfirmed:
		return AppointmentApproved
	case domain.StatusCancelled:
		return AppointmentCancelled
	case domain.StatusCompleted:
		return AppointmentCompleted
	case domain.StatusNoShow:
		return AppointmentNoShow
	default:
		return AppointmentCreated
	}
}

// Event снимок записи и политики календаря на момент события
type Event struct {
	Name             Name
	Appointment      domain.Appointment
	Calendar         domain.CalendarPolicy
	RequiresApproval bool
	Reason           *string
	Actor            string
	OccurredAt       time.Time
}

// Listener получатель событий
// Ошибка listener'а логируется диспетчером и не влияет на результат операции
type Listener interface {
	Handle(ctx context.Context, event Event) error
}

// ListenerFunc адаптер функции к Listener
type ListenerFunc func(ctx context.Context, event Event) error

// Handle вызывает f
func (f ListenerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
