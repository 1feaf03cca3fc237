package calendars

import (
	"context"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// CalendarRepository интерфейс репозитория календарей
type CalendarRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.CalendarPolicy, error)
	Update(ctx context.Context, id int64, cal *domain.CalendarPolicy) (*domain.CalendarPolicy, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
