package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/blackout"
	"github.com/m04kA/SMC-BookingEngine/internal/service/capacity"
)

// CalendarRepository интерфейс репозитория календарей
type CalendarRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.CalendarPolicy, error)
}

// BlackoutMask блокировки на дату
type BlackoutMask interface {
	ForDate(ctx context.Context, calendarID int64, date time.Time) (*blackout.DayMask, error)
}

// CapacitySnapshot занятость слотов на дату
type CapacitySnapshot interface {
	Snapshot(ctx context.Context, cal *domain.CalendarPolicy, date time.Time) (*capacity.Snapshot, error)
}

// TransactionManager интерфейс для чтения в одной транзакции
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
