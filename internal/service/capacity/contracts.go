package capacity

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

// AppointmentStore счетчики записей
// locked = true допустимо только внутри транзакции
type AppointmentStore interface {
	IsSlotAvailable(ctx context.Context, calendarID int64, date time.Time, startTime types.TimeString, maxPerSlot int, locked bool) (bool, error)
	CountForDate(ctx context.Context, calendarID int64, date time.Time, statuses []domain.AppointmentStatus, locked bool) (int, error)
	CountBySlot(ctx context.Context, calendarID int64, date time.Time) (map[types.TimeString]int, error)
}
