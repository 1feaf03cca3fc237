package validation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

// BlackoutChecker проверка праздников и блокировок календаря
type BlackoutChecker interface {
	IsBlocked(ctx context.Context, calendarID int64, date time.Time, t types.TimeString) (bool, error)
}

// CapacityGate проверка вместимости слота и дневного лимита
type CapacityGate interface {
	CheckSlot(ctx context.Context, cal *domain.CalendarPolicy, date time.Time, startTime types.TimeString, locked bool) error
	CheckDaily(ctx context.Context, cal *domain.CalendarPolicy, date time.Time, locked bool) error
}

// IntervalLimiter проверка минимального интервала между записями
type IntervalLimiter interface {
	Check(ctx context.Context, cal *domain.CalendarPolicy, identity domain.Identity, requested time.Time) error
}

// NationalIDValidator предикат контрольной суммы 11-значного номера
type NationalIDValidator interface {
	IsValid(digits string) bool
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}
