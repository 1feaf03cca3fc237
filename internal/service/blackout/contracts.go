package blackout

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// Repository источник праздников и блокировок
type Repository interface {
	HolidaysOn(ctx context.Context, date time.Time) ([]domain.Holiday, error)
	BlockedDatesFor(ctx context.Context, calendarID int64, date time.Time) ([]domain.BlockedDate, error)
}
