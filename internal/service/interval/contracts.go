package interval

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// AppointmentFinder поиск записей по identity
type AppointmentFinder interface {
	FindByIdentity(ctx context.Context, identity domain.Identity) ([]*domain.Appointment, error)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}
