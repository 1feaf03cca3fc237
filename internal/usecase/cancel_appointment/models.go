package cancel_appointment

import (
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// Request модель запроса на отмену записи
// Гость подтверждает право отмены токеном, аккаунт - своим контекстом
type Request struct {
	Actor         domain.Actor
	AppointmentID int64
	Token         string
	Reason        *string
}

// Response модель ответа после отмены
type Response struct {
	ID          int64
	Status      domain.AppointmentStatus
	CancelledAt time.Time
	CancelledBy string
}
