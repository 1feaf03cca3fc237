package cancel_appointment

import (
	"time"

	cancelAppointment "github.com/m04kA/SMC-BookingEngine/internal/usecase/cancel_appointment"
)

// CancelRequest тело запроса на отмену, целиком необязательное
type CancelRequest struct {
	Token  string  `json:"token,omitempty"`
	Reason *string `json:"reason,omitempty"`
}

// CancelResponse HTTP response model
type CancelResponse struct {
	ID          int64  `json:"id"`
	Status      string `json:"status"`
	CancelledAt string `json:"cancelledAt"`
	CancelledBy string `json:"cancelledBy"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelAppointment.Response) *CancelResponse {
	return &CancelResponse{
		ID:          resp.ID,
		Status:      string(resp.Status),
		CancelledAt: resp.CancelledAt.Format(time.RFC3339),
		CancelledBy: resp.CancelledBy,
	}
}
