package get_account_appointments

import (
	"context"

	"github.com/m04kA/SMC-BookingEngine/internal/service/appointments/models"
)

type AppointmentService interface {
	GetAccountAppointments(ctx context.Context, req *models.GetAccountAppointmentsRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
