package get_calendar

import (
	"context"

	"github.com/m04kA/SMC-BookingEngine/internal/service/calendars/models"
)

type CalendarService interface {
	GetByID(ctx context.Context, id int64) (*models.CalendarResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
