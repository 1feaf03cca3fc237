package testfixtures

import (
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

// Monday ближайший к ReferenceTime понедельник
var Monday = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

// Calendar активный календарь: понедельник 09:00-12:00, слоты по 30 минут, одно место
func Calendar(id int64) *domain.CalendarPolicy {
	return &domain.CalendarPolicy{
		ID:                     id,
		Name:                   "Clinic",
		Status:                 domain.CalendarActive,
		Timezone:               "UTC",
		SlotDurationMinutes:    30,
		MaxAppointmentsPerSlot: 1,
		AllowCancellation:      true,
		WorkingHours: domain.WeeklySchedule{
			{Weekday: int(time.Monday), Start: types.MustTimeString("09:00"), End: types.MustTimeString("12:00")},
		},
	}
}

// Booking запись в статусе confirmed на календарь и время
func Booking(calendarID int64, date time.Time, start string) domain.Appointment {
	startTime := types.MustTimeString(start)
	endTime, _ := startTime.AddMinutes(30)
	return domain.Appointment{
		CalendarID:        calendarID,
		Date:              domain.DateOnly(date),
		StartTime:         startTime,
		EndTime:           endTime,
		Status:            domain.StatusConfirmed,
		ConfirmationToken: "token",
		ConsentGiven:      true,
	}
}

// NopLogger логгер, который ничего не пишет
type NopLogger struct{}

func (NopLogger) Info(format string, v ...interface{})  {}
func (NopLogger) Warn(format string, v ...interface{})  {}
func (NopLogger) Error(format string, v ...interface{}) {}
