package domain

// Значения по умолчанию для календаря
const (
	DefaultSlotDurationMinutes    = 30
	DefaultMaxAppointmentsPerSlot = 1
	DefaultTimezone               = "UTC"
)

// Ограничения бизнес-валидации
const (
	MinSlotDurationMinutes      = 5
	MaxSlotDurationMinutes      = 480 // 8 часов
	MaxAppointmentsPerSlotLimit = 1000
	MaxAdvanceBookingDays       = 730 // 2 года
	MaxNotesLength              = 1000
	MaxCancellationReasonLength = 500
)

// Форматы даты и времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// CapacityStatuses статусы, которые занимают место в слоте и в дневном лимите (все, кроме отмены)
var CapacityStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
	StatusNoShow,
}

// ActiveStatuses статусы будущих записей, которые ещё могут состояться
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}
