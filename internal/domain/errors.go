package domain

import (
	"errors"
	"time"
)

// ErrorKind тип ожидаемой ошибки бронирования; по нему вызывающая сторона выбирает реакцию UI
type ErrorKind string

const (
	KindMissingFields           ErrorKind = "missing_fields"
	KindInvalidDate             ErrorKind = "invalid_date"
	KindInvalidTime             ErrorKind = "invalid_time"
	KindPastDate                ErrorKind = "past_date"
	KindTooSoon                 ErrorKind = "too_soon"
	KindTooFar                  ErrorKind = "too_far"
	KindDateBlocked             ErrorKind = "date_blocked"
	KindOutsideHours            ErrorKind = "outside_hours"
	KindSlotFull                ErrorKind = "slot_full"
	KindDailyLimit              ErrorKind = "daily_limit"
	KindBookingTooSoon          ErrorKind = "booking_too_soon"
	KindCapabilityDenied        ErrorKind = "capability_denied"
	KindLoginRequired           ErrorKind = "login_required"
	KindInsufficientPermissions ErrorKind = "insufficient_permissions"
	KindEmailRequired           ErrorKind = "email_required"
	KindInvalidCPFRF            ErrorKind = "invalid_cpf_rf"
	KindConsentRequired         ErrorKind = "consent_required"
	KindCalendarInactive        ErrorKind = "calendar_inactive"
	KindInvalidCalendar         ErrorKind = "invalid_calendar"
	KindCreationFailed          ErrorKind = "creation_failed"
	KindUnauthorized            ErrorKind = "unauthorized"
	KindCancellationDisabled    ErrorKind = "cancellation_disabled"
	KindDeadlinePassed          ErrorKind = "deadline_passed"
	KindAlreadyCancelled        ErrorKind = "already_cancelled"
	KindAppointmentNotFound     ErrorKind = "appointment_not_found"
	KindInvalidTransition       ErrorKind = "invalid_transition"
	KindInvalidRequest          ErrorKind = "invalid_request"
	KindInternal                ErrorKind = "internal_error"
)

// BookingError ожидаемый отказ: тип + понятное человеку сообщение
// Сравнение через errors.Is идёт по Kind, поэтому sentinel-значения ниже
// совпадают с любым экземпляром того же типа
type BookingError struct {
	Kind    ErrorKind
	Message string

	// Заполняется для booking_too_soon: когда можно записаться снова
	NextEligibleAt *time.Time
}

// NewBookingError создает ошибку заданного типа
func NewBookingError(kind ErrorKind, message string) *BookingError {
	return &BookingError{Kind: kind, Message: message}
}

func (e *BookingError) Error() string {
	return "booking: " + string(e.Kind) + ": " + e.Message
}

// Is сравнивает ошибки по типу
func (e *BookingError) Is(target error) bool {
	t, ok := target.(*BookingError)
	return ok && t.Kind == e.Kind
}

// KindOf возвращает тип ошибки бронирования или internal_error для остальных ошибок
func KindOf(err error) ErrorKind {
	var bErr *BookingError
	if errors.As(err, &bErr) {
		return bErr.Kind
	}
	return KindInternal
}

var (
	ErrMissingFields           = NewBookingError(KindMissingFields, "date and time are required")
	ErrInvalidDate             = NewBookingError(KindInvalidDate, "date must be YYYY-MM-DD")
	ErrInvalidTime             = NewBookingError(KindInvalidTime, "time must be HH:MM or HH:MM:SS")
	ErrPastDate                = NewBookingError(KindPastDate, "requested time is in the past")
	ErrTooSoon                 = NewBookingError(KindTooSoon, "requested time is earlier than the minimum advance")
	ErrTooFar                  = NewBookingError(KindTooFar, "requested time is beyond the maximum advance")
	ErrDateBlocked             = NewBookingError(KindDateBlocked, "requested date or time is blocked")
	ErrOutsideHours            = NewBookingError(KindOutsideHours, "requested time is outside working hours")
	ErrSlotFull                = NewBookingError(KindSlotFull, "slot has no remaining capacity")
	ErrDailyLimit              = NewBookingError(KindDailyLimit, "daily booking limit reached")
	ErrBookingTooSoon          = NewBookingError(KindBookingTooSoon, "another booking exists within the minimum interval")
	ErrCapabilityDenied        = NewBookingError(KindCapabilityDenied, "account is not allowed to book")
	ErrLoginRequired           = NewBookingError(KindLoginRequired, "calendar requires login")
	ErrInsufficientPermissions = NewBookingError(KindInsufficientPermissions, "account role is not allowed on this calendar")
	ErrEmailRequired           = NewBookingError(KindEmailRequired, "email is required for guest bookings")
	ErrInvalidCPFRF            = NewBookingError(KindInvalidCPFRF, "national id must be a valid CPF (11 digits) or RF (7 digits)")
	ErrConsentRequired         = NewBookingError(KindConsentRequired, "data processing consent is required")
	ErrCalendarInactive        = NewBookingError(KindCalendarInactive, "calendar does not accept bookings")
	ErrInvalidCalendar         = NewBookingError(KindInvalidCalendar, "calendar not found")
	ErrCreationFailed          = NewBookingError(KindCreationFailed, "appointment could not be created")
	ErrUnauthorized            = NewBookingError(KindUnauthorized, "not allowed to change this appointment")
	ErrCancellationDisabled    = NewBookingError(KindCancellationDisabled, "calendar does not allow cancellation")
	ErrDeadlinePassed          = NewBookingError(KindDeadlinePassed, "cancellation deadline has passed")
	ErrAlreadyCancelled        = NewBookingError(KindAlreadyCancelled, "appointment is already cancelled")
	ErrAppointmentNotFound     = NewBookingError(KindAppointmentNotFound, "appointment not found")
	ErrInvalidTransition       = NewBookingError(KindInvalidTransition, "status transition is not allowed")
	ErrInvalidRequest          = NewBookingError(KindInvalidRequest, "invalid request")
	ErrInternal                = NewBookingError(KindInternal, "internal error")
)
