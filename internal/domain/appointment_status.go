package domain

// AppointmentStatus статус записи
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
	StatusNoShow    AppointmentStatus = "no_show"
)

// transitions допустимые переходы; из cancelled, completed и no_show выхода нет
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted, StatusNoShow},
}

// ParseAppointmentStatus конвертирует строку в статус
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch status := AppointmentStatus(s); status {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return status, true
	default:
		return "", false
	}
}

// InitialStatus статус новой записи: pending, если календарь требует подтверждения
func InitialStatus(requiresApproval bool) AppointmentStatus {
	if requiresApproval {
		return StatusPending
	}
	return StatusConfirmed
}

// CanTransitionTo проверяет допустимость перехода
func (s AppointmentStatus) CanTransitionTo(to AppointmentStatus) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// IsFinal возвращает true для статусов без исходящих переходов
func (s AppointmentStatus) IsFinal() bool {
	return len(transitions[s]) == 0
}

// SourcesFor возвращает статусы, из которых можно перейти в to
// Используется в WHERE атомарного UPDATE
func SourcesFor(to AppointmentStatus) []AppointmentStatus {
	sources := make([]AppointmentStatus, 0, 2)
	for _, from := range []AppointmentStatus{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow} {
		if from.CanTransitionTo(to) {
			sources = append(sources, from)
		}
	}
	return sources
}
