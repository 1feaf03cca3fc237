package notifier

import "time"

// Payload тело webhook-запроса
type Payload struct {
	Event            string             `json:"event"`
	OccurredAt       time.Time          `json:"occurred_at"`
	Actor            string             `json:"actor"`
	RequiresApproval bool               `json:"requires_approval"`
	Reason           *string            `json:"reason,omitempty"`
	Appointment      AppointmentPayload `json:"appointment"`
	Calendar         CalendarPayload    `json:"calendar"`
}

// AppointmentPayload данные записи для уведомления и квитанции
type AppointmentPayload struct {
	ID                int64   `json:"id"`
	Date              string  `json:"date"`
	StartTime         string  `json:"start_time"`
	EndTime           string  `json:"end_time"`
	Status            string  `json:"status"`
	AccountID         *int64  `json:"account_id,omitempty"`
	Email             string  `json:"email,omitempty"`
	Phone             string  `json:"phone,omitempty"`
	ValidationCode    string  `json:"validation_code"`
	ConfirmationToken string  `json:"confirmation_token"`
	UserNotes         *string `json:"user_notes,omitempty"`
}

// CalendarPayload данные календаря
type CalendarPayload struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
}
