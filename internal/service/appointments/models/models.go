package models

import (
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// Request модели

// GetAccountAppointmentsRequest запрос на получение записей аккаунта
type GetAccountAppointmentsRequest struct {
	Actor     domain.Actor
	AccountID int64
	Status    *string
}

// UpdateStatusRequest административный перевод записи в другой статус
type UpdateStatusRequest struct {
	Actor  domain.Actor
	Status string
	Reason *string
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID                 int64      `json:"id"`
	CalendarID         int64      `json:"calendarId"`
	Date               string     `json:"date"`      // "2025-01-06"
	StartTime          string     `json:"startTime"` // "09:00"
	EndTime            string     `json:"endTime"`
	Status             string     `json:"status"`
	AccountID          *int64     `json:"accountId,omitempty"`
	Email              string     `json:"email,omitempty"`
	Phone              string     `json:"phone,omitempty"`
	UserNotes          *string    `json:"userNotes,omitempty"`
	AdminNotes         *string    `json:"adminNotes,omitempty"`
	ValidationCode     string     `json:"validationCode"`
	ApprovedAt         *time.Time `json:"approvedAt,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	StatusChangedAt    *time.Time `json:"statusChangedAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// AppointmentListResponse список записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

// FromDomainAppointment конвертирует domain модель в response
// Токен подтверждения и хеш национального номера наружу не отдаются
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:                 a.ID,
		CalendarID:         a.CalendarID,
		Date:               a.Date.Format(domain.DateFormat),
		StartTime:          a.StartTime.String(),
		EndTime:            a.EndTime.String(),
		Status:             string(a.Status),
		AccountID:          a.AccountID,
		Email:              a.Email,
		Phone:              a.Phone,
		UserNotes:          a.UserNotes,
		AdminNotes:         a.AdminNotes,
		ValidationCode:     a.ValidationCode,
		ApprovedAt:         a.ApprovedAt,
		CancelledAt:        a.CancelledAt,
		CancellationReason: a.CancellationReason,
		StatusChangedAt:    a.StatusChangedAt,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список domain моделей в response
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	result := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
		Total:        len(appointments),
	}
	for _, a := range appointments {
		result.Appointments = append(result.Appointments, *FromDomainAppointment(a))
	}
	return result
}
