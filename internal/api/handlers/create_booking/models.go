package create_booking

import (
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	createBooking "github.com/m04kA/SMC-BookingEngine/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	CalendarID int64   `json:"calendarId"`
	Date       string  `json:"date"` // "2025-01-06"
	Time       string  `json:"time"` // "09:00"
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	NationalID string  `json:"nationalId"` // CPF или RF
	Notes      *string `json:"notes,omitempty"`
	Consent    bool    `json:"consent"`
}

// BookingResponse HTTP response model
// confirmationToken возвращается только здесь: гость использует его для просмотра и отмены
type BookingResponse struct {
	ID                int64  `json:"id"`
	CalendarID        int64  `json:"calendarId"`
	Date              string `json:"date"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	Status            string `json:"status"`
	RequiresApproval  bool   `json:"requiresApproval"`
	ConfirmationToken string `json:"confirmationToken"`
	ValidationCode    string `json:"validationCode"`
	CreatedAt         string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Разбор даты и времени выполняет валидатор, чтобы ошибки имели единый вид
func (r *CreateBookingRequest) ToUseCaseRequest(actor domain.Actor) *createBooking.Request {
	return &createBooking.Request{
		Actor:        actor,
		CalendarID:   r.CalendarID,
		Date:         r.Date,
		Time:         r.Time,
		Name:         r.Name,
		Email:        r.Email,
		Phone:        r.Phone,
		NationalID:   r.NationalID,
		Notes:        r.Notes,
		ConsentGiven: r.Consent,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:                resp.ID,
		CalendarID:        resp.CalendarID,
		Date:              resp.Date.Format(domain.DateFormat),
		StartTime:         resp.StartTime.String(),
		EndTime:           resp.EndTime.String(),
		Status:            string(resp.Status),
		RequiresApproval:  resp.RequiresApproval,
		ConfirmationToken: resp.ConfirmationToken,
		ValidationCode:    resp.ValidationCode,
		CreatedAt:         resp.CreatedAt.Format(time.RFC3339),
	}
}
