package models

import (
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

// Request модели

// WorkingHoursDTO интервал рабочих часов
type WorkingHoursDTO struct {
	Weekday int    `json:"weekday"` // 0 = воскресенье
	Start   string `json:"start"`   // "09:00"
	End     string `json:"end"`     // "12:00"
}

// UpdateCalendarRequest частичное обновление политики календаря
// Обновляются только непустые (not nil) поля
type UpdateCalendarRequest struct {
	Actor domain.Actor `json:"-"`

	Name                   *string            `json:"name,omitempty"`
	Status                 *string            `json:"status,omitempty"`
	Timezone               *string            `json:"timezone,omitempty"`
	SlotDurationMinutes    *int               `json:"slotDurationMinutes,omitempty"`
	SlotGapMinutes         *int               `json:"slotGapMinutes,omitempty"`
	MaxAppointmentsPerSlot *int               `json:"maxAppointmentsPerSlot,omitempty"`
	SlotsPerDay            *int               `json:"slotsPerDay,omitempty"`
	AdvanceBookingMinHours *int               `json:"advanceBookingMinHours,omitempty"`
	AdvanceBookingMaxDays  *int               `json:"advanceBookingMaxDays,omitempty"`
	AllowCancellation      *bool              `json:"allowCancellation,omitempty"`
	CancellationMinHours   *int               `json:"cancellationMinHours,omitempty"`
	MinIntervalHours       *int               `json:"minIntervalHours,omitempty"`
	RequiresApproval       *bool              `json:"requiresApproval,omitempty"`
	RequiresLogin          *bool              `json:"requiresLogin,omitempty"`
	AllowedRoles           *[]string          `json:"allowedRoles,omitempty"`
	WorkingHours           *[]WorkingHoursDTO `json:"workingHours,omitempty"`
}

// ApplyToCalendar применяет обновления к существующей политике
func (r *UpdateCalendarRequest) ApplyToCalendar(cal *domain.CalendarPolicy) {
	if r.Name != nil {
		cal.Name = *r.Name
	}
	if r.Status != nil {
		cal.Status = domain.CalendarStatus(*r.Status)
	}
	if r.Timezone != nil {
		cal.Timezone = *r.Timezone
	}
	if r.SlotDurationMinutes != nil {
		cal.SlotDurationMinutes = *r.SlotDurationMinutes
	}
	if r.SlotGapMinutes != nil {
		cal.SlotGapMinutes = *r.SlotGapMinutes
	}
	if r.MaxAppointmentsPerSlot != nil {
		cal.MaxAppointmentsPerSlot = *r.MaxAppointmentsPerSlot
	}
	if r.SlotsPerDay != nil {
		cal.SlotsPerDay = *r.SlotsPerDay
	}
	if r.AdvanceBookingMinHours != nil {
		cal.AdvanceBookingMinHours = *r.AdvanceBookingMinHours
	}
	if r.AdvanceBookingMaxDays != nil {
		cal.AdvanceBookingMaxDays = *r.AdvanceBookingMaxDays
	}
	if r.AllowCancellation != nil {
		cal.AllowCancellation = *r.AllowCancellation
	}
	if r.CancellationMinHours != nil {
		cal.CancellationMinHours = *r.CancellationMinHours
	}
	if r.MinIntervalHours != nil {
		cal.MinIntervalHours = *r.MinIntervalHours
	}
	if r.RequiresApproval != nil {
		cal.RequiresApproval = *r.RequiresApproval
	}
	if r.RequiresLogin != nil {
		cal.RequiresLogin = *r.RequiresLogin
	}
	if r.AllowedRoles != nil {
		cal.AllowedRoles = append([]string{}, (*r.AllowedRoles)...)
	}
	if r.WorkingHours != nil {
		schedule := make(domain.WeeklySchedule, 0, len(*r.WorkingHours))
		for _, wh := range *r.WorkingHours {
			schedule = append(schedule, domain.WorkingHours{
				Weekday: wh.Weekday,
				Start:   types.TimeString(wh.Start),
				End:     types.TimeString(wh.End),
			})
		}
		cal.WorkingHours = schedule
	}
}

// Response модели

// CalendarResponse ответ с политикой календаря
type CalendarResponse struct {
	ID                     int64             `json:"id"`
	Name                   string            `json:"name"`
	Status                 string            `json:"status"`
	Timezone               string            `json:"timezone"`
	SlotDurationMinutes    int               `json:"slotDurationMinutes"`
	SlotGapMinutes         int               `json:"slotGapMinutes"`
	MaxAppointmentsPerSlot int               `json:"maxAppointmentsPerSlot"`
	SlotsPerDay            int               `json:"slotsPerDay"`
	AdvanceBookingMinHours int               `json:"advanceBookingMinHours"`
	AdvanceBookingMaxDays  int               `json:"advanceBookingMaxDays"`
	AllowCancellation      bool              `json:"allowCancellation"`
	CancellationMinHours   int               `json:"cancellationMinHours"`
	MinIntervalHours       int               `json:"minIntervalHours"`
	RequiresApproval       bool              `json:"requiresApproval"`
	RequiresLogin          bool              `json:"requiresLogin"`
	AllowedRoles           []string          `json:"allowedRoles"`
	WorkingHours           []WorkingHoursDTO `json:"workingHours"`
	CreatedAt              time.Time         `json:"createdAt"`
	UpdatedAt              time.Time         `json:"updatedAt"`
}

// FromDomainCalendar конвертирует domain модель в DTO
func FromDomainCalendar(c *domain.CalendarPolicy) *CalendarResponse {
	if c == nil {
		return nil
	}

	hours := make([]WorkingHoursDTO, 0, len(c.WorkingHours))
	for _, wh := range c.WorkingHours {
		hours = append(hours, WorkingHoursDTO{
			Weekday: wh.Weekday,
			Start:   wh.Start.String(),
			End:     wh.End.String(),
		})
	}

	roles := c.AllowedRoles
	if roles == nil {
		roles = []string{}
	}

	return &CalendarResponse{
		ID:                     c.ID,
		Name:                   c.Name,
		Status:                 string(c.Status),
		Timezone:               c.Timezone,
		SlotDurationMinutes:    c.SlotDurationMinutes,
		SlotGapMinutes:         c.SlotGapMinutes,
		MaxAppointmentsPerSlot: c.MaxAppointmentsPerSlot,
		SlotsPerDay:            c.SlotsPerDay,
		AdvanceBookingMinHours: c.AdvanceBookingMinHours,
		AdvanceBookingMaxDays:  c.AdvanceBookingMaxDays,
		AllowCancellation:      c.AllowCancellation,
		CancellationMinHours:   c.CancellationMinHours,
		MinIntervalHours:       c.MinIntervalHours,
		RequiresApproval:       c.RequiresApproval,
		RequiresLogin:          c.RequiresLogin,
		AllowedRoles:           roles,
		WorkingHours:           hours,
		CreatedAt:              c.CreatedAt,
		UpdatedAt:              c.UpdatedAt,
	}
}
