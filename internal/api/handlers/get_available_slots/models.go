package get_available_slots

import (
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-BookingEngine/internal/usecase/get_available_slots"
)

// SlotResponse HTTP модель одного слота
type SlotResponse struct {
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	AvailableSpots int    `json:"availableSpots"`
	TotalSpots     int    `json:"totalSpots"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	CalendarID      int64          `json:"calendarId"`
	Date            string         `json:"date"`
	Timezone        string         `json:"timezone"`
	DurationMinutes int            `json:"durationMinutes"`
	Slots           []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartTime:      s.StartTime.String(),
			EndTime:        s.EndTime.String(),
			AvailableSpots: s.AvailableSpots,
			TotalSpots:     s.TotalSpots,
		})
	}

	return &AvailableSlotsResponse{
		CalendarID:      resp.CalendarID,
		Date:            resp.Date.Format(domain.DateFormat),
		Timezone:        resp.Timezone,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}
