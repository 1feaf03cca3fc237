package domain

import "github.com/m04kA/SMC-BookingEngine/pkg/types"

// AvailableSlot слот, доступный для записи
type AvailableSlot struct {
	StartTime      types.TimeString
	EndTime        types.TimeString
	AvailableSpots int
	TotalSpots     int
}

// IsFull возвращает true, если мест не осталось
func (s *AvailableSlot) IsFull() bool {
	return s.AvailableSpots <= 0
}

// IsFullyAvailable возвращает true, если слот пуст
func (s *AvailableSlot) IsFullyAvailable() bool {
	return s.AvailableSpots == s.TotalSpots
}

// OccupancyRate процент занятости (0-100)
func (s *AvailableSlot) OccupancyRate() float64 {
	if s.TotalSpots == 0 {
		return 0
	}
	occupied := s.TotalSpots - s.AvailableSpots
	return float64(occupied) / float64(s.TotalSpots) * 100
}
