package domain

import (
	"time"

	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

// WorkingHours открытый интервал [Start, End) в конкретный день недели (0 = воскресенье)
type WorkingHours struct {
	Weekday int              `json:"weekday" validate:"min=0,max=6"`
	Start   types.TimeString `json:"start" validate:"required"`
	End     types.TimeString `json:"end" validate:"required"`
}

// Contains возвращает true, если t попадает в [Start, End)
func (w WorkingHours) Contains(t types.TimeString) bool {
	return !t.IsBefore(w.Start) && t.IsBefore(w.End)
}

// WeeklySchedule недельный шаблон рабочих часов
type WeeklySchedule []WorkingHours

// ForWeekday возвращает интервалы для дня недели в порядке объявления
func (s WeeklySchedule) ForWeekday(wd time.Weekday) []WorkingHours {
	result := make([]WorkingHours, 0, 2)
	for _, wh := range s {
		if wh.Weekday == int(wd) {
			result = append(result, wh)
		}
	}
	return result
}

// IsOpenAt проверяет, что время t в дату date попадает хотя бы в один интервал
// День без интервалов полностью недоступен. Кратность сетке слотов не проверяется
func (s WeeklySchedule) IsOpenAt(date time.Time, t types.TimeString) bool {
	for _, wh := range s.ForWeekday(date.Weekday()) {
		if wh.Contains(t) {
			return true
		}
	}
	return false
}
