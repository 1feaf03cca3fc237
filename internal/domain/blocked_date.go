package domain

import (
	"time"

	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

// Recurrence правило повторения блокировки
type Recurrence string

const (
	RecurrenceNone   Recurrence = "none"
	RecurrenceWeekly Recurrence = "weekly"
	RecurrenceYearly Recurrence = "yearly"
)

// BlockedDate исключение из расписания: весь день или интервал времени,
// для конкретного календаря (CalendarID != nil) или для всех
type BlockedDate struct {
	ID         int64
	CalendarID *int64
	StartDate  time.Time
	EndDate    time.Time
	StartTime  *types.TimeString // nil = весь день
	EndTime    *types.TimeString // nil = до конца дня
	Recurrence Recurrence
	RecurUntil *time.Time
	Reason     string
}

// IsFullDay возвращает true, если блокируется весь день
func (b *BlockedDate) IsFullDay() bool {
	return b.StartTime == nil
}

// Blocks проверяет, закрывает ли запись дату и (опционально) время
// Частичная блокировка без указания времени дату целиком не закрывает
func (b *BlockedDate) Blocks(date time.Time, t *types.TimeString) bool {
	if !b.coversDate(DateOnly(date)) {
		return false
	}
	if b.IsFullDay() {
		return true
	}
	if t == nil {
		return false
	}
	if t.IsBefore(*b.StartTime) {
		return false
	}
	return b.EndTime == nil || t.IsBefore(*b.EndTime)
}

func (b *BlockedDate) coversDate(d time.Time) bool {
	start, end := DateOnly(b.StartDate), DateOnly(b.EndDate)
	if end.Before(start) {
		end = start
	}
	span := DaysBetween(start, end)

	switch b.Recurrence {
	case RecurrenceWeekly:
		if d.Before(start) || (b.RecurUntil != nil && d.After(DateOnly(*b.RecurUntil))) {
			return false
		}
		return DaysBetween(start, d)%7 <= span
	case RecurrenceYearly:
		if d.Before(start) || (b.RecurUntil != nil && d.After(DateOnly(*b.RecurUntil))) {
			return false
		}
		// Диапазон может переходить через Новый год, поэтому проверяем и прошлогодний
		for _, year := range []int{d.Year(), d.Year() - 1} {
			from := time.Date(year, start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
			if !d.Before(from) && DaysBetween(from, d) <= span {
				return true
			}
		}
		return false
	default:
		return !d.Before(start) && !d.After(end)
	}
}

// Holiday глобальный выходной для всех календарей
type Holiday struct {
	ID              int64
	Date            time.Time
	RecurringYearly bool
	Name            string
}

// Matches проверяет, совпадает ли праздник с датой
func (h *Holiday) Matches(date time.Time) bool {
	d, hd := DateOnly(date), DateOnly(h.Date)
	if h.RecurringYearly {
		return d.Month() == hd.Month() && d.Day() == hd.Day() && !d.Before(hd)
	}
	return d.Equal(hd)
}

// DateOnly отбрасывает время и часовой пояс, сохраняя календарную дату
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween количество календарных дней от a до b
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}
