package get_available_slots

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/blackout"
	"github.com/m04kA/SMC-BookingEngine/internal/service/capacity"
	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

// generateTimeSlots генерирует сетку слотов дня
// Каждый рабочий интервал режется с шагом длительность + перерыв, слот должен закончиться не позже конца интервала
func generateTimeSlots(cal *domain.CalendarPolicy, date time.Time) []types.TimeString {
	step := cal.SlotDurationMinutes + cal.SlotGapMinutes
	if cal.SlotDurationMinutes <= 0 || step <= 0 {
		return []types.TimeString{}
	}

	slots := make([]types.TimeString, 0)
	for _, wh := range cal.WorkingHours.ForWeekday(date.Weekday()) {
		current := wh.Start
		for current.IsBefore(wh.End) {
			slotEnd, err := current.AddMinutes(cal.SlotDurationMinutes)
			if err != nil || slotEnd.IsAfter(wh.End) {
				break
			}
			slots = append(slots, current)

			current, err = current.AddMinutes(step)
			if err != nil {
				break
			}
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].IsBefore(slots[j]) })
	return slots
}

// filterSlots убирает прошедшие, слишком ранние, слишком поздние, заблокированные и заполненные слоты
func filterSlots(
	cal *domain.CalendarPolicy,
	date time.Time,
	candidates []types.TimeString,
	mask *blackout.DayMask,
	snapshot *capacity.Snapshot,
	now time.Time,
) []domain.AvailableSlot {
	result := make([]domain.AvailableSlot, 0, len(candidates))
	if mask.FullDay() || snapshot.DailyCapReached() {
		return result
	}

	loc := cal.Location()
	earliest := now.Add(time.Duration(cal.AdvanceBookingMinHours) * time.Hour)

	var last types.TimeString
	for i, start := range candidates {
		// Пересекающиеся интервалы могут дать одинаковое время
		if i > 0 && start.Equal(last) {
			continue
		}
		last = start

		startsAt := start.On(date, loc)
		if startsAt.Before(now) || startsAt.Before(earliest) {
			continue
		}
		if cal.AdvanceBookingMaxDays > 0 && startsAt.After(now.AddDate(0, 0, cal.AdvanceBookingMaxDays)) {
			continue
		}
		if mask.Blocks(start) {
			continue
		}

		available := snapshot.Available(start)
		if available <= 0 {
			continue
		}

		end, _ := start.AddMinutes(cal.SlotDurationMinutes)
		result = append(result, domain.AvailableSlot{
			StartTime:      start,
			EndTime:        end,
			AvailableSpots: available,
			TotalSpots:     cal.MaxAppointmentsPerSlot,
		})
	}

	return result
}
