package capacity

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

// Gate проверяет вместимость слота и дневной лимит календаря
type Gate struct {
	store AppointmentStore
}

// NewGate создает новый экземпляр проверки вместимости
func NewGate(store AppointmentStore) *Gate {
	return &Gate{store: store}
}

// CheckSlot возвращает domain.ErrSlotFull, если в слоте не осталось мест
func (g *Gate) CheckSlot(ctx context.Context, cal *domain.CalendarPolicy, date time.Time, startTime types.TimeString, locked bool) error {
	available, err := g.store.IsSlotAvailable(ctx, cal.ID, date, startTime, cal.MaxAppointmentsPerSlot, locked)
	if err != nil {
		return fmt.Errorf("%w: CheckSlot - calendar=%d date=%s time=%s: %w",
			ErrInternal, cal.ID, date.Format(domain.DateFormat), startTime, err)
	}
	if !available {
		return domain.ErrSlotFull
	}
	return nil
}

// CheckDaily возвращает domain.ErrDailyLimit, если дневной лимит исчерпан
// Без лимита (SlotsPerDay = 0) ничего не читает
func (g *Gate) CheckDaily(ctx context.Context, cal *domain.CalendarPolicy, date time.Time, locked bool) error {
	if !cal.HasDailyCap() {
		return nil
	}

	count, err := g.store.CountForDate(ctx, cal.ID, date, domain.CapacityStatuses, locked)
	if err != nil {
		return fmt.Errorf("%w: CheckDaily - calendar=%d date=%s: %w",
			ErrInternal, cal.ID, date.Format(domain.DateFormat), err)
	}
	if count >= cal.SlotsPerDay {
		return domain.ErrDailyLimit
	}
	return nil
}

// Check выполняет обе проверки в порядке: слот, затем день
func (g *Gate) Check(ctx context.Context, cal *domain.CalendarPolicy, date time.Time, startTime types.TimeString, locked bool) error {
	if err := g.CheckSlot(ctx, cal, date, startTime, locked); err != nil {
		return err
	}
	return g.CheckDaily(ctx, cal, date, locked)
}

// Snapshot занятость дня без блокировки (для списка слотов)
type Snapshot struct {
	bySlot     map[types.TimeString]int
	daily      int
	perSlot    int
	dailyLimit int
}

// Available количество свободных мест в слоте
func (s *Snapshot) Available(startTime types.TimeString) int {
	left := s.perSlot - s.taken(startTime)
	if left < 0 {
		return 0
	}
	return left
}

// DailyCapReached возвращает true, если дневной лимит уже исчерпан
func (s *Snapshot) DailyCapReached() bool {
	return s.dailyLimit > 0 && s.daily >= s.dailyLimit
}

// taken сравнивает время по секундам: ключи из БД и из сетки слотов могут отличаться формой записи
func (s *Snapshot) taken(startTime types.TimeString) int {
	if n, ok := s.bySlot[startTime]; ok {
		return n
	}
	for t, n := range s.bySlot {
		if t.Equal(startTime) {
			return n
		}
	}
	return 0
}

// Snapshot читает занятость всех слотов дня
func (g *Gate) Snapshot(ctx context.Context, cal *domain.CalendarPolicy, date time.Time) (*Snapshot, error) {
	bySlot, err := g.store.CountBySlot(ctx, cal.ID, date)
	if err != nil {
		return nil, fmt.Errorf("%w: Snapshot - calendar=%d date=%s: %w",
			ErrInternal, cal.ID, date.Format(domain.DateFormat), err)
	}

	daily := 0
	for _, n := range bySlot {
		daily += n
	}

	return &Snapshot{
		bySlot:     bySlot,
		daily:      daily,
		perSlot:    cal.MaxAppointmentsPerSlot,
		dailyLimit: cal.SlotsPerDay,
	}, nil
}
