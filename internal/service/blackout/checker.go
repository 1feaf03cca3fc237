package blackout

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

// DayMask блокировки, действующие в конкретную дату
// Одна и та же маска используется и при показе слотов, и при валидации записи
type DayMask struct {
	Holiday *domain.Holiday
	blocks  []domain.BlockedDate
	date    time.Time
}

// FullDay возвращает true, если дата закрыта целиком
func (m *DayMask) FullDay() bool {
	if m.Holiday != nil {
		return true
	}
	for i := range m.blocks {
		if m.blocks[i].IsFullDay() && m.blocks[i].Blocks(m.date, nil) {
			return true
		}
	}
	return false
}

// Blocks проверяет, закрыто ли время t в дату маски
func (m *DayMask) Blocks(t types.TimeString) bool {
	if m.Holiday != nil {
		return true
	}
	for i := range m.blocks {
		if m.blocks[i].Blocks(m.date, &t) {
			return true
		}
	}
	return false
}

// Reason причина блокировки времени t (пусто, если не заблокировано)
func (m *DayMask) Reason(t types.TimeString) string {
	if m.Holiday != nil {
		return m.Holiday.Name
	}
	for i := range m.blocks {
		if m.blocks[i].Blocks(m.date, &t) {
			return m.blocks[i].Reason
		}
	}
	return ""
}

// Checker проверяет глобальные праздники и блокировки календаря
type Checker struct {
	repo Repository
}

// NewChecker создает новый экземпляр проверки блокировок
func NewChecker(repo Repository) *Checker {
	return &Checker{repo: repo}
}

// IsGloballyBlocked проверяет, выпадает ли на дату глобальный праздник
func (c *Checker) IsGloballyBlocked(ctx context.Context, date time.Time) (bool, error) {
	holiday, err := c.holiday(ctx, date)
	if err != nil {
		return false, err
	}
	return holiday != nil, nil
}

// IsCalendarBlocked проверяет блокировки календаря (и глобальные записи blocked_dates)
// Если t == nil, учитываются только блокировки на весь день
func (c *Checker) IsCalendarBlocked(ctx context.Context, calendarID int64, date time.Time, t *types.TimeString) (bool, error) {
	blocks, err := c.repo.BlockedDatesFor(ctx, calendarID, date)
	if err != nil {
		return false, fmt.Errorf("%w: IsCalendarBlocked - calendar=%d date=%s: %v",
			ErrInternal, calendarID, date.Format(domain.DateFormat), err)
	}
	for i := range blocks {
		if appliesTo(&blocks[i], calendarID) && blocks[i].Blocks(date, t) {
			return true, nil
		}
	}
	return false, nil
}

// IsBlocked объединяет обе проверки: сначала праздник, затем блокировки календаря
func (c *Checker) IsBlocked(ctx context.Context, calendarID int64, date time.Time, t types.TimeString) (bool, error) {
	global, err := c.IsGloballyBlocked(ctx, date)
	if err != nil || global {
		return global, err
	}
	return c.IsCalendarBlocked(ctx, calendarID, date, &t)
}

// ForDate загружает блокировки на дату одним проходом для списка слотов
// Решение по каждому времени совпадает с IsBlocked
func (c *Checker) ForDate(ctx context.Context, calendarID int64, date time.Time) (*DayMask, error) {
	date = domain.DateOnly(date)

	holiday, err := c.holiday(ctx, date)
	if err != nil {
		return nil, err
	}
	if holiday != nil {
		return &DayMask{Holiday: holiday, date: date}, nil
	}

	blocks, err := c.repo.BlockedDatesFor(ctx, calendarID, date)
	if err != nil {
		return nil, fmt.Errorf("%w: ForDate - calendar=%d date=%s: %v",
			ErrInternal, calendarID, date.Format(domain.DateFormat), err)
	}

	active := make([]domain.BlockedDate, 0, len(blocks))
	for i := range blocks {
		if !appliesTo(&blocks[i], calendarID) {
			continue
		}
		active = append(active, blocks[i])
	}

	return &DayMask{blocks: active, date: date}, nil
}

func (c *Checker) holiday(ctx context.Context, date time.Time) (*domain.Holiday, error) {
	holidays, err := c.repo.HolidaysOn(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("%w: holidays on %s: %v", ErrInternal, date.Format(domain.DateFormat), err)
	}
	for i := range holidays {
		if holidays[i].Matches(date) {
			h := holidays[i]
			return &h, nil
		}
	}
	return nil, nil
}

// appliesTo возвращает true для глобальной блокировки или блокировки этого календаря
func appliesTo(b *domain.BlockedDate, calendarID int64) bool {
	return b.CalendarID == nil || *b.CalendarID == calendarID
}
