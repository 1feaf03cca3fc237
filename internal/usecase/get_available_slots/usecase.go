package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	calendarRepo "github.com/m04kA/SMC-BookingEngine/internal/infra/storage/calendar"
	"github.com/m04kA/SMC-BookingEngine/internal/service/blackout"
	"github.com/m04kA/SMC-BookingEngine/internal/service/capacity"
)

// UseCase use case для получения доступных слотов для записи
type UseCase struct {
	calendarRepo CalendarRepository
	blackout     BlackoutMask
	capacity     CapacitySnapshot
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	calendarRepo CalendarRepository,
	blackout BlackoutMask,
	capacity CapacitySnapshot,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		calendarRepo: calendarRepo,
		blackout:     blackout,
		capacity:     capacity,
		txManager:    txManager,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
// Показываются те же слоты, которые пройдут проверки записи без учета identity и авторизации
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: calendar=%d, date=%s", req.CalendarID, req.Date)

	// 1. Валидация входных данных
	dateStr := strings.TrimSpace(req.Date)
	if dateStr == "" {
		uc.logger.Warn("GetAvailableSlots: date is empty")
		return nil, domain.ErrMissingFields
	}
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: invalid date=%s", req.Date)
		return nil, domain.ErrInvalidDate
	}

	// 2. Календарь
	cal, err := uc.calendarRepo.GetByID(ctx, req.CalendarID)
	if err != nil {
		if errors.Is(err, calendarRepo.ErrCalendarNotFound) {
			uc.logger.Warn("GetAvailableSlots: calendar id=%d not found", req.CalendarID)
			return nil, domain.ErrInvalidCalendar
		}
		uc.logger.Error("GetAvailableSlots: failed to get calendar id=%d: %v", req.CalendarID, err)
		return nil, domain.ErrInternal
	}
	if !cal.IsActive() {
		uc.logger.Warn("GetAvailableSlots: calendar id=%d is %s", cal.ID, cal.Status)
		return nil, domain.ErrCalendarInactive
	}

	resp := &Response{
		CalendarID:      cal.ID,
		Date:            date,
		Timezone:        cal.Location().String(),
		DurationMinutes: cal.SlotDurationMinutes,
		Slots:           []domain.AvailableSlot{},
	}

	// 3. Сетка слотов по рабочим часам
	candidates := generateTimeSlots(cal, date)
	if len(candidates) == 0 {
		uc.logger.Info("GetAvailableSlots: calendar id=%d is closed on %s", cal.ID, dateStr)
		return resp, nil
	}

	// 4. Блокировки и занятость из одного снимка
	var (
		mask     *blackout.DayMask
		snapshot *capacity.Snapshot
	)
	err = uc.txManager.DoReadOnly(ctx, func(ctx context.Context) error {
		var err error
		if mask, err = uc.blackout.ForDate(ctx, cal.ID, date); err != nil {
			return fmt.Errorf("read blackouts: %w", err)
		}
		if snapshot, err = uc.capacity.Snapshot(ctx, cal, date); err != nil {
			return fmt.Errorf("read occupancy: %w", err)
		}
		return nil
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: calendar=%d date=%s: %v", cal.ID, dateStr, err)
		return nil, domain.ErrInternal
	}

	resp.Slots = filterSlots(cal, date, candidates, mask, snapshot, uc.timeProvider.Now())

	uc.logger.Info("GetAvailableSlots: found %d available slots for calendar=%d on %s", len(resp.Slots), cal.ID, dateStr)
	return resp, nil
}
