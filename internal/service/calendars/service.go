package calendars

import (
	"context"
	"errors"
	"fmt"

	calendarRepo "github.com/m04kA/SMC-BookingEngine/internal/infra/storage/calendar"
	"github.com/m04kA/SMC-BookingEngine/internal/service/calendars/models"
)

// Service сервис для работы с политиками календарей
type Service struct {
	calendarRepo CalendarRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса календарей
func NewService(calendarRepo CalendarRepository, logger Logger) *Service {
	return &Service{
		calendarRepo: calendarRepo,
		logger:       logger,
	}
}

// GetByID получает политику календаря
// Публичный метод - доступен всем
func (s *Service) GetByID(ctx context.Context, id int64) (*models.CalendarResponse, error) {
	s.logger.Info("GetByID: fetching calendar id=%d", id)

	cal, err := s.calendarRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, calendarRepo.ErrCalendarNotFound) {
			s.logger.Warn("GetByID: calendar id=%d not found", id)
			return nil, ErrCalendarNotFound
		}
		s.logger.Error("GetByID: repository error for calendar id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainCalendar(cal), nil
}

// Update частично обновляет политику календаря
// Доступно только администраторам; результат проверяется на инварианты до записи
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateCalendarRequest) (*models.CalendarResponse, error) {
	s.logger.Info("Update: updating calendar id=%d by %s", id, req.Actor.Ref())

	if !req.Actor.IsElevated() {
		s.logger.Warn("Update: %s is not allowed to update calendar id=%d", req.Actor.Ref(), id)
		return nil, ErrAccessDenied
	}

	cal, err := s.calendarRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, calendarRepo.ErrCalendarNotFound) {
			s.logger.Warn("Update: calendar id=%d not found", id)
			return nil, ErrCalendarNotFound
		}
		s.logger.Error("Update: repository error for calendar id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	req.ApplyToCalendar(cal)

	if err := cal.Validate(); err != nil {
		s.logger.Warn("Update: invalid policy for calendar id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	updated, err := s.calendarRepo.Update(ctx, id, cal)
	if err != nil {
		if errors.Is(err, calendarRepo.ErrCalendarNotFound) {
			s.logger.Warn("Update: calendar id=%d not found during update", id)
			return nil, ErrCalendarNotFound
		}
		s.logger.Error("Update: repository error for calendar id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated calendar id=%d", id)
	return models.FromDomainCalendar(updated), nil
}
