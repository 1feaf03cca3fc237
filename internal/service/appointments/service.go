package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/events"
	appointmentRepo "github.com/m04kA/SMC-BookingEngine/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-BookingEngine/internal/service/appointments/models"
)

// Service сервис для чтения записей и административных переходов статуса
type Service struct {
	appointmentRepo AppointmentRepository
	calendarRepo    CalendarRepository
	publisher       EventPublisher
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	calendarRepo CalendarRepository,
	publisher EventPublisher,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		calendarRepo:    calendarRepo,
		publisher:       publisher,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Доступ: администратор, владелец-аккаунт или гость с токеном подтверждения
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor, token string) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d by %s", id, actor.Ref())

	appt, err := s.load(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !canView(appt, actor, token) {
		s.logger.Warn("GetByID: access denied for %s to appointment id=%d", actor.Ref(), id)
		return nil, domain.ErrUnauthorized
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appt), nil
}

// GetAccountAppointments получает историю записей аккаунта, опционально с фильтром по статусу
// Аккаунт видит только свои записи, администратор - любые
func (s *Service) GetAccountAppointments(ctx context.Context, req *models.GetAccountAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetAccountAppointments: fetching appointments for account=%d, status=%v by %s",
		req.AccountID, req.Status, req.Actor.Ref())

	if !req.Actor.IsElevated() && req.Actor.AccountID != req.AccountID {
		s.logger.Warn("GetAccountAppointments: %s cannot read account=%d", req.Actor.Ref(), req.AccountID)
		return nil, domain.ErrUnauthorized
	}

	var status *domain.AppointmentStatus
	if req.Status != nil {
		parsed, ok := domain.ParseAppointmentStatus(*req.Status)
		if !ok {
			s.logger.Warn("GetAccountAppointments: invalid status=%s", *req.Status)
			return nil, domain.NewBookingError(domain.KindInvalidRequest, "unknown status "+*req.Status)
		}
		status = &parsed
	}

	list, err := s.appointmentRepo.GetByAccountID(ctx, req.AccountID, status)
	if err != nil {
		s.logger.Error("GetAccountAppointments: repository error for account=%d: %v", req.AccountID, err)
		return nil, fmt.Errorf("%w: GetAccountAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetAccountAppointments: successfully fetched %d appointments for account=%d", len(list), req.AccountID)
	return models.FromDomainAppointmentList(list), nil
}

// UpdateStatus административный переход: подтверждение, завершение или неявка
// Отмена выполняется отдельным сценарием с проверкой сроков
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: appointment id=%d to status=%s by %s", id, req.Status, req.Actor.Ref())

	if !req.Actor.IsElevated() {
		s.logger.Warn("UpdateStatus: %s is not allowed to change status", req.Actor.Ref())
		return nil, domain.ErrUnauthorized
	}

	to, ok := domain.ParseAppointmentStatus(req.Status)
	if !ok || to == domain.StatusPending || to == domain.StatusCancelled {
		s.logger.Warn("UpdateStatus: unsupported target status=%s", req.Status)
		return nil, domain.NewBookingError(domain.KindInvalidRequest, "status must be confirmed, completed or no_show")
	}

	appt, err := s.load(ctx, "UpdateStatus", id)
	if err != nil {
		return nil, err
	}

	tr := domain.Transition{
		To:     to,
		Actor:  req.Actor.Ref(),
		Reason: req.Reason,
		At:     s.timeProvider.Now(),
	}

	// Проверка на копии: атомарный UPDATE ниже повторит ее в WHERE
	preview := *appt
	if err := preview.Apply(tr); err != nil {
		s.logger.Warn("UpdateStatus: appointment id=%d: %v", id, err)
		return nil, err
	}

	changed, err := s.appointmentRepo.Transition(ctx, id, tr)
	if err != nil {
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}
	if !changed {
		// Статус изменился между чтением и обновлением
		s.logger.Warn("UpdateStatus: appointment id=%d changed concurrently", id)
		return nil, domain.ErrInvalidTransition
	}

	cal, err := s.calendarRepo.GetByID(ctx, appt.CalendarID)
	if err != nil {
		// Переход уже зафиксирован; без календаря событие не отправляем
		s.logger.Error("UpdateStatus: failed to load calendar id=%d for event: %v", appt.CalendarID, err)
	} else {
		s.publisher.Publish(ctx, events.Event{
			Name:        events.ForStatus(to),
			Appointment: preview,
			Calendar:    *cal,
			Reason:      req.Reason,
			Actor:       tr.Actor,
			OccurredAt:  tr.At,
		})
	}

	s.logger.Info("UpdateStatus: appointment id=%d is now %s", id, to)
	return models.FromDomainAppointment(&preview), nil
}

func (s *Service) load(ctx context.Context, op string, id int64) (*domain.Appointment, error) {
	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, domain.ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appt, nil
}

func canView(appt *domain.Appointment, actor domain.Actor, token string) bool {
	if actor.IsElevated() {
		return true
	}
	if actor.IsAuthenticated() && appt.OwnedBy(actor.AccountID) {
		return true
	}
	return appt.MatchesToken(token)
}
