package cancel_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/events"
	appointmentRepo "github.com/m04kA/SMC-BookingEngine/internal/infra/storage/appointment"
)

// UseCase use case для отмены записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	calendarRepo    CalendarRepository
	publisher       EventPublisher
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	calendarRepo CalendarRepository,
	publisher EventPublisher,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		calendarRepo:    calendarRepo,
		publisher:       publisher,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Execute выполняет use case отмены записи
// Ожидаемый отказ возвращается как *domain.BookingError, любой другой сбой - как domain.ErrInternal
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelAppointment: appointment id=%d by %s", req.AppointmentID, req.Actor.Ref())

	resp, err := uc.execute(ctx, req)
	if err != nil {
		var bErr *domain.BookingError
		if errors.As(err, &bErr) {
			uc.logger.Warn("CancelAppointment: rejected appointment id=%d: %s", req.AppointmentID, bErr.Kind)
			return nil, err
		}
		uc.logger.Error("CancelAppointment: appointment id=%d: %v", req.AppointmentID, err)
		return nil, domain.ErrInternal
	}

	uc.logger.Info("CancelAppointment: appointment id=%d cancelled by %s", resp.ID, resp.CancelledBy)
	return resp, nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	if req.Reason != nil && len([]rune(*req.Reason)) > domain.MaxCancellationReasonLength {
		return nil, domain.NewBookingError(domain.KindInvalidRequest, "cancellation reason is too long")
	}

	// 1. Запись
	appt, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	// 2. Состояние
	if appt.IsCancelled() {
		return nil, domain.ErrAlreadyCancelled
	}
	if !appt.Status.CanTransitionTo(domain.StatusCancelled) {
		return nil, domain.ErrInvalidTransition
	}

	// 3. Право на отмену
	if !canCancel(appt, req.Actor, req.Token) {
		return nil, domain.ErrUnauthorized
	}

	cal, err := uc.calendarRepo.GetByID(ctx, appt.CalendarID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get calendar id=%d: %v", ErrInternal, appt.CalendarID, err)
	}

	now := uc.timeProvider.Now()

	// 4. Политика календаря; администратор её не учитывает
	if !req.Actor.IsElevated() {
		if !cal.AllowCancellation {
			return nil, domain.ErrCancellationDisabled
		}
		deadline := time.Duration(cal.CancellationMinHours) * time.Hour
		if appt.StartsAt(cal.Location()).Sub(now) < deadline {
			return nil, domain.ErrDeadlinePassed
		}
	}

	// 5. Атомарный переход; проигравший гонку видит уже отмененную запись
	tr := domain.Transition{
		To:     domain.StatusCancelled,
		Actor:  req.Actor.Ref(),
		Reason: req.Reason,
		At:     now,
	}
	changed, err := uc.appointmentRepo.Transition(ctx, appt.ID, tr)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to cancel appointment: %v", ErrInternal, err)
	}
	if !changed {
		return nil, domain.ErrAlreadyCancelled
	}

	cancelled := *appt
	if err := cancelled.Apply(tr); err != nil {
		return nil, err
	}

	// 6. Событие после фиксации
	uc.publisher.Publish(ctx, events.Event{
		Name:        events.AppointmentCancelled,
		Appointment: cancelled,
		Calendar:    *cal,
		Reason:      req.Reason,
		Actor:       tr.Actor,
		OccurredAt:  now,
	})

	return &Response{
		ID:          cancelled.ID,
		Status:      cancelled.Status,
		CancelledAt: now,
		CancelledBy: tr.Actor,
	}, nil
}

// canCancel администратор всегда; владелец - при наличии права; гость - по точному совпадению токена
func canCancel(appt *domain.Appointment, actor domain.Actor, token string) bool {
	if actor.IsElevated() {
		return true
	}
	if actor.IsAuthenticated() {
		return appt.OwnedBy(actor.AccountID) && actor.Can(domain.PermCancelOwnAppointments)
	}
	return appt.MatchesToken(token)
}
