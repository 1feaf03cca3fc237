package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/events"
	appointmentRepo "github.com/m04kA/SMC-BookingEngine/internal/infra/storage/appointment"
	calendarRepo "github.com/m04kA/SMC-BookingEngine/internal/infra/storage/calendar"
	"github.com/m04kA/SMC-BookingEngine/internal/integrations/identityservice"
	"github.com/m04kA/SMC-BookingEngine/internal/service/validation"
	"github.com/m04kA/SMC-BookingEngine/pkg/nationalid"
)

// autoApprover автор подтверждения для календарей без ручного подтверждения
const autoApprover = "system"

const outcomeCreated = "created"

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	calendarRepo    CalendarRepository
	validator       Validator
	capacity        CapacityGate
	interval        IntervalLimiter
	locks           IdentityLocker
	resolver        IdentityResolver
	codes           CodeGenerator
	hasher          NationalIDHasher
	txManager       TransactionManager
	publisher       EventPublisher
	outcomes        OutcomeCounter
	timeProvider    TimeProvider
	logger          Logger

	maxCodeAttempts int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(deps Dependencies, maxCodeAttempts int) *UseCase {
	if maxCodeAttempts <= 0 {
		maxCodeAttempts = DefaultMaxCodeAttempts
	}
	timeProvider := deps.TimeProvider
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}

	return &UseCase{
		appointmentRepo: deps.Appointments,
		calendarRepo:    deps.Calendars,
		validator:       deps.Validator,
		capacity:        deps.Capacity,
		interval:        deps.Interval,
		locks:           deps.Locks,
		resolver:        deps.Resolver,
		codes:           deps.Codes,
		hasher:          deps.Hasher,
		txManager:       deps.TxManager,
		publisher:       deps.Publisher,
		outcomes:        deps.Outcomes,
		timeProvider:    timeProvider,
		logger:          deps.Logger,
		maxCodeAttempts: maxCodeAttempts,
	}
}

// Execute выполняет use case создания записи
// Ожидаемый отказ возвращается как *domain.BookingError, любой другой сбой - как domain.ErrInternal
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: calendar=%d, date=%s, time=%s, by %s",
		req.CalendarID, req.Date, req.Time, req.Actor.Ref())

	resp, err := uc.execute(ctx, req)
	if err != nil {
		var bErr *domain.BookingError
		if !errors.As(err, &bErr) {
			uc.logger.Error("CreateBooking: calendar=%d, date=%s, time=%s: %v",
				req.CalendarID, req.Date, req.Time, err)
			err = domain.ErrInternal
		} else {
			uc.logger.Warn("CreateBooking: rejected calendar=%d, date=%s, time=%s: %s",
				req.CalendarID, req.Date, req.Time, bErr.Kind)
		}
		uc.recordOutcome(string(domain.KindOf(err)))
		return nil, err
	}

	uc.recordOutcome(outcomeCreated)
	uc.logger.Info("CreateBooking: created appointment id=%d, status=%s", resp.ID, resp.Status)
	return resp, nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Согласие на обработку данных
	if !req.ConsentGiven {
		return nil, domain.ErrConsentRequired
	}
	if req.Notes != nil && len([]rune(*req.Notes)) > domain.MaxNotesLength {
		return nil, domain.NewBookingError(domain.KindInvalidRequest, "notes are too long")
	}

	// 2. Календарь
	cal, err := uc.calendarRepo.GetByID(ctx, req.CalendarID)
	if err != nil {
		if errors.Is(err, calendarRepo.ErrCalendarNotFound) {
			return nil, domain.ErrInvalidCalendar
		}
		return nil, fmt.Errorf("%w: failed to get calendar: %v", ErrInternal, err)
	}
	if !cal.IsActive() {
		return nil, domain.ErrCalendarInactive
	}

	// 3. Identity для ограничителя интервала
	email := normalizeEmail(req.Email)
	identity := uc.identityFor(req, email)

	// 4. Все проверки без блокировки
	res, err := uc.validator.Validate(ctx, validation.Input{
		Calendar:   cal,
		Date:       req.Date,
		Time:       req.Time,
		Actor:      req.Actor,
		Email:      email,
		NationalID: req.NationalID,
		Identity:   identity,
	})
	if err != nil {
		return nil, err
	}

	// 5. Аккаунт для гостя с email и национальным номером
	if err := uc.resolveAccount(ctx, req, &identity); err != nil {
		return nil, err
	}

	now := uc.timeProvider.Now()
	status := domain.InitialStatus(cal.RequiresApproval)

	appt := &domain.Appointment{
		CalendarID:        cal.ID,
		Date:              res.Date,
		StartTime:         res.StartTime,
		EndTime:           res.EndTime,
		Identity:          identity,
		UserNotes:         req.Notes,
		Status:            status,
		ConfirmationToken: uuid.NewString(),
		ConsentGiven:      true,
		ConsentAt:         now,
		ConsentIP:         req.Actor.IP,
	}
	if status == domain.StatusConfirmed {
		approvedAt, approvedBy := now, autoApprover
		appt.ApprovedAt = &approvedAt
		appt.ApprovedBy = &approvedBy
	}

	// 6. Повторные проверки вместимости и интервала и вставка в одной транзакции
	// Сначала блокировка identity, затем дня: порядок одинаков для всех записей
	var created *domain.Appointment
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if cal.HasCooldown() && identity.IsResolvable() {
			if err := uc.locks.LockIdentity(txCtx, cal.ID, identity); err != nil {
				return fmt.Errorf("%w: failed to lock identity: %v", ErrInternal, err)
			}
		}
		if err := uc.capacity.Check(txCtx, cal, res.Date, res.StartTime, true); err != nil {
			return err
		}
		if err := uc.interval.Check(txCtx, cal, identity, res.StartsAt); err != nil {
			return err
		}

		created, err = uc.insertWithCode(txCtx, appt)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrCodesExhausted) {
			uc.logger.Error("CreateBooking: %v", err)
			return nil, domain.ErrCreationFailed
		}
		return nil, err
	}

	// 7. Событие после фиксации
	uc.publisher.Publish(ctx, events.Event{
		Name:             events.AppointmentCreated,
		Appointment:      *created,
		Calendar:         *cal,
		RequiresApproval: created.RequiresApproval(),
		Actor:            req.Actor.Ref(),
		OccurredAt:       now,
	})

	return &Response{
		ID:                created.ID,
		CalendarID:        created.CalendarID,
		Date:              created.Date,
		StartTime:         created.StartTime,
		EndTime:           created.EndTime,
		Status:            created.Status,
		RequiresApproval:  created.RequiresApproval(),
		ConfirmationToken: created.ConfirmationToken,
		ValidationCode:    created.ValidationCode,
		CreatedAt:         created.CreatedAt,
	}, nil
}

// insertWithCode подбирает свободный код: коллизия не прерывает транзакцию, код генерируется заново
func (uc *UseCase) insertWithCode(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	for attempt := 1; attempt <= uc.maxCodeAttempts; attempt++ {
		code, err := uc.codes.Generate()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to generate code: %v", ErrInternal, err)
		}

		candidate := *appt
		candidate.ValidationCode = code

		created, err := uc.appointmentRepo.Create(ctx, &candidate)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, appointmentRepo.ErrCodeCollision) {
			return nil, fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}
		uc.logger.Warn("CreateBooking: validation code collision, attempt %d of %d", attempt, uc.maxCodeAttempts)
	}
	return nil, fmt.Errorf("%w: %d attempts", ErrCodesExhausted, uc.maxCodeAttempts)
}

func (uc *UseCase) identityFor(req *Request, email string) domain.Identity {
	identity := domain.Identity{
		Email: email,
		Phone: strings.TrimSpace(req.Phone),
	}
	if req.Actor.IsAuthenticated() {
		accountID := req.Actor.AccountID
		identity.AccountID = &accountID
	}
	if digits := nationalid.Normalize(req.NationalID); digits != "" {
		identity.NationalIDHash = uc.hasher.Hash(digits)
	}
	return identity
}

// resolveAccount привязывает гостевую запись к аккаунту внешнего сервиса
func (uc *UseCase) resolveAccount(ctx context.Context, req *Request, identity *domain.Identity) error {
	if uc.resolver == nil || identity.AccountID != nil {
		return nil
	}
	if identity.Email == "" || identity.NationalIDHash == "" {
		return nil
	}

	accountID, err := uc.resolver.ResolveOrCreate(ctx, identity.NationalIDHash, identity.Email, identityservice.Profile{
		Name:  strings.TrimSpace(req.Name),
		Phone: identity.Phone,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to resolve identity: %v", ErrInternal, err)
	}

	identity.AccountID = &accountID
	uc.logger.Info("CreateBooking: guest resolved to account id=%d", accountID)
	return nil
}

func (uc *UseCase) recordOutcome(outcome string) {
	if uc.outcomes == nil {
		return
	}
	uc.outcomes.WithLabelValues(outcome).Inc()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
