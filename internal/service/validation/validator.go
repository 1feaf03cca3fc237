package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/pkg/nationalid"
	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

// Validator цепочка проверок записи; первая неудачная проверка прерывает цепочку
// Ожидаемые отказы возвращаются как *domain.BookingError, остальные ошибки - как есть
type Validator struct {
	blackout   BlackoutChecker
	capacity   CapacityGate
	interval   IntervalLimiter
	nationalID NationalIDValidator
	clock      TimeProvider
}

// NewValidator создает новый экземпляр валидатора
func NewValidator(
	blackout BlackoutChecker,
	capacity CapacityGate,
	interval IntervalLimiter,
	nationalID NationalIDValidator,
	clock TimeProvider,
) *Validator {
	return &Validator{
		blackout:   blackout,
		capacity:   capacity,
		interval:   interval,
		nationalID: nationalID,
		clock:      clock,
	}
}

// Validate выполняет все проверки в фиксированном порядке:
// сначала дешевые (формат, время), затем обращения к хранилищу, затем авторизация и identity
func (v *Validator) Validate(ctx context.Context, in Input) (*Result, error) {
	cal := in.Calendar

	// 1. Обязательные поля
	date, timeStr := strings.TrimSpace(in.Date), strings.TrimSpace(in.Time)
	if date == "" || timeStr == "" {
		return nil, domain.ErrMissingFields
	}

	// 2. Формат даты и времени
	day, err := time.Parse(domain.DateFormat, date)
	if err != nil {
		return nil, domain.ErrInvalidDate
	}
	startTime, err := types.NewTimeStringFromString(timeStr)
	if err != nil {
		return nil, domain.ErrInvalidTime
	}
	startsAt := startTime.On(day, cal.Location())
	now := v.clock.Now()

	// 3-5. Временное окно
	if err := checkWindow(cal, startsAt, now); err != nil {
		return nil, err
	}

	// 6. Праздники и блокировки
	blocked, err := v.blackout.IsBlocked(ctx, cal.ID, day, startTime)
	if err != nil {
		return nil, fmt.Errorf("blackout check: %w", err)
	}
	if blocked {
		return nil, domain.ErrDateBlocked
	}

	// 7. Рабочие часы (только попадание в интервал, без выравнивания по сетке)
	if !cal.WorkingHours.IsOpenAt(day, startTime) {
		return nil, domain.ErrOutsideHours
	}

	// Рабочие часы ограничивают только начало; конец слота может перейти через полночь
	endTime := startTime.AddMinutesWrap(cal.SlotDurationMinutes)

	// 8-9. Вместимость
	if err := v.capacity.CheckSlot(ctx, cal, day, startTime, in.Locked); err != nil {
		return nil, err
	}
	if err := v.capacity.CheckDaily(ctx, cal, day, in.Locked); err != nil {
		return nil, err
	}

	// 10. Интервал между записями
	if err := v.interval.Check(ctx, cal, in.Identity, startsAt); err != nil {
		return nil, err
	}

	// 11-13. Авторизация
	if err := checkAuthorization(cal, in.Actor, in.Email); err != nil {
		return nil, err
	}

	// 14. Национальный номер
	digits, err := v.checkNationalID(in.Actor, in.NationalID)
	if err != nil {
		return nil, err
	}

	return &Result{
		Date:       day,
		StartTime:  startTime,
		EndTime:    endTime,
		StartsAt:   startsAt,
		NationalID: digits,
	}, nil
}

func checkWindow(cal *domain.CalendarPolicy, startsAt, now time.Time) error {
	if startsAt.Before(now) {
		return domain.ErrPastDate
	}
	if cal.AdvanceBookingMinHours > 0 && startsAt.Before(now.Add(time.Duration(cal.AdvanceBookingMinHours)*time.Hour)) {
		return domain.ErrTooSoon
	}
	if cal.AdvanceBookingMaxDays > 0 && startsAt.After(now.AddDate(0, 0, cal.AdvanceBookingMaxDays)) {
		return domain.ErrTooFar
	}
	return nil
}

// checkAuthorization администратор проходит без проверок прав и ролей
func checkAuthorization(cal *domain.CalendarPolicy, actor domain.Actor, email string) error {
	elevated := actor.IsElevated()

	if actor.IsAuthenticated() && !elevated && !actor.Can(domain.PermBookAppointments) {
		return domain.ErrCapabilityDenied
	}

	if cal.RequiresLogin && !actor.IsAuthenticated() {
		return domain.ErrLoginRequired
	}
	if cal.RequiresLogin && !elevated && !cal.RoleAllowed(actor.Roles) {
		return domain.ErrInsufficientPermissions
	}

	if !actor.IsAuthenticated() && strings.TrimSpace(email) == "" {
		return domain.ErrEmailRequired
	}
	return nil
}

// checkNationalID номер обязателен для гостей; если передан, проверяется всегда
func (v *Validator) checkNationalID(actor domain.Actor, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if actor.IsAuthenticated() {
			return "", nil
		}
		return "", domain.ErrInvalidCPFRF
	}

	if strings.IndexFunc(raw, notIDRune) >= 0 {
		return "", domain.ErrInvalidCPFRF
	}

	digits := nationalid.Normalize(raw)
	switch len(digits) {
	case nationalid.RFLength:
		return digits, nil
	case nationalid.CPFLength:
		if v.nationalID.IsValid(digits) {
			return digits, nil
		}
	}
	return "", domain.ErrInvalidCPFRF
}

// notIDRune допускает цифры и разделители маски ("529.982.247-25")
func notIDRune(r rune) bool {
	return !(r >= '0' && r <= '9') && r != '.' && r != '-' && r != '/' && r != ' '
}

// IsRejection возвращает true для ожидаемого отказа (в отличие от сбоя хранилища)
func IsRejection(err error) bool {
	var bErr *domain.BookingError
	return errors.As(err, &bErr)
}
