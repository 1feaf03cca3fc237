package create_booking

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/events"
	"github.com/m04kA/SMC-BookingEngine/internal/integrations/identityservice"
	"github.com/m04kA/SMC-BookingEngine/internal/service/validation"
	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
}

// CalendarRepository интерфейс репозитория календарей
type CalendarRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.CalendarPolicy, error)
}

// Validator цепочка проверок записи
type Validator interface {
	Validate(ctx context.Context, in validation.Input) (*validation.Result, error)
}

// CapacityGate повторная проверка вместимости под блокировкой
type CapacityGate interface {
	Check(ctx context.Context, cal *domain.CalendarPolicy, date time.Time, startTime types.TimeString, locked bool) error
}

// IdentityLocker блокировка записей одного человека на календарь до конца транзакции
type IdentityLocker interface {
	LockIdentity(ctx context.Context, calendarID int64, identity domain.Identity) error
}

// IntervalLimiter повторная проверка интервала между записями под блокировкой
type IntervalLimiter interface {
	Check(ctx context.Context, cal *domain.CalendarPolicy, identity domain.Identity, requested time.Time) error
}

// IdentityResolver находит или создает аккаунт по внешним данным
type IdentityResolver interface {
	ResolveOrCreate(ctx context.Context, nationalIDHash, email string, profile identityservice.Profile) (int64, error)
}

// CodeGenerator генератор кодов подтверждения
type CodeGenerator interface {
	Generate() (string, error)
}

// NationalIDHasher хеширует нормализованный национальный номер
type NationalIDHasher interface {
	Hash(digits string) string
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher получатель событий после фиксации транзакции
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event)
}

// OutcomeCounter счетчик исходов записи (created или вид ошибки)
type OutcomeCounter interface {
	WithLabelValues(lvs ...string) prometheus.Counter
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
