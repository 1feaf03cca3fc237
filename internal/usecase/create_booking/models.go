package create_booking

import (
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

// DefaultMaxCodeAttempts число попыток подобрать свободный код подтверждения
const DefaultMaxCodeAttempts = 5

// Request модель запроса на создание записи
type Request struct {
	Actor      domain.Actor // контекст вызывающего (гость, если AccountID = 0)
	CalendarID int64
	Date       string // YYYY-MM-DD
	Time       string // HH:MM

	Name       string
	Email      string
	Phone      string
	NationalID string // CPF или RF как ввел пользователь
	Notes      *string

	ConsentGiven bool
}

// Response модель ответа с созданной записью
type Response struct {
	ID                int64
	CalendarID        int64
	Date              time.Time
	StartTime         types.TimeString
	EndTime           types.TimeString
	Status            domain.AppointmentStatus
	RequiresApproval  bool
	ConfirmationToken string // выдается один раз, нужен гостю для отмены
	ValidationCode    string
	CreatedAt         time.Time
}

// Dependencies коллабораторы usecase
// Resolver и Outcomes могут быть nil: разрешение identity и метрики выключены
type Dependencies struct {
	Appointments AppointmentRepository
	Calendars    CalendarRepository
	Validator    Validator
	Capacity     CapacityGate
	Interval     IntervalLimiter
	Locks        IdentityLocker
	Resolver     IdentityResolver
	Codes        CodeGenerator
	Hasher       NationalIDHasher
	TxManager    TransactionManager
	Publisher    EventPublisher
	Outcomes     OutcomeCounter
	TimeProvider TimeProvider
	Logger       Logger
}
