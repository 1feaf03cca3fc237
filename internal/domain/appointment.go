package domain

import (
	"crypto/subtle"
	"strconv"
	"time"

	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

// Identity ссылка на того, кто записывается: аккаунт или внешние данные до создания аккаунта
type Identity struct {
	AccountID      *int64
	Email          string
	NationalIDHash string
	Phone          string
}

// IsResolvable возвращает true, если по identity можно искать записи
func (i Identity) IsResolvable() bool {
	return i.AccountID != nil || i.Email != "" || i.NationalIDHash != ""
}

// MatchKeys ключи, по любому из которых записи считаются записями одного человека
// Порядок фиксирован: аккаунт, email, национальный номер
func (i Identity) MatchKeys() []string {
	keys := make([]string, 0, 3)
	if i.AccountID != nil {
		keys = append(keys, "account:"+strconv.FormatInt(*i.AccountID, 10))
	}
	if i.Email != "" {
		keys = append(keys, "email:"+i.Email)
	}
	if i.NationalIDHash != "" {
		keys = append(keys, "nid:"+i.NationalIDHash)
	}
	return keys
}

// Appointment запись на слот календаря
type Appointment struct {
	ID         int64
	CalendarID int64
	Date       time.Time        // дата (полночь UTC)
	StartTime  types.TimeString // время начала
	EndTime    types.TimeString // всегда StartTime + длительность слота

	Identity
	UserNotes  *string
	AdminNotes *string

	Status AppointmentStatus

	ApprovedAt *time.Time
	ApprovedBy *string

	CancelledAt        *time.Time
	CancelledBy        *string
	CancellationReason *string

	// completed / no_show
	StatusChangedAt *time.Time
	StatusChangedBy *string

	ConfirmationToken string
	ValidationCode    string

	ConsentGiven bool
	ConsentAt    time.Time
	ConsentIP    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Transition атомарное изменение статуса с отметкой времени и автора
type Transition struct {
	To     AppointmentStatus
	Actor  string
	Reason *string
	At     time.Time
}

// StartsAt момент начала записи в часовом поясе календаря
func (a *Appointment) StartsAt(loc *time.Location) time.Time {
	return a.StartTime.On(a.Date, loc)
}

// IsActive возвращает true для записей, которые ещё могут состояться
func (a *Appointment) IsActive() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// IsCancelled возвращает true, если запись отменена
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// RequiresApproval возвращает true, пока запись ждёт подтверждения
func (a *Appointment) RequiresApproval() bool {
	return a.Status == StatusPending
}

// OwnedBy проверяет, что запись привязана к аккаунту
func (a *Appointment) OwnedBy(accountID int64) bool {
	return a.AccountID != nil && *a.AccountID == accountID && accountID > 0
}

// MatchesToken сравнивает токен подтверждения за постоянное время
func (a *Appointment) MatchesToken(token string) bool {
	if token == "" || a.ConfirmationToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(a.ConfirmationToken)) == 1
}

// Apply применяет переход к значению в памяти, записывая побочные поля
func (a *Appointment) Apply(tr Transition) error {
	if a.Status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	if !a.Status.CanTransitionTo(tr.To) {
		return NewBookingError(KindInvalidTransition, "transition "+string(a.Status)+" -> "+string(tr.To)+" is not allowed")
	}

	at := tr.At
	actor := tr.Actor
	switch tr.To {
	case StatusConfirmed:
		a.ApprovedAt = &at
		a.ApprovedBy = &actor
	case StatusCancelled:
		a.CancelledAt = &at
		a.CancelledBy = &actor
		a.CancellationReason = tr.Reason
	default:
		a.StatusChangedAt = &at
		a.StatusChangedBy = &actor
	}
	a.Status = tr.To
	a.UpdatedAt = at
	return nil
}
