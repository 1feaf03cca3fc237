package interval

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// Limiter не дает одному человеку записываться на календарь чаще, чем раз в MinIntervalHours
type Limiter struct {
	finder AppointmentFinder
	clock  TimeProvider
}

// NewLimiter создает новый экземпляр ограничителя
func NewLimiter(finder AppointmentFinder, clock TimeProvider) *Limiter {
	return &Limiter{finder: finder, clock: clock}
}

// Check отклоняет запись на requested, если у identity есть будущая неотмененная запись
// на этот же календарь ближе, чем cooldown. Ошибка содержит время, когда запись станет возможна
func (l *Limiter) Check(ctx context.Context, cal *domain.CalendarPolicy, identity domain.Identity, requested time.Time) error {
	if !cal.HasCooldown() || !identity.IsResolvable() {
		return nil
	}

	existing, err := l.finder.FindByIdentity(ctx, identity)
	if err != nil {
		return fmt.Errorf("%w: Check - calendar=%d: %v", ErrInternal, cal.ID, err)
	}

	now := l.clock.Now()
	cooldown := cal.Cooldown()
	loc := cal.Location()

	var latest *time.Time
	for _, appt := range existing {
		if appt.CalendarID != cal.ID || !appt.IsActive() {
			continue
		}
		startsAt := appt.StartsAt(loc)
		if startsAt.Before(now) {
			continue
		}
		if absDuration(requested.Sub(startsAt)) >= cooldown {
			continue
		}
		if latest == nil || startsAt.After(*latest) {
			latest = &startsAt
		}
	}

	if latest == nil {
		return nil
	}

	next := latest.Add(cooldown)
	return &domain.BookingError{
		Kind:           domain.KindBookingTooSoon,
		Message:        fmt.Sprintf("next booking on this calendar is possible from %s", next.Format(time.RFC3339)),
		NextEligibleAt: &next,
	}
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
