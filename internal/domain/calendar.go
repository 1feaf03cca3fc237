package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// CalendarStatus операционный статус календаря
type CalendarStatus string

const (
	CalendarActive   CalendarStatus = "active"
	CalendarInactive CalendarStatus = "inactive"
	CalendarArchived CalendarStatus = "archived"
)

// ErrInvalidCalendarPolicy возвращается, когда политика календаря нарушает инварианты
var ErrInvalidCalendarPolicy = errors.New("domain: invalid calendar policy")

// CalendarPolicy настройки бронируемого ресурса
type CalendarPolicy struct {
	ID     int64          `json:"id"`
	Name   string         `json:"name" validate:"required,max=200"`
	Status CalendarStatus `json:"status" validate:"oneof=active inactive archived"`

	// Часовой пояс, в котором интерпретируются дата и время записи
	Timezone string `json:"timezone" validate:"omitempty,timezone"`

	SlotDurationMinutes    int `json:"slotDurationMinutes" validate:"min=5,max=480"`
	SlotGapMinutes         int `json:"slotGapMinutes" validate:"min=0,max=480"`
	MaxAppointmentsPerSlot int `json:"maxAppointmentsPerSlot" validate:"min=1,max=1000"`
	SlotsPerDay            int `json:"slotsPerDay" validate:"min=0"` // 0 = без лимита

	AdvanceBookingMinHours int `json:"advanceBookingMinHours" validate:"min=0"`
	AdvanceBookingMaxDays  int `json:"advanceBookingMaxDays" validate:"min=0,max=730"` // 0 = без лимита

	AllowCancellation    bool `json:"allowCancellation"`
	CancellationMinHours int  `json:"cancellationMinHours" validate:"min=0"`

	MinIntervalHours int `json:"minIntervalHours" validate:"min=0"` // 0 = выключено

	RequiresApproval bool     `json:"requiresApproval"`
	RequiresLogin    bool     `json:"requiresLogin"`
	AllowedRoles     []string `json:"allowedRoles" validate:"dive,required"`

	WorkingHours WeeklySchedule `json:"workingHours" validate:"dive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Разрешенный в Validate часовой пояс и имя, для которого он получен
	loc     *time.Location
	locZone string
}

var policyValidator = newPolicyValidator()

func newPolicyValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(validateWorkingHours, WorkingHours{})
	return v
}

func validateWorkingHours(sl validator.StructLevel) {
	wh := sl.Current().Interface().(WorkingHours)
	if err := wh.Start.Validate(); err != nil {
		sl.ReportError(wh.Start, "Start", "start", "time", "")
		return
	}
	if err := wh.End.Validate(); err != nil {
		sl.ReportError(wh.End, "End", "end", "time", "")
		return
	}
	if !wh.Start.IsBefore(wh.End) {
		sl.ReportError(wh.End, "End", "end", "gtstart", "")
	}
}

// Validate проверяет инварианты политики (вызывается на границе: чтение из БД, обновление)
func (c *CalendarPolicy) Validate() error {
	if err := policyValidator.Struct(c); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) && len(vErrs) > 0 {
			first := vErrs[0]
			return fmt.Errorf("%w: field %s failed %q", ErrInvalidCalendarPolicy, first.Namespace(), first.Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidCalendarPolicy, err)
	}
	c.loc, c.locZone = loadLocation(c.Timezone), c.Timezone
	return nil
}

// IsActive возвращает true, если календарь принимает новые записи
func (c *CalendarPolicy) IsActive() bool {
	return c.Status == CalendarActive
}

// Location возвращает часовой пояс календаря (UTC, если не задан или некорректен)
// После Validate пояс берется из кеша; смена Timezone без Validate загружает его заново
func (c *CalendarPolicy) Location() *time.Location {
	if c.loc != nil && c.locZone == c.Timezone {
		return c.loc
	}
	return loadLocation(c.Timezone)
}

func loadLocation(zone string) *time.Location {
	if zone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// HasDailyCap возвращает true, если задан дневной лимит записей
func (c *CalendarPolicy) HasDailyCap() bool {
	return c.SlotsPerDay > 0
}

// HasCooldown возвращает true, если включен минимальный интервал между записями
func (c *CalendarPolicy) HasCooldown() bool {
	return c.MinIntervalHours > 0
}

// Cooldown минимальный интервал между записями одного человека
func (c *CalendarPolicy) Cooldown() time.Duration {
	return time.Duration(c.MinIntervalHours) * time.Hour
}

// RoleAllowed проверяет пересечение ролей с allow-list (пустой список - разрешено всем)
func (c *CalendarPolicy) RoleAllowed(roles []string) bool {
	if len(c.AllowedRoles) == 0 {
		return true
	}
	for _, allowed := range c.AllowedRoles {
		for _, role := range roles {
			if role == allowed {
				return true
			}
		}
	}
	return false
}
