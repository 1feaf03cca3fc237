package calendar

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingEngine/pkg/psqlbuilder"
)

const tableCalendars = "calendars"

var calendarColumns = []string{
	"id",
	"name",
	"status",
	"timezone",
	"slot_duration_minutes",
	"slot_gap_minutes",
	"max_appointments_per_slot",
	"slots_per_day",
	"advance_booking_min_hours",
	"advance_booking_max_days",
	"allow_cancellation",
	"cancellation_min_hours",
	"min_interval_hours",
	"requires_approval",
	"requires_login",
	"allowed_roles",
	"working_hours",
	"created_at",
	"updated_at",
}

// Repository репозиторий календарей
type Repository struct {
	db              DBExecutor
	defaultTimezone string // для календарей без часового пояса
}

// NewRepository создает новый экземпляр репозитория календарей
func NewRepository(db DBExecutor, defaultTimezone string) *Repository {
	return &Repository{db: db, defaultTimezone: defaultTimezone}
}

// GetByID получает календарь по ID
// Политика проверяется при чтении: нарушение инвариантов в БД не доходит до бизнес-логики
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.CalendarPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildGetByIDQuery(id)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		cal          domain.CalendarPolicy
		allowedRoles pq.StringArray
		workingHours []byte
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&cal.ID,
		&cal.Name,
		&cal.Status,
		&cal.Timezone,
		&cal.SlotDurationMinutes,
		&cal.SlotGapMinutes,
		&cal.MaxAppointmentsPerSlot,
		&cal.SlotsPerDay,
		&cal.AdvanceBookingMinHours,
		&cal.AdvanceBookingMaxDays,
		&cal.AllowCancellation,
		&cal.CancellationMinHours,
		&cal.MinIntervalHours,
		&cal.RequiresApproval,
		&cal.RequiresLogin,
		&allowedRoles,
		&workingHours,
		&cal.CreatedAt,
		&cal.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCalendarNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan calendar: %v", ErrScanRow, err)
	}

	if err := r.decodePolicy(&cal, allowedRoles, workingHours); err != nil {
		return nil, err
	}

	return &cal, nil
}

// decodePolicy дополняет отсканированную строку: роли, рабочие часы из JSON, часовой пояс по умолчанию
func (r *Repository) decodePolicy(cal *domain.CalendarPolicy, allowedRoles pq.StringArray, workingHours []byte) error {
	cal.AllowedRoles = []string(allowedRoles)
	if cal.Timezone == "" {
		cal.Timezone = r.defaultTimezone
	}
	if err := json.Unmarshal(workingHours, &cal.WorkingHours); err != nil {
		return fmt.Errorf("%w: GetByID - decode working hours of calendar id=%d: %v", ErrScanRow, cal.ID, err)
	}

	if err := cal.Validate(); err != nil {
		return fmt.Errorf("%w: calendar id=%d: %v", ErrInvalidPolicy, cal.ID, err)
	}
	return nil
}

// Update обновляет политику календаря
func (r *Repository) Update(ctx context.Context, id int64, cal *domain.CalendarPolicy) (*domain.CalendarPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildUpdateQuery(id, cal, time.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return nil, ErrCalendarNotFound
	}

	return r.GetByID(ctx, id)
}

func buildGetByIDQuery(id int64) (string, []interface{}, error) {
	return psqlbuilder.Select(calendarColumns...).
		From(tableCalendars).
		Where(squirrel.Eq{"id": id}).
		ToSql()
}

// buildUpdateQuery роли пишутся как text[], рабочие часы как JSON
func buildUpdateQuery(id int64, cal *domain.CalendarPolicy, now time.Time) (string, []interface{}, error) {
	workingHours, err := json.Marshal(cal.WorkingHours)
	if err != nil {
		return "", nil, fmt.Errorf("encode working hours: %w", err)
	}
	roles := cal.AllowedRoles
	if roles == nil {
		roles = []string{}
	}

	return psqlbuilder.Update(tableCalendars).
		Set("name", cal.Name).
		Set("status", cal.Status).
		Set("timezone", cal.Timezone).
		Set("slot_duration_minutes", cal.SlotDurationMinutes).
		Set("slot_gap_minutes", cal.SlotGapMinutes).
		Set("max_appointments_per_slot", cal.MaxAppointmentsPerSlot).
		Set("slots_per_day", cal.SlotsPerDay).
		Set("advance_booking_min_hours", cal.AdvanceBookingMinHours).
		Set("advance_booking_max_days", cal.AdvanceBookingMaxDays).
		Set("allow_cancellation", cal.AllowCancellation).
		Set("cancellation_min_hours", cal.CancellationMinHours).
		Set("min_interval_hours", cal.MinIntervalHours).
		Set("requires_approval", cal.RequiresApproval).
		Set("requires_login", cal.RequiresLogin).
		Set("allowed_roles", pq.Array(roles)).
		Set("working_hours", workingHours).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": id}).
		ToSql()
}
