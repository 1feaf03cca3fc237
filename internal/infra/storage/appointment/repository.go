package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingEngine/pkg/psqlbuilder"
	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

const (
	tableAppointments = "appointments"
	tableDayLocks     = "calendar_day_locks"
)

var appointmentColumns = []string{
	"id",
	"calendar_id",
	"appointment_date",
	"start_time",
	"end_time",
	"account_id",
	"email",
	"national_id_hash",
	"phone",
	"user_notes",
	"admin_notes",
	"status",
	"approved_at",
	"approved_by",
	"cancelled_at",
	"cancelled_by",
	"cancellation_reason",
	"status_changed_at",
	"status_changed_by",
	"confirmation_token",
	"validation_code",
	"consent_given",
	"consent_at",
	"consent_ip",
	"created_at",
	"updated_at",
}

// Repository репозиторий записей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create вставляет запись
// Уникальность validation_code проверяется через ON CONFLICT DO NOTHING, а не через ошибку
// unique violation: ошибка в PostgreSQL прерывает транзакцию, и повторить вставку в ней было бы нельзя
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableAppointments).
		Columns(
			"calendar_id",
			"appointment_date",
			"start_time",
			"end_time",
			"account_id",
			"email",
			"national_id_hash",
			"phone",
			"user_notes",
			"admin_notes",
			"status",
			"approved_at",
			"approved_by",
			"confirmation_token",
			"validation_code",
			"consent_given",
			"consent_at",
			"consent_ip",
		).
		Values(
			appt.CalendarID,
			appt.Date.Format(domain.DateFormat),
			appt.StartTime,
			appt.EndTime,
			appt.AccountID,
			appt.Email,
			appt.NationalIDHash,
			appt.Phone,
			appt.UserNotes,
			appt.AdminNotes,
			appt.Status,
			appt.ApprovedAt,
			appt.ApprovedBy,
			appt.ConfirmationToken,
			appt.ValidationCode,
			appt.ConsentGiven,
			appt.ConsentAt,
			appt.ConsentIP,
		).
		Suffix("ON CONFLICT (validation_code) DO NOTHING RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCodeCollision
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return appt, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From(tableAppointments).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return appt, nil
}

// FindByIdentity возвращает записи по аккаунту, email или хешу национального номера
// Используется ограничителем интервала между записями
func (r *Repository) FindByIdentity(ctx context.Context, identity domain.Identity) ([]*domain.Appointment, error) {
	if !identity.IsResolvable() {
		return []*domain.Appointment{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	match := squirrel.Or{}
	if identity.AccountID != nil {
		match = append(match, squirrel.Eq{"account_id": *identity.AccountID})
	}
	if identity.Email != "" {
		match = append(match, squirrel.Eq{"email": identity.Email})
	}
	if identity.NationalIDHash != "" {
		match = append(match, squirrel.Eq{"national_id_hash": identity.NationalIDHash})
	}

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From(tableAppointments).
		Where(match).
		OrderBy("appointment_date ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindByIdentity - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindByIdentity - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// GetByAccountID получает историю записей аккаунта, опционально с фильтром по статусу
func (r *Repository) GetByAccountID(ctx context.Context, accountID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From(tableAppointments).
		Where(squirrel.Eq{"account_id": accountID}).
		OrderBy("appointment_date DESC, start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByAccountID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByAccountID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// IsSlotAvailable проверяет, что в слоте (дата, время начала) меньше maxPerSlot неотменённых записей
// locked = true берёт блокировку дня до конца транзакции (режим бронирования)
func (r *Repository) IsSlotAvailable(
	ctx context.Context,
	calendarID int64,
	date time.Time,
	startTime types.TimeString,
	maxPerSlot int,
	locked bool,
) (bool, error) {
	if locked {
		if err := r.lockDay(ctx, calendarID, date); err != nil {
			return false, err
		}
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(tableAppointments).
		Where(squirrel.Eq{
			"calendar_id":      calendarID,
			"appointment_date": date.Format(domain.DateFormat),
			"start_time":       startTime,
			"status":           statusStrings(domain.CapacityStatuses),
		}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: IsSlotAvailable - build count query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: IsSlotAvailable - scan count: %v", ErrScanRow, err)
	}

	return count < maxPerSlot, nil
}

// CountForDate считает записи календаря на дату с указанными статусами
func (r *Repository) CountForDate(
	ctx context.Context,
	calendarID int64,
	date time.Time,
	statuses []domain.AppointmentStatus,
	locked bool,
) (int, error) {
	if locked {
		if err := r.lockDay(ctx, calendarID, date); err != nil {
			return 0, err
		}
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(tableAppointments).
		Where(squirrel.Eq{
			"calendar_id":      calendarID,
			"appointment_date": date.Format(domain.DateFormat),
			"status":           statusStrings(statuses),
		}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountForDate - build count query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountForDate - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// CountBySlot группирует неотменённые записи дня по времени начала (для списка слотов, без блокировки)
func (r *Repository) CountBySlot(ctx context.Context, calendarID int64, date time.Time) (map[types.TimeString]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("start_time", "COUNT(*)").
		From(tableAppointments).
		Where(squirrel.Eq{
			"calendar_id":      calendarID,
			"appointment_date": date.Format(domain.DateFormat),
			"status":           statusStrings(domain.CapacityStatuses),
		}).
		GroupBy("start_time").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CountBySlot - build query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountBySlot - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make(map[types.TimeString]int)
	for rows.Next() {
		var (
			start types.TimeString
			count int
		)
		if err := rows.Scan(&start, &count); err != nil {
			return nil, fmt.Errorf("%w: CountBySlot - scan row: %v", ErrScanRow, err)
		}
		counts[start] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountBySlot - rows error: %v", ErrScanRow, err)
	}

	return counts, nil
}

// Transition атомарно меняет статус, только если текущий статус допускает переход
// Возвращает false, если запись не найдена или уже в другом статусе
func (r *Repository) Transition(ctx context.Context, id int64, tr domain.Transition) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	sources := domain.SourcesFor(tr.To)
	if len(sources) == 0 {
		return false, nil
	}

	updateBuilder := psqlbuilder.Update(tableAppointments).
		Set("status", tr.To).
		Set("updated_at", tr.At)

	switch tr.To {
	case domain.StatusConfirmed:
		updateBuilder = updateBuilder.
			Set("approved_at", tr.At).
			Set("approved_by", tr.Actor)
	case domain.StatusCancelled:
		updateBuilder = updateBuilder.
			Set("cancelled_at", tr.At).
			Set("cancelled_by", tr.Actor).
			Set("cancellation_reason", tr.Reason)
	default:
		updateBuilder = updateBuilder.
			Set("status_changed_at", tr.At).
			Set("status_changed_by", tr.Actor)
	}

	query, args, err := updateBuilder.
		Where(squirrel.Eq{"id": id, "status": statusStrings(sources)}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: Transition - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: Transition - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: Transition - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected == 1, nil
}

// LockIdentity берет транзакционные advisory-блокировки на каждый ключ identity в календаре
// Записи одного человека на календарь выполняются последовательно, даже если даты разные
// Ключи берутся в порядке Identity.MatchKeys, поэтому взаимоблокировок между ними нет
func (r *Repository) LockIdentity(ctx context.Context, calendarID int64, identity domain.Identity) error {
	tx, ok := dbmetrics.TxFromContext(ctx)
	if !ok {
		return ErrLockOutsideTx
	}

	for _, key := range identity.MatchKeys() {
		query, args, err := buildIdentityLock(calendarID, key)
		if err != nil {
			return fmt.Errorf("%w: LockIdentity - build query: %v", ErrBuildQuery, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: LockIdentity - calendar=%d: %v", ErrExecQuery, calendarID, err)
		}
	}

	return nil
}

func buildIdentityLock(calendarID int64, key string) (string, []interface{}, error) {
	return psqlbuilder.Select().
		Column(squirrel.Expr("pg_advisory_xact_lock(hashtextextended(?, 0))",
			fmt.Sprintf("booking:%d:%s", calendarID, key))).
		ToSql()
}

// lockDay захватывает строку-замок (calendar_id, date) до конца транзакции
// Второй конкурент блокируется на SELECT ... FOR UPDATE, пока первый не завершит транзакцию,
// и затем видит его вставку (READ COMMITTED)
func (r *Repository) lockDay(ctx context.Context, calendarID int64, date time.Time) error {
	tx, ok := dbmetrics.TxFromContext(ctx)
	if !ok {
		return ErrLockOutsideTx
	}

	insertQuery, insertArgs, err := buildDayLockInsert(calendarID, date)
	if err != nil {
		return fmt.Errorf("%w: lockDay - build insert: %v", ErrBuildQuery, err)
	}
	if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: lockDay - ensure lock row: %v", ErrExecQuery, err)
	}

	selectQuery, selectArgs, err := buildDayLockSelect(calendarID, date)
	if err != nil {
		return fmt.Errorf("%w: lockDay - build select: %v", ErrBuildQuery, err)
	}
	var lockedID int64
	if err := tx.QueryRowContext(ctx, selectQuery, selectArgs...).Scan(&lockedID); err != nil {
		return fmt.Errorf("%w: lockDay - acquire lock: %v", ErrExecQuery, err)
	}

	return nil
}

func buildDayLockInsert(calendarID int64, date time.Time) (string, []interface{}, error) {
	return psqlbuilder.Insert(tableDayLocks).
		Columns("calendar_id", "lock_date").
		Values(calendarID, date.Format(domain.DateFormat)).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
}

func buildDayLockSelect(calendarID int64, date time.Time) (string, []interface{}, error) {
	return psqlbuilder.Select("calendar_id").
		From(tableDayLocks).
		Where(squirrel.Eq{"calendar_id": calendarID, "lock_date": date.Format(domain.DateFormat)}).
		Suffix("FOR UPDATE").
		ToSql()
}

func statusStrings(statuses []domain.AppointmentStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		appt                 domain.Appointment
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&appt.ID,
		&appt.CalendarID,
		&appt.Date,
		&appt.StartTime,
		&appt.EndTime,
		&appt.AccountID,
		&appt.Email,
		&appt.NationalIDHash,
		&appt.Phone,
		&appt.UserNotes,
		&appt.AdminNotes,
		&appt.Status,
		&appt.ApprovedAt,
		&appt.ApprovedBy,
		&appt.CancelledAt,
		&appt.CancelledBy,
		&appt.CancellationReason,
		&appt.StatusChangedAt,
		&appt.StatusChangedBy,
		&appt.ConfirmationToken,
		&appt.ValidationCode,
		&appt.ConsentGiven,
		&appt.ConsentAt,
		&appt.ConsentIP,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	appt.Date = domain.DateOnly(appt.Date)
	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return &appt, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}
