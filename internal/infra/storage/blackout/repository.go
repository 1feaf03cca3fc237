package blackout

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingEngine/pkg/psqlbuilder"
	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

const (
	tableBlockedDates = "blocked_dates"
	tableHolidays     = "holidays"
)

var blockedDateColumns = []string{
	"id",
	"calendar_id",
	"start_date",
	"end_date",
	"start_time",
	"end_time",
	"recurrence",
	"recur_until",
	"reason",
}

// Repository репозиторий блокировок и праздников
// Возвращает кандидатов, окончательное совпадение с датой проверяет domain
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория блокировок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// HolidaysOn возвращает праздники, которые могут выпадать на дату
func (r *Repository) HolidaysOn(ctx context.Context, date time.Time) ([]domain.Holiday, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildHolidaysQuery(date)
	if err != nil {
		return nil, fmt.Errorf("%w: HolidaysOn - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: HolidaysOn - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	holidays := make([]domain.Holiday, 0)
	for rows.Next() {
		var h domain.Holiday
		if err := rows.Scan(&h.ID, &h.Date, &h.RecurringYearly, &h.Name); err != nil {
			return nil, fmt.Errorf("%w: HolidaysOn - scan row: %v", ErrScanRow, err)
		}
		holidays = append(holidays, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: HolidaysOn - rows error: %v", ErrScanRow, err)
	}

	return holidays, nil
}

// BlockedDatesFor возвращает блокировки календаря и глобальные блокировки, которые могут закрывать дату
func (r *Repository) BlockedDatesFor(ctx context.Context, calendarID int64, date time.Time) ([]domain.BlockedDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildBlockedDatesQuery(calendarID, date)
	if err != nil {
		return nil, fmt.Errorf("%w: BlockedDatesFor - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: BlockedDatesFor - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blocks := make([]domain.BlockedDate, 0)
	for rows.Next() {
		var (
			b          domain.BlockedDate
			ownerID    sql.NullInt64
			startTime  sql.NullString
			endTime    sql.NullString
			recurUntil sql.NullTime
		)
		if err := rows.Scan(
			&b.ID,
			&ownerID,
			&b.StartDate,
			&b.EndDate,
			&startTime,
			&endTime,
			&b.Recurrence,
			&recurUntil,
			&b.Reason,
		); err != nil {
			return nil, fmt.Errorf("%w: BlockedDatesFor - scan row: %v", ErrScanRow, err)
		}

		if ownerID.Valid {
			id := ownerID.Int64
			b.CalendarID = &id
		}
		if b.StartTime, err = nullableTime(startTime); err != nil {
			return nil, fmt.Errorf("%w: BlockedDatesFor - start_time of id=%d: %v", ErrScanRow, b.ID, err)
		}
		if b.EndTime, err = nullableTime(endTime); err != nil {
			return nil, fmt.Errorf("%w: BlockedDatesFor - end_time of id=%d: %v", ErrScanRow, b.ID, err)
		}
		if recurUntil.Valid {
			until := recurUntil.Time
			b.RecurUntil = &until
		}

		blocks = append(blocks, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: BlockedDatesFor - rows error: %v", ErrScanRow, err)
	}

	return blocks, nil
}

func buildHolidaysQuery(date time.Time) (string, []interface{}, error) {
	return psqlbuilder.Select("id", "holiday_date", "recurring_yearly", "name").
		From(tableHolidays).
		Where(squirrel.Or{
			squirrel.Eq{"holiday_date": date.Format(domain.DateFormat)},
			squirrel.And{
				squirrel.Eq{"recurring_yearly": true},
				squirrel.Expr("EXTRACT(MONTH FROM holiday_date) = ?", int(date.Month())),
				squirrel.Expr("EXTRACT(DAY FROM holiday_date) = ?", date.Day()),
			},
		}).
		ToSql()
}

func buildBlockedDatesQuery(calendarID int64, date time.Time) (string, []interface{}, error) {
	day := date.Format(domain.DateFormat)

	return psqlbuilder.Select(blockedDateColumns...).
		From(tableBlockedDates).
		Where(squirrel.Or{
			squirrel.Eq{"calendar_id": calendarID},
			squirrel.Eq{"calendar_id": nil},
		}).
		Where(squirrel.LtOrEq{"start_date": day}).
		Where(squirrel.Or{
			squirrel.NotEq{"recurrence": string(domain.RecurrenceNone)},
			squirrel.GtOrEq{"end_date": day},
		}).
		OrderBy("id ASC").
		ToSql()
}

func nullableTime(v sql.NullString) (*types.TimeString, error) {
	if !v.Valid {
		return nil, nil
	}
	var ts types.TimeString
	if err := ts.Scan(v.String); err != nil {
		return nil, err
	}
	return &ts, nil
}
