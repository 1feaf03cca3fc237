package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

const (
	layoutShort = "15:04"
	layoutLong  = "15:04:05"

	secondsPerDay = 24 * 60 * 60
)

var (
	// ErrInvalidTimeFormat возвращается, когда строка не соответствует HH:MM или HH:MM:SS
	ErrInvalidTimeFormat = errors.New("invalid time string format")

	// ErrTimeOutOfDay возвращается, когда арифметика выводит время за пределы суток
	ErrTimeOutOfDay = errors.New("time is out of day bounds")
)

// TimeString время суток без даты в формате HH:MM (или HH:MM:SS, если секунды ненулевые)
// Сравнение выполняется по количеству секунд от полуночи, а не лексикографически
type TimeString string

// NewTimeString создает TimeString из time.Time (дата и часовой пояс отбрасываются)
func NewTimeString(t time.Time) TimeString {
	return fromSeconds(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

// NewTimeStringFromString парсит строку HH:MM или HH:MM:SS в 24-часовом формате
func NewTimeStringFromString(s string) (TimeString, error) {
	secs, err := parseSeconds(s)
	if err != nil {
		return "", err
	}
	return fromSeconds(secs), nil
}

// MustTimeString как NewTimeStringFromString, но паникует на ошибке (для констант и тестов)
func MustTimeString(s string) TimeString {
	ts, err := NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return ts
}

func parseSeconds(s string) (int, error) {
	layout := layoutShort
	if len(s) > len(layoutShort) {
		layout = layoutLong
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	return t.Hour()*3600 + t.Minute()*60 + t.Second(), nil
}

func fromSeconds(secs int) TimeString {
	h, m, s := secs/3600, (secs%3600)/60, secs%60
	if s != 0 {
		return TimeString(fmt.Sprintf("%02d:%02d:%02d", h, m, s))
	}
	return TimeString(fmt.Sprintf("%02d:%02d", h, m))
}

// IsZero возвращает true, если время не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет формат
func (t TimeString) Validate() error {
	_, err := parseSeconds(string(t))
	return err
}

// Seconds возвращает количество секунд от полуночи (0 для некорректного значения)
func (t TimeString) Seconds() int {
	secs, err := parseSeconds(string(t))
	if err != nil {
		return 0
	}
	return secs
}

// AddMinutes прибавляет минуты; результат должен остаться в пределах тех же суток
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	secs, err := parseSeconds(string(t))
	if err != nil {
		return "", err
	}
	result := secs + minutes*60
	if result < 0 || result >= secondsPerDay {
		return "", fmt.Errorf("%w: %s %+d min", ErrTimeOutOfDay, t, minutes)
	}
	return fromSeconds(result), nil
}

// AddMinutesWrap прибавляет минуты по модулю суток: 23:45 + 30 мин = 00:15
func (t TimeString) AddMinutesWrap(minutes int) TimeString {
	result := (t.Seconds() + minutes*60) % secondsPerDay
	if result < 0 {
		result += secondsPerDay
	}
	return fromSeconds(result)
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	return t.Seconds() < other.Seconds()
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return t.Seconds() > other.Seconds()
}

// Equal сравнивает время с точностью до секунды
func (t TimeString) Equal(other TimeString) bool {
	return t.Seconds() == other.Seconds()
}

// On возвращает момент времени на указанную дату в указанном часовом поясе
func (t TimeString) On(date time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	secs := t.Seconds()
	y, m, d := date.Date()
	return time.Date(y, m, d, secs/3600, (secs%3600)/60, secs%60, 0, loc)
}

// String возвращает строковое представление
func (t TimeString) String() string {
	return string(t)
}

// Value реализует driver.Valuer для колонок типа TIME
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	secs, err := parseSeconds(string(t))
	if err != nil {
		return nil, err
	}
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60), nil
}

// Scan реализует sql.Scanner; lib/pq отдает TIME как строку "HH:MM:SS"
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case string:
		return t.scanString(v)
	case []byte:
		return t.scanString(string(v))
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidTimeFormat, src)
	}
}

func (t *TimeString) scanString(s string) error {
	// TIME в PostgreSQL может содержать дробные секунды
	if len(s) > len(layoutLong) {
		s = s[:len(layoutLong)]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
