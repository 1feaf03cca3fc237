package testfixtures

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-BookingEngine/internal/infra/storage/appointment"
	calendarRepo "github.com/m04kA/SMC-BookingEngine/internal/infra/storage/calendar"
	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

type dayKey struct {
	calendarID int64
	date       string
}

type txKey struct{}

// memTx транзакция in-memory хранилища: вставки видны только ей до фиксации,
// блокировки дней держатся до фиксации или отката
type memTx struct {
	pending []*domain.Appointment
	locks   map[dayKey]*sync.Mutex
	idLocks map[string]*sync.Mutex
}

// Store in-memory хранилище с семантикой репозиториев Postgres
// Блокирующее чтение захватывает мьютекс (календарь, дата) до конца транзакции,
// поэтому конкурентные записи на один день выполняются последовательно
type Store struct {
	mu sync.Mutex

	nextID       int64
	appointments map[int64]*domain.Appointment
	codes        map[string]struct{}
	calendars    map[int64]*domain.CalendarPolicy
	holidays     []domain.Holiday
	blocks       []domain.BlockedDate
	dayLocks     map[dayKey]*sync.Mutex
	idLocks      map[string]*sync.Mutex

	forcedCollisions int
	createErr        error
	findErr          error
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		appointments: make(map[int64]*domain.Appointment),
		codes:        make(map[string]struct{}),
		calendars:    make(map[int64]*domain.CalendarPolicy),
		dayLocks:     make(map[dayKey]*sync.Mutex),
		idLocks:      make(map[string]*sync.Mutex),
	}
}

// AddCalendar сохраняет календарь (ID сохраняется как есть)
func (s *Store) AddCalendar(cal *domain.CalendarPolicy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *cal
	s.calendars[cal.ID] = &c
}

// AddHoliday добавляет глобальный праздник
func (s *Store) AddHoliday(h domain.Holiday) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holidays = append(s.holidays, h)
}

// AddBlockedDate добавляет блокировку
func (s *Store) AddBlockedDate(b domain.BlockedDate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks = append(s.blocks, b)
}

// SeedCode резервирует код подтверждения, как будто он уже занят другой записью
func (s *Store) SeedCode(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[code] = struct{}{}
}

// ForceCollisions заставляет следующие n вставок вернуть коллизию кода
func (s *Store) ForceCollisions(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forcedCollisions = n
}

// FailCreate заставляет все вставки возвращать err
func (s *Store) FailCreate(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createErr = err
}

// FailFind заставляет поиск по identity возвращать err
func (s *Store) FailFind(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findErr = err
}

// Put сохраняет запись напрямую, минуя проверки (для подготовки данных)
func (s *Store) Put(appt domain.Appointment) *domain.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	appt.ID = s.nextID
	s.appointments[appt.ID] = &appt
	if appt.ValidationCode != "" {
		s.codes[appt.ValidationCode] = struct{}{}
	}
	c := appt
	return &c
}

// Appointments возвращает копии всех зафиксированных записей по возрастанию ID
func (s *Store) Appointments() []*domain.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked(func(*domain.Appointment) bool { return true })
}

// Do выполняет fn в транзакции; вложенный вызов переиспользует внешнюю
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := txFrom(ctx); ok {
		return fn(ctx)
	}

	tx := &memTx{locks: make(map[dayKey]*sync.Mutex), idLocks: make(map[string]*sync.Mutex)}
	committed := false
	defer func() {
		if !committed {
			s.rollback(tx)
		}
		for _, l := range tx.locks {
			l.Unlock()
		}
		for _, l := range tx.idLocks {
			l.Unlock()
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	for _, appt := range tx.pending {
		s.appointments[appt.ID] = appt
	}
	s.mu.Unlock()
	committed = true
	return nil
}

// DoReadOnly как Do: хранилище в памяти не различает режимы транзакций
func (s *Store) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.Do(ctx, fn)
}

func (s *Store) rollback(tx *memTx) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, appt := range tx.pending {
		delete(s.codes, appt.ValidationCode)
	}
}

func txFrom(ctx context.Context) (*memTx, bool) {
	tx, ok := ctx.Value(txKey{}).(*memTx)
	return tx, ok && tx != nil
}

func (s *Store) lockDay(ctx context.Context, calendarID int64, date time.Time) error {
	tx, ok := txFrom(ctx)
	if !ok {
		return appointmentRepo.ErrLockOutsideTx
	}
	key := dayKey{calendarID: calendarID, date: date.Format(domain.DateFormat)}
	if _, held := tx.locks[key]; held {
		return nil
	}

	s.mu.Lock()
	l, exists := s.dayLocks[key]
	if !exists {
		l = &sync.Mutex{}
		s.dayLocks[key] = l
	}
	s.mu.Unlock()

	l.Lock()
	tx.locks[key] = l
	return nil
}

// LockIdentity держит мьютекс на каждый ключ identity в календаре до конца транзакции
func (s *Store) LockIdentity(ctx context.Context, calendarID int64, identity domain.Identity) error {
	tx, ok := txFrom(ctx)
	if !ok {
		return appointmentRepo.ErrLockOutsideTx
	}

	for _, k := range identity.MatchKeys() {
		key := strconv.FormatInt(calendarID, 10) + ":" + k
		if _, held := tx.idLocks[key]; held {
			continue
		}

		s.mu.Lock()
		l, exists := s.idLocks[key]
		if !exists {
			l = &sync.Mutex{}
			s.idLocks[key] = l
		}
		s.mu.Unlock()

		l.Lock()
		tx.idLocks[key] = l
	}
	return nil
}

// visible записи, видимые из ctx: зафиксированные плюс собственные вставки транзакции
// Вызывается под s.mu
func (s *Store) visibleLocked(ctx context.Context, match func(*domain.Appointment) bool) []*domain.Appointment {
	result := s.sortedLocked(match)
	if tx, ok := txFrom(ctx); ok {
		for _, appt := range tx.pending {
			if match(appt) {
				c := *appt
				result = append(result, &c)
			}
		}
	}
	return result
}

func (s *Store) sortedLocked(match func(*domain.Appointment) bool) []*domain.Appointment {
	result := make([]*domain.Appointment, 0, len(s.appointments))
	for _, appt := range s.appointments {
		if match(appt) {
			c := *appt
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Create вставляет запись; занятый код возвращает appointmentRepo.ErrCodeCollision
func (s *Store) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.createErr != nil {
		return nil, s.createErr
	}
	if s.forcedCollisions > 0 {
		s.forcedCollisions--
		return nil, appointmentRepo.ErrCodeCollision
	}
	if _, taken := s.codes[appt.ValidationCode]; taken {
		return nil, appointmentRepo.ErrCodeCollision
	}

	s.nextID++
	stored := *appt
	stored.ID = s.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	s.codes[stored.ValidationCode] = struct{}{}

	if tx, ok := txFrom(ctx); ok {
		tx.pending = append(tx.pending, &stored)
	} else {
		s.appointments[stored.ID] = &stored
	}

	result := stored
	return &result, nil
}

// GetByID возвращает запись или appointmentRepo.ErrAppointmentNotFound
func (s *Store) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := s.visibleLocked(ctx, func(a *domain.Appointment) bool { return a.ID == id })
	if len(found) == 0 {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return found[0], nil
}

// FindByIdentity ищет по аккаунту, email или хешу национального номера
func (s *Store) FindByIdentity(ctx context.Context, identity domain.Identity) ([]*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findErr != nil {
		return nil, s.findErr
	}
	if !identity.IsResolvable() {
		return []*domain.Appointment{}, nil
	}

	return s.visibleLocked(ctx, func(a *domain.Appointment) bool {
		switch {
		case identity.AccountID != nil && a.AccountID != nil && *a.AccountID == *identity.AccountID:
			return true
		case identity.Email != "" && a.Email == identity.Email:
			return true
		case identity.NationalIDHash != "" && a.NationalIDHash == identity.NationalIDHash:
			return true
		default:
			return false
		}
	}), nil
}

// GetByAccountID возвращает записи аккаунта
func (s *Store) GetByAccountID(ctx context.Context, accountID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.visibleLocked(ctx, func(a *domain.Appointment) bool {
		if a.AccountID == nil || *a.AccountID != accountID {
			return false
		}
		return status == nil || a.Status == *status
	}), nil
}

// IsSlotAvailable считает неотмененные записи слота
func (s *Store) IsSlotAvailable(
	ctx context.Context,
	calendarID int64,
	date time.Time,
	startTime types.TimeString,
	maxPerSlot int,
	locked bool,
) (bool, error) {
	if locked {
		if err := s.lockDay(ctx, calendarID, date); err != nil {
			return false, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	taken := s.visibleLocked(ctx, func(a *domain.Appointment) bool {
		return a.CalendarID == calendarID &&
			a.Date.Equal(domain.DateOnly(date)) &&
			a.StartTime.Equal(startTime) &&
			hasStatus(a.Status, domain.CapacityStatuses)
	})
	return len(taken) < maxPerSlot, nil
}

// CountForDate считает записи дня с указанными статусами
func (s *Store) CountForDate(
	ctx context.Context,
	calendarID int64,
	date time.Time,
	statuses []domain.AppointmentStatus,
	locked bool,
) (int, error) {
	if locked {
		if err := s.lockDay(ctx, calendarID, date); err != nil {
			return 0, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.visibleLocked(ctx, func(a *domain.Appointment) bool {
		return a.CalendarID == calendarID &&
			a.Date.Equal(domain.DateOnly(date)) &&
			hasStatus(a.Status, statuses)
	})), nil
}

// CountBySlot группирует неотмененные записи дня по времени начала
func (s *Store) CountBySlot(ctx context.Context, calendarID int64, date time.Time) (map[types.TimeString]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[types.TimeString]int)
	for _, a := range s.visibleLocked(ctx, func(a *domain.Appointment) bool {
		return a.CalendarID == calendarID &&
			a.Date.Equal(domain.DateOnly(date)) &&
			hasStatus(a.Status, domain.CapacityStatuses)
	}) {
		counts[a.StartTime]++
	}
	return counts, nil
}

// Transition атомарно меняет статус, если текущий статус допускает переход
func (s *Store) Transition(ctx context.Context, id int64, tr domain.Transition) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt, ok := s.appointments[id]
	if !ok || !hasStatus(appt.Status, domain.SourcesFor(tr.To)) {
		return false, nil
	}

	updated := *appt
	if err := updated.Apply(tr); err != nil {
		return false, nil
	}
	s.appointments[id] = &updated
	return true, nil
}

// GetCalendar возвращает календарь или calendarRepo.ErrCalendarNotFound
func (s *Store) GetCalendar(ctx context.Context, id int64) (*domain.CalendarPolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cal, ok := s.calendars[id]
	if !ok {
		return nil, calendarRepo.ErrCalendarNotFound
	}
	c := *cal
	return &c, nil
}

// UpdateCalendar заменяет политику календаря
func (s *Store) UpdateCalendar(ctx context.Context, id int64, cal *domain.CalendarPolicy) (*domain.CalendarPolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.calendars[id]; !ok {
		return nil, calendarRepo.ErrCalendarNotFound
	}
	c := *cal
	c.ID = id
	c.UpdatedAt = time.Now()
	s.calendars[id] = &c
	result := c
	return &result, nil
}

// HolidaysOn возвращает все праздники; совпадение с датой проверяет вызывающий
func (s *Store) HolidaysOn(ctx context.Context, date time.Time) ([]domain.Holiday, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Holiday(nil), s.holidays...), nil
}

// BlockedDatesFor возвращает все блокировки; совпадение с датой проверяет вызывающий
func (s *Store) BlockedDatesFor(ctx context.Context, calendarID int64, date time.Time) ([]domain.BlockedDate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.BlockedDate(nil), s.blocks...), nil
}

func hasStatus(status domain.AppointmentStatus, statuses []domain.AppointmentStatus) bool {
	for _, st := range statuses {
		if st == status {
			return true
		}
	}
	return false
}

// Calendars адаптер Store к интерфейсу репозитория календарей (GetByID / Update)
type Calendars struct {
	*Store
}

// GetByID возвращает календарь
func (c Calendars) GetByID(ctx context.Context, id int64) (*domain.CalendarPolicy, error) {
	return c.GetCalendar(ctx, id)
}

// Update заменяет политику календаря
func (c Calendars) Update(ctx context.Context, id int64, cal *domain.CalendarPolicy) (*domain.CalendarPolicy, error) {
	return c.UpdateCalendar(ctx, id, cal)
}
