// Package memstore хранилище в памяти с семантикой репозиториев PostgreSQL.
// Используется в тестах сервисов и usecase: транзакции выполняются строго по очереди
// и откатываются целиком при ошибке, как SERIALIZABLE транзакции в БД.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

type txKey struct{}

type fault struct {
	after int
	err   error
}

// Store общее состояние всех репозиториев
type Store struct {
	txMu sync.Mutex // удерживается на время транзакции
	mu   sync.Mutex // защищает данные

	now func() time.Time

	groups   map[int64]*domain.RecurringGroup
	skipped  map[int64][]domain.SkippedDate
	bookings map[int64]*domain.Booking
	blocked  []*domain.BlockedDate
	payments []*domain.GroupPayment
	policies map[int64]*domain.BookingPolicy // 0 = политика площадки

	lastGroupID   int64
	lastBookingID int64
	lastBlockedID int64
	lastPolicyID  int64

	// Последовательности не откатываются, как и в PostgreSQL
	groupSeq   int64
	bookingSeq int64

	faults map[string]*fault
}

// New создает пустое хранилище
func New() *Store {
	return &Store{
		now:      time.Now,
		groups:   make(map[int64]*domain.RecurringGroup),
		skipped:  make(map[int64][]domain.SkippedDate),
		bookings: make(map[int64]*domain.Booking),
		policies: make(map[int64]*domain.BookingPolicy),
		faults:   make(map[string]*fault),
	}
}

// SetClock задает источник времени для created_at/updated_at
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// InjectFault заставляет операцию op вернуть err после after успешных вызовов
// Имена операций: "groups.Create", "groups.AddSkippedDates", "bookings.Create",
// "bookings.CancelFutureByGroup", "groups.IncrementBulkPaid", "payments.Create"
func (s *Store) InjectFault(op string, after int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = &fault{after: after, err: err}
}

func (s *Store) fault(op string) error {
	f, ok := s.faults[op]
	if !ok {
		return nil
	}
	if f.after > 0 {
		f.after--
		return nil
	}
	delete(s.faults, op)
	return f.err
}

// BlockDate закрывает дату для всей площадки (courtID == nil) или одного корта
func (s *Store) BlockDate(date time.Time, courtID *int64, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastBlockedID++
	s.blocked = append(s.blocked, &domain.BlockedDate{
		ID:      s.lastBlockedID,
		Date:    domain.DateOf(date),
		CourtID: courtID,
		Reason:  reason,
	})
}

// GroupCount возвращает количество сохраненных групп
func (s *Store) GroupCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.groups)
}

// BookingCount возвращает количество сохраненных бронирований
func (s *Store) BookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

// Groups репозиторий групп
func (s *Store) Groups() *GroupRepo { return &GroupRepo{s: s} }

// Bookings репозиторий бронирований
func (s *Store) Bookings() *BookingRepo { return &BookingRepo{s: s} }

// Calendar репозиторий календаря площадки
func (s *Store) Calendar() *CalendarRepo { return &CalendarRepo{s: s} }

// Payments журнал платежей
func (s *Store) Payments() *PaymentRepo { return &PaymentRepo{s: s} }

// Sequences генератор кодов
func (s *Store) Sequences() *SequenceRepo { return &SequenceRepo{s: s} }

// Policies репозиторий политик
func (s *Store) Policies() *PolicyRepo { return &PolicyRepo{s: s} }

// TxManager менеджер транзакций поверх хранилища
func (s *Store) TxManager() *TxManager { return &TxManager{s: s} }

// TxManager реализует Do/DoReadOnly/DoSerializable
type TxManager struct {
	s *Store
}

// Do выполняет fn в транзакции
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.s.inTx(ctx, fn)
}

// DoReadOnly выполняет fn в транзакции только для чтения
func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.s.inTx(ctx, fn)
}

// DoSerializable выполняет fn в сериализуемой транзакции
func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.s.inTx(ctx, fn)
}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(bool)
	return ok
}

func (s *Store) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	groups   map[int64]*domain.RecurringGroup
	skipped  map[int64][]domain.SkippedDate
	bookings map[int64]*domain.Booking
	payments []*domain.GroupPayment
	policies map[int64]*domain.BookingPolicy

	lastGroupID   int64
	lastBookingID int64
	lastPolicyID  int64
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshot{
		groups:        make(map[int64]*domain.RecurringGroup, len(s.groups)),
		skipped:       make(map[int64][]domain.SkippedDate, len(s.skipped)),
		bookings:      make(map[int64]*domain.Booking, len(s.bookings)),
		payments:      make([]*domain.GroupPayment, len(s.payments)),
		policies:      make(map[int64]*domain.BookingPolicy, len(s.policies)),
		lastGroupID:   s.lastGroupID,
		lastBookingID: s.lastBookingID,
		lastPolicyID:  s.lastPolicyID,
	}
	for id, g := range s.groups {
		snap.groups[id] = cloneGroup(g)
	}
	for id, sk := range s.skipped {
		snap.skipped[id] = append([]domain.SkippedDate(nil), sk...)
	}
	for id, b := range s.bookings {
		snap.bookings[id] = cloneBooking(b)
	}
	for i, p := range s.payments {
		cp := *p
		snap.payments[i] = &cp
	}
	for id, p := range s.policies {
		cp := *p
		snap.policies[id] = &cp
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.groups = snap.groups
	s.skipped = snap.skipped
	s.bookings = snap.bookings
	s.payments = snap.payments
	s.policies = snap.policies
	s.lastGroupID = snap.lastGroupID
	s.lastBookingID = snap.lastBookingID
	s.lastPolicyID = snap.lastPolicyID
}

func cloneGroup(g *domain.RecurringGroup) *domain.RecurringGroup {
	cp := *g
	cp.Pattern.Weekdays = append([]int(nil), g.Pattern.Weekdays...)
	cp.SkippedDates = append([]domain.SkippedDate(nil), g.SkippedDates...)
	if g.BulkPayment != nil {
		bp := *g.BulkPayment
		cp.BulkPayment = &bp
	}
	return &cp
}

func cloneBooking(b *domain.Booking) *domain.Booking {
	cp := *b
	return &cp
}

func inRange(d, from, to time.Time) bool {
	d = domain.DateOf(d)
	return !d.Before(domain.DateOf(from)) && !d.After(domain.DateOf(to))
}
