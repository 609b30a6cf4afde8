package memstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/booking"
	groupRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/group"
	policyRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/policy"
	"github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/sequence"
)

// GroupRepo групповые операции
type GroupRepo struct {
	s *Store
}

func (r *GroupRepo) Create(_ context.Context, group *domain.RecurringGroup) (*domain.RecurringGroup, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fault("groups.Create"); err != nil {
		return nil, err
	}

	s.lastGroupID++
	group.ID = s.lastGroupID
	group.CreatedAt = s.now()
	group.UpdatedAt = group.CreatedAt

	stored := cloneGroup(group)
	stored.SkippedDates = nil
	stored.Counts = domain.GroupCounts{}
	s.groups[group.ID] = stored

	return group, nil
}

func (r *GroupRepo) AddSkippedDates(_ context.Context, groupID int64, skipped []domain.SkippedDate) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fault("groups.AddSkippedDates"); err != nil {
		return err
	}
	s.skipped[groupID] = append(s.skipped[groupID], skipped...)
	return nil
}

func (r *GroupRepo) GetByID(_ context.Context, id int64) (*domain.RecurringGroup, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[id]
	if !ok {
		return nil, groupRepo.ErrGroupNotFound
	}
	return s.viewGroup(g), nil
}

// viewGroup возвращает копию группы со счетчиками, вычисленными по бронированиям
func (s *Store) viewGroup(g *domain.RecurringGroup) *domain.RecurringGroup {
	cp := cloneGroup(g)
	cp.SkippedDates = append([]domain.SkippedDate{}, s.skipped[g.ID]...)
	sort.SliceStable(cp.SkippedDates, func(i, j int) bool {
		return cp.SkippedDates[i].Date.Before(cp.SkippedDates[j].Date)
	})

	var counts domain.GroupCounts
	for _, b := range s.bookings {
		if b.GroupID == nil || *b.GroupID != g.ID {
			continue
		}
		counts.Total++
		switch b.Status {
		case domain.StatusCompleted:
			counts.Completed++
		case domain.StatusCancelled:
			counts.Cancelled++
		}
	}
	cp.Counts = counts
	return cp
}

func (r *GroupRepo) List(_ context.Context, filter domain.GroupFilter) ([]*domain.RecurringGroup, int, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	matched := make([]*domain.RecurringGroup, 0)
	for _, g := range s.groups {
		if filter.Status != nil && g.Status != *filter.Status {
			continue
		}
		if search != "" && !containsAny(search, g.Code, g.Customer.Name, g.Customer.Nickname, g.Customer.Phone) {
			continue
		}
		matched = append(matched, g)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	start := filter.Offset()
	if start > total {
		start = total
	}
	end := total
	if filter.PageSize > 0 && start+filter.PageSize < end {
		end = start + filter.PageSize
	}

	page := make([]*domain.RecurringGroup, 0, end-start)
	for _, g := range matched[start:end] {
		page = append(page, s.viewGroup(g))
	}
	return page, total, nil
}

func containsAny(needle string, values ...string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

func (r *GroupRepo) MarkCancelled(_ context.Context, id int64) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[id]
	if !ok || g.Status != domain.GroupActive {
		return false, nil
	}
	now := s.now()
	g.Status = domain.GroupCancelled
	g.CancelledAt = &now
	g.UpdatedAt = now
	return true, nil
}

func (r *GroupRepo) MarkCompletedIfResolved(_ context.Context, id int64) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[id]
	if !ok || g.Status != domain.GroupActive {
		return false, nil
	}
	for _, b := range s.bookings {
		if b.GroupID != nil && *b.GroupID == id && b.CanBeCancelled() {
			return false, nil
		}
	}
	g.Status = domain.GroupCompleted
	g.UpdatedAt = s.now()
	return true, nil
}

func (r *GroupRepo) IncrementBulkPaid(_ context.Context, id int64, amount float64) (*domain.BulkPayment, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fault("groups.IncrementBulkPaid"); err != nil {
		return nil, err
	}

	g, ok := s.groups[id]
	if !ok || g.PaymentMode != domain.PaymentBulk || g.BulkPayment == nil {
		return nil, groupRepo.ErrNotBulk
	}
	g.BulkPayment.PaidAmount += amount
	g.UpdatedAt = s.now()

	balance := *g.BulkPayment
	return &balance, nil
}

// BookingRepo операции с бронированиями
type BookingRepo struct {
	s *Store
}

func (r *BookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fault("bookings.Create"); err != nil {
		return nil, err
	}

	s.lastBookingID++
	booking.ID = s.lastBookingID
	booking.CreatedAt = s.now()
	booking.UpdatedAt = booking.CreatedAt
	s.bookings[booking.ID] = cloneBooking(booking)

	return booking, nil
}

func (r *BookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return cloneBooking(b), nil
}

func (r *BookingRepo) GetByGroupID(_ context.Context, groupID int64) ([]*domain.Booking, error) {
	return r.s.selectBookings(func(b *domain.Booking) bool {
		return b.GroupID != nil && *b.GroupID == groupID
	}), nil
}

func (r *BookingRepo) GetActiveByCourtInRange(_ context.Context, courtID int64, from, to time.Time) ([]*domain.Booking, error) {
	return r.s.selectBookings(func(b *domain.Booking) bool {
		return b.CourtID == courtID && b.IsActive() && inRange(b.BookingDate, from, to)
	}), nil
}

func (s *Store) selectBookings(match func(b *domain.Booking) bool) []*domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		if match(b) {
			result = append(result, cloneBooking(b))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].BookingDate.Equal(result[j].BookingDate) {
			return result[i].BookingDate.Before(result[j].BookingDate)
		}
		if result[i].StartTime != result[j].StartTime {
			return result[i].StartTime.IsBefore(result[j].StartTime)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// LockCourtDate в памяти транзакции уже выполняются по очереди, проверяется только наличие транзакции
func (r *BookingRepo) LockCourtDate(ctx context.Context, _ int64, _ time.Time) error {
	if !inTx(ctx) {
		return bookingRepo.ErrTransaction
	}
	return nil
}

func (r *BookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	now := s.now()
	b.Status = status
	b.UpdatedAt = now
	if status == domain.StatusCancelled {
		b.CancelledAt = &now
	}
	return nil
}

func (r *BookingRepo) UpdatePaymentStatus(_ context.Context, id int64, status domain.PaymentStatus) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.PaymentStatus = status
	b.UpdatedAt = s.now()
	return nil
}

func (r *BookingRepo) SetPaymentStatusByGroup(_ context.Context, groupID int64, status domain.PaymentStatus) (int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	var affected int64
	for _, b := range s.bookings {
		if b.GroupID != nil && *b.GroupID == groupID && b.PaymentStatus != status {
			b.PaymentStatus = status
			b.UpdatedAt = s.now()
			affected++
		}
	}
	return affected, nil
}

func (r *BookingRepo) CancelFutureByGroup(_ context.Context, groupID int64, from time.Time) (int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	var affected int64
	now := s.now()
	for _, b := range s.bookings {
		if b.GroupID == nil || *b.GroupID != groupID || !b.CanBeCancelled() {
			continue
		}
		if domain.DateOf(b.BookingDate).Before(domain.DateOf(from)) {
			continue
		}
		if err := s.fault("bookings.CancelFutureByGroup"); err != nil {
			return affected, err
		}
		b.Status = domain.StatusCancelled
		b.CancelledAt = &now
		b.UpdatedAt = now
		affected++
	}
	return affected, nil
}

// CalendarRepo календарь площадки
type CalendarRepo struct {
	s *Store
}

func (r *CalendarRepo) GetBlockedDates(_ context.Context, courtID int64, from, to time.Time) ([]*domain.BlockedDate, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.BlockedDate, 0)
	for _, b := range s.blocked {
		if b.AppliesTo(courtID) && inRange(b.Date, from, to) {
			cp := *b
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

// PaymentRepo журнал платежей
type PaymentRepo struct {
	s *Store
}

func (r *PaymentRepo) Create(_ context.Context, payment *domain.GroupPayment) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fault("payments.Create"); err != nil {
		return false, err
	}

	if payment.IdempotencyKey != nil {
		for _, p := range s.payments {
			if p.GroupID == payment.GroupID && p.IdempotencyKey != nil && *p.IdempotencyKey == *payment.IdempotencyKey {
				return false, nil
			}
		}
	}

	payment.CreatedAt = s.now()
	cp := *payment
	s.payments = append(s.payments, &cp)
	return true, nil
}

func (r *PaymentRepo) ListByGroup(_ context.Context, groupID int64) ([]*domain.GroupPayment, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.GroupPayment, 0)
	for _, p := range s.payments {
		if p.GroupID == groupID {
			cp := *p
			result = append(result, &cp)
		}
	}
	return result, nil
}

// SequenceRepo генератор кодов
type SequenceRepo struct {
	s *Store
}

func (r *SequenceRepo) NextGroupCode(_ context.Context, day time.Time) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.groupSeq++
	return sequence.FormatCode("RB", day, r.s.groupSeq), nil
}

func (r *SequenceRepo) NextBookingCode(_ context.Context, day time.Time) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.bookingSeq++
	return sequence.FormatCode("BK", day, r.s.bookingSeq), nil
}

// PolicyRepo политики бронирования
type PolicyRepo struct {
	s *Store
}

func policyKey(courtID *int64) int64 {
	if courtID == nil {
		return 0
	}
	return *courtID
}

func (r *PolicyRepo) GetByCourt(_ context.Context, courtID *int64) (*domain.BookingPolicy, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.policies[policyKey(courtID)]
	if !ok {
		return nil, policyRepo.ErrPolicyNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *PolicyRepo) GetWithHierarchy(ctx context.Context, courtID int64) (*domain.BookingPolicy, error) {
	if p, err := r.GetByCourt(ctx, &courtID); err == nil {
		return p, nil
	}
	return r.GetByCourt(ctx, nil)
}

func (r *PolicyRepo) Upsert(_ context.Context, policy *domain.BookingPolicy) (*domain.BookingPolicy, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	key := policyKey(policy.CourtID)
	now := s.now()
	if existing, ok := s.policies[key]; ok {
		policy.ID = existing.ID
		policy.CreatedAt = existing.CreatedAt
	} else {
		s.lastPolicyID++
		policy.ID = s.lastPolicyID
		policy.CreatedAt = now
	}
	policy.UpdatedAt = now

	cp := *policy
	s.policies[key] = &cp
	return policy, nil
}
