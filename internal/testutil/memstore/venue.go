package memstore

import (
	"context"
	"sync"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/integrations/venueservice"
)

// Venue каталог кортов и слотов в памяти с ошибками клиента VenueService
type Venue struct {
	mu     sync.Mutex
	courts map[int64]domain.Court
	slots  map[int64]domain.TimeSlot
	err    error
}

// NewVenue создает пустой каталог
func NewVenue() *Venue {
	return &Venue{
		courts: make(map[int64]domain.Court),
		slots:  make(map[int64]domain.TimeSlot),
	}
}

// AddCourt добавляет корт
func (v *Venue) AddCourt(c domain.Court) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.courts[c.ID] = c
}

// AddTimeSlot добавляет временной слот
func (v *Venue) AddTimeSlot(s domain.TimeSlot) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.slots[s.ID] = s
}

// FailWith заставляет все вызовы возвращать err (nil снимает ошибку)
func (v *Venue) FailWith(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.err = err
}

func (v *Venue) GetCourt(_ context.Context, courtID int64) (*domain.Court, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.err != nil {
		return nil, v.err
	}
	c, ok := v.courts[courtID]
	if !ok {
		return nil, venueservice.ErrCourtNotFound
	}
	return &c, nil
}

func (v *Venue) GetTimeSlot(_ context.Context, slotID int64) (*domain.TimeSlot, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.err != nil {
		return nil, v.err
	}
	s, ok := v.slots[slotID]
	if !ok {
		return nil, venueservice.ErrTimeSlotNotFound
	}
	return &s, nil
}
