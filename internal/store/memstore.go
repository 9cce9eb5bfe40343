package store

import (
	"context"
	"sort"
	"sync"

	"gorm.io/gorm"

	"roomreserve-backend/internal/model"
)

// MemStore is an in-memory Store used by tests and by local development
// without a database. It mirrors the gorm store's lookup semantics: misses
// return (nil, nil).
type MemStore struct {
	mu       sync.Mutex
	rooms    map[string]model.Room
	bookings map[string]model.Booking
	holds    map[string]model.Hold
	passes   map[string]model.GuestPass
}

func NewMemStore() *MemStore {
	return &MemStore{
		rooms:    make(map[string]model.Room),
		bookings: make(map[string]model.Booking),
		holds:    make(map[string]model.Hold),
		passes:   make(map[string]model.GuestPass),
	}
}

// DB returns nil; MemStore has no underlying gorm handle.
func (s *MemStore) DB() *gorm.DB {
	return nil
}

func (s *MemStore) GetRoom(_ context.Context, id string) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if room, ok := s.rooms[id]; ok {
		return &room, nil
	}
	return nil, nil
}

func (s *MemStore) ListRooms(_ context.Context) ([]model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		out = append(out, room)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemStore) SaveRoom(_ context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = *room
	return nil
}

func (s *MemStore) DeleteRoom(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
	return nil
}

func (s *MemStore) GetBooking(_ context.Context, id string) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if booking, ok := s.bookings[id]; ok {
		return &booking, nil
	}
	return nil, nil
}

func (s *MemStore) SaveBooking(_ context.Context, booking *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[booking.ID] = *booking
	return nil
}

func (s *MemStore) ActiveBookings(_ context.Context) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Booking
	for _, b := range s.bookings {
		if b.Status == model.BookingActive {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *MemStore) ActiveBookingsByRoom(_ context.Context, roomID string) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Booking
	for _, b := range s.bookings {
		if b.RoomID == roomID && b.Status == model.BookingActive {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (s *MemStore) GetHold(_ context.Context, id string) (*model.Hold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if hold, ok := s.holds[id]; ok {
		return &hold, nil
	}
	return nil, nil
}

func (s *MemStore) SaveHold(_ context.Context, hold *model.Hold) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holds[hold.ID] = *hold
	return nil
}

func (s *MemStore) OpenHolds(_ context.Context) ([]model.Hold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Hold
	for _, h := range s.holds {
		if h.Status == model.HoldPending || h.Status == model.HoldConfirmed {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *MemStore) PendingHolds(_ context.Context) ([]model.Hold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Hold
	for _, h := range s.holds {
		if h.Status == model.HoldPending {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *MemStore) OpenHoldsByRoom(_ context.Context, roomID string) ([]model.Hold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Hold
	for _, h := range s.holds {
		if h.RoomID == roomID && (h.Status == model.HoldPending || h.Status == model.HoldConfirmed) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *MemStore) GetPass(_ context.Context, id string) (*model.GuestPass, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pass, ok := s.passes[id]; ok {
		return &pass, nil
	}
	return nil, nil
}

func (s *MemStore) SavePass(_ context.Context, pass *model.GuestPass) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.passes[pass.ID] = *pass
	return nil
}

func (s *MemStore) PassesByBooking(_ context.Context, bookingID string) ([]model.GuestPass, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.GuestPass
	for _, p := range s.passes {
		if p.BookingID == bookingID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
