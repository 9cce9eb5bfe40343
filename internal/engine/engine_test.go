package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"roomreserve-backend/internal/model"
	"roomreserve-backend/internal/store"
)

// captureNotifier records notifications so tests can assert on best-effort
// side effects.
type captureNotifier struct {
	mu        sync.Mutex
	created   []model.Booking
	cancelled []model.Booking
	guests    []model.GuestPass
}

func (n *captureNotifier) BookingCreated(b model.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, b)
}

func (n *captureNotifier) BookingCancelled(b model.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, b)
}

func (n *captureNotifier) GuestRegistered(p model.GuestPass, _ model.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.guests = append(n.guests, p)
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *store.MemStore, *FixedClock, *captureNotifier) {
	t.Helper()
	s := store.NewMemStore()
	clock := &FixedClock{Time: time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)}
	notifier := &captureNotifier{}
	opts = append([]Option{WithNotifier(notifier)}, opts...)
	e := New(s, clock, opts...)
	return e, s, clock, notifier
}

func seedRoom(t *testing.T, s *store.MemStore, id string, open bool) {
	t.Helper()
	err := s.SaveRoom(context.Background(), &model.Room{
		ID:       id,
		Name:     "Room " + id,
		Capacity: 8,
		IsOpen:   open,
	})
	require.NoError(t, err)
}

// at builds a timestamp on the fixed test day.
func at(t *testing.T, hhmm string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04", "2025-06-02 "+hhmm)
	require.NoError(t, err)
	return parsed.UTC()
}
