package engine

import (
	"context"
	"fmt"
	"time"

	"roomreserve-backend/internal/model"
	"roomreserve-backend/internal/store"
)

// Notifier receives best-effort notifications about engine events.
// Implementations must not block the caller for long and must swallow their
// own failures: a notification that cannot be delivered never rolls back the
// state change that triggered it.
type Notifier interface {
	BookingCreated(booking model.Booking)
	BookingCancelled(booking model.Booking)
	GuestRegistered(pass model.GuestPass, booking model.Booking)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) BookingCreated(model.Booking)                   {}
func (NopNotifier) BookingCancelled(model.Booking)                 {}
func (NopNotifier) GuestRegistered(model.GuestPass, model.Booking) {}

const (
	defaultGraceBefore = 60 * time.Minute
	defaultGraceAfter  = 60 * time.Minute

	// defaultNotifyLeadMinutes is applied when a booking request does not
	// choose a reminder lead time.
	defaultNotifyLeadMinutes = 15
)

// Engine owns the reservation and access-window logic: bookings, holds, guest
// passes and the shared room availability index. All mutations write through
// to the store; the index is the in-memory source of truth for occupancy and
// is rebuilt from the store at startup via Load.
type Engine struct {
	store    store.Store
	clock    Clock
	notifier Notifier
	index    *AvailabilityIndex

	graceBefore time.Duration
	graceAfter  time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithGrace overrides the guest pass grace margins. Negative values are
// ignored.
func WithGrace(before, after time.Duration) Option {
	return func(e *Engine) {
		if before >= 0 {
			e.graceBefore = before
		}
		if after >= 0 {
			e.graceAfter = after
		}
	}
}

// WithNotifier sets the notification sink.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) {
		if n != nil {
			e.notifier = n
		}
	}
}

// New creates an engine with an empty availability index. Call Load before
// serving traffic so existing bookings and holds occupy their slots.
func New(s store.Store, clock Clock, opts ...Option) *Engine {
	e := &Engine{
		store:       s,
		clock:       clock,
		notifier:    NopNotifier{},
		index:       NewAvailabilityIndex(),
		graceBefore: defaultGraceBefore,
		graceAfter:  defaultGraceAfter,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Index exposes the availability index for read-only conflict queries.
func (e *Engine) Index() *AvailabilityIndex {
	return e.index
}

// Load rebuilds the availability index from the store: every active booking
// and every pending or confirmed hold claims its slot.
func (e *Engine) Load(ctx context.Context) error {
	bookings, err := e.store.ActiveBookings(ctx)
	if err != nil {
		return fmt.Errorf("load active bookings: %w", err)
	}
	for _, b := range bookings {
		w, err := NewWindow(b.StartTime, b.EndTime)
		if err != nil {
			return fmt.Errorf("booking %s has %w", b.ID, err)
		}
		if err := e.index.Reserve(b.RoomID, w, b.ID, KindBooking); err != nil {
			return fmt.Errorf("booking %s: %w", b.ID, err)
		}
	}
	holds, err := e.store.OpenHolds(ctx)
	if err != nil {
		return fmt.Errorf("load open holds: %w", err)
	}
	for _, h := range holds {
		w, err := NewWindow(h.StartTime, h.EndTime)
		if err != nil {
			return fmt.Errorf("hold %s has %w", h.ID, err)
		}
		if err := e.index.Reserve(h.RoomID, w, h.ID, KindHold); err != nil {
			return fmt.Errorf("hold %s: %w", h.ID, err)
		}
	}
	return nil
}
