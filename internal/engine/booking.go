package engine

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"roomreserve-backend/internal/model"
)

// CreateBookingInput carries everything needed to book a room.
type CreateBookingInput struct {
	RoomID       string
	Start        time.Time
	End          time.Time
	Organizer    string
	Title        string
	Participants []string
	Description  string
	// NotifyLeadMinutes is minutes before start for the reminder; nil applies
	// the 15 minute default and an explicit 0 means no reminder.
	NotifyLeadMinutes *int
}

// CreateBooking reserves the slot and persists a new active booking. The
// room must exist and be open; the slot must not overlap any active booking
// or open hold on the same room.
func (e *Engine) CreateBooking(ctx context.Context, in CreateBookingInput) (*model.Booking, error) {
	w, err := NewWindow(in.Start, in.End)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	room, err := e.store.GetRoom(ctx, in.RoomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, fmt.Errorf("room %s: %w", in.RoomID, ErrNotFound)
	}
	if !room.IsOpen {
		return nil, fmt.Errorf("room %s: %w", in.RoomID, ErrRoomClosed)
	}

	lead := defaultNotifyLeadMinutes
	if in.NotifyLeadMinutes != nil && *in.NotifyLeadMinutes >= 0 {
		lead = *in.NotifyLeadMinutes
	}

	id := uuid.NewString()
	if err := e.index.Reserve(in.RoomID, w, id, KindBooking); err != nil {
		return nil, asBookingConflict(err)
	}

	booking := &model.Booking{
		ID:                id,
		RoomID:            in.RoomID,
		Organizer:         in.Organizer,
		Title:             title,
		StartTime:         w.Start,
		EndTime:           w.End,
		Description:       in.Description,
		Participants:      in.Participants,
		NotifyLeadMinutes: lead,
		Status:            model.BookingActive,
	}
	if err := e.store.SaveBooking(ctx, booking); err != nil {
		e.index.Release(in.RoomID, id)
		return nil, err
	}

	e.notifier.BookingCreated(*booking)
	return booking, nil
}

// EditBookingInput patches a booking. Nil fields keep their current value.
type EditBookingInput struct {
	RoomID            *string
	Start             *time.Time
	End               *time.Time
	Title             *string
	Participants      *[]string
	Description       *string
	NotifyLeadMinutes *int
}

// EditBooking re-checks availability excluding the booking's own slot, then
// swaps the old slot for the new one as a single transition: a concurrent
// reader never observes the room free at the old window without the new
// window already claimed.
func (e *Engine) EditBooking(ctx context.Context, bookingID, callerID string, in EditBookingInput) (*model.Booking, error) {
	booking, err := e.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil || booking.Status != model.BookingActive {
		return nil, fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
	}
	if booking.Organizer != callerID {
		return nil, fmt.Errorf("caller %s is not the organizer: %w", callerID, ErrForbidden)
	}

	start, end := booking.StartTime, booking.EndTime
	if in.Start != nil {
		start = *in.Start
	}
	if in.End != nil {
		end = *in.End
	}
	w, err := NewWindow(start, end)
	if err != nil {
		return nil, err
	}

	title := booking.Title
	if in.Title != nil {
		title = strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, ErrEmptyTitle
		}
	}

	oldRoom, oldWindow := booking.RoomID, Window{Start: booking.StartTime, End: booking.EndTime}
	newRoom := oldRoom
	if in.RoomID != nil && *in.RoomID != "" {
		newRoom = *in.RoomID
	}

	if newRoom == oldRoom {
		if err := e.index.Move(oldRoom, bookingID, w); err != nil {
			return nil, asBookingConflict(err)
		}
	} else {
		room, err := e.store.GetRoom(ctx, newRoom)
		if err != nil {
			return nil, err
		}
		if room == nil {
			return nil, fmt.Errorf("room %s: %w", newRoom, ErrNotFound)
		}
		if !room.IsOpen {
			return nil, fmt.Errorf("room %s: %w", newRoom, ErrRoomClosed)
		}
		// Claim the target room before freeing the old slot. The booking may
		// briefly occupy both rooms, never neither.
		if err := e.index.Reserve(newRoom, w, bookingID, KindBooking); err != nil {
			return nil, asBookingConflict(err)
		}
		e.index.Release(oldRoom, bookingID)
	}

	booking.RoomID = newRoom
	booking.StartTime = w.Start
	booking.EndTime = w.End
	booking.Title = title
	if in.Participants != nil {
		booking.Participants = *in.Participants
	}
	if in.Description != nil {
		booking.Description = *in.Description
	}
	if in.NotifyLeadMinutes != nil && *in.NotifyLeadMinutes >= 0 {
		booking.NotifyLeadMinutes = *in.NotifyLeadMinutes
	}

	if err := e.store.SaveBooking(ctx, booking); err != nil {
		// Put the slot back so the index keeps matching the stored state.
		if newRoom == oldRoom {
			if mvErr := e.index.Move(oldRoom, bookingID, oldWindow); mvErr != nil {
				log.Printf("failed to restore slot for booking %s: %v", bookingID, mvErr)
			}
		} else {
			e.index.Release(newRoom, bookingID)
			if rsErr := e.index.Reserve(oldRoom, oldWindow, bookingID, KindBooking); rsErr != nil {
				log.Printf("failed to restore slot for booking %s: %v", bookingID, rsErr)
			}
		}
		return nil, err
	}
	return booking, nil
}

// CancelBooking marks the booking cancelled, frees its slot and invalidates
// every guest pass issued against it. The booking record is retained so the
// pass history stays auditable.
func (e *Engine) CancelBooking(ctx context.Context, bookingID, callerID string) error {
	booking, err := e.store.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking == nil || booking.Status != model.BookingActive {
		return fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
	}
	if booking.Organizer != callerID {
		return fmt.Errorf("caller %s is not the organizer: %w", callerID, ErrForbidden)
	}

	booking.Status = model.BookingCancelled
	if err := e.store.SaveBooking(ctx, booking); err != nil {
		return err
	}
	e.index.Release(booking.RoomID, booking.ID)

	passes, err := e.store.PassesByBooking(ctx, bookingID)
	if err != nil {
		log.Printf("failed to load passes for cancelled booking %s: %v", bookingID, err)
	}
	for i := range passes {
		if passes[i].Status == model.PassInvalid {
			continue
		}
		passes[i].Status = model.PassInvalid
		if err := e.store.SavePass(ctx, &passes[i]); err != nil {
			log.Printf("failed to invalidate pass %s: %v", passes[i].ID, err)
		}
	}

	e.notifier.BookingCancelled(*booking)
	return nil
}

// ConflictsFor lists the occupants overlapping the window, for display.
func (e *Engine) ConflictsFor(roomID string, start, end time.Time) ([]Occupant, error) {
	w, err := NewWindow(start, end)
	if err != nil {
		return nil, err
	}
	return e.index.Overlapping(roomID, w), nil
}

// asBookingConflict rebrands an index conflict as a booking conflict so the
// caller sees which occupant is in the way.
func asBookingConflict(err error) error {
	if c, ok := err.(*ConflictError); ok {
		return fmt.Errorf("%w: room %s occupied by %s %s from %s to %s",
			ErrBookingConflict, c.RoomID, c.Occupant.Kind, c.Occupant.ID,
			c.Occupant.Window.Start.Format(time.RFC3339), c.Occupant.Window.End.Format(time.RFC3339))
	}
	return err
}
