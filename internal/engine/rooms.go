package engine

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"roomreserve-backend/internal/model"
)

// CreateRoom persists a new room. An id is assigned when the caller did not
// provide one.
func (e *Engine) CreateRoom(ctx context.Context, room *model.Room) (*model.Room, error) {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	if err := e.store.SaveRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// UpdateRoom replaces the room's attributes. Closing a room rejects new
// bookings but leaves existing occupants in place.
func (e *Engine) UpdateRoom(ctx context.Context, room *model.Room) (*model.Room, error) {
	existing, err := e.store.GetRoom(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("room %s: %w", room.ID, ErrNotFound)
	}
	if err := e.store.SaveRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// DeleteRoom removes the room and invalidates what depends on it: future
// active bookings are cancelled (cascading to their guest passes) and open
// holds are expired. Past bookings are untouched.
func (e *Engine) DeleteRoom(ctx context.Context, roomID string) error {
	room, err := e.store.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room == nil {
		return fmt.Errorf("room %s: %w", roomID, ErrNotFound)
	}

	now := e.clock.Now()

	bookings, err := e.store.ActiveBookingsByRoom(ctx, roomID)
	if err != nil {
		return err
	}
	for i := range bookings {
		if !bookings[i].EndTime.After(now) {
			continue
		}
		bookings[i].Status = model.BookingCancelled
		if err := e.store.SaveBooking(ctx, &bookings[i]); err != nil {
			log.Printf("failed to cancel booking %s for deleted room %s: %v", bookings[i].ID, roomID, err)
			continue
		}
		e.index.Release(roomID, bookings[i].ID)

		passes, err := e.store.PassesByBooking(ctx, bookings[i].ID)
		if err != nil {
			log.Printf("failed to load passes for booking %s: %v", bookings[i].ID, err)
			continue
		}
		for j := range passes {
			if passes[j].Status == model.PassInvalid {
				continue
			}
			passes[j].Status = model.PassInvalid
			if err := e.store.SavePass(ctx, &passes[j]); err != nil {
				log.Printf("failed to invalidate pass %s: %v", passes[j].ID, err)
			}
		}
		e.notifier.BookingCancelled(bookings[i])
	}

	holds, err := e.store.OpenHoldsByRoom(ctx, roomID)
	if err != nil {
		return err
	}
	for i := range holds {
		holds[i].Status = model.HoldExpired
		if err := e.store.SaveHold(ctx, &holds[i]); err != nil {
			log.Printf("failed to expire hold %s for deleted room %s: %v", holds[i].ID, roomID, err)
			continue
		}
		e.index.Release(roomID, holds[i].ID)
	}

	return e.store.DeleteRoom(ctx, roomID)
}

// Rooms lists all rooms.
func (e *Engine) Rooms(ctx context.Context) ([]model.Room, error) {
	return e.store.ListRooms(ctx)
}
