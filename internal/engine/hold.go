package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"roomreserve-backend/internal/model"
)

// CreateHoldInput carries everything needed to place a hold on a room for
// someone else.
type CreateHoldInput struct {
	RoomID        string
	Start         time.Time
	End           time.Time
	AssignedTo    string
	CreatedBy     string
	AutoReleaseAt time.Time
	Notes         string
}

// CreateHold reserves the slot for a pending hold. Holds share the occupancy
// space with bookings, so a hold blocks bookings and vice versa. Unlike
// bookings, holds are privileged and may be placed on closed rooms.
func (e *Engine) CreateHold(ctx context.Context, in CreateHoldInput) (*model.Hold, error) {
	w, err := NewWindow(in.Start, in.End)
	if err != nil {
		return nil, err
	}
	if !in.AutoReleaseAt.UTC().Before(w.Start) {
		return nil, ErrInvalidAutoRelease
	}

	room, err := e.store.GetRoom(ctx, in.RoomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, fmt.Errorf("room %s: %w", in.RoomID, ErrNotFound)
	}

	id := uuid.NewString()
	if err := e.index.Reserve(in.RoomID, w, id, KindHold); err != nil {
		return nil, err
	}

	hold := &model.Hold{
		ID:            id,
		RoomID:        in.RoomID,
		StartTime:     w.Start,
		EndTime:       w.End,
		AssignedTo:    in.AssignedTo,
		CreatedBy:     in.CreatedBy,
		AutoReleaseAt: in.AutoReleaseAt.UTC(),
		Notes:         in.Notes,
		Status:        model.HoldPending,
	}
	if err := e.store.SaveHold(ctx, hold); err != nil {
		e.index.Release(in.RoomID, id)
		return nil, err
	}
	return hold, nil
}

// ConfirmHold moves a pending hold to confirmed. Confirmed holds keep their
// slot and are never auto-expired.
func (e *Engine) ConfirmHold(ctx context.Context, holdID string) (*model.Hold, error) {
	hold, err := e.store.GetHold(ctx, holdID)
	if err != nil {
		return nil, err
	}
	if hold == nil {
		return nil, fmt.Errorf("hold %s: %w", holdID, ErrNotFound)
	}
	if hold.Status != model.HoldPending {
		return nil, fmt.Errorf("hold %s is %s: %w", holdID, hold.Status, ErrInvalidTransition)
	}
	hold.Status = model.HoldConfirmed
	if err := e.store.SaveHold(ctx, hold); err != nil {
		return nil, err
	}
	return hold, nil
}

// ReleaseHold frees the slot of a pending or confirmed hold. Only the hold's
// creator or assignee may release it.
func (e *Engine) ReleaseHold(ctx context.Context, holdID, callerID string) error {
	hold, err := e.store.GetHold(ctx, holdID)
	if err != nil {
		return err
	}
	if hold == nil {
		return fmt.Errorf("hold %s: %w", holdID, ErrNotFound)
	}
	if callerID != hold.CreatedBy && callerID != hold.AssignedTo {
		return fmt.Errorf("caller %s: %w", callerID, ErrForbidden)
	}
	if hold.Status != model.HoldPending && hold.Status != model.HoldConfirmed {
		return fmt.Errorf("hold %s is %s: %w", holdID, hold.Status, ErrInvalidTransition)
	}
	hold.Status = model.HoldReleased
	if err := e.store.SaveHold(ctx, hold); err != nil {
		return err
	}
	e.index.Release(hold.RoomID, hold.ID)
	return nil
}

// ExpireDue transitions every pending hold whose auto-release deadline has
// passed to expired and frees its slot. Safe to call repeatedly with the
// same clock value: already-expired holds are no longer pending and slot
// release is idempotent. A failure on one hold never stops the sweep for the
// rest; failures are joined and returned together.
func (e *Engine) ExpireDue(ctx context.Context, now time.Time) error {
	holds, err := e.store.PendingHolds(ctx)
	if err != nil {
		return fmt.Errorf("list pending holds: %w", err)
	}

	var errs []error
	for i := range holds {
		if holds[i].AutoReleaseAt.After(now) {
			continue
		}
		holds[i].Status = model.HoldExpired
		if err := e.store.SaveHold(ctx, &holds[i]); err != nil {
			errs = append(errs, fmt.Errorf("expire hold %s: %w", holds[i].ID, err))
			continue
		}
		e.index.Release(holds[i].RoomID, holds[i].ID)
	}
	return errors.Join(errs...)
}
