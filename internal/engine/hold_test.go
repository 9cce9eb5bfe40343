package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomreserve-backend/internal/model"
	"roomreserve-backend/internal/store"
)

func TestCreateHold(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		e, s, _, _ := newTestEngine(t)
		seedRoom(t, s, "R", true)

		h, err := e.CreateHold(ctx, CreateHoldInput{
			RoomID: "R", Start: at(t, "14:00"), End: at(t, "15:00"),
			AssignedTo: "bob", CreatedBy: "admin", AutoReleaseAt: at(t, "13:00"),
			Notes: "VIP visit",
		})
		require.NoError(t, err)
		assert.Equal(t, model.HoldPending, h.Status)
	})

	t.Run("auto-release must precede hold start", func(t *testing.T) {
		e, s, _, _ := newTestEngine(t)
		seedRoom(t, s, "R", true)

		_, err := e.CreateHold(ctx, CreateHoldInput{
			RoomID: "R", Start: at(t, "14:00"), End: at(t, "15:00"),
			AssignedTo: "bob", CreatedBy: "admin", AutoReleaseAt: at(t, "14:00"),
		})
		assert.ErrorIs(t, err, ErrInvalidAutoRelease)
	})

	t.Run("closed room accepts holds", func(t *testing.T) {
		e, s, _, _ := newTestEngine(t)
		seedRoom(t, s, "R", false)

		_, err := e.CreateHold(ctx, CreateHoldInput{
			RoomID: "R", Start: at(t, "14:00"), End: at(t, "15:00"),
			AssignedTo: "bob", CreatedBy: "admin", AutoReleaseAt: at(t, "13:00"),
		})
		assert.NoError(t, err, "holds are privileged and bypass the open flag")
	})

	t.Run("booking blocks hold", func(t *testing.T) {
		e, s, _, _ := newTestEngine(t)
		seedRoom(t, s, "R", true)

		_, err := e.CreateBooking(ctx, CreateBookingInput{
			RoomID: "R", Start: at(t, "14:00"), End: at(t, "15:00"),
			Organizer: "alice", Title: "all hands",
		})
		require.NoError(t, err)

		_, err = e.CreateHold(ctx, CreateHoldInput{
			RoomID: "R", Start: at(t, "14:30"), End: at(t, "15:30"),
			AssignedTo: "bob", CreatedBy: "admin", AutoReleaseAt: at(t, "13:00"),
		})
		assert.ErrorIs(t, err, ErrSlotConflict)
	})
}

func TestConfirmHold(t *testing.T) {
	ctx := context.Background()
	e, s, _, _ := newTestEngine(t)
	seedRoom(t, s, "R", true)

	h, err := e.CreateHold(ctx, CreateHoldInput{
		RoomID: "R", Start: at(t, "14:00"), End: at(t, "15:00"),
		AssignedTo: "bob", CreatedBy: "admin", AutoReleaseAt: at(t, "13:00"),
	})
	require.NoError(t, err)

	confirmed, err := e.ConfirmHold(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, model.HoldConfirmed, confirmed.Status)

	_, err = e.ConfirmHold(ctx, h.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition, "confirm is pending-only")

	_, err = e.ConfirmHold(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReleaseHold(t *testing.T) {
	ctx := context.Background()
	e, s, _, _ := newTestEngine(t)
	seedRoom(t, s, "R", true)

	newHold := func(t *testing.T) *model.Hold {
		h, err := e.CreateHold(ctx, CreateHoldInput{
			RoomID: "R", Start: at(t, "14:00"), End: at(t, "15:00"),
			AssignedTo: "bob", CreatedBy: "admin", AutoReleaseAt: at(t, "13:00"),
		})
		require.NoError(t, err)
		return h
	}

	t.Run("creator may release", func(t *testing.T) {
		h := newHold(t)
		require.NoError(t, e.ReleaseHold(ctx, h.ID, "admin"))

		w := mustWindow(t, "2025-06-02T14:00:00Z", "2025-06-02T15:00:00Z")
		assert.True(t, e.Index().IsFree("R", w, ""))
	})

	t.Run("assignee may release", func(t *testing.T) {
		h := newHold(t)
		assert.NoError(t, e.ReleaseHold(ctx, h.ID, "bob"))
	})

	t.Run("others are forbidden", func(t *testing.T) {
		h := newHold(t)
		assert.ErrorIs(t, e.ReleaseHold(ctx, h.ID, "mallory"), ErrForbidden)
		require.NoError(t, e.ReleaseHold(ctx, h.ID, "bob"))
	})

	t.Run("released hold cannot be released again", func(t *testing.T) {
		h := newHold(t)
		require.NoError(t, e.ReleaseHold(ctx, h.ID, "bob"))
		assert.ErrorIs(t, e.ReleaseHold(ctx, h.ID, "bob"), ErrInvalidTransition)
	})
}

// TestExpireDue walks the sweep scenario: a hold with autoReleaseAt=13:00
// stays pending at 12:59 and expires at 13:01, freeing its slot.
func TestExpireDue(t *testing.T) {
	ctx := context.Background()
	e, s, _, _ := newTestEngine(t)
	seedRoom(t, s, "R", true)

	h, err := e.CreateHold(ctx, CreateHoldInput{
		RoomID: "R", Start: at(t, "14:00"), End: at(t, "15:00"),
		AssignedTo: "bob", CreatedBy: "admin", AutoReleaseAt: at(t, "13:00"),
	})
	require.NoError(t, err)

	w := mustWindow(t, "2025-06-02T14:00:00Z", "2025-06-02T15:00:00Z")

	require.NoError(t, e.ExpireDue(ctx, at(t, "12:59")))
	stored, err := s.GetHold(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, model.HoldPending, stored.Status, "deadline not reached yet")
	assert.False(t, e.Index().IsFree("R", w, ""), "room still occupied")

	require.NoError(t, e.ExpireDue(ctx, at(t, "13:01")))
	stored, err = s.GetHold(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, model.HoldExpired, stored.Status)
	assert.True(t, e.Index().IsFree("R", w, ""), "expired hold frees the slot")

	// Sweeping again with the same clock is a no-op.
	require.NoError(t, e.ExpireDue(ctx, at(t, "13:01")))
	stored, err = s.GetHold(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, model.HoldExpired, stored.Status)
}

func TestExpireDueSkipsConfirmed(t *testing.T) {
	ctx := context.Background()
	e, s, _, _ := newTestEngine(t)
	seedRoom(t, s, "R", true)

	h, err := e.CreateHold(ctx, CreateHoldInput{
		RoomID: "R", Start: at(t, "14:00"), End: at(t, "15:00"),
		AssignedTo: "bob", CreatedBy: "admin", AutoReleaseAt: at(t, "13:00"),
	})
	require.NoError(t, err)
	_, err = e.ConfirmHold(ctx, h.ID)
	require.NoError(t, err)

	require.NoError(t, e.ExpireDue(ctx, at(t, "18:00")))
	stored, err := s.GetHold(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, model.HoldConfirmed, stored.Status, "confirmed holds never auto-expire")
}

// failingHoldStore fails saves for one hold id, to prove a sweep processes
// the remaining holds anyway.
type failingHoldStore struct {
	store.Store
	failID string
}

func (f *failingHoldStore) SaveHold(ctx context.Context, hold *model.Hold) error {
	if hold.ID == f.failID {
		return errors.New("write refused")
	}
	return f.Store.SaveHold(ctx, hold)
}

func TestExpireDueFailureIsolation(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemStore()
	clock := &FixedClock{Time: at(t, "08:00")}
	e := New(mem, clock)
	seedRoom(t, mem, "R", true)
	seedRoom(t, mem, "R2", true)

	h1, err := e.CreateHold(ctx, CreateHoldInput{
		RoomID: "R", Start: at(t, "14:00"), End: at(t, "15:00"),
		AssignedTo: "bob", CreatedBy: "admin", AutoReleaseAt: at(t, "13:00"),
	})
	require.NoError(t, err)
	h2, err := e.CreateHold(ctx, CreateHoldInput{
		RoomID: "R2", Start: at(t, "14:00"), End: at(t, "15:00"),
		AssignedTo: "carol", CreatedBy: "admin", AutoReleaseAt: at(t, "13:00"),
	})
	require.NoError(t, err)

	// Swap in a store that refuses to persist h1's expiry.
	e.store = &failingHoldStore{Store: mem, failID: h1.ID}

	err = e.ExpireDue(ctx, at(t, "13:30"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), h1.ID)

	stored2, err := mem.GetHold(ctx, h2.ID)
	require.NoError(t, err)
	assert.Equal(t, model.HoldExpired, stored2.Status, "failure on one hold does not halt the sweep")
}
