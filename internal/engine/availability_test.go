package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityIndexReserve(t *testing.T) {
	idx := NewAvailabilityIndex()
	w := mustWindow(t, "2025-06-02T09:00:00Z", "2025-06-02T10:00:00Z")

	require.NoError(t, idx.Reserve("room-1", w, "b1", KindBooking))

	t.Run("overlap conflicts", func(t *testing.T) {
		err := idx.Reserve("room-1", mustWindow(t, "2025-06-02T09:30:00Z", "2025-06-02T10:30:00Z"), "b2", KindBooking)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSlotConflict)

		var conflict *ConflictError
		require.True(t, errors.As(err, &conflict))
		assert.Equal(t, "b1", conflict.Occupant.ID)
		assert.Equal(t, KindBooking, conflict.Occupant.Kind)
	})

	t.Run("touching slot is free", func(t *testing.T) {
		err := idx.Reserve("room-1", mustWindow(t, "2025-06-02T10:00:00Z", "2025-06-02T11:00:00Z"), "b3", KindBooking)
		assert.NoError(t, err)
	})

	t.Run("other room unaffected", func(t *testing.T) {
		err := idx.Reserve("room-2", w, "b4", KindBooking)
		assert.NoError(t, err)
	})

	t.Run("hold conflicts with booking", func(t *testing.T) {
		err := idx.Reserve("room-1", w, "h1", KindHold)
		assert.ErrorIs(t, err, ErrSlotConflict)
	})
}

func TestAvailabilityIndexIsFree(t *testing.T) {
	idx := NewAvailabilityIndex()
	w := mustWindow(t, "2025-06-02T09:00:00Z", "2025-06-02T10:00:00Z")
	require.NoError(t, idx.Reserve("room-1", w, "b1", KindBooking))

	overlapping := mustWindow(t, "2025-06-02T09:30:00Z", "2025-06-02T10:30:00Z")
	assert.False(t, idx.IsFree("room-1", overlapping, ""))
	assert.True(t, idx.IsFree("room-1", overlapping, "b1"), "excluding the occupant itself frees the slot")
	assert.True(t, idx.IsFree("room-1", mustWindow(t, "2025-06-02T10:00:00Z", "2025-06-02T11:00:00Z"), ""))
}

func TestAvailabilityIndexRelease(t *testing.T) {
	idx := NewAvailabilityIndex()
	w := mustWindow(t, "2025-06-02T09:00:00Z", "2025-06-02T10:00:00Z")
	require.NoError(t, idx.Reserve("room-1", w, "b1", KindBooking))

	idx.Release("room-1", "b1")
	assert.True(t, idx.IsFree("room-1", w, ""))

	// Releasing again is a no-op, not an error.
	idx.Release("room-1", "b1")
	idx.Release("room-1", "never-existed")
	idx.Release("no-such-room", "b1")
}

func TestAvailabilityIndexMove(t *testing.T) {
	idx := NewAvailabilityIndex()
	oldW := mustWindow(t, "2025-06-02T09:00:00Z", "2025-06-02T10:00:00Z")
	require.NoError(t, idx.Reserve("room-1", oldW, "b1", KindBooking))
	require.NoError(t, idx.Reserve("room-1", mustWindow(t, "2025-06-02T13:00:00Z", "2025-06-02T14:00:00Z"), "b2", KindBooking))

	t.Run("move to free slot", func(t *testing.T) {
		newW := mustWindow(t, "2025-06-02T11:00:00Z", "2025-06-02T12:00:00Z")
		require.NoError(t, idx.Move("room-1", "b1", newW))
		assert.True(t, idx.IsFree("room-1", oldW, ""), "old slot freed")
		assert.False(t, idx.IsFree("room-1", newW, ""), "new slot occupied")
	})

	t.Run("move into own slot allowed", func(t *testing.T) {
		w := mustWindow(t, "2025-06-02T11:30:00Z", "2025-06-02T12:30:00Z")
		assert.NoError(t, idx.Move("room-1", "b1", w))
	})

	t.Run("conflicting move keeps old slot", func(t *testing.T) {
		current := mustWindow(t, "2025-06-02T11:30:00Z", "2025-06-02T12:30:00Z")
		err := idx.Move("room-1", "b1", mustWindow(t, "2025-06-02T13:30:00Z", "2025-06-02T14:30:00Z"))
		assert.ErrorIs(t, err, ErrSlotConflict)
		assert.False(t, idx.IsFree("room-1", current, ""), "occupant keeps its slot after a failed move")
	})

	t.Run("unknown occupant", func(t *testing.T) {
		err := idx.Move("room-1", "ghost", mustWindow(t, "2025-06-02T15:00:00Z", "2025-06-02T16:00:00Z"))
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAvailabilityIndexOverlapping(t *testing.T) {
	idx := NewAvailabilityIndex()
	require.NoError(t, idx.Reserve("room-1", mustWindow(t, "2025-06-02T09:00:00Z", "2025-06-02T10:00:00Z"), "b1", KindBooking))
	require.NoError(t, idx.Reserve("room-1", mustWindow(t, "2025-06-02T11:00:00Z", "2025-06-02T12:00:00Z"), "h1", KindHold))

	occ := idx.Overlapping("room-1", mustWindow(t, "2025-06-02T09:30:00Z", "2025-06-02T11:30:00Z"))
	require.Len(t, occ, 2)

	occ = idx.Overlapping("room-1", mustWindow(t, "2025-06-02T10:00:00Z", "2025-06-02T11:00:00Z"))
	assert.Empty(t, occ, "slot between the two occupants is free")
}
