package engine

import "sync"

// OccupantKind tags what is claiming a room slot.
type OccupantKind string

const (
	KindBooking OccupantKind = "booking"
	KindHold    OccupantKind = "hold"
)

// Occupant is one claim on a room's time: an active booking or a
// pending/confirmed hold. Bookings and holds share a single occupancy space,
// so the overlap check has one code path for both.
type Occupant struct {
	ID     string       `json:"id"`
	Kind   OccupantKind `json:"kind"`
	Window Window       `json:"window"`
}

// roomSlots owns one room's occupants. Its mutex is the per-room critical
// section: every read-check-then-write sequence against a room happens with
// this lock held, which is what makes reserve/release free of check-then-act
// races across concurrent callers.
type roomSlots struct {
	mu        sync.Mutex
	occupants []Occupant
}

// AvailabilityIndex is the in-memory occupancy arena, keyed by room id. It is
// rebuilt from the store at startup and written through on every mutation.
// There is no cross-room coordination; each room's occupancy is independent.
type AvailabilityIndex struct {
	mu    sync.Mutex
	rooms map[string]*roomSlots
}

func NewAvailabilityIndex() *AvailabilityIndex {
	return &AvailabilityIndex{rooms: make(map[string]*roomSlots)}
}

func (idx *AvailabilityIndex) room(roomID string) *roomSlots {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	rs, ok := idx.rooms[roomID]
	if !ok {
		rs = &roomSlots{}
		idx.rooms[roomID] = rs
	}
	return rs
}

func conflicting(occupants []Occupant, w Window, excludeID string) *Occupant {
	for i := range occupants {
		if occupants[i].ID == excludeID {
			continue
		}
		if occupants[i].Window.Overlaps(w) {
			return &occupants[i]
		}
	}
	return nil
}

// IsFree reports whether the room has no occupant overlapping w. excludeID
// ignores one occupant, so an edit can check a booking against everything but
// its own current slot; pass "" to exclude nothing.
func (idx *AvailabilityIndex) IsFree(roomID string, w Window, excludeID string) bool {
	rs := idx.room(roomID)
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return conflicting(rs.occupants, w, excludeID) == nil
}

// Reserve atomically checks the slot and inserts the occupant, returning a
// *ConflictError when any other occupant overlaps.
func (idx *AvailabilityIndex) Reserve(roomID string, w Window, id string, kind OccupantKind) error {
	rs := idx.room(roomID)
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if c := conflicting(rs.occupants, w, id); c != nil {
		return &ConflictError{RoomID: roomID, Occupant: *c}
	}
	rs.occupants = append(rs.occupants, Occupant{ID: id, Kind: kind, Window: w})
	return nil
}

// Move atomically re-slots an existing occupant within one room: the old slot
// is released and the new one reserved under the same lock hold, so no
// concurrent reader ever observes the room both free at the old window and
// unclaimed at the new one. If the new window conflicts the occupant keeps
// its old slot.
func (idx *AvailabilityIndex) Move(roomID, id string, w Window) error {
	rs := idx.room(roomID)
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if c := conflicting(rs.occupants, w, id); c != nil {
		return &ConflictError{RoomID: roomID, Occupant: *c}
	}
	for i := range rs.occupants {
		if rs.occupants[i].ID == id {
			rs.occupants[i].Window = w
			return nil
		}
	}
	return ErrNotFound
}

// Release removes the occupant from the room. Releasing an absent occupant is
// a no-op, which keeps repeated expiry sweeps idempotent.
func (idx *AvailabilityIndex) Release(roomID, id string) {
	rs := idx.room(roomID)
	rs.mu.Lock()
	defer rs.mu.Unlock()
	for i := range rs.occupants {
		if rs.occupants[i].ID == id {
			rs.occupants = append(rs.occupants[:i], rs.occupants[i+1:]...)
			return
		}
	}
}

// Overlapping returns a snapshot of the occupants overlapping w, for conflict
// display. It never mutates.
func (idx *AvailabilityIndex) Overlapping(roomID string, w Window) []Occupant {
	rs := idx.room(roomID)
	rs.mu.Lock()
	defer rs.mu.Unlock()
	var out []Occupant
	for _, occ := range rs.occupants {
		if occ.Window.Overlaps(w) {
			out = append(out, occ)
		}
	}
	return out
}
