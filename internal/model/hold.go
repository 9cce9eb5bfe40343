package model

import "time"

// HoldStatus is the lifecycle state of a hold.
type HoldStatus string

const (
	HoldPending   HoldStatus = "pending"
	HoldConfirmed HoldStatus = "confirmed"
	HoldReleased  HoldStatus = "released"
	HoldExpired   HoldStatus = "expired"
)

// Hold is a reservation made on someone else's behalf. A pending or confirmed
// hold occupies the room exactly like a booking; a pending hold that is not
// confirmed before AutoReleaseAt is expired by the sweeper and frees its slot.
type Hold struct {
	ID            string     `gorm:"primaryKey;size:64" json:"id"`
	RoomID        string     `gorm:"index;size:64;not null" json:"roomId"`
	StartTime     time.Time  `gorm:"not null" json:"startTime"`
	EndTime       time.Time  `gorm:"not null" json:"endTime"`
	AssignedTo    string     `gorm:"size:128;not null" json:"assignedTo"`
	CreatedBy     string     `gorm:"size:128;not null" json:"createdBy"`
	AutoReleaseAt time.Time  `gorm:"not null;index" json:"autoReleaseAt"`
	Notes         string     `gorm:"size:1024" json:"notes,omitempty"`
	Status        HoldStatus `gorm:"size:16;not null;index" json:"status"`
	CreatedAt     time.Time  `json:"-"`
	UpdatedAt     time.Time  `json:"-"`
}
