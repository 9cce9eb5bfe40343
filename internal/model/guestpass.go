package model

import "time"

// PassStatus is the lifecycle state of a guest pass.
//
// pending -> registered -> checked-in, and any state can move to invalid when
// the parent booking is cancelled. Invalid is terminal.
type PassStatus string

const (
	PassPending    PassStatus = "pending"
	PassRegistered PassStatus = "registered"
	PassCheckedIn  PassStatus = "checked-in"
	PassInvalid    PassStatus = "invalid"
)

// GuestPass is a short-lived access pass for an external visitor, tied to a
// booking. Its access window is always derived from the parent booking's
// current time window plus the configured grace margins; it is intentionally
// not stored so it can never go stale after a booking edit.
type GuestPass struct {
	ID            string     `gorm:"primaryKey;size:64" json:"id"`
	BookingID     string     `gorm:"index;size:64;not null" json:"bookingId"`
	Name          string     `gorm:"size:128;not null" json:"name"`
	Phone         string     `gorm:"size:32;not null" json:"phone"`
	Company       string     `gorm:"size:256" json:"company,omitempty"`
	CarPlate      string     `gorm:"size:32" json:"carPlate,omitempty"`
	AttendeeCount int        `json:"attendeeCount,omitempty"`
	PassCode      string     `gorm:"size:16;not null" json:"passCode"`
	Status        PassStatus `gorm:"size:16;not null;index" json:"status"`
	FaceEnrolled  bool       `gorm:"not null;default:false" json:"faceEnrolled"`
	CheckedInAt   *time.Time `json:"checkedInAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"-"`
}
