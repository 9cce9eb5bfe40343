package model

import "time"

// BookingStatus is the lifecycle state of a booking. Cancelled bookings are
// kept forever so guest passes retain their audit trail.
type BookingStatus string

const (
	BookingActive    BookingStatus = "active"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking represents a committed reservation of a room for a time window.
// Start/End are a half-open interval [StartTime, EndTime) in UTC.
type Booking struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	RoomID      string    `gorm:"index;size:64;not null" json:"roomId"`
	Organizer   string    `gorm:"size:128;not null" json:"organizer"`
	Title       string    `gorm:"size:256;not null" json:"title"`
	StartTime   time.Time `gorm:"not null" json:"startTime"`
	EndTime     time.Time `gorm:"not null" json:"endTime"`
	Description string    `gorm:"size:2048" json:"description,omitempty"`
	// Participants keeps the order the organizer entered; duplicates are not
	// removed and entries are not checked against any directory.
	Participants []string `gorm:"serializer:json" json:"participants"`
	// NotifyLeadMinutes is how many minutes before StartTime the organizer is
	// notified. Zero means no reminder.
	NotifyLeadMinutes int           `gorm:"not null" json:"notifyLeadMinutes"`
	Status            BookingStatus `gorm:"size:16;not null;index" json:"status"`
	CreatedAt         time.Time     `json:"-"`
	UpdatedAt         time.Time     `json:"-"`
}
