package model

import "time"

// PushSubscription holds a browser push subscription for one user, so the
// organizer can be notified about their bookings and guests.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	UserID    string    `gorm:"index;size:128;not null"`
	CreatedAt time.Time `gorm:"not null"`
}
