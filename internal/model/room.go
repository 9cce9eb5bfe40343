package model

import "time"

// Room represents a bookable meeting room.
type Room struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id"`
	Name       string    `gorm:"size:256;not null" json:"name"`
	Group      string    `gorm:"size:128" json:"group"`
	Location   string    `gorm:"size:256" json:"location"`
	Capacity   int       `gorm:"not null" json:"capacity"`
	Facilities []string  `gorm:"serializer:json" json:"facilities"`
	Notes      string    `gorm:"size:1024" json:"notes,omitempty"`
	IsOpen     bool      `gorm:"not null;default:true" json:"isOpen"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}
