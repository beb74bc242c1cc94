package models

import "time"

// Hotel groups rooms offered to event attendees
type Hotel struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Image     string    `json:"image" db:"image"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Room is a bookable hotel room. Capacity is informational only.
type Room struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Capacity  int       `json:"capacity" db:"capacity"`
	HotelID   int       `json:"hotelId" db:"hotel_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
