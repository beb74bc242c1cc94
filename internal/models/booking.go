package models

import (
	"errors"
	"time"
)

// Booking links one user to one hotel room
type Booking struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"userId" db:"user_id"`
	RoomID    int       `json:"roomId" db:"room_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// BookingWithRoom is the view returned by GET /booking
type BookingWithRoom struct {
	ID   int  `json:"id"`
	Room Room `json:"Room"`
}

// BookingResult is returned by create and update operations
type BookingResult struct {
	BookingID int `json:"bookingId"`
}

// CreateBookingRequest represents the request to create a booking
type CreateBookingRequest struct {
	RoomID int `json:"roomId" binding:"required,gt=0"`
}

// UpdateBookingRequest represents the request to move a booking to another room.
// BookingID is only read when the route carries no :bookingId segment.
type UpdateBookingRequest struct {
	RoomID    int `json:"roomId" binding:"omitempty,gt=0"`
	BookingID int `json:"bookingId" binding:"omitempty,gt=0"`
}

// Validate validates the update booking request once the booking id is resolved
func (r *UpdateBookingRequest) Validate() error {
	if r.BookingID <= 0 {
		return errors.New("bookingId must be a positive integer")
	}
	return nil
}
