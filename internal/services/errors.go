package services

import "errors"

// ErrorKind classifies a refused booking operation
type ErrorKind string

const (
	KindNotFound  ErrorKind = "not_found"
	KindForbidden ErrorKind = "forbidden"
)

// Denial messages returned to clients
const (
	MsgNoBooking        = "No booking found for this user"
	MsgRoomNotFound     = "Room not found"
	MsgBookingExists    = "Booking already exists"
	MsgTicketIneligible = "ticket not paid, remote, or excludes hotel"
	MsgRoomTaken        = "Room is already booked"
	MsgNotBookingOwner  = "This user does not have a booking"
)

// BookingError is a business rule denial
type BookingError struct {
	Kind    ErrorKind
	Message string
}

func (e *BookingError) Error() string {
	return e.Message
}

// NotFoundError builds a not-found denial
func NotFoundError(message string) *BookingError {
	return &BookingError{Kind: KindNotFound, Message: message}
}

// ForbiddenError builds a forbidden denial
func ForbiddenError(message string) *BookingError {
	return &BookingError{Kind: KindForbidden, Message: message}
}

// IsNotFound reports whether err is a not-found denial
func IsNotFound(err error) bool {
	return hasKind(err, KindNotFound)
}

// IsForbidden reports whether err is a forbidden denial
func IsForbidden(err error) bool {
	return hasKind(err, KindForbidden)
}

func hasKind(err error, kind ErrorKind) bool {
	var bookingErr *BookingError
	return errors.As(err, &bookingErr) && bookingErr.Kind == kind
}

// ErrInvalidCredentials is returned by sign-in for an unknown email or wrong password
var ErrInvalidCredentials = errors.New("email or password are incorrect")
