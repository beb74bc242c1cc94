package services

import "github.com/drivent/booking-backend/internal/models"

// Eligibility gates. Each returns nil when the gate passes.

func requireBooking(booking *models.Booking) error {
	if booking == nil {
		return NotFoundError(MsgNoBooking)
	}
	return nil
}

func requireRoom(room *models.Room) error {
	if room == nil {
		return NotFoundError(MsgRoomNotFound)
	}
	return nil
}

// requireRoomFree fails when any booking already holds the room,
// including one owned by the caller.
func requireRoomFree(existing *models.Booking, message string) error {
	if existing != nil {
		return ForbiddenError(message)
	}
	return nil
}

// checkTicketEligible is a single combined gate: missing records, an unpaid
// ticket, a remote ticket type and a type without hotel all yield the same denial.
func checkTicketEligible(enrollment *models.Enrollment, ticket *models.Ticket, ticketType *models.TicketType) error {
	if enrollment == nil || ticket == nil || ticketType == nil {
		return ForbiddenError(MsgTicketIneligible)
	}
	if !ticket.IsPaid() || !ticketType.GrantsHotel() {
		return ForbiddenError(MsgTicketIneligible)
	}
	return nil
}

func checkBookingOwner(userBooking *models.Booking, bookingID int) error {
	if userBooking == nil || userBooking.ID != bookingID {
		return ForbiddenError(MsgNotBookingOwner)
	}
	return nil
}
