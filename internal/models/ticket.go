package models

import "time"

// TicketStatus mirrors the ticket_status enum
type TicketStatus string

const (
	TicketStatusReserved TicketStatus = "RESERVED"
	TicketStatusPaid     TicketStatus = "PAID"
)

// TicketType decides whether a ticket grants hotel access
type TicketType struct {
	ID            int       `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Price         int       `json:"price" db:"price"`
	IsRemote      bool      `json:"isRemote" db:"is_remote"`
	IncludesHotel bool      `json:"includesHotel" db:"includes_hotel"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// Ticket belongs to an enrollment
type Ticket struct {
	ID           int          `json:"id" db:"id"`
	TicketTypeID int          `json:"ticketTypeId" db:"ticket_type_id"`
	EnrollmentID int          `json:"enrollmentId" db:"enrollment_id"`
	Status       TicketStatus `json:"status" db:"status"`
	CreatedAt    time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time    `json:"updatedAt" db:"updated_at"`
}

// IsPaid reports whether the ticket has been paid for
func (t *Ticket) IsPaid() bool {
	return t.Status == TicketStatusPaid
}

// GrantsHotel reports whether the ticket type allows a hotel booking
func (tt *TicketType) GrantsHotel() bool {
	return !tt.IsRemote && tt.IncludesHotel
}
