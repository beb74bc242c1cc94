package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/drivent/booking-backend/internal/models"
)

// TicketRepository handles read-only ticket and ticket type lookups
type TicketRepository struct {
	db DB
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// FindByEnrollmentID returns the ticket of an enrollment, or nil
func (r *TicketRepository) FindByEnrollmentID(ctx context.Context, enrollmentID int) (*models.Ticket, error) {
	query := `
		SELECT id, ticket_type_id, enrollment_id, status, created_at, updated_at
		FROM tickets
		WHERE enrollment_id = $1
	`

	ticket := &models.Ticket{}
	err := r.db.GetContext(ctx, ticket, query, enrollmentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ticket: %w", err)
	}

	return ticket, nil
}

// FindTypeByID returns a ticket type, or nil
func (r *TicketRepository) FindTypeByID(ctx context.Context, ticketTypeID int) (*models.TicketType, error) {
	query := `
		SELECT id, name, price, is_remote, includes_hotel, created_at, updated_at
		FROM ticket_types
		WHERE id = $1
	`

	ticketType := &models.TicketType{}
	err := r.db.GetContext(ctx, ticketType, query, ticketTypeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ticket type: %w", err)
	}

	return ticketType, nil
}
