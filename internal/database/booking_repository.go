package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/drivent/booking-backend/internal/models"
	"github.com/lib/pq"
)

// ErrBookingConflict is returned when a write would give a room or a user a second booking
var ErrBookingConflict = errors.New("booking conflicts with an existing booking")

const uniqueViolation = "23505"

const bookingColumns = `id, user_id, room_id, created_at, updated_at`

// BookingRepository handles booking database operations
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{
		db: db,
	}
}

// FindByUserID returns the booking of a user, or nil when the user has none
func (r *BookingRepository) FindByUserID(ctx context.Context, userID int) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 LIMIT 1`
	return r.findOne(ctx, query, userID)
}

// FindByRoomID returns the booking holding a room, or nil when the room is free
func (r *BookingRepository) FindByRoomID(ctx context.Context, roomID int) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE room_id = $1 LIMIT 1`
	return r.findOne(ctx, query, roomID)
}

func (r *BookingRepository) findOne(ctx context.Context, query string, arg int) (*models.Booking, error) {
	booking := &models.Booking{}
	err := r.db.GetContext(ctx, booking, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return booking, nil
}

// Create inserts a booking. The unique constraints on room_id and user_id make
// the insert fail with ErrBookingConflict when another request won the race.
func (r *BookingRepository) Create(ctx context.Context, roomID, userID int) (*models.Booking, error) {
	query := `
		INSERT INTO bookings (room_id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		RETURNING ` + bookingColumns

	booking := &models.Booking{}
	if err := r.db.GetContext(ctx, booking, query, roomID, userID, time.Now()); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrBookingConflict
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	return booking, nil
}

// UpdateRoom moves a booking to another room
func (r *BookingRepository) UpdateRoom(ctx context.Context, bookingID, roomID int) (*models.Booking, error) {
	query := `
		UPDATE bookings
		SET room_id = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + bookingColumns

	booking := &models.Booking{}
	err := r.db.GetContext(ctx, booking, query, roomID, time.Now(), bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("booking %d not found", bookingID)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrBookingConflict
		}
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}

	return booking, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
