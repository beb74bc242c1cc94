package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/drivent/booking-backend/internal/models"
)

// RoomRepository handles read-only hotel room lookups
type RoomRepository struct {
	db DB
}

// NewRoomRepository creates a new room repository
func NewRoomRepository(db DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// FindByID returns a room by ID, or nil when it does not exist
func (r *RoomRepository) FindByID(ctx context.Context, roomID int) (*models.Room, error) {
	query := `
		SELECT id, name, capacity, hotel_id, created_at, updated_at
		FROM rooms
		WHERE id = $1
	`

	room := &models.Room{}
	err := r.db.GetContext(ctx, room, query, roomID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch room: %w", err)
	}

	return room, nil
}
