package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/drivent/booking-backend/internal/models"
)

// UserRepository handles user database operations
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// FindByEmail returns a user by email, or nil when no account uses it
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, password, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	user := &models.User{}
	err := r.db.GetContext(ctx, user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return user, nil
}
