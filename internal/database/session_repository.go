package database

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/drivent/booking-backend/internal/models"
)

// SessionRepository handles session database operations
type SessionRepository struct {
	db DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db DB) *SessionRepository {
	return &SessionRepository{
		db: db,
	}
}

// hashToken creates a SHA-256 hash of the token for storage
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// Create stores a session for a freshly issued token
func (r *SessionRepository) Create(ctx context.Context, userID int, token string) (*models.Session, error) {
	query := `
		INSERT INTO sessions (user_id, token, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		RETURNING id, user_id, token, created_at, updated_at
	`

	session := &models.Session{}
	if err := r.db.GetContext(ctx, session, query, userID, hashToken(token), time.Now()); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// ExistsByToken reports whether a session still exists for the token
func (r *SessionRepository) ExistsByToken(ctx context.Context, token string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM sessions WHERE token = $1)`

	if err := r.db.GetContext(ctx, &exists, query, hashToken(token)); err != nil {
		return false, fmt.Errorf("failed to check session: %w", err)
	}

	return exists, nil
}
