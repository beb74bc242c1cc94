package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/drivent/booking-backend/internal/models"
)

// EnrollmentRepository handles read-only enrollment lookups
type EnrollmentRepository struct {
	db DB
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// FindByUserID returns the enrollment of a user, or nil when the user never enrolled
func (r *EnrollmentRepository) FindByUserID(ctx context.Context, userID int) (*models.Enrollment, error) {
	query := `
		SELECT id, user_id, name, cpf, birthday, phone, created_at, updated_at
		FROM enrollments
		WHERE user_id = $1
	`

	enrollment := &models.Enrollment{}
	err := r.db.GetContext(ctx, enrollment, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch enrollment: %w", err)
	}

	return enrollment, nil
}
