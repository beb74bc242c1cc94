package models

import "time"

// Enrollment is a user's registration for the event (one per user)
type Enrollment struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"userId" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	CPF       string    `json:"cpf" db:"cpf"`
	Birthday  time.Time `json:"birthday" db:"birthday"`
	Phone     string    `json:"phone" db:"phone"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
