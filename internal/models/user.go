package models

import "time"

// User represents an account of the event application
type User struct {
	ID        int       `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"` // bcrypt hash, never exposed
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Session represents a signed-in token. Token holds the SHA-256 digest.
type Session struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"userId" db:"user_id"`
	Token     string    `json:"-" db:"token"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// SignInRequest represents the credentials posted to /auth/sign-in
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// SignInResponse is returned after a successful sign-in
type SignInResponse struct {
	User  SignInUser `json:"user"`
	Token string     `json:"token"`
}

// SignInUser is the public part of a user returned on sign-in
type SignInUser struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
}
