package models

import "time"

// UserDB represents a user record in the database.
// The password hash never leaves the service: it is excluded from JSON.
type UserDB struct {
	UserID       int64     `json:"id" db:"user_id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"-" db:"created_at"`
	UpdatedAt    time.Time `json:"-" db:"updated_at"`
}

// Principal is the authenticated identity resolved from a session cookie,
// carried through the request context by the auth middleware.
type Principal struct {
	UserID    int64
	SessionID string
}
