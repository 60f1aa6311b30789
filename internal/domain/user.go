package domain

import "time"

// User represents a user in the system
type User struct {
	ID           string     `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	Username     string     `json:"username" db:"username"`
	FirstName    string     `json:"first_name" db:"first_name"`
	LastName     string     `json:"last_name" db:"last_name"`
	PhoneNumber  *string    `json:"phone_number" db:"phone_number"`
	Address      *string    `json:"address" db:"address"`
	PasswordHash string     `json:"-" db:"password_hash"`
	DateJoined   time.Time  `json:"date_joined" db:"date_joined"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at" db:"last_login_at"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	IsStaff      bool       `json:"is_staff" db:"is_staff"`
}

// FullName returns the user's first and last name joined with a space
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// RefreshToken represents a persisted refresh token record
type RefreshToken struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	TokenID   string    `json:"token_id" db:"token_id"`
	TokenHash string    `json:"-" db:"token_hash"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
