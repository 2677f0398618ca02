package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. Phone is stored because payment reminders
// go out over SMS.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Email is the user's email address (unique, used for login).
	Email string `json:"email"`

	// Phone is the user's phone number (unique, E.164 after normalization).
	Phone string `json:"phone"`

	// FullName is the display name.
	FullName string `json:"full_name"`

	// PasswordHash is the bcrypt hash of the password. Never serialized.
	PasswordHash string `json:"-"`

	// IsActive is false for deactivated accounts.
	IsActive bool `json:"is_active"`

	// CreatedAt / UpdatedAt are Unix timestamps.
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// NewUser constructs a user with a fresh ID and timestamps.
func NewUser(email, phone, fullName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		Phone:        phone,
		FullName:     fullName,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
