package domain

import "time"

// User is a registered account holder, identified by phone number.
type User struct {
	ID           int64
	PhoneNumber  string
	Name         string
	Email        string
	PasswordHash string
	IsActive     bool
	IsStaff      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
