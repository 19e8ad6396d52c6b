package domain

import "time"

// Contact is a phone-book entry owned by a user. It is not an account
// itself and carries no uniqueness constraints: several owners may hold
// the same number, and an owner may hold duplicates.
type Contact struct {
	ID          int64
	OwnerID     int64
	Name        string
	PhoneNumber string
	CreatedAt   time.Time
}
