package domain

import "time"

// AuthToken is the opaque bearer token associated 1:1 with a user. The
// same user keeps the same token across logins until it is invalidated.
type AuthToken struct {
	ID        int64
	UserID    int64
	Token     string
	CreatedAt time.Time
}
