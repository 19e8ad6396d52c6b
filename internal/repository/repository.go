package repository

import (
	"context"

	"github.com/okaditya84/Spam-Contact-Search-API/internal/domain"
)

// UserRepository persists registered users.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	GetByPhone(ctx context.Context, phoneNumber string) (domain.User, error)
	// SearchByName returns every user whose name contains the query
	// (case-insensitive), in id order.
	SearchByName(ctx context.Context, query string) ([]domain.User, error)
}

// ContactRepository persists per-owner phone-book entries.
type ContactRepository interface {
	Create(ctx context.Context, contact domain.Contact) (domain.Contact, error)
	GetByID(ctx context.Context, id int64) (domain.Contact, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Contact, error)
	SearchByName(ctx context.Context, query string) ([]domain.Contact, error)
	FindByPhone(ctx context.Context, phoneNumber string) ([]domain.Contact, error)
	// OwnerHasPhone reports whether the owner keeps a contact entry with
	// the given number. This is the reverse lookup behind the email
	// visibility rule.
	OwnerHasPhone(ctx context.Context, ownerID int64, phoneNumber string) (bool, error)
}

// SpamRepository persists spam reports.
type SpamRepository interface {
	// Create inserts a report. A duplicate (phone_number, reported_by)
	// pair surfaces as a unique-violation error for the caller to map.
	Create(ctx context.Context, report domain.SpamReport) (domain.SpamReport, error)
	// CountsByPhone returns report counts grouped by phone number,
	// restricted to the given numbers. Numbers without reports are
	// absent from the map.
	CountsByPhone(ctx context.Context, phoneNumbers []string) (map[string]int64, error)
}

// TokenRepository persists bearer tokens, one per user.
type TokenRepository interface {
	Create(ctx context.Context, token domain.AuthToken) (domain.AuthToken, error)
	GetByUserID(ctx context.Context, userID int64) (domain.AuthToken, error)
	GetByToken(ctx context.Context, token string) (domain.AuthToken, error)
}
