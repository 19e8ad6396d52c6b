package service_test

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/okaditya84/Spam-Contact-Search-API/internal/domain"
	"github.com/okaditya84/Spam-Contact-Search-API/internal/repository"
)

// In-memory repositories mirroring the Postgres behavior the services
// rely on: pgx.ErrNoRows for misses and PgError 23505 for unique
// violations.

var errUniqueViolation = &pgconn.PgError{Code: "23505"}

var (
	_ repository.UserRepository    = (*memoryUserRepo)(nil)
	_ repository.ContactRepository = (*memoryContactRepo)(nil)
	_ repository.SpamRepository    = (*memorySpamRepo)(nil)
	_ repository.TokenRepository   = (*memoryTokenRepo)(nil)
)

type memoryUserRepo struct {
	nextID int64
	users  []domain.User
}

func (m *memoryUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	for _, u := range m.users {
		if u.PhoneNumber == user.PhoneNumber {
			return domain.User{}, errUniqueViolation
		}
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users = append(m.users, user)
	return user, nil
}

func (m *memoryUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, pgx.ErrNoRows
}

func (m *memoryUserRepo) GetByPhone(ctx context.Context, phoneNumber string) (domain.User, error) {
	for _, u := range m.users {
		if u.PhoneNumber == phoneNumber {
			return u, nil
		}
	}
	return domain.User{}, pgx.ErrNoRows
}

func (m *memoryUserRepo) SearchByName(ctx context.Context, query string) ([]domain.User, error) {
	q := strings.ToLower(query)
	var matches []domain.User
	for _, u := range m.users {
		if strings.Contains(strings.ToLower(u.Name), q) {
			matches = append(matches, u)
		}
	}
	return matches, nil
}

type memoryContactRepo struct {
	nextID   int64
	contacts []domain.Contact
}

func (m *memoryContactRepo) Create(ctx context.Context, contact domain.Contact) (domain.Contact, error) {
	m.nextID++
	contact.ID = m.nextID
	contact.CreatedAt = time.Now()
	m.contacts = append(m.contacts, contact)
	return contact, nil
}

func (m *memoryContactRepo) GetByID(ctx context.Context, id int64) (domain.Contact, error) {
	for _, c := range m.contacts {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Contact{}, pgx.ErrNoRows
}

func (m *memoryContactRepo) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Contact, error) {
	var matches []domain.Contact
	for _, c := range m.contacts {
		if c.OwnerID == ownerID {
			matches = append(matches, c)
		}
	}
	return matches, nil
}

func (m *memoryContactRepo) SearchByName(ctx context.Context, query string) ([]domain.Contact, error) {
	q := strings.ToLower(query)
	var matches []domain.Contact
	for _, c := range m.contacts {
		if strings.Contains(strings.ToLower(c.Name), q) {
			matches = append(matches, c)
		}
	}
	return matches, nil
}

func (m *memoryContactRepo) FindByPhone(ctx context.Context, phoneNumber string) ([]domain.Contact, error) {
	var matches []domain.Contact
	for _, c := range m.contacts {
		if c.PhoneNumber == phoneNumber {
			matches = append(matches, c)
		}
	}
	return matches, nil
}

func (m *memoryContactRepo) OwnerHasPhone(ctx context.Context, ownerID int64, phoneNumber string) (bool, error) {
	for _, c := range m.contacts {
		if c.OwnerID == ownerID && c.PhoneNumber == phoneNumber {
			return true, nil
		}
	}
	return false, nil
}

type memorySpamRepo struct {
	nextID  int64
	reports []domain.SpamReport
}

func (m *memorySpamRepo) Create(ctx context.Context, report domain.SpamReport) (domain.SpamReport, error) {
	for _, r := range m.reports {
		if r.PhoneNumber == report.PhoneNumber && r.ReportedBy == report.ReportedBy {
			return domain.SpamReport{}, errUniqueViolation
		}
	}
	m.nextID++
	report.ID = m.nextID
	report.ReportedAt = time.Now()
	m.reports = append(m.reports, report)
	return report, nil
}

func (m *memorySpamRepo) CountsByPhone(ctx context.Context, phoneNumbers []string) (map[string]int64, error) {
	wanted := make(map[string]bool, len(phoneNumbers))
	for _, p := range phoneNumbers {
		wanted[p] = true
	}
	counts := make(map[string]int64)
	for _, r := range m.reports {
		if wanted[r.PhoneNumber] {
			counts[r.PhoneNumber]++
		}
	}
	return counts, nil
}

type memoryTokenRepo struct {
	nextID int64
	tokens []domain.AuthToken
}

func (m *memoryTokenRepo) Create(ctx context.Context, token domain.AuthToken) (domain.AuthToken, error) {
	for _, t := range m.tokens {
		if t.UserID == token.UserID || t.Token == token.Token {
			return domain.AuthToken{}, errUniqueViolation
		}
	}
	m.nextID++
	token.ID = m.nextID
	token.CreatedAt = time.Now()
	m.tokens = append(m.tokens, token)
	return token, nil
}

func (m *memoryTokenRepo) GetByUserID(ctx context.Context, userID int64) (domain.AuthToken, error) {
	for _, t := range m.tokens {
		if t.UserID == userID {
			return t, nil
		}
	}
	return domain.AuthToken{}, pgx.ErrNoRows
}

func (m *memoryTokenRepo) GetByToken(ctx context.Context, value string) (domain.AuthToken, error) {
	for _, t := range m.tokens {
		if t.Token == value {
			return t, nil
		}
	}
	return domain.AuthToken{}, pgx.ErrNoRows
}
