package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/okaditya84/Spam-Contact-Search-API/internal/domain"
	"github.com/okaditya84/Spam-Contact-Search-API/internal/repository"
)

// DirectoryService merges users and contacts into search and detail
// views, annotated with spam counts.
type DirectoryService struct {
	users    repository.UserRepository
	contacts repository.ContactRepository
	spam     repository.SpamRepository
	logger   *zap.Logger
	tracer   trace.Tracer
}

func NewDirectoryService(users repository.UserRepository, contacts repository.ContactRepository, spam repository.SpamRepository, logger *zap.Logger) *DirectoryService {
	return &DirectoryService{
		users:    users,
		contacts: contacts,
		spam:     spam,
		logger:   logger,
		tracer:   otel.Tracer("internal/service/directory"),
	}
}

// SearchByName returns users then contacts whose names match the query,
// prefix matches ranked before substring matches within each group.
// Emails are never populated in this view.
func (s *DirectoryService) SearchByName(ctx context.Context, query string) ([]domain.Person, error) {
	ctx, span := s.startSpan(ctx, "DirectoryService.SearchByName")
	defer span.End()

	if query == "" {
		return nil, missingQueryError()
	}

	users, err := s.users.SearchByName(ctx, query)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	contacts, err := s.contacts.SearchByName(ctx, query)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	users = rankByName(users, query, func(u domain.User) string { return u.Name })
	contacts = rankByName(contacts, query, func(c domain.Contact) string { return c.Name })

	phones := make([]string, 0, len(users)+len(contacts))
	for _, u := range users {
		phones = append(phones, u.PhoneNumber)
	}
	for _, c := range contacts {
		phones = append(phones, c.PhoneNumber)
	}
	counts, err := s.spam.CountsByPhone(ctx, phones)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	results := make([]domain.Person, 0, len(users)+len(contacts))
	for _, u := range users {
		results = append(results, registeredPerson(u, counts[u.PhoneNumber]))
	}
	for _, c := range contacts {
		results = append(results, contactPerson(c, counts[c.PhoneNumber]))
	}
	return results, nil
}

// SearchByPhone looks up an exact phone number. A registered user with
// that number suppresses all contact matches; otherwise every contact
// row with that exact number is returned.
func (s *DirectoryService) SearchByPhone(ctx context.Context, query string) ([]domain.Person, error) {
	ctx, span := s.startSpan(ctx, "DirectoryService.SearchByPhone")
	defer span.End()

	if query == "" {
		return nil, missingQueryError()
	}

	user, err := s.users.GetByPhone(ctx, query)
	if err == nil {
		counts, err := s.spam.CountsByPhone(ctx, []string{user.PhoneNumber})
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		return []domain.Person{registeredPerson(user, counts[user.PhoneNumber])}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		span.RecordError(err)
		return nil, fmt.Errorf("lookup user by phone: %w", err)
	}

	contacts, err := s.contacts.FindByPhone(ctx, query)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	counts, err := s.spam.CountsByPhone(ctx, []string{query})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	results := make([]domain.Person, 0, len(contacts))
	for _, c := range contacts {
		results = append(results, contactPerson(c, counts[c.PhoneNumber]))
	}
	return results, nil
}

// PersonDetail resolves an identifier against the user id space first
// and the contact id space second. For a user match, the email is
// disclosed only when the target keeps the requester's phone number in
// their own contact list.
func (s *DirectoryService) PersonDetail(ctx context.Context, identifier int64, requester domain.User) (domain.Person, error) {
	ctx, span := s.startSpan(ctx, "DirectoryService.PersonDetail")
	defer span.End()

	user, err := s.users.GetByID(ctx, identifier)
	if err == nil {
		counts, err := s.spam.CountsByPhone(ctx, []string{user.PhoneNumber})
		if err != nil {
			span.RecordError(err)
			return domain.Person{}, err
		}
		person := registeredPerson(user, counts[user.PhoneNumber])

		includeEmail, err := s.contacts.OwnerHasPhone(ctx, user.ID, requester.PhoneNumber)
		if err != nil {
			span.RecordError(err)
			return domain.Person{}, err
		}
		if includeEmail && user.Email != "" {
			email := user.Email
			person.Email = &email
		}
		return person, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		span.RecordError(err)
		return domain.Person{}, fmt.Errorf("lookup user by id: %w", err)
	}

	contact, err := s.contacts.GetByID(ctx, identifier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Person{}, errNotFound()
		}
		span.RecordError(err)
		return domain.Person{}, fmt.Errorf("lookup contact by id: %w", err)
	}

	counts, err := s.spam.CountsByPhone(ctx, []string{contact.PhoneNumber})
	if err != nil {
		span.RecordError(err)
		return domain.Person{}, err
	}
	return contactPerson(contact, counts[contact.PhoneNumber]), nil
}

// AddContact stores a phone-book entry for the owner. Duplicates are
// allowed by design.
func (s *DirectoryService) AddContact(ctx context.Context, ownerID int64, name, phoneNumber string) (domain.Contact, error) {
	ctx, span := s.startSpan(ctx, "DirectoryService.AddContact")
	defer span.End()

	name = strings.TrimSpace(name)
	phoneNumber = strings.TrimSpace(phoneNumber)

	fields := make(map[string]string)
	if name == "" {
		fields["name"] = "This field is required."
	}
	if phoneNumber == "" {
		fields["phone_number"] = "This field is required."
	}
	if len(fields) > 0 {
		return domain.Contact{}, newValidationError(fields)
	}

	created, err := s.contacts.Create(ctx, domain.Contact{OwnerID: ownerID, Name: name, PhoneNumber: phoneNumber})
	if err != nil {
		span.RecordError(err)
		return domain.Contact{}, err
	}

	s.audit("directory.contact.created", "owner_id", ownerID, "contact_id", created.ID)
	return created, nil
}

// ListContacts returns the owner's phone book in id order.
func (s *DirectoryService) ListContacts(ctx context.Context, ownerID int64) ([]domain.Contact, error) {
	ctx, span := s.startSpan(ctx, "DirectoryService.ListContacts")
	defer span.End()

	contacts, err := s.contacts.ListByOwner(ctx, ownerID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if contacts == nil {
		contacts = []domain.Contact{}
	}
	return contacts, nil
}

func (s *DirectoryService) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name)
}

func (s *DirectoryService) audit(event string, kv ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Sugar().Infow(event, kv...)
}

// rankByName orders items so names starting with the query come before
// names merely containing it, preserving input order inside each bucket.
func rankByName[T any](items []T, query string, name func(T) string) []T {
	prefix := strings.ToLower(query)
	ranked := make([]T, 0, len(items))
	var rest []T
	for _, item := range items {
		if strings.HasPrefix(strings.ToLower(name(item)), prefix) {
			ranked = append(ranked, item)
		} else {
			rest = append(rest, item)
		}
	}
	return append(ranked, rest...)
}

func registeredPerson(user domain.User, spamCount int64) domain.Person {
	return domain.Person{
		ID:           user.ID,
		Name:         user.Name,
		PhoneNumber:  user.PhoneNumber,
		SpamCount:    spamCount,
		IsRegistered: true,
	}
}

func contactPerson(contact domain.Contact, spamCount int64) domain.Person {
	return domain.Person{
		ID:           contact.ID,
		Name:         contact.Name,
		PhoneNumber:  contact.PhoneNumber,
		SpamCount:    spamCount,
		IsRegistered: false,
	}
}

func missingQueryError() *APIError {
	return newAPIError("invalid_request", `Query parameter "q" is required.`, http.StatusBadRequest)
}
