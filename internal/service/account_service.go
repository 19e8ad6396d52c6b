package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/okaditya84/Spam-Contact-Search-API/internal/config"
	"github.com/okaditya84/Spam-Contact-Search-API/internal/domain"
	"github.com/okaditya84/Spam-Contact-Search-API/internal/repository"
)

const minPasswordLength = 8

// AccountService handles registration, credential login, and bearer
// token resolution.
type AccountService struct {
	users  repository.UserRepository
	tokens repository.TokenRepository
	cfg    config.Config
	logger *zap.Logger
	tracer trace.Tracer
}

func NewAccountService(users repository.UserRepository, tokens repository.TokenRepository, cfg config.Config, logger *zap.Logger) *AccountService {
	return &AccountService{
		users:  users,
		tokens: tokens,
		cfg:    cfg,
		logger: logger,
		tracer: otel.Tracer("internal/service/account"),
	}
}

// RegisterInput is the registration payload after transport binding.
type RegisterInput struct {
	PhoneNumber string
	Name        string
	Password    string
	Email       string
}

// Register creates a user with a hashed credential. Duplicate phone
// numbers surface as a field-level validation error, including the race
// where two registrations hit the unique constraint concurrently.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	ctx, span := s.startSpan(ctx, "AccountService.Register")
	defer span.End()

	phone := strings.TrimSpace(in.PhoneNumber)
	name := strings.TrimSpace(in.Name)

	fields := make(map[string]string)
	if phone == "" {
		fields["phone_number"] = "This field is required."
	}
	if name == "" {
		fields["name"] = "This field is required."
	}
	if len(in.Password) < minPasswordLength {
		fields["password"] = fmt.Sprintf("Ensure this field has at least %d characters.", minPasswordLength)
	}
	if len(fields) > 0 {
		return domain.User{}, newValidationError(fields)
	}

	if _, err := s.users.GetByPhone(ctx, phone); err == nil {
		return domain.User{}, duplicatePhoneError()
	} else if !errors.Is(err, pgx.ErrNoRows) {
		span.RecordError(err)
		return domain.User{}, fmt.Errorf("check existing user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cfg.BcryptCost)
	if err != nil {
		span.RecordError(err)
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.users.Create(ctx, domain.User{
		PhoneNumber:  phone,
		Name:         name,
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: string(hashed),
		IsActive:     true,
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return domain.User{}, duplicatePhoneError()
		}
		span.RecordError(err)
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	s.audit("account.register.success", "user_id", created.ID, "phone_number", created.PhoneNumber)
	return created, nil
}

// Login verifies credentials and returns the user's bearer token,
// creating it on first login. Repeated logins return the same token.
func (s *AccountService) Login(ctx context.Context, phoneNumber, password string) (domain.AuthToken, error) {
	ctx, span := s.startSpan(ctx, "AccountService.Login")
	defer span.End()

	user, err := s.users.GetByPhone(ctx, strings.TrimSpace(phoneNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.AuthToken{}, errInvalidCredentials()
		}
		span.RecordError(err)
		return domain.AuthToken{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.AuthToken{}, errInvalidCredentials()
	}

	token, err := s.tokens.GetByUserID(ctx, user.ID)
	if err == nil {
		s.audit("account.login.success", "user_id", user.ID)
		return token, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		span.RecordError(err)
		return domain.AuthToken{}, fmt.Errorf("lookup token: %w", err)
	}

	value, err := generateToken(s.cfg.TokenBytes)
	if err != nil {
		span.RecordError(err)
		return domain.AuthToken{}, fmt.Errorf("generate token: %w", err)
	}

	created, err := s.tokens.Create(ctx, domain.AuthToken{UserID: user.ID, Token: value})
	if err != nil {
		// A concurrent login may have won the insert. The user_id unique
		// constraint makes the race safe: re-read the winner's token.
		if repository.IsUniqueViolation(err) {
			existing, getErr := s.tokens.GetByUserID(ctx, user.ID)
			if getErr != nil {
				span.RecordError(getErr)
				return domain.AuthToken{}, fmt.Errorf("lookup token after race: %w", getErr)
			}
			s.audit("account.login.success", "user_id", user.ID)
			return existing, nil
		}
		span.RecordError(err)
		return domain.AuthToken{}, fmt.Errorf("create token: %w", err)
	}

	s.audit("account.login.success", "user_id", user.ID)
	return created, nil
}

// AuthenticateToken resolves a bearer token to its user. Unknown tokens
// fail with 401.
func (s *AccountService) AuthenticateToken(ctx context.Context, value string) (domain.User, error) {
	ctx, span := s.startSpan(ctx, "AccountService.AuthenticateToken")
	defer span.End()

	token, err := s.tokens.GetByToken(ctx, value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, newAPIError("invalid_token", "Invalid token.", http.StatusUnauthorized)
		}
		span.RecordError(err)
		return domain.User{}, fmt.Errorf("lookup token: %w", err)
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		span.RecordError(err)
		return domain.User{}, fmt.Errorf("load token user: %w", err)
	}
	return user, nil
}

func (s *AccountService) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name)
}

func (s *AccountService) audit(event string, kv ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Sugar().Infow(event, kv...)
}

func duplicatePhoneError() *APIError {
	return newValidationError(map[string]string{
		"phone_number": "A user with this phone number already exists.",
	})
}

func generateToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
