package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okaditya84/Spam-Contact-Search-API/internal/domain"
)

// Compile-time interface assertions.
var (
	_ UserRepository    = (*PostgresUserRepo)(nil)
	_ ContactRepository = (*PostgresContactRepo)(nil)
	_ SpamRepository    = (*PostgresSpamRepo)(nil)
	_ TokenRepository   = (*PostgresTokenRepo)(nil)
)

const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation. Services use it to turn duplicate inserts into
// already-exists outcomes.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching the query anywhere in
// the value, with LIKE metacharacters in the query treated literally.
func containsPattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}

// PostgresUserRepo implements UserRepository over pgx.
type PostgresUserRepo struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{db: pool}
}

const userColumns = `id, phone_number, name, COALESCE(email, ''), password_hash, is_active, is_staff, created_at, updated_at`

const insertUserSQL = `INSERT INTO users (phone_number, name, email, password_hash)
VALUES ($1, $2, NULLIF($3, ''), $4)
RETURNING ` + userColumns

func (r *PostgresUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	row := r.db.QueryRow(ctx, insertUserSQL, user.PhoneNumber, user.Name, user.Email, user.PasswordHash)
	created, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (r *PostgresUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

func (r *PostgresUserRepo) GetByPhone(ctx context.Context, phoneNumber string) (domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE phone_number = $1`, phoneNumber)
	user, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("get user by phone: %w", err)
	}
	return user, nil
}

func (r *PostgresUserRepo) SearchByName(ctx context.Context, query string) ([]domain.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE name ILIKE $1 ORDER BY id`,
		containsPattern(query),
	)
	if err != nil {
		return nil, fmt.Errorf("search users by name: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("search users by name: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search users by name: %w", err)
	}
	return users, nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.PhoneNumber,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.IsActive,
		&user.IsStaff,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

// PostgresContactRepo implements ContactRepository.
type PostgresContactRepo struct {
	db *pgxpool.Pool
}

func NewPostgresContactRepo(pool *pgxpool.Pool) *PostgresContactRepo {
	return &PostgresContactRepo{db: pool}
}

const contactColumns = `id, owner_id, name, phone_number, created_at`

func (r *PostgresContactRepo) Create(ctx context.Context, contact domain.Contact) (domain.Contact, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO contacts (owner_id, name, phone_number) VALUES ($1, $2, $3) RETURNING `+contactColumns,
		contact.OwnerID, contact.Name, contact.PhoneNumber,
	)
	created, err := scanContact(row)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("create contact: %w", err)
	}
	return created, nil
}

func (r *PostgresContactRepo) GetByID(ctx context.Context, id int64) (domain.Contact, error) {
	row := r.db.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id)
	contact, err := scanContact(row)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("get contact by id: %w", err)
	}
	return contact, nil
}

func (r *PostgresContactRepo) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Contact, error) {
	return r.queryContacts(ctx, "list contacts by owner",
		`SELECT `+contactColumns+` FROM contacts WHERE owner_id = $1 ORDER BY id`, ownerID)
}

func (r *PostgresContactRepo) SearchByName(ctx context.Context, query string) ([]domain.Contact, error) {
	return r.queryContacts(ctx, "search contacts by name",
		`SELECT `+contactColumns+` FROM contacts WHERE name ILIKE $1 ORDER BY id`, containsPattern(query))
}

func (r *PostgresContactRepo) FindByPhone(ctx context.Context, phoneNumber string) ([]domain.Contact, error) {
	return r.queryContacts(ctx, "find contacts by phone",
		`SELECT `+contactColumns+` FROM contacts WHERE phone_number = $1 ORDER BY id`, phoneNumber)
}

func (r *PostgresContactRepo) OwnerHasPhone(ctx context.Context, ownerID int64, phoneNumber string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM contacts WHERE owner_id = $1 AND phone_number = $2)`,
		ownerID, phoneNumber,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("owner has phone: %w", err)
	}
	return exists, nil
}

func (r *PostgresContactRepo) queryContacts(ctx context.Context, op, sql string, args ...any) ([]domain.Contact, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var contacts []domain.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return contacts, nil
}

func scanContact(row pgx.Row) (domain.Contact, error) {
	var contact domain.Contact
	err := row.Scan(
		&contact.ID,
		&contact.OwnerID,
		&contact.Name,
		&contact.PhoneNumber,
		&contact.CreatedAt,
	)
	return contact, err
}

// PostgresSpamRepo implements SpamRepository.
type PostgresSpamRepo struct {
	db *pgxpool.Pool
}

func NewPostgresSpamRepo(pool *pgxpool.Pool) *PostgresSpamRepo {
	return &PostgresSpamRepo{db: pool}
}

func (r *PostgresSpamRepo) Create(ctx context.Context, report domain.SpamReport) (domain.SpamReport, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO spam_reports (phone_number, reported_by) VALUES ($1, $2)
		 RETURNING id, phone_number, reported_by, reported_at`,
		report.PhoneNumber, report.ReportedBy,
	)
	var created domain.SpamReport
	if err := row.Scan(&created.ID, &created.PhoneNumber, &created.ReportedBy, &created.ReportedAt); err != nil {
		return domain.SpamReport{}, fmt.Errorf("create spam report: %w", err)
	}
	return created, nil
}

func (r *PostgresSpamRepo) CountsByPhone(ctx context.Context, phoneNumbers []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(phoneNumbers))
	if len(phoneNumbers) == 0 {
		return counts, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT phone_number, COUNT(*) FROM spam_reports WHERE phone_number = ANY($1) GROUP BY phone_number`,
		phoneNumbers,
	)
	if err != nil {
		return nil, fmt.Errorf("count spam reports: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			phone string
			count int64
		)
		if err := rows.Scan(&phone, &count); err != nil {
			return nil, fmt.Errorf("count spam reports: %w", err)
		}
		counts[phone] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count spam reports: %w", err)
	}
	return counts, nil
}

// PostgresTokenRepo implements TokenRepository.
type PostgresTokenRepo struct {
	db *pgxpool.Pool
}

func NewPostgresTokenRepo(pool *pgxpool.Pool) *PostgresTokenRepo {
	return &PostgresTokenRepo{db: pool}
}

const tokenColumns = `id, user_id, token, created_at`

func (r *PostgresTokenRepo) Create(ctx context.Context, token domain.AuthToken) (domain.AuthToken, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO auth_tokens (user_id, token) VALUES ($1, $2) RETURNING `+tokenColumns,
		token.UserID, token.Token,
	)
	created, err := scanToken(row)
	if err != nil {
		return domain.AuthToken{}, fmt.Errorf("create token: %w", err)
	}
	return created, nil
}

func (r *PostgresTokenRepo) GetByUserID(ctx context.Context, userID int64) (domain.AuthToken, error) {
	row := r.db.QueryRow(ctx, `SELECT `+tokenColumns+` FROM auth_tokens WHERE user_id = $1`, userID)
	token, err := scanToken(row)
	if err != nil {
		return domain.AuthToken{}, fmt.Errorf("get token by user: %w", err)
	}
	return token, nil
}

func (r *PostgresTokenRepo) GetByToken(ctx context.Context, value string) (domain.AuthToken, error) {
	row := r.db.QueryRow(ctx, `SELECT `+tokenColumns+` FROM auth_tokens WHERE token = $1`, value)
	token, err := scanToken(row)
	if err != nil {
		return domain.AuthToken{}, fmt.Errorf("get token: %w", err)
	}
	return token, nil
}

func scanToken(row pgx.Row) (domain.AuthToken, error) {
	var token domain.AuthToken
	err := row.Scan(&token.ID, &token.UserID, &token.Token, &token.CreatedAt)
	return token, err
}
