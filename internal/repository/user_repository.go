package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bilogames/account-service/internal/domain"
	"github.com/bilogames/account-service/pkg/database"
	"github.com/google/uuid"
)

const userColumns = `id, email, password_hash, firstname, lastname, username, birth_date, google_id, email_verified, created_at, updated_at`

// userRepository implements UserRepository interface
type userRepository struct {
	db *database.Postgres
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.Postgres) UserRepository {
	return &userRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	user := &domain.User{}
	var birthDate sql.NullTime
	var googleID sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Firstname,
		&user.Lastname,
		&user.Username,
		&birthDate,
		&googleID,
		&user.EmailVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if birthDate.Valid {
		user.BirthDate = &birthDate.Time
	}
	if googleID.Valid {
		user.GoogleID = &googleID.String
	}

	return user, nil
}

// Create creates a new user in the database
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, firstname, lastname, username, birth_date, google_id, email_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Firstname,
		user.Lastname,
		user.Username,
		user.BirthDate,
		user.GoogleID,
		user.EmailVerified,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if dup := uniqueViolation(err); dup != nil {
			return fmt.Errorf("failed to create user %s: %w", user.Email, dup)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepository) getOne(ctx context.Context, where string, args ...interface{}) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s`, userColumns, where)

	user, err := scanUser(r.db.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := r.getOne(ctx, `id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id %s: %w", id, err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := r.getOne(ctx, `email = $1`, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return user, nil
}

// GetByUsername retrieves a user by username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := r.getOne(ctx, `username = $1`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username %s: %w", username, err)
	}
	return user, nil
}

// GetByGoogleID retrieves a user by linked Google account
func (r *userRepository) GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	user, err := r.getOne(ctx, `google_id = $1`, googleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by google id: %w", err)
	}
	return user, nil
}

// GetByGoogleIDOrEmail retrieves the user linked to googleID, falling back to the email match
func (r *userRepository) GetByGoogleIDOrEmail(ctx context.Context, googleID, email string) (*domain.User, error) {
	user, err := r.getOne(ctx,
		`google_id = $1 OR email = $2 ORDER BY (google_id = $1) DESC NULLS LAST LIMIT 1`,
		googleID, email,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by google id or email: %w", err)
	}
	return user, nil
}

// Update applies the non-nil fields of update and returns the stored user
func (r *userRepository) Update(ctx context.Context, id string, update domain.UserUpdate) (*domain.User, error) {
	args := []interface{}{id}
	var sets []string

	set := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Email != nil {
		set("email", *update.Email)
	}
	if update.PasswordHash != nil {
		set("password_hash", *update.PasswordHash)
	}
	if update.Firstname != nil {
		set("firstname", *update.Firstname)
	}
	if update.Lastname != nil {
		set("lastname", *update.Lastname)
	}
	if update.Username != nil {
		set("username", *update.Username)
	}
	if update.BirthDate != nil {
		set("birth_date", *update.BirthDate)
	}
	if update.GoogleID != nil {
		set("google_id", *update.GoogleID)
	}
	if update.EmailVerified != nil {
		set("email_verified", *update.EmailVerified)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	set("updated_at", time.Now().UTC())

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $1 RETURNING %s`, strings.Join(sets, ", "), userColumns)

	user, err := scanUser(r.db.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with id %s not found: %w", id, ErrNotFound)
		}
		if dup := uniqueViolation(err); dup != nil {
			return nil, fmt.Errorf("failed to update user %s: %w", id, dup)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// Delete deletes a user by ID. Owned one-time codes go with it (ON DELETE CASCADE).
func (r *userRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user with id %s not found: %w", id, ErrNotFound)
	}

	return nil
}

// DeleteUnverified deletes the user only while it is still unverified and older than cutoff.
// ErrNotFound means the user is gone or no longer qualifies.
func (r *userRepository) DeleteUnverified(ctx context.Context, id string, cutoff time.Time) error {
	query := `DELETE FROM users WHERE id = $1 AND email_verified = FALSE AND created_at < $2`

	result, err := r.db.DB.ExecContext(ctx, query, id, cutoff)
	if err != nil {
		return fmt.Errorf("failed to delete unverified user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("unverified user with id %s not found: %w", id, ErrNotFound)
	}

	return nil
}

// ListUnverifiedCreatedBefore returns unverified users created before cutoff, oldest first
func (r *userRepository) ListUnverifiedCreatedBefore(ctx context.Context, cutoff time.Time) ([]*domain.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE email_verified = FALSE AND created_at < $1
		ORDER BY created_at
	`, userColumns)

	rows, err := r.db.DB.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list unverified users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}
