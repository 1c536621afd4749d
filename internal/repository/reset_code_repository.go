package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bilogames/account-service/internal/domain"
	"github.com/bilogames/account-service/pkg/database"
	"github.com/google/uuid"
)

// resetCodeRepository implements ResetCodeRepository interface
type resetCodeRepository struct {
	db *database.Postgres
}

// NewResetCodeRepository creates a new password reset code repository
func NewResetCodeRepository(db *database.Postgres) ResetCodeRepository {
	return &resetCodeRepository{db: db}
}

// Upsert stores the code, replacing any previous code issued for the same email
func (r *resetCodeRepository) Upsert(ctx context.Context, code *domain.PasswordResetCode) error {
	query := `
		INSERT INTO password_reset_codes (id, user_id, email, code, used, expires_at, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5, $6)
		ON CONFLICT (email) DO UPDATE
		SET id = EXCLUDED.id,
		    user_id = EXCLUDED.user_id,
		    code = EXCLUDED.code,
		    used = FALSE,
		    expires_at = EXCLUDED.expires_at,
		    created_at = EXCLUDED.created_at
	`

	if code.ID == "" {
		code.ID = uuid.New().String()
	}
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now().UTC()
	}
	code.Used = false

	_, err := r.db.DB.ExecContext(ctx, query,
		code.ID,
		code.UserID,
		code.Email,
		code.Code,
		code.ExpiresAt,
		code.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("user with id %s not found: %w", code.UserID, ErrNotFound)
		}
		return fmt.Errorf("failed to store reset code: %w", err)
	}

	return nil
}

// FindRedeemable returns the unused, unexpired code matching email and code
func (r *resetCodeRepository) FindRedeemable(ctx context.Context, email, code string, now time.Time) (*domain.PasswordResetCode, error) {
	query := `
		SELECT id, user_id, email, code, used, expires_at, created_at
		FROM password_reset_codes
		WHERE email = $1 AND code = $2 AND used = FALSE AND expires_at > $3
	`

	resetCode := &domain.PasswordResetCode{}
	err := r.db.DB.QueryRowContext(ctx, query, email, code, now).Scan(
		&resetCode.ID,
		&resetCode.UserID,
		&resetCode.Email,
		&resetCode.Code,
		&resetCode.Used,
		&resetCode.ExpiresAt,
		&resetCode.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get reset code: %w", err)
	}

	return resetCode, nil
}

// MarkUsed claims a live code. ErrNotFound means it was already used, expired or replaced.
func (r *resetCodeRepository) MarkUsed(ctx context.Context, id string, now time.Time) error {
	query := `
		UPDATE password_reset_codes
		SET used = TRUE
		WHERE id = $1 AND used = FALSE AND expires_at > $2
	`

	result, err := r.db.DB.ExecContext(ctx, query, id, now)
	if err != nil {
		return fmt.Errorf("failed to mark reset code as used: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteByUserID removes every reset code issued to the user
func (r *resetCodeRepository) DeleteByUserID(ctx context.Context, userID string) error {
	query := `DELETE FROM password_reset_codes WHERE user_id = $1`

	if _, err := r.db.DB.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to delete reset codes: %w", err)
	}

	return nil
}
