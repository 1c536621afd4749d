package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/bilogames/account-service/internal/domain"
	"github.com/bilogames/account-service/pkg/database"
	"github.com/google/uuid"
)

// verificationCodeRepository implements VerificationCodeRepository interface
type verificationCodeRepository struct {
	db *database.Postgres
}

// NewVerificationCodeRepository creates a new email verification code repository
func NewVerificationCodeRepository(db *database.Postgres) VerificationCodeRepository {
	return &verificationCodeRepository{db: db}
}

// Upsert stores the code, replacing any previous code of the same user
func (r *verificationCodeRepository) Upsert(ctx context.Context, code *domain.EmailVerificationCode) error {
	query := `
		INSERT INTO email_verification_codes (id, user_id, code, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET id = EXCLUDED.id,
		    code = EXCLUDED.code,
		    expires_at = EXCLUDED.expires_at,
		    created_at = EXCLUDED.created_at
	`

	if code.ID == "" {
		code.ID = uuid.New().String()
	}
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		code.ID,
		code.UserID,
		code.Code,
		code.ExpiresAt,
		code.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("user with id %s not found: %w", code.UserID, ErrNotFound)
		}
		return fmt.Errorf("failed to store verification code: %w", err)
	}

	return nil
}

// Consume deletes the user's code if it matches and has not expired at now.
// ErrNotFound means no live matching code existed.
func (r *verificationCodeRepository) Consume(ctx context.Context, userID, code string, now time.Time) error {
	query := `
		DELETE FROM email_verification_codes
		WHERE user_id = $1 AND code = $2 AND expires_at > $3
	`

	result, err := r.db.DB.ExecContext(ctx, query, userID, code, now)
	if err != nil {
		return fmt.Errorf("failed to consume verification code: %w", err)
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

// DeleteByUserID removes any code held by the user
func (r *verificationCodeRepository) DeleteByUserID(ctx context.Context, userID string) error {
	query := `DELETE FROM email_verification_codes WHERE user_id = $1`

	if _, err := r.db.DB.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to delete verification codes: %w", err)
	}

	return nil
}
