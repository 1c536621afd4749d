package repository

import (
	"context"
	"time"

	"github.com/bilogames/account-service/internal/domain"
)

// UserRepository defines methods for user operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	GetByGoogleIDOrEmail(ctx context.Context, googleID, email string) (*domain.User, error)
	Update(ctx context.Context, id string, update domain.UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	DeleteUnverified(ctx context.Context, id string, cutoff time.Time) error
	ListUnverifiedCreatedBefore(ctx context.Context, cutoff time.Time) ([]*domain.User, error)
}

// VerificationCodeRepository defines methods for email verification codes
type VerificationCodeRepository interface {
	Upsert(ctx context.Context, code *domain.EmailVerificationCode) error
	Consume(ctx context.Context, userID, code string, now time.Time) error
	DeleteByUserID(ctx context.Context, userID string) error
}

// ResetCodeRepository defines methods for password reset codes
type ResetCodeRepository interface {
	Upsert(ctx context.Context, code *domain.PasswordResetCode) error
	FindRedeemable(ctx context.Context, email, code string, now time.Time) (*domain.PasswordResetCode, error)
	MarkUsed(ctx context.Context, id string, now time.Time) error
	DeleteByUserID(ctx context.Context, userID string) error
}
