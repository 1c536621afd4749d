package domain

import "time"

// EmailVerificationCode is the one-time code proving ownership of a user's email
type EmailVerificationCode struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Code      string    `db:"code"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

// PasswordResetCode is the one-time code authorizing a password reset, keyed by email
type PasswordResetCode struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Email     string    `db:"email"`
	Code      string    `db:"code"`
	Used      bool      `db:"used"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

// IsRedeemable reports whether the code is unused and not yet expired at now.
func (c *PasswordResetCode) IsRedeemable(now time.Time) bool {
	return !c.Used && c.ExpiresAt.After(now)
}
