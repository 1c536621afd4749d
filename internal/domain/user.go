package domain

import "time"

// User represents an account in the system
type User struct {
	ID            string     `json:"id" db:"id"`
	Email         string     `json:"email" db:"email"`
	PasswordHash  string     `json:"-" db:"password_hash"`
	Firstname     string     `json:"firstname" db:"firstname"`
	Lastname      string     `json:"lastname" db:"lastname"`
	Username      string     `json:"username" db:"username"`
	BirthDate     *time.Time `json:"birth_date" db:"birth_date"`
	GoogleID      *string    `json:"-" db:"google_id"`
	EmailVerified bool       `json:"email_verified" db:"email_verified"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// HasGoogleAccount reports whether a Google identity is linked to the user.
func (u *User) HasGoogleAccount() bool {
	return u.GoogleID != nil && *u.GoogleID != ""
}

// UserUpdate carries the columns to change; nil fields are left untouched.
type UserUpdate struct {
	Email         *string
	PasswordHash  *string
	Firstname     *string
	Lastname      *string
	Username      *string
	BirthDate     *time.Time
	GoogleID      *string
	EmailVerified *bool
}

// IsEmpty reports whether the update changes nothing.
func (u UserUpdate) IsEmpty() bool {
	return u.Email == nil && u.PasswordHash == nil && u.Firstname == nil && u.Lastname == nil &&
		u.Username == nil && u.BirthDate == nil && u.GoogleID == nil && u.EmailVerified == nil
}

// GoogleIdentity is the identity resolved from a Google credential
type GoogleIdentity struct {
	GoogleID   string `json:"googleId"`
	Email      string `json:"email"`
	GivenName  string `json:"firstname"`
	FamilyName string `json:"lastname"`
}
