package repository

import (
	"errors"

	"github.com/lib/pq"
)

// Common repository errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when the email is already taken
	ErrDuplicateEmail = errors.New("user with this email already exists")

	// ErrDuplicateUsername is returned when the username is already taken
	ErrDuplicateUsername = errors.New("user with this username already exists")

	// ErrDuplicateGoogleID is returned when the Google account is linked to another user
	ErrDuplicateGoogleID = errors.New("google account already linked to a user")
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

var constraintErrors = map[string]error{
	"users_email_key":     ErrDuplicateEmail,
	"users_username_key":  ErrDuplicateUsername,
	"users_google_id_key": ErrDuplicateGoogleID,
}

// uniqueViolation maps a unique constraint violation to its sentinel, or nil.
func uniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != pqUniqueViolation {
		return nil
	}
	if sentinel, ok := constraintErrors[pqErr.Constraint]; ok {
		return sentinel
	}
	return nil
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation
}
