package utils

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation"
)

const (
	// PasswordSpecialChars lists the characters accepted as "special" by the password policy.
	PasswordSpecialChars = `!@#$%^&*(),.?":{}|<>`

	minPasswordLength = 8
	maxPasswordBytes  = 72
	minUsernameLength = 3
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nameRegex  = regexp.MustCompile(`^[a-zA-Z\x{00C0}-\x{00FF}\s-]+$`)

	errInvalidEmail    = "Invalid email format"
	errInvalidName     = "First name and last name must contain only letters"
	errInvalidUsername = "Username must be at least 3 characters"
	errInvalidPassword = "Password must be at least 8 characters with uppercase, lowercase and special character"
	errPasswordTooLong = "Password must be at most 72 bytes long"
	errInvalidBirth    = "Invalid birth date"

	birthDateLayouts = []string{"2006-01-02", time.RFC3339}
)

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	return validation.Validate(email,
		validation.Required.Error(errInvalidEmail),
		validation.Match(emailRegex).Error(errInvalidEmail),
	)
}

// ValidateName validates a first or last name: letters (including accented Latin), spaces and hyphens
func ValidateName(name string) error {
	return validation.Validate(name,
		validation.Required.Error(errInvalidName),
		validation.Match(nameRegex).Error(errInvalidName),
	)
}

// ValidateUsername validates a username
func ValidateUsername(username string) error {
	return validation.Validate(strings.TrimSpace(username),
		validation.Required.Error(errInvalidUsername),
		validation.RuneLength(minUsernameLength, 0).Error(errInvalidUsername),
	)
}

// ValidatePassword validates a password
// Minimum 8 characters, at least one uppercase letter, one lowercase letter, one special character
func ValidatePassword(password string) error {
	return validation.Validate(password,
		validation.Required.Error(errInvalidPassword),
		validation.By(passwordPolicy),
	)
}

func passwordPolicy(value interface{}) error {
	password, _ := value.(string)

	if len(password) > maxPasswordBytes {
		return errors.New(errPasswordTooLong)
	}

	if utf8.RuneCountInString(password) < minPasswordLength {
		return errors.New(errInvalidPassword)
	}

	hasUpper := false
	hasLower := false
	hasSpecial := false

	for _, char := range password {
		switch {
		case unicode.IsUpper(char) && char < unicode.MaxASCII:
			hasUpper = true
		case unicode.IsLower(char) && char < unicode.MaxASCII:
			hasLower = true
		case strings.ContainsRune(PasswordSpecialChars, char):
			hasSpecial = true
		}
	}

	if !hasUpper || !hasLower || !hasSpecial {
		return errors.New(errInvalidPassword)
	}

	return nil
}

// ParseBirthDate parses an optional birth date. An empty string yields nil.
func ParseBirthDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	for _, layout := range birthDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &date, nil
		}
	}

	return nil, errors.New(errInvalidBirth)
}
