package service

import (
	"errors"
)

// ErrorKind classifies service errors for the transport layer
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindConflict
	KindAuth
	KindNotFound
	KindExternal
	KindInternal
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindExternal:
		return "external"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is returned by every service operation. Message is safe to show to clients.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors of the same kind and message, so wrapped copies of a sentinel still match it
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

// wrap returns a copy of the sentinel carrying err as its cause
func (e *Error) wrap(err error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Err: err}
}

var (
	ErrInvalidCredentials       = &Error{Kind: KindAuth, Message: "Invalid email or password"}
	ErrIncorrectPassword        = &Error{Kind: KindAuth, Message: "Incorrect password"}
	ErrInvalidToken             = &Error{Kind: KindAuth, Message: "Invalid token"}
	ErrInvalidGoogleCredential  = &Error{Kind: KindAuth, Message: "Invalid Google credential"}
	ErrInvalidRegistrationToken = &Error{Kind: KindAuth, Message: "Invalid or expired Google registration"}

	ErrEmailTaken          = &Error{Kind: KindConflict, Message: "Email already registered"}
	ErrUsernameTaken       = &Error{Kind: KindConflict, Message: "Username already taken"}
	ErrGoogleAccountLinked = &Error{Kind: KindConflict, Message: "Google account already linked to another user"}
	ErrGoogleAccountOther  = &Error{Kind: KindConflict, Message: "This email is linked to a different Google account"}

	ErrUserNotFound = &Error{Kind: KindNotFound, Message: "User not found"}

	ErrPasswordRequired        = &Error{Kind: KindValidation, Message: "Password is required"}
	ErrCurrentPasswordRequired = &Error{Kind: KindValidation, Message: "Current password is required"}
	ErrEmailRequired           = &Error{Kind: KindValidation, Message: "Email is required"}
	ErrGoogleIDRequired        = &Error{Kind: KindValidation, Message: "Google ID is required"}
	ErrRegistrationMismatch    = &Error{Kind: KindValidation, Message: "Google registration data does not match"}
	ErrNoFieldsProvided        = &Error{Kind: KindValidation, Message: "No fields to update"}
	ErrAlreadyVerified         = &Error{Kind: KindValidation, Message: "Email already verified"}
	ErrInvalidOrExpiredCode    = &Error{Kind: KindValidation, Message: "Invalid or expired code"}

	ErrEmailSendFailed = &Error{Kind: KindExternal, Message: "Failed to send email"}
)

// validationError turns a field validation failure into a client-facing error
func validationError(err error) error {
	return &Error{Kind: KindValidation, Message: err.Error()}
}

// internalError hides err behind a generic message
func internalError(err error) error {
	return &Error{Kind: KindInternal, Message: "Server error", Err: err}
}

// AsError extracts the service error from err, if any
func AsError(err error) (*Error, bool) {
	var serr *Error
	if errors.As(err, &serr) {
		return serr, true
	}
	return nil, false
}
