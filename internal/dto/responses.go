package dto

import (
	"time"

	"github.com/bilogames/account-service/internal/domain"
)

const birthDateLayout = "2006-01-02"

// UserResponse is the user projection returned by every endpoint
type UserResponse struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	Firstname     string  `json:"firstname"`
	Lastname      string  `json:"lastname"`
	Username      string  `json:"username"`
	BirthDate     *string `json:"birthDate"`
	EmailVerified bool    `json:"emailVerified"`
	CreatedAt     string  `json:"createdAt"`
}

// NewUserResponse projects a domain user
func NewUserResponse(user *domain.User) UserResponse {
	resp := UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		Firstname:     user.Firstname,
		Lastname:      user.Lastname,
		Username:      user.Username,
		EmailVerified: user.EmailVerified,
		CreatedAt:     user.CreatedAt.UTC().Format(time.RFC3339),
	}

	if user.BirthDate != nil {
		birthDate := user.BirthDate.Format(birthDateLayout)
		resp.BirthDate = &birthDate
	}

	return resp
}

// AuthResponse represents a response carrying a fresh session token
type AuthResponse struct {
	Message string       `json:"message,omitempty"`
	User    UserResponse `json:"user"`
	Token   string       `json:"token"`
}

// MeResponse wraps the current user
type MeResponse struct {
	User UserResponse `json:"user"`
}

// GoogleData is the staged identity returned for an unknown Google account
type GoogleData struct {
	GoogleID          string `json:"googleId"`
	Email             string `json:"email"`
	Firstname         string `json:"firstname"`
	Lastname          string `json:"lastname"`
	RegistrationToken string `json:"registrationToken"`
}

// GoogleAuthResponse is either a session for an existing user or staged Google data
type GoogleAuthResponse struct {
	IsExistingUser bool          `json:"isExistingUser"`
	User           *UserResponse `json:"user,omitempty"`
	Token          string        `json:"token,omitempty"`
	GoogleData     *GoogleData   `json:"googleData,omitempty"`
}

// ValidResponse acknowledges a valid reset code
type ValidResponse struct {
	Valid bool `json:"valid"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}
