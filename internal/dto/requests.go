package dto

// RegisterRequest represents a password registration request
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Username  string `json:"username"`
	BirthDate string `json:"birthDate"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GoogleAuthRequest carries a Google ID token or access token
type GoogleAuthRequest struct {
	Credential string `json:"credential"`
}

// GoogleRegisterRequest completes a registration started by GoogleAuthRequest.
// RegistrationToken is the ticket handed out in GoogleData; older clients omit it.
type GoogleRegisterRequest struct {
	GoogleID          string `json:"googleId"`
	Email             string `json:"email"`
	Firstname         string `json:"firstname"`
	Lastname          string `json:"lastname"`
	Username          string `json:"username"`
	Password          string `json:"password"`
	BirthDate         string `json:"birthDate"`
	RegistrationToken string `json:"registrationToken,omitempty"`
}

// UpdateProfileRequest represents a profile update; nil fields are left unchanged
type UpdateProfileRequest struct {
	CurrentPassword string  `json:"currentPassword"`
	Email           *string `json:"email,omitempty"`
	Firstname       *string `json:"firstname,omitempty"`
	Lastname        *string `json:"lastname,omitempty"`
	Username        *string `json:"username,omitempty"`
	BirthDate       *string `json:"birthDate,omitempty"`
	NewPassword     *string `json:"newPassword,omitempty"`
}

// DeleteAccountRequest represents an account deletion request
type DeleteAccountRequest struct {
	Password string `json:"password"`
}

// VerifyEmailRequest represents an email verification request
type VerifyEmailRequest struct {
	Code string `json:"code"`
}

// ForgotPasswordRequest represents a password reset code request
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// VerifyResetCodeRequest represents a reset code check
type VerifyResetCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// ResetPasswordRequest represents a password reset completion
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}
