package service

import (
	"context"

	"github.com/bilogames/account-service/internal/domain"
	"github.com/bilogames/account-service/internal/dto"
)

// AccountService defines password sign-up, sign-in and profile operations
type AccountService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	GetUser(ctx context.Context, userID string) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.AuthResponse, error)
	DeleteAccount(ctx context.Context, userID string, req *dto.DeleteAccountRequest) error
	ValidateToken(ctx context.Context, token string) (*domain.TokenClaims, error)
}

// VerificationService defines email ownership verification
type VerificationService interface {
	SendVerification(ctx context.Context, userID string) error
	VerifyEmail(ctx context.Context, userID string, req *dto.VerifyEmailRequest) (*dto.AuthResponse, error)
}

// PasswordResetService defines the forgot-password flow
type PasswordResetService interface {
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error
	VerifyResetCode(ctx context.Context, req *dto.VerifyResetCodeRequest) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
}

// GoogleAuthService defines federated sign-in and sign-up with Google
type GoogleAuthService interface {
	Authenticate(ctx context.Context, req *dto.GoogleAuthRequest) (*dto.GoogleAuthResponse, error)
	CompleteRegistration(ctx context.Context, req *dto.GoogleRegisterRequest) (*dto.AuthResponse, error)
}

// Notifier sends account emails
type Notifier interface {
	SendWelcome(ctx context.Context, user *domain.User) error
	SendVerificationCode(ctx context.Context, user *domain.User, code string) error
	SendResetCode(ctx context.Context, user *domain.User, code string) error
	SendAccountDeleted(ctx context.Context, user *domain.User) error
}

// IdentityAuthenticator resolves a Google credential into an identity
type IdentityAuthenticator interface {
	Authenticate(ctx context.Context, credential string) (*domain.GoogleIdentity, error)
}
