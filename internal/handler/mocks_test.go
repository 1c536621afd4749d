package handler

import (
	"context"

	"github.com/bilogames/account-service/internal/domain"
	"github.com/bilogames/account-service/internal/dto"
	"github.com/stretchr/testify/mock"
)

type mockAccountService struct {
	mock.Mock
}

func (m *mockAccountService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*dto.AuthResponse)
	return resp, args.Error(1)
}

func (m *mockAccountService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*dto.AuthResponse)
	return resp, args.Error(1)
}

func (m *mockAccountService) GetUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	args := m.Called(ctx, userID)
	resp, _ := args.Get(0).(*dto.UserResponse)
	return resp, args.Error(1)
}

func (m *mockAccountService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.AuthResponse, error) {
	args := m.Called(ctx, userID, req)
	resp, _ := args.Get(0).(*dto.AuthResponse)
	return resp, args.Error(1)
}

func (m *mockAccountService) DeleteAccount(ctx context.Context, userID string, req *dto.DeleteAccountRequest) error {
	args := m.Called(ctx, userID, req)
	return args.Error(0)
}

func (m *mockAccountService) ValidateToken(ctx context.Context, token string) (*domain.TokenClaims, error) {
	args := m.Called(ctx, token)
	claims, _ := args.Get(0).(*domain.TokenClaims)
	return claims, args.Error(1)
}

type mockVerificationService struct {
	mock.Mock
}

func (m *mockVerificationService) SendVerification(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockVerificationService) VerifyEmail(ctx context.Context, userID string, req *dto.VerifyEmailRequest) (*dto.AuthResponse, error) {
	args := m.Called(ctx, userID, req)
	resp, _ := args.Get(0).(*dto.AuthResponse)
	return resp, args.Error(1)
}

type mockPasswordResetService struct {
	mock.Mock
}

func (m *mockPasswordResetService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockPasswordResetService) VerifyResetCode(ctx context.Context, req *dto.VerifyResetCodeRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockPasswordResetService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}

type mockGoogleAuthService struct {
	mock.Mock
}

func (m *mockGoogleAuthService) Authenticate(ctx context.Context, req *dto.GoogleAuthRequest) (*dto.GoogleAuthResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*dto.GoogleAuthResponse)
	return resp, args.Error(1)
}

func (m *mockGoogleAuthService) CompleteRegistration(ctx context.Context, req *dto.GoogleRegisterRequest) (*dto.AuthResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*dto.AuthResponse)
	return resp, args.Error(1)
}
