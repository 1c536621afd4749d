package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bilogames/account-service/internal/domain"
	"github.com/bilogames/account-service/internal/dto"
	"github.com/bilogames/account-service/internal/repository"
	"github.com/bilogames/account-service/internal/utils"
	"go.uber.org/zap"
)

type passwordResetService struct {
	users    repository.UserRepository
	codes    *CodeService
	hasher   *utils.PasswordHasher
	notifier Notifier
	logger   *zap.Logger
}

func NewPasswordResetService(
	users repository.UserRepository,
	codes *CodeService,
	hasher *utils.PasswordHasher,
	notifier Notifier,
	logger *zap.Logger,
) PasswordResetService {
	return &passwordResetService{
		users:    users,
		codes:    codes,
		hasher:   hasher,
		notifier: notifier,
		logger:   logger,
	}
}

// ForgotPassword mails a reset code when the email belongs to an account.
// The outcome is the same whether or not it does.
func (s *passwordResetService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return ErrEmailRequired
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return internalError(err)
	}

	code, err := s.codes.IssueResetCode(ctx, user.ID, user.Email)
	if err != nil {
		return internalError(err)
	}

	if err := s.notifier.SendResetCode(ctx, user, code); err != nil {
		s.logger.Error("Failed to send reset code email", zap.String("user_id", user.ID), zap.Error(err))
	}

	return nil
}

// VerifyResetCode checks the code without consuming it
func (s *passwordResetService) VerifyResetCode(ctx context.Context, req *dto.VerifyResetCodeRequest) error {
	if req.Email == "" || req.Code == "" {
		return ErrInvalidOrExpiredCode
	}

	_, err := s.codes.CheckResetCode(ctx, req.Email, strings.TrimSpace(req.Code))
	return err
}

// ResetPassword sets a new password and burns the code
func (s *passwordResetService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	if req.Email == "" || req.Code == "" {
		return ErrInvalidOrExpiredCode
	}

	if err := utils.ValidatePassword(req.NewPassword); err != nil {
		return validationError(err)
	}

	resetCode, err := s.codes.CheckResetCode(ctx, req.Email, strings.TrimSpace(req.Code))
	if err != nil {
		return err
	}

	passwordHash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return internalError(err)
	}

	// The claim must win before the password is written.
	if err := s.codes.ConsumeResetCode(ctx, resetCode.ID); err != nil {
		return err
	}

	if _, err := s.users.Update(ctx, resetCode.UserID, domain.UserUpdate{PasswordHash: &passwordHash}); err != nil {
		return mapUserWriteError(err)
	}

	s.logger.Info("Password reset", zap.String("user_id", resetCode.UserID))
	return nil
}
