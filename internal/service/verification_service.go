package service

import (
	"context"
	"strings"

	"github.com/bilogames/account-service/internal/domain"
	"github.com/bilogames/account-service/internal/dto"
	"github.com/bilogames/account-service/internal/repository"
	"github.com/bilogames/account-service/internal/utils"
	"go.uber.org/zap"
)

type verificationService struct {
	users      repository.UserRepository
	codes      *CodeService
	jwtManager *utils.JWTManager
	notifier   Notifier
	logger     *zap.Logger
}

func NewVerificationService(
	users repository.UserRepository,
	codes *CodeService,
	jwtManager *utils.JWTManager,
	notifier Notifier,
	logger *zap.Logger,
) VerificationService {
	return &verificationService{
		users:      users,
		codes:      codes,
		jwtManager: jwtManager,
		notifier:   notifier,
		logger:     logger,
	}
}

// SendVerification issues a new verification code and mails it before returning
func (s *verificationService) SendVerification(ctx context.Context, userID string) error {
	user, err := getUser(ctx, s.users, userID)
	if err != nil {
		return err
	}

	if user.EmailVerified {
		return ErrAlreadyVerified
	}

	code, err := s.codes.IssueVerificationCode(ctx, user.ID)
	if err != nil {
		return internalError(err)
	}

	if err := s.notifier.SendVerificationCode(ctx, user, code); err != nil {
		s.logger.Error("Failed to send verification email", zap.String("user_id", user.ID), zap.Error(err))
		return ErrEmailSendFailed.wrap(err)
	}

	return nil
}

// VerifyEmail redeems the code and marks the email verified
func (s *verificationService) VerifyEmail(ctx context.Context, userID string, req *dto.VerifyEmailRequest) (*dto.AuthResponse, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, ErrInvalidOrExpiredCode
	}

	if _, err := getUser(ctx, s.users, userID); err != nil {
		return nil, err
	}

	if err := s.codes.RedeemVerificationCode(ctx, userID, code); err != nil {
		return nil, err
	}

	verified := true
	user, err := s.users.Update(ctx, userID, domain.UserUpdate{EmailVerified: &verified})
	if err != nil {
		return nil, mapUserWriteError(err)
	}

	s.logger.Info("Email verified", zap.String("user_id", userID))
	return issueSession(s.jwtManager, user, "Email verified successfully")
}
