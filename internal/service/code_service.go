package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bilogames/account-service/internal/domain"
	"github.com/bilogames/account-service/internal/repository"
	"github.com/bilogames/account-service/internal/utils"
	"github.com/bilogames/account-service/pkg/observability"
)

const (
	codeKindVerification = "verification"
	codeKindReset        = "reset"
)

// CodeService issues and redeems one-time codes
type CodeService struct {
	verificationCodes repository.VerificationCodeRepository
	resetCodes        repository.ResetCodeRepository
	ttl               time.Duration
	metrics           *observability.AuthMetrics
	now               func() time.Time
}

func NewCodeService(
	verificationCodes repository.VerificationCodeRepository,
	resetCodes repository.ResetCodeRepository,
	ttl time.Duration,
	metrics *observability.AuthMetrics,
) *CodeService {
	return &CodeService{
		verificationCodes: verificationCodes,
		resetCodes:        resetCodes,
		ttl:               ttl,
		metrics:           metrics,
		now:               time.Now,
	}
}

// Generate returns a fresh six-digit code
func (s *CodeService) Generate() (string, error) {
	return utils.GenerateNumericCode()
}

// IssueVerificationCode replaces any code the user holds with a new one
func (s *CodeService) IssueVerificationCode(ctx context.Context, userID string) (string, error) {
	code, err := s.Generate()
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}

	now := s.now().UTC()
	err = s.verificationCodes.Upsert(ctx, &domain.EmailVerificationCode{
		UserID:    userID,
		Code:      code,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store verification code: %w", err)
	}

	s.metrics.CodeIssued(ctx, codeKindVerification)
	return code, nil
}

// IssueResetCode replaces any reset code issued for email with a new one
func (s *CodeService) IssueResetCode(ctx context.Context, userID, email string) (string, error) {
	code, err := s.Generate()
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}

	now := s.now().UTC()
	err = s.resetCodes.Upsert(ctx, &domain.PasswordResetCode{
		UserID:    userID,
		Email:     email,
		Code:      code,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store reset code: %w", err)
	}

	s.metrics.CodeIssued(ctx, codeKindReset)
	return code, nil
}

// RedeemVerificationCode consumes the user's code if it matches and is still live
func (s *CodeService) RedeemVerificationCode(ctx context.Context, userID, code string) error {
	err := s.verificationCodes.Consume(ctx, userID, code, s.now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidOrExpiredCode
		}
		return internalError(err)
	}
	return nil
}

// CheckResetCode returns the live reset code matching email and code without consuming it
func (s *CodeService) CheckResetCode(ctx context.Context, email, code string) (*domain.PasswordResetCode, error) {
	resetCode, err := s.resetCodes.FindRedeemable(ctx, email, code, s.now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidOrExpiredCode
		}
		return nil, internalError(err)
	}
	return resetCode, nil
}

// ConsumeResetCode claims the reset code. Only one caller can claim a given code.
func (s *CodeService) ConsumeResetCode(ctx context.Context, id string) error {
	err := s.resetCodes.MarkUsed(ctx, id, s.now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidOrExpiredCode
		}
		return internalError(err)
	}
	return nil
}

// RevokeCodes drops every outstanding code of the user
func (s *CodeService) RevokeCodes(ctx context.Context, userID string) error {
	if err := s.verificationCodes.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	return s.resetCodes.DeleteByUserID(ctx, userID)
}
