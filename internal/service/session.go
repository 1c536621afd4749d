package service

import (
	"fmt"

	"github.com/bilogames/account-service/internal/domain"
	"github.com/bilogames/account-service/internal/dto"
	"github.com/bilogames/account-service/internal/utils"
)

// issueSession signs a fresh session token for user and wraps it with the user projection
func issueSession(jwtManager *utils.JWTManager, user *domain.User, message string) (*dto.AuthResponse, error) {
	token, err := jwtManager.GenerateToken(user)
	if err != nil {
		return nil, internalError(fmt.Errorf("failed to generate token: %w", err))
	}

	return &dto.AuthResponse{
		Message: message,
		User:    dto.NewUserResponse(user),
		Token:   token,
	}, nil
}
