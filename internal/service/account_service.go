package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bilogames/account-service/internal/domain"
	"github.com/bilogames/account-service/internal/dto"
	"github.com/bilogames/account-service/internal/repository"
	"github.com/bilogames/account-service/internal/utils"
	"github.com/bilogames/account-service/pkg/observability"
	"go.uber.org/zap"
)

const (
	methodPassword = "password"
	methodGoogle   = "google"
)

// accountService implements AccountService interface
type accountService struct {
	users      repository.UserRepository
	codes      *CodeService
	hasher     *utils.PasswordHasher
	jwtManager *utils.JWTManager
	notifier   Notifier
	background *Background
	metrics    *observability.AuthMetrics
	logger     *zap.Logger
}

// NewAccountService creates a new account service
func NewAccountService(
	users repository.UserRepository,
	codes *CodeService,
	hasher *utils.PasswordHasher,
	jwtManager *utils.JWTManager,
	notifier Notifier,
	background *Background,
	metrics *observability.AuthMetrics,
	logger *zap.Logger,
) AccountService {
	return &accountService{
		users:      users,
		codes:      codes,
		hasher:     hasher,
		jwtManager: jwtManager,
		notifier:   notifier,
		background: background,
		metrics:    metrics,
		logger:     logger,
	}
}

// Register creates an unverified account with a password
func (s *accountService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	birthDate, err := validateSignUp(req.Email, req.Firstname, req.Lastname, req.Username, req.Password, req.BirthDate)
	if err != nil {
		return nil, err
	}

	if err := ensureEmailFree(ctx, s.users, req.Email); err != nil {
		return nil, err
	}
	if err := ensureUsernameFree(ctx, s.users, req.Username); err != nil {
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, internalError(err)
	}

	user := &domain.User{
		Email:         req.Email,
		PasswordHash:  passwordHash,
		Firstname:     req.Firstname,
		Lastname:      req.Lastname,
		Username:      req.Username,
		BirthDate:     birthDate,
		EmailVerified: false,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, mapUserWriteError(err)
	}

	s.metrics.Registration(ctx, methodPassword)
	s.logger.Info("User registered", zap.String("user_id", user.ID), zap.String("method", methodPassword))

	s.background.Go(ctx, "welcome_email", func(ctx context.Context) error {
		return s.notifier.SendWelcome(ctx, user)
	})

	return issueSession(s.jwtManager, user, "Account created successfully")
}

// Login authenticates a user by email and password
func (s *accountService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.metrics.Login(ctx, methodPassword, false)
			return nil, ErrInvalidCredentials
		}
		return nil, internalError(err)
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		s.metrics.Login(ctx, methodPassword, false)
		return nil, ErrInvalidCredentials
	}

	s.metrics.Login(ctx, methodPassword, true)
	return issueSession(s.jwtManager, user, "Login successful")
}

// GetUser returns the user projection
func (s *accountService) GetUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := getUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}

	response := dto.NewUserResponse(user)
	return &response, nil
}

// UpdateProfile applies the provided fields after checking the current password
func (s *accountService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.AuthResponse, error) {
	if req.CurrentPassword == "" {
		return nil, ErrCurrentPasswordRequired
	}

	user, err := getUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}

	if !s.hasher.Verify(req.CurrentPassword, user.PasswordHash) {
		return nil, ErrIncorrectPassword
	}

	var update domain.UserUpdate
	emailChanged := false

	if req.Email != nil && *req.Email != user.Email {
		if err := utils.ValidateEmail(*req.Email); err != nil {
			return nil, validationError(err)
		}
		if err := ensureEmailFree(ctx, s.users, *req.Email); err != nil {
			return nil, err
		}
		verified := false
		update.Email = req.Email
		update.EmailVerified = &verified
		emailChanged = true
	}

	if req.Firstname != nil && *req.Firstname != user.Firstname {
		if err := utils.ValidateName(*req.Firstname); err != nil {
			return nil, validationError(err)
		}
		update.Firstname = req.Firstname
	}

	if req.Lastname != nil && *req.Lastname != user.Lastname {
		if err := utils.ValidateName(*req.Lastname); err != nil {
			return nil, validationError(err)
		}
		update.Lastname = req.Lastname
	}

	if req.Username != nil && *req.Username != user.Username {
		if err := utils.ValidateUsername(*req.Username); err != nil {
			return nil, validationError(err)
		}
		if err := ensureUsernameFree(ctx, s.users, *req.Username); err != nil {
			return nil, err
		}
		update.Username = req.Username
	}

	if req.BirthDate != nil {
		birthDate, err := utils.ParseBirthDate(*req.BirthDate)
		if err != nil {
			return nil, validationError(err)
		}
		if birthDate != nil && (user.BirthDate == nil || !birthDate.Equal(*user.BirthDate)) {
			update.BirthDate = birthDate
		}
	}

	if req.NewPassword != nil && *req.NewPassword != "" {
		if err := utils.ValidatePassword(*req.NewPassword); err != nil {
			return nil, validationError(err)
		}
		passwordHash, err := s.hasher.Hash(*req.NewPassword)
		if err != nil {
			return nil, internalError(err)
		}
		update.PasswordHash = &passwordHash
	}

	if update.IsEmpty() {
		return nil, ErrNoFieldsProvided
	}

	updated, err := s.users.Update(ctx, userID, update)
	if err != nil {
		return nil, mapUserWriteError(err)
	}

	// Codes sent to the old address must not outlive the change.
	if emailChanged {
		if err := s.codes.RevokeCodes(ctx, userID); err != nil {
			return nil, internalError(fmt.Errorf("failed to revoke codes: %w", err))
		}
	}

	s.logger.Info("Profile updated",
		zap.String("user_id", userID),
		zap.Bool("email_changed", emailChanged),
		zap.Bool("password_changed", update.PasswordHash != nil),
	)

	return issueSession(s.jwtManager, updated, "Profile updated successfully")
}

// DeleteAccount removes the account after checking its password
func (s *accountService) DeleteAccount(ctx context.Context, userID string, req *dto.DeleteAccountRequest) error {
	if req.Password == "" {
		return ErrPasswordRequired
	}

	user, err := getUser(ctx, s.users, userID)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return ErrIncorrectPassword
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return internalError(err)
	}

	s.logger.Info("Account deleted", zap.String("user_id", userID))
	return nil
}

// ValidateToken validates a session token
func (s *accountService) ValidateToken(ctx context.Context, token string) (*domain.TokenClaims, error) {
	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidToken.wrap(err)
	}
	return claims, nil
}

// validateSignUp runs the field checks shared by both sign-up paths and returns the parsed birth date
func validateSignUp(email, firstname, lastname, username, password, birthDate string) (*time.Time, error) {
	if err := utils.ValidateEmail(email); err != nil {
		return nil, validationError(err)
	}
	if err := utils.ValidateName(firstname); err != nil {
		return nil, validationError(err)
	}
	if err := utils.ValidateName(lastname); err != nil {
		return nil, validationError(err)
	}
	if err := utils.ValidateUsername(username); err != nil {
		return nil, validationError(err)
	}
	if err := utils.ValidatePassword(password); err != nil {
		return nil, validationError(err)
	}

	parsed, err := utils.ParseBirthDate(birthDate)
	if err != nil {
		return nil, validationError(err)
	}
	return parsed, nil
}

func getUser(ctx context.Context, users repository.UserRepository, userID string) (*domain.User, error) {
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, internalError(err)
	}
	return user, nil
}

func ensureEmailFree(ctx context.Context, users repository.UserRepository, email string) error {
	_, err := users.GetByEmail(ctx, email)
	if err == nil {
		return ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return internalError(fmt.Errorf("failed to check email: %w", err))
	}
	return nil
}

func ensureUsernameFree(ctx context.Context, users repository.UserRepository, username string) error {
	_, err := users.GetByUsername(ctx, username)
	if err == nil {
		return ErrUsernameTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return internalError(fmt.Errorf("failed to check username: %w", err))
	}
	return nil
}

// mapUserWriteError translates storage errors from Create and Update
func mapUserWriteError(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		return ErrEmailTaken.wrap(err)
	case errors.Is(err, repository.ErrDuplicateUsername):
		return ErrUsernameTaken.wrap(err)
	case errors.Is(err, repository.ErrDuplicateGoogleID):
		return ErrGoogleAccountLinked.wrap(err)
	case errors.Is(err, repository.ErrNotFound):
		return ErrUserNotFound
	default:
		return internalError(err)
	}
}
