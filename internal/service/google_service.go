package service

import (
	"context"
	"errors"

	"github.com/bilogames/account-service/internal/domain"
	"github.com/bilogames/account-service/internal/dto"
	"github.com/bilogames/account-service/internal/repository"
	"github.com/bilogames/account-service/internal/utils"
	"github.com/bilogames/account-service/pkg/observability"
	"go.uber.org/zap"
)

// GoogleAuthOptions tunes the Google sign-up handshake
type GoogleAuthOptions struct {
	// RequireRegistrationToken rejects sign-ups that do not present the ticket from Authenticate.
	RequireRegistrationToken bool
}

type googleAuthService struct {
	options       GoogleAuthOptions
	users         repository.UserRepository
	authenticator IdentityAuthenticator
	hasher        *utils.PasswordHasher
	jwtManager    *utils.JWTManager
	notifier      Notifier
	background    *Background
	metrics       *observability.AuthMetrics
	logger        *zap.Logger
}

func NewGoogleAuthService(
	users repository.UserRepository,
	authenticator IdentityAuthenticator,
	hasher *utils.PasswordHasher,
	jwtManager *utils.JWTManager,
	notifier Notifier,
	background *Background,
	metrics *observability.AuthMetrics,
	logger *zap.Logger,
	options GoogleAuthOptions,
) GoogleAuthService {
	return &googleAuthService{
		options:       options,
		users:         users,
		authenticator: authenticator,
		hasher:        hasher,
		jwtManager:    jwtManager,
		notifier:      notifier,
		background:    background,
		metrics:       metrics,
		logger:        logger,
	}
}

// Authenticate signs in the account behind a Google credential, linking it by email when needed.
// Unknown identities get a registration ticket instead of a session.
func (s *googleAuthService) Authenticate(ctx context.Context, req *dto.GoogleAuthRequest) (*dto.GoogleAuthResponse, error) {
	identity, err := s.authenticator.Authenticate(ctx, req.Credential)
	if err != nil {
		s.metrics.Login(ctx, methodGoogle, false)
		return nil, ErrInvalidGoogleCredential.wrap(err)
	}

	user, err := s.users.GetByGoogleIDOrEmail(ctx, identity.GoogleID, identity.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return s.stageRegistration(identity)
		}
		return nil, internalError(err)
	}

	if !user.HasGoogleAccount() {
		user, err = s.link(ctx, user, identity)
		if err != nil {
			return nil, err
		}
	} else if *user.GoogleID != identity.GoogleID {
		s.metrics.Login(ctx, methodGoogle, false)
		return nil, ErrGoogleAccountOther
	}

	session, err := issueSession(s.jwtManager, user, "")
	if err != nil {
		return nil, err
	}

	s.metrics.Login(ctx, methodGoogle, true)

	return &dto.GoogleAuthResponse{
		IsExistingUser: true,
		User:           &session.User,
		Token:          session.Token,
	}, nil
}

func (s *googleAuthService) link(ctx context.Context, user *domain.User, identity *domain.GoogleIdentity) (*domain.User, error) {
	verified := true
	googleID := identity.GoogleID

	linked, err := s.users.Update(ctx, user.ID, domain.UserUpdate{
		GoogleID:      &googleID,
		EmailVerified: &verified,
	})
	if err != nil {
		return nil, mapUserWriteError(err)
	}

	s.logger.Info("Google account linked", zap.String("user_id", user.ID))
	return linked, nil
}

func (s *googleAuthService) stageRegistration(identity *domain.GoogleIdentity) (*dto.GoogleAuthResponse, error) {
	ticket, err := s.jwtManager.GenerateRegistrationToken(identity)
	if err != nil {
		return nil, internalError(err)
	}

	return &dto.GoogleAuthResponse{
		IsExistingUser: false,
		GoogleData: &dto.GoogleData{
			GoogleID:          identity.GoogleID,
			Email:             identity.Email,
			Firstname:         identity.GivenName,
			Lastname:          identity.FamilyName,
			RegistrationToken: ticket,
		},
	}, nil
}

// CompleteRegistration creates a verified account bound to the Google identity
func (s *googleAuthService) CompleteRegistration(ctx context.Context, req *dto.GoogleRegisterRequest) (*dto.AuthResponse, error) {
	if req.RegistrationToken == "" && s.options.RequireRegistrationToken {
		return nil, ErrInvalidRegistrationToken
	}

	if req.RegistrationToken != "" {
		identity, err := s.jwtManager.ValidateRegistrationToken(req.RegistrationToken)
		if err != nil {
			return nil, ErrInvalidRegistrationToken.wrap(err)
		}
		if identity.GoogleID != req.GoogleID || identity.Email != req.Email {
			return nil, ErrRegistrationMismatch
		}
	}

	if req.GoogleID == "" {
		return nil, ErrGoogleIDRequired
	}

	birthDate, err := validateSignUp(req.Email, req.Firstname, req.Lastname, req.Username, req.Password, req.BirthDate)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.GetByGoogleID(ctx, req.GoogleID); err == nil {
		return nil, ErrGoogleAccountLinked
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, internalError(err)
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

	googleID := req.GoogleID
	user := &domain.User{
		Email:         req.Email,
		PasswordHash:  passwordHash,
		Firstname:     req.Firstname,
		Lastname:      req.Lastname,
		Username:      req.Username,
		BirthDate:     birthDate,
		GoogleID:      &googleID,
		EmailVerified: true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, mapUserWriteError(err)
	}

	s.metrics.Registration(ctx, methodGoogle)
	s.logger.Info("User registered", zap.String("user_id", user.ID), zap.String("method", methodGoogle))

	s.background.Go(ctx, "welcome_email", func(ctx context.Context) error {
		return s.notifier.SendWelcome(ctx, user)
	})

	return issueSession(s.jwtManager, user, "Account created successfully")
}
