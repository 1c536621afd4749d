package google

import (
	"context"
	"errors"
	"fmt"

	"github.com/bilogames/account-service/internal/domain"
	"go.uber.org/zap"
)

// ErrInvalidCredential is returned when no strategy accepts the credential
var ErrInvalidCredential = errors.New("invalid google credential")

// Strategy resolves a Google credential into an identity
type Strategy interface {
	Name() string
	Resolve(ctx context.Context, credential string) (*domain.GoogleIdentity, error)
}

// Authenticator tries its strategies in order; the first success wins
type Authenticator struct {
	strategies []Strategy
	logger     *zap.Logger
}

func NewAuthenticator(logger *zap.Logger, strategies ...Strategy) *Authenticator {
	return &Authenticator{
		strategies: strategies,
		logger:     logger,
	}
}

// Authenticate returns the identity behind credential or ErrInvalidCredential
func (a *Authenticator) Authenticate(ctx context.Context, credential string) (*domain.GoogleIdentity, error) {
	if credential == "" {
		return nil, ErrInvalidCredential
	}

	var errs error
	for _, s := range a.strategies {
		identity, err := s.Resolve(ctx, credential)
		if err == nil {
			err = checkIdentity(identity)
		}
		if err != nil {
			a.logger.Debug("Google strategy rejected credential",
				zap.String("strategy", s.Name()),
				zap.Error(err),
			)
			errs = errors.Join(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		return identity, nil
	}

	if errs == nil {
		return nil, ErrInvalidCredential
	}
	return nil, fmt.Errorf("%w: %w", ErrInvalidCredential, errs)
}

func checkIdentity(identity *domain.GoogleIdentity) error {
	if identity == nil || identity.GoogleID == "" {
		return errors.New("missing subject")
	}
	if identity.Email == "" {
		return errors.New("missing email")
	}
	return nil
}
