package google

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/bilogames/account-service/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var googleIssuers = map[string]bool{
	"accounts.google.com":         true,
	"https://accounts.google.com": true,
}

// IDTokenVerifier validates Google-signed ID tokens (RS256 JWTs)
type IDTokenVerifier struct {
	keyfunc  jwt.Keyfunc
	clientID string
}

func NewIDTokenVerifier(kf jwt.Keyfunc, clientID string) *IDTokenVerifier {
	return &IDTokenVerifier{
		keyfunc:  kf,
		clientID: clientID,
	}
}

func (v *IDTokenVerifier) Name() string {
	return "id_token"
}

func (v *IDTokenVerifier) Resolve(ctx context.Context, credential string) (*domain.GoogleIdentity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithExpirationRequired(),
	}
	if v.clientID != "" {
		opts = append(opts, jwt.WithAudience(v.clientID))
	}

	token, err := jwt.Parse(credential, v.keyfunc, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse id token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid id token claims")
	}

	iss, _ := claims.GetIssuer()
	if !googleIssuers[iss] {
		return nil, fmt.Errorf("unexpected issuer %q", iss)
	}

	if verified, ok := claims["email_verified"].(bool); ok && !verified {
		return nil, errors.New("google email not verified")
	}

	sub, _ := claims.GetSubject()
	email, _ := claims["email"].(string)
	givenName, _ := claims["given_name"].(string)
	familyName, _ := claims["family_name"].(string)

	return &domain.GoogleIdentity{
		GoogleID:   sub,
		Email:      email,
		GivenName:  givenName,
		FamilyName: familyName,
	}, nil
}

// JWKS is a remote key set kept fresh in the background
type JWKS struct {
	jwks *keyfunc.JWKS
}

// NewJWKS fetches the key set at url and starts refreshing it
func NewJWKS(url string, logger *zap.Logger) (*JWKS, error) {
	jwks, err := keyfunc.Get(url, keyfunc.Options{
		RefreshErrorHandler: func(err error) {
			logger.Warn("Failed to refresh Google JWKS", zap.Error(err))
		},
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get JWKS from %s: %w", url, err)
	}

	return &JWKS{jwks: jwks}, nil
}

func (j *JWKS) Keyfunc(token *jwt.Token) (interface{}, error) {
	return j.jwks.Keyfunc(token)
}

// Close stops the background refresh
func (j *JWKS) Close() {
	j.jwks.EndBackground()
}
