package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/bilogames/account-service/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers malformed, badly signed, expired and incomplete tokens
var ErrInvalidToken = errors.New("invalid token")

const registrationTokenType = "google_registration"

// JWTManager manages JWT token operations
type JWTManager struct {
	secret          []byte
	expiry          time.Duration
	registrationTTL time.Duration
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secret string, expiry, registrationTTL time.Duration) *JWTManager {
	return &JWTManager{
		secret:          []byte(secret),
		expiry:          expiry,
		registrationTTL: registrationTTL,
	}
}

// GenerateToken signs a session token for the user
func (j *JWTManager) GenerateToken(user *domain.User) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       user.ID,
		"email":    user.Email,
		"username": user.Username,
		"exp":      now.Add(j.expiry).Unix(),
		"iat":      now.Unix(),
	})

	tokenString, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a session token and returns its claims
func (j *JWTManager) ValidateToken(tokenString string) (*domain.TokenClaims, error) {
	claims, err := j.parse(tokenString)
	if err != nil {
		return nil, err
	}

	if _, isTicket := claims["type"]; isTicket {
		return nil, fmt.Errorf("%w: unexpected token type", ErrInvalidToken)
	}

	userID, ok := claims["id"].(string)
	if !ok || userID == "" {
		return nil, fmt.Errorf("%w: invalid id", ErrInvalidToken)
	}

	email, ok := claims["email"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: invalid email", ErrInvalidToken)
	}

	username, ok := claims["username"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: invalid username", ErrInvalidToken)
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, fmt.Errorf("%w: invalid exp", ErrInvalidToken)
	}

	iat, _ := claims["iat"].(float64)

	tokenClaims := &domain.TokenClaims{
		UserID:   userID,
		Email:    email,
		Username: username,
		Exp:      int64(exp),
		Iat:      int64(iat),
	}

	if tokenClaims.IsExpired() {
		return nil, fmt.Errorf("%w: token is expired", ErrInvalidToken)
	}

	return tokenClaims, nil
}

// GenerateRegistrationToken signs a short-lived ticket binding a verified Google
// identity to the registration call that follows it.
func (j *JWTManager) GenerateRegistrationToken(identity *domain.GoogleIdentity) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":         identity.GoogleID,
		"email":       identity.Email,
		"given_name":  identity.GivenName,
		"family_name": identity.FamilyName,
		"type":        registrationTokenType,
		"jti":         uuid.New().String(),
		"exp":         now.Add(j.registrationTTL).Unix(),
		"iat":         now.Unix(),
	})

	tokenString, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign registration token: %w", err)
	}

	return tokenString, nil
}

// ValidateRegistrationToken validates a registration ticket and returns the identity it carries
func (j *JWTManager) ValidateRegistrationToken(tokenString string) (*domain.GoogleIdentity, error) {
	claims, err := j.parse(tokenString)
	if err != nil {
		return nil, err
	}

	if claims["type"] != registrationTokenType {
		return nil, fmt.Errorf("%w: unexpected token type", ErrInvalidToken)
	}

	googleID, ok := claims["sub"].(string)
	if !ok || googleID == "" {
		return nil, fmt.Errorf("%w: invalid sub", ErrInvalidToken)
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return nil, fmt.Errorf("%w: invalid email", ErrInvalidToken)
	}

	givenName, _ := claims["given_name"].(string)
	familyName, _ := claims["family_name"].(string)

	return &domain.GoogleIdentity{
		GoogleID:   googleID,
		Email:      email,
		GivenName:  givenName,
		FamilyName: familyName,
	}, nil
}

// Expiry returns the session token lifetime
func (j *JWTManager) Expiry() time.Duration {
	return j.expiry
}

func (j *JWTManager) parse(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: invalid token claims", ErrInvalidToken)
	}

	return claims, nil
}
