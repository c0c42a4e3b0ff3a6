package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/hmicodes/catalog/internal/domain/entities"
	"github.com/hmicodes/catalog/internal/infrastructure/config"
	"github.com/hmicodes/catalog/internal/infrastructure/logger"
	"github.com/hmicodes/catalog/internal/ports"
)

// SessionClaims represents the JWT claims of an admin session
type SessionClaims struct {
	Authenticated bool `json:"authenticated"`
	jwt.RegisteredClaims
}

// AuthService checks the admin password and issues session tokens
type AuthService struct {
	authConfig config.AuthConfig
	logger     *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(authConfig config.AuthConfig, logger *logger.Logger) *AuthService {
	return &AuthService{
		authConfig: authConfig,
		logger:     logger.WithComponent("auth"),
	}
}

// Login verifies password against the admin hash and returns a signed session
func (s *AuthService) Login(ctx context.Context, password string) (*ports.Session, error) {
	if password == "" {
		return nil, entities.ErrInvalidCredentials
	}

	err := bcrypt.CompareHashAndPassword([]byte(s.authConfig.AdminPasswordHash), []byte(password))
	if err != nil {
		return nil, entities.ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(s.authConfig.SessionTTL)
	token, err := s.generateSessionToken(expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	s.logger.Info("Admin logged in")

	return &ports.Session{
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// ValidateSession validates a session token and returns its claims
func (s *AuthService) ValidateSession(tokenString string) (*ports.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.authConfig.SessionSecret), nil
	}, jwt.WithIssuer(s.authConfig.Issuer), jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || !claims.Authenticated {
		return nil, fmt.Errorf("invalid token claims")
	}

	return &ports.Claims{
		Authenticated: true,
		ExpiresAt:     claims.ExpiresAt.Time,
	}, nil
}

func (s *AuthService) generateSessionToken(expiresAt time.Time) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		Authenticated: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.authConfig.Issuer,
			Subject:   "admin",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.authConfig.SessionSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// HashPassword returns a bcrypt hash suitable for auth.admin_password_hash
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
