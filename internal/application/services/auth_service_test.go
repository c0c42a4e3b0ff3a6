package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hmicodes/catalog/internal/domain/entities"
	"github.com/hmicodes/catalog/internal/infrastructure/config"
	"github.com/hmicodes/catalog/internal/infrastructure/logger"
)

const (
	testPassword = "12345678"
	testSecret   = "test-session-secret-that-is-long-enough"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	return NewAuthService(config.AuthConfig{
		AdminPasswordHash: string(hash),
		SessionSecret:     testSecret,
		SessionTTL:        time.Hour,
		CookieName:        "catalog_session",
		Issuer:            "error-catalog",
	}, logger.NewNop())
}

func signToken(t *testing.T, secret string, claims *SessionClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestLogin_CorrectPassword(t *testing.T) {
	svc := newAuthService(t)

	session, err := svc.Login(context.Background(), testPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, 5*time.Second)

	claims, err := svc.ValidateSession(session.Token)
	require.NoError(t, err)
	assert.True(t, claims.Authenticated)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newAuthService(t)

	for _, password := range []string{"", "wrong", testPassword + " "} {
		session, err := svc.Login(context.Background(), password)
		assert.ErrorIs(t, err, entities.ErrInvalidCredentials)
		assert.Nil(t, session)
	}
}

func TestValidateSession_Rejects(t *testing.T) {
	svc := newAuthService(t)
	now := time.Now()
	valid := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    "error-catalog",
	}

	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))

	otherIssuer := valid
	otherIssuer.Issuer = "someone-else"

	noExpiry := valid
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"wrong secret", signToken(t, "another-secret-that-is-long-enough!!", &SessionClaims{Authenticated: true, RegisteredClaims: valid})},
		{"expired", signToken(t, testSecret, &SessionClaims{Authenticated: true, RegisteredClaims: expired})},
		{"other issuer", signToken(t, testSecret, &SessionClaims{Authenticated: true, RegisteredClaims: otherIssuer})},
		{"no expiry", signToken(t, testSecret, &SessionClaims{Authenticated: true, RegisteredClaims: noExpiry})},
		{"not authenticated", signToken(t, testSecret, &SessionClaims{Authenticated: false, RegisteredClaims: valid})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ValidateSession(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestValidateSession_RejectsNoneAlgorithm(t *testing.T) {
	svc := newAuthService(t)
	claims := &SessionClaims{
		Authenticated: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    "error-catalog",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateSession(token)
	assert.Error(t, err)
}

func TestHashPassword(t *testing.T) {
	hashed, err := HashPassword(testPassword)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hashed), []byte(testPassword)))
}
