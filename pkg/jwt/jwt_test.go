package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAccessSecret = "test-access-secret-key-for-testing-purposes"

func TestNewService(t *testing.T) {
	service := NewService(testAccessSecret, time.Hour)

	assert.NotNil(t, service)
	assert.Equal(t, testAccessSecret, service.accessSecret)
	assert.Equal(t, time.Hour, service.AccessTokenExpiry())
}

func TestGenerateAccessToken(t *testing.T) {
	service := NewService(testAccessSecret, time.Hour)
	roles := []string{RoleAdmin}

	token, err := service.GenerateAccessToken(7, "depot-admin", roles)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Validate the generated token
	claims, err := service.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "depot-admin", claims.Username)
	assert.Equal(t, roles, claims.Roles)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.True(t, claims.HasRole(RoleAdmin))
	assert.False(t, claims.HasRole("passenger"))
}

func TestValidateAccessToken(t *testing.T) {
	service := NewService(testAccessSecret, time.Hour)

	token, err := service.GenerateAccessToken(1, "admin", []string{RoleAdmin})
	require.NoError(t, err)

	// Test invalid token
	_, err = service.ValidateAccessToken("invalid.token.here")
	assert.Error(t, err)

	// Test token with wrong secret
	wrongService := NewService("wrong-secret", time.Hour)
	_, err = wrongService.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsForeignIssuer(t *testing.T) {
	service := NewService(testAccessSecret, time.Hour)

	claims := Claims{
		UserID:    1,
		Username:  "admin",
		Roles:     []string{RoleAdmin},
		TokenType: AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    "someone-else",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testAccessSecret))
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsNoneAlgorithm(t *testing.T) {
	service := NewService(testAccessSecret, time.Hour)

	claims := Claims{UserID: 1, TokenType: AccessToken, RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestExpiredToken(t *testing.T) {
	service := NewService(testAccessSecret, -time.Minute)

	token, err := service.GenerateAccessToken(1, "admin", []string{RoleAdmin})
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(token)
	assert.Error(t, err)
	assert.True(t, service.IsTokenExpired(token))
}

func TestIsTokenExpired(t *testing.T) {
	service := NewService(testAccessSecret, time.Hour)

	token, err := service.GenerateAccessToken(1, "admin", []string{RoleAdmin})
	require.NoError(t, err)
	assert.False(t, service.IsTokenExpired(token))

	// Test invalid token
	assert.True(t, service.IsTokenExpired("invalid.token.here"))
}

func TestTokenIssuerAndSubject(t *testing.T) {
	service := NewService(testAccessSecret, time.Hour)

	token, err := service.GenerateAccessToken(42, "admin", []string{RoleAdmin})
	require.NoError(t, err)

	claims, err := service.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "smarttransit-seat-booking", claims.Issuer)
	assert.Equal(t, "42", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestConcurrentTokenGeneration(t *testing.T) {
	service := NewService(testAccessSecret, time.Hour)

	done := make(chan bool)
	errors := make(chan error, 100)

	for i := 0; i < 100; i++ {
		go func(id int64) {
			token, err := service.GenerateAccessToken(id, "admin", []string{RoleAdmin})
			if err != nil {
				errors <- err
				done <- true
				return
			}

			_, err = service.ValidateAccessToken(token)
			if err != nil {
				errors <- err
			}
			done <- true
		}(int64(i + 1))
	}

	for i := 0; i < 100; i++ {
		<-done
	}

	close(errors)
	assert.Empty(t, errors)
}
