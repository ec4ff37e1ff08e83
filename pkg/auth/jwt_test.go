package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signHS256(t *testing.T, claims Claims, secret string) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims(username string) Claims {
	return Claims{
		CognitoUsername: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "sub-" + username,
			Issuer:    "https://issuer.example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func newHSValidator(t *testing.T, issuer string) *JWTValidator {
	v, err := NewJWTValidator(JWTConfig{SigningMethod: "HS256", SecretKey: testSecret, Issuer: issuer})
	require.NoError(t, err)
	return v
}

func TestValidateToken_HS256(t *testing.T) {
	v := newHSValidator(t, "https://issuer.example.com")
	token := signHS256(t, validClaims("alice"), testSecret)

	claims, err := v.ValidateToken("Bearer " + token)

	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Identity())
}

func TestValidateToken_Failures(t *testing.T) {
	v := newHSValidator(t, "https://issuer.example.com")

	expired := validClaims("alice")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	wrongIssuer := validClaims("alice")
	wrongIssuer.Issuer = "https://evil.example.com"

	noUser := validClaims("")
	noUser.Subject = ""

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"missing", "", ErrMissingToken},
		{"bearer only", "Bearer ", ErrMissingToken},
		{"bare bearer", "bearer", ErrMissingToken},
		{"bearer and spaces", "Bearer    ", ErrMissingToken},
		{"garbage", "not-a-jwt", ErrInvalidToken},
		{"expired", signHS256(t, expired, testSecret), ErrExpiredToken},
		{"wrong secret", signHS256(t, validClaims("alice"), "other"), ErrInvalidSignature},
		{"wrong issuer", signHS256(t, wrongIssuer, testSecret), ErrInvalidClaims},
		{"no username", signHS256(t, noUser, testSecret), ErrInvalidClaims},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.ValidateToken(tt.token)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestValidateToken_RS256(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	v, err := NewJWTValidator(JWTConfig{SigningMethod: "RS256", PublicKey: string(publicPEM)})
	require.NoError(t, err)

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, validClaims("bob")).SignedString(key)
	require.NoError(t, err)

	claims, err := v.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "bob", claims.Identity())

	// an HS256 token must not pass an RS256 validator
	_, err = v.ValidateToken(signHS256(t, validClaims("bob"), testSecret))
	assert.Error(t, err)
}

func TestNewJWTValidator_Config(t *testing.T) {
	_, err := NewJWTValidator(JWTConfig{SigningMethod: "HS256"})
	assert.Error(t, err)

	_, err = NewJWTValidator(JWTConfig{SigningMethod: "RS256"})
	assert.Error(t, err)

	_, err = NewJWTValidator(JWTConfig{SigningMethod: "none"})
	assert.Error(t, err)
}

func TestClaimsIdentity(t *testing.T) {
	assert.Equal(t, "cog", (&Claims{CognitoUsername: "cog", Username: "u"}).Identity())
	assert.Equal(t, "u", (&Claims{Username: "u"}).Identity())
	assert.Equal(t, "s", (&Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "s"}}).Identity())
}

func TestIdentityFromClaimMap(t *testing.T) {
	assert.Equal(t, "cog", IdentityFromClaimMap(map[string]string{"cognito:username": "cog", "username": "u", "sub": "s"}))
	assert.Equal(t, "u", IdentityFromClaimMap(map[string]string{"username": "u", "sub": "s"}))
	assert.Equal(t, "s", IdentityFromClaimMap(map[string]string{"sub": "s"}))
	assert.Equal(t, "", IdentityFromClaimMap(nil))
}

func TestValidateToken_BearerPrefix(t *testing.T) {
	v := newHSValidator(t, "")
	token := signHS256(t, validClaims("alice"), testSecret)

	for _, header := range []string{"Bearer " + token, "bearer " + token, "BEARER   " + token, token} {
		claims, err := v.ValidateToken(header)
		require.NoError(t, err, header)
		assert.Equal(t, "alice", claims.Identity())
	}

	_, err := v.ValidateToken("Bearer" + token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)

	_, ok = IdentityFromContext(WithIdentity(context.Background(), ""))
	assert.False(t, ok)

	username, ok := IdentityFromContext(WithIdentity(context.Background(), "alice"))
	assert.True(t, ok)
	assert.Equal(t, "alice", username)
}
