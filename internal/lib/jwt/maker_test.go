package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret_key_1234567890"

func TestJWTMaker_GenerateAndParseToken(t *testing.T) {
	tokenTTL := 24 * time.Hour
	maker := NewJWTMaker(testSecret, tokenTTL)

	tests := []struct {
		name     string
		userID   string
		username string
		role     string
	}{
		{name: "admin", userID: "u-1", username: "admin", role: "admin"},
		{name: "front desk", userID: "u-2", username: "reception", role: "user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.userID, tt.username, tt.role)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)

			assert.Equal(t, tt.userID, claims.UserID)
			assert.Equal(t, tt.username, claims.Username)
			assert.Equal(t, tt.role, claims.Role)
			assert.NotEmpty(t, claims.ID)
			assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestJWTMaker_UniqueTokenIDs(t *testing.T) {
	maker := NewJWTMaker(testSecret, time.Hour)

	first, err := maker.GenerateToken("u-1", "admin", "admin")
	require.NoError(t, err)
	second, err := maker.GenerateToken("u-1", "admin", "admin")
	require.NoError(t, err)

	c1, err := maker.ParseToken(first)
	require.NoError(t, err)
	c2, err := maker.ParseToken(second)
	require.NoError(t, err)
	assert.NotEqual(t, c1.ID, c2.ID)
}

func TestJWTMaker_ParseToken_Invalid(t *testing.T) {
	maker := NewJWTMaker(testSecret, time.Hour)

	valid, err := maker.GenerateToken("u-1", "admin", "admin")
	require.NoError(t, err)

	expiredMaker := NewJWTMaker(testSecret, time.Hour)
	expiredMaker.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredMaker.GenerateToken("u-1", "admin", "admin")
	require.NoError(t, err)

	wrongSecret, err := NewJWTMaker("another_secret", time.Hour).GenerateToken("u-1", "admin", "admin")
	require.NoError(t, err)

	noneSigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, CustomClaims{Username: "admin", Role: "admin"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "malformed", token: "invalid.token.here"},
		{name: "expired", token: expired},
		{name: "wrong secret", token: wrongSecret},
		{name: "tampered", token: valid + "x"},
		{name: "alg none", token: noneSigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}
