package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-token-tests"

func TestTokenManager_IssueAndVerify(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)

	token, err := m.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestTokenManager_Verify_WrongSecret(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)
	other := NewTokenManager("a-different-secret", time.Hour)

	token, err := m.Issue("user-123")
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestTokenManager_Verify_Expired(t *testing.T) {
	m := NewTokenManager(testSecret, -time.Minute)

	token, err := m.Issue("user-123")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenManager_Verify_Garbage(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := m.Verify(tok)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token %q", tok)
	}
}

func TestTokenManager_Verify_WrongAlgorithm(t *testing.T) {
	// A token signed with "none" must be rejected outright.
	claims := &Claims{UserID: "user-123"}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	m := NewTokenManager(testSecret, time.Hour)
	_, err = m.Verify(signed)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestTokenManager_ZeroLifetimeOmitsExpiry(t *testing.T) {
	m := NewTokenManager(testSecret, 0)

	tokenString, err := m.Issue("user-123")
	require.NoError(t, err)

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)

	claims, ok := parsed.Claims.(*Claims)
	require.True(t, ok)
	assert.Nil(t, claims.ExpiresAt)

	// And the token still verifies.
	userID, err := m.Verify(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}
