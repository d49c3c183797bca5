package auth

import (
	"testing"
	"time"

	"quizbot/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenManager_DisabledWithoutSecret(t *testing.T) {
	assert.Nil(t, NewTokenManager(config.AuthConfig{}))
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager(config.AuthConfig{Secret: "s3cret", TokenTTL: time.Hour})
	require.NotNil(t, m)

	token, err := m.Issue("01J0SESSION")
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "01J0SESSION", claims.SessionID)

	assert.NoError(t, m.Authorize(token, "01J0SESSION"))
	assert.ErrorIs(t, m.Authorize(token, "01J0OTHER"), ErrSessionMismatch)
}

func TestTokenManager_Rejections(t *testing.T) {
	m := NewTokenManager(config.AuthConfig{Secret: "s3cret", TokenTTL: time.Minute})
	token, err := m.Issue("sid")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenManager(config.AuthConfig{Secret: "different"})
		_, err := other.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := *m
		later.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
		_, err := later.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Parse("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{SessionID: "sid"}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = m.Parse(unsigned)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
