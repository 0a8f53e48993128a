package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func TestSetToken(t *testing.T) {
	s := New()
	token := signToken(t, jwt.MapClaims{
		"sub":         "u1",
		"displayName": "alice",
		"exp":         time.Now().Add(time.Hour).Unix(),
	})

	require.NoError(t, s.SetToken(token))

	user := s.CurrentUser()
	require.NotNil(t, user)
	require.Equal(t, "u1", user.ID)
	require.Equal(t, "alice", user.DisplayName)
	require.Equal(t, token, s.Token())
}

func TestSetToken_DisplayNameFallsBackToSubject(t *testing.T) {
	s := New()
	require.NoError(t, s.SetToken(signToken(t, jwt.MapClaims{"sub": "u1"})))

	user := s.CurrentUser()
	require.NotNil(t, user)
	require.Equal(t, "u1", user.DisplayName)
}

func TestSetToken_Invalid(t *testing.T) {
	s := New()

	require.Error(t, s.SetToken("not-a-jwt"))
	require.Nil(t, s.CurrentUser())

	require.Error(t, s.SetToken(signToken(t, jwt.MapClaims{"displayName": "no subject"})))
	require.Nil(t, s.CurrentUser())
}

func TestExpiredTokenMeansNoUser(t *testing.T) {
	s := New()
	now := time.Now()
	s.now = func() time.Time { return now }

	token := signToken(t, jwt.MapClaims{
		"sub": "u1",
		"exp": now.Add(time.Minute).Unix(),
	})
	require.NoError(t, s.SetToken(token))
	require.NotNil(t, s.CurrentUser())

	s.now = func() time.Time { return now.Add(2 * time.Minute) }

	require.Nil(t, s.CurrentUser())
	require.Empty(t, s.Token())
}

func TestClear(t *testing.T) {
	s := New()
	require.NoError(t, s.SetToken(signToken(t, jwt.MapClaims{"sub": "u1"})))

	s.Clear()

	require.Nil(t, s.CurrentUser())
	require.Empty(t, s.Token())
}
