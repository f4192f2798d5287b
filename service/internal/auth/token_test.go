package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jason-s-yu/gemduel/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestIssueAndParse(t *testing.T) {
	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	s, err := NewSigner("secret", time.Hour, fixedClock(at))
	require.NoError(t, err)

	gameID, playerID := uuid.New(), uuid.New()
	token, err := s.Issue(gameID, playerID, engine.P2)
	require.NoError(t, err)

	claims, err := s.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, gameID, claims.GameID)
	assert.Equal(t, playerID, claims.PlayerID)
	assert.Equal(t, engine.P2, claims.Seat)
	assert.True(t, at.Add(time.Hour).Equal(claims.ExpiresAt))
}

func TestNewSignerRequiresSecret(t *testing.T) {
	_, err := NewSigner("  ", time.Hour, nil)
	assert.Error(t, err)
}

func TestParseRejects(t *testing.T) {
	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	s, err := NewSigner("secret", time.Minute, fixedClock(at))
	require.NoError(t, err)
	token, err := s.Issue(uuid.New(), uuid.New(), engine.P1)
	require.NoError(t, err)

	other, err := NewSigner("another", time.Minute, fixedClock(at))
	require.NoError(t, err)
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken, "wrong secret")

	later, err := NewSigner("secret", time.Minute, fixedClock(at.Add(time.Hour)))
	require.NoError(t, err)
	_, err = later.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken, "expired")

	_, err = s.Parse("")
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = s.Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsBadSeat(t *testing.T) {
	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	s, err := NewSigner("secret", time.Minute, fixedClock(at))
	require.NoError(t, err)

	claims := seatClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(at.Add(time.Minute)),
		},
		GameID: uuid.NewString(),
		Seat:   "p3",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = s.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
