// Package auth issues and verifies seat tokens. A seat token binds one
// websocket connection to one player seat of one game.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jason-s-yu/gemduel/engine"
)

// Issuer is the token issuer claim.
const Issuer = "gemduel"

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid seat token")

// SeatClaims are the verified contents of a seat token.
type SeatClaims struct {
	GameID    uuid.UUID
	PlayerID  uuid.UUID
	Seat      engine.Player
	ExpiresAt time.Time
}

type seatClaims struct {
	jwt.RegisteredClaims
	GameID string `json:"game_id"`
	Seat   string `json:"seat"`
}

// Signer issues and parses HS256 seat tokens.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner returns a signer. now may be nil.
func NewSigner(secret string, ttl time.Duration, now func() time.Time) (*Signer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if now == nil {
		now = time.Now
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: now}, nil
}

// Issue returns a signed token for the seat.
func (s *Signer) Issue(gameID, playerID uuid.UUID, seat engine.Player) (string, error) {
	now := s.now().UTC()
	claims := seatClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   playerID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		GameID: gameID.String(),
		Seat:   string(seat),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign seat token: %w", err)
	}
	return signed, nil
}

// Parse verifies token and returns its claims.
func (s *Signer) Parse(token string) (SeatClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return SeatClaims{}, ErrInvalidToken
	}
	var parsed seatClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return SeatClaims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	gameID, err := uuid.Parse(parsed.GameID)
	if err != nil {
		return SeatClaims{}, fmt.Errorf("%w: game id", ErrInvalidToken)
	}
	playerID, err := uuid.Parse(parsed.Subject)
	if err != nil {
		return SeatClaims{}, fmt.Errorf("%w: subject", ErrInvalidToken)
	}
	seat := engine.Player(parsed.Seat)
	if !seat.Valid() {
		return SeatClaims{}, fmt.Errorf("%w: seat", ErrInvalidToken)
	}
	return SeatClaims{
		GameID:    gameID,
		PlayerID:  playerID,
		Seat:      seat,
		ExpiresAt: parsed.ExpiresAt.Time.UTC(),
	}, nil
}
