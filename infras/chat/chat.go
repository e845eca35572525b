package chat

//go:generate go run go.uber.org/mock/mockgen -source=./chat.go -destination=./mocks/chat_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"taskpal/config"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNotConfigured = errors.New("chat provider is not configured")

// TokenIssuer signs client tokens for the hosted chat provider.
type TokenIssuer interface {
	UserToken(ctx context.Context, userID string) (string, error)
	APIKey() string
}

type streamIssuer struct {
	cfg *config.Config
}

func New(cfg *config.Config) TokenIssuer {
	return &streamIssuer{cfg: cfg}
}

type userClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func (s *streamIssuer) UserToken(_ context.Context, userID string) (string, error) {
	secret := s.cfg.External.Stream.APISecret
	if secret == "" || s.cfg.External.Stream.APIKey == "" {
		return "", ErrNotConfigured
	}

	if userID == "" {
		return "", errors.New("user id is required")
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, userClaims{UserID: userID}).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign chat token: %w", err)
	}

	return token, nil
}

func (s *streamIssuer) APIKey() string {
	return s.cfg.External.Stream.APIKey
}

// ChannelID is the messaging channel shared by the two parties of a booking.
func ChannelID(bookingID string) string {
	return "booking-" + bookingID
}
