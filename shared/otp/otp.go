package otp

//go:generate go run go.uber.org/mock/mockgen -source=./otp.go -destination=./mocks/otp_mock.go -package=mocks

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"taskpal/config"
	"taskpal/infras/otel"
	"taskpal/shared/cache"
	"taskpal/shared/constant"
	"taskpal/shared/failure"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	otelScopeName = "otp"

	keyPrefix       = "otp"
	attemptsSuffix  = "attempts"
	defaultLength   = 6
	defaultTTL      = 600
	defaultAttempts = 5
)

type Purpose string

const (
	PurposeRegister Purpose = "register"
	PurposeReset    Purpose = "reset"
	PurposeDelegate Purpose = "delegate"
)

var (
	ErrExpired         = failure.BadRequestFromString("otp is expired or was never requested")
	ErrInvalid         = failure.BadRequestFromString("invalid otp")
	ErrTooManyAttempts = failure.BadRequestFromString("too many invalid attempts, request a new otp")
)

// Code is a user supplied one-time password.
type Code string

// Validate is invoked by the "configured" validator tag.
func (c Code) Validate(cfg *config.Config) error {
	length := cfg.OTP.Length
	if length <= 0 {
		length = defaultLength
	}

	if len(c) != length {
		return fmt.Errorf("otp must be %d digits", length)
	}

	for _, r := range c {
		if r < '0' || r > '9' {
			return errors.New("otp must be numeric")
		}
	}

	return nil
}

type Store interface {
	Issue(ctx context.Context, purpose Purpose, email string) (code string, err error)
	Verify(ctx context.Context, purpose Purpose, email, code string) (err error)
}

type redisStore struct {
	cache cache.RedisCache
	cfg   *config.Config
	otel  otel.Otel
}

func NewStore(cache cache.RedisCache, cfg *config.Config, otel otel.Otel) Store {
	return &redisStore{
		cache: cache,
		cfg:   cfg,
		otel:  otel,
	}
}

func Key(purpose Purpose, email string) string {
	return strings.Join([]string{keyPrefix, string(purpose), strings.ToLower(strings.TrimSpace(email))}, constant.Separator)
}

// Generate returns a random numeric code of the given length.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = defaultLength
	}

	var builder strings.Builder

	for range length {
		digit, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate otp digit: %w", err)
		}

		builder.WriteByte(byte('0' + digit.Int64()))
	}

	return builder.String(), nil
}

// Issue replaces any pending code for the purpose and email and resets the attempt counter.
func (s *redisStore) Issue(ctx context.Context, purpose Purpose, email string) (code string, err error) {
	ctx, scope := s.otel.NewScope(ctx, otelScopeName, otelScopeName+".Issue")
	defer scope.End()
	defer scope.TraceIfError(err)

	code, err = Generate(s.cfg.OTP.Length)
	if err != nil {
		return "", err
	}

	key := Key(purpose, email)

	if err = s.cache.Delete(ctx, attemptsKey(key)); err != nil {
		log.Error().Err(err).Str("purpose", string(purpose)).Msg("failed to reset otp attempts")

		return "", fmt.Errorf("failed to reset otp attempts: %w", err)
	}

	if err = s.cache.Save(ctx, key, code, s.ttlSeconds()); err != nil {
		log.Error().Err(err).Str("purpose", string(purpose)).Msg("failed to store otp")

		return "", fmt.Errorf("failed to store otp: %w", err)
	}

	return code, nil
}

// Verify consumes the code on success. Every failed attempt is counted; once
// the count exceeds the configured limit the pending code is revoked.
func (s *redisStore) Verify(ctx context.Context, purpose Purpose, email, code string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, otelScopeName, otelScopeName+".Verify")
	defer scope.End()
	defer scope.TraceIfError(err)

	key := Key(purpose, email)

	var stored string
	if err = s.cache.Get(ctx, key, &stored); err != nil {
		if errors.Is(err, cache.Nil) {
			return ErrExpired
		}

		log.Error().Err(err).Msg("failed to read otp")

		return fmt.Errorf("failed to read otp: %w", err)
	}

	if stored == code {
		s.revoke(ctx, key)

		return nil
	}

	attempts, err := s.cache.Increment(ctx, attemptsKey(key), time.Duration(s.ttlSeconds())*time.Second)
	if err != nil {
		return fmt.Errorf("failed to count otp attempt: %w", err)
	}

	if int(attempts) > s.maxAttempts() {
		log.Warn().Str("purpose", string(purpose)).Int64("attempts", attempts).Msg("otp revoked after too many attempts")
		s.revoke(ctx, key)

		return ErrTooManyAttempts
	}

	return ErrInvalid
}

func (s *redisStore) revoke(ctx context.Context, key string) {
	for _, k := range []string{key, attemptsKey(key)} {
		if err := s.cache.Delete(ctx, k); err != nil {
			log.Warn().Err(err).Msg("failed to revoke otp")
		}
	}
}

func attemptsKey(key string) string {
	return key + constant.Separator + attemptsSuffix
}

func (s *redisStore) ttlSeconds() int {
	if s.cfg.OTP.TTLSeconds <= 0 {
		return defaultTTL
	}

	return s.cfg.OTP.TTLSeconds
}

func (s *redisStore) maxAttempts() int {
	if s.cfg.OTP.MaxAttempts <= 0 {
		return defaultAttempts
	}

	return s.cfg.OTP.MaxAttempts
}
