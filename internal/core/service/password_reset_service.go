package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/pickmeapp/pickme-api/internal/core/domain"
	"github.com/pickmeapp/pickme-api/internal/core/ports"
)

const defaultOTPTTL = 10 * time.Minute

type PasswordResetService struct {
	users   ports.UserRepository
	otps    ports.OTPRepository
	mailer  ports.Mailer
	limiter ports.ResetRateLimiter
	ttl     time.Duration
	log     zerolog.Logger
}

func NewPasswordResetService(
	users ports.UserRepository,
	otps ports.OTPRepository,
	mailer ports.Mailer,
	limiter ports.ResetRateLimiter,
	ttl time.Duration,
	log zerolog.Logger,
) *PasswordResetService {
	if ttl <= 0 {
		ttl = defaultOTPTTL
	}
	return &PasswordResetService{
		users:   users,
		otps:    otps,
		mailer:  mailer,
		limiter: limiter,
		ttl:     ttl,
		log:     log,
	}
}

// RequestReset issues a 6-digit code and emails it. Unknown addresses return
// nil so the endpoint cannot be used to enumerate accounts.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return domain.ErrInvalidCredentials
	}

	allowed, err := s.limiter.Allow(ctx, email)
	if err != nil {
		s.log.Warn().Err(err).Msg("reset rate limiter unavailable, allowing request")
	} else if !allowed {
		return domain.ErrTooManyRequests
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Debug().Str("email", email).Msg("reset requested for unknown email")
			return nil
		}
		return err
	}

	code, err := generateOTPCode()
	if err != nil {
		return fmt.Errorf("generate reset code: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	otp := &domain.PasswordResetOTP{
		ID:        uuid.NewString(),
		Email:     user.Email,
		CodeHash:  string(hash),
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.otps.Replace(ctx, otp); err != nil {
		return fmt.Errorf("store reset code: %w", err)
	}

	if err := s.mailer.SendPasswordResetCode(ctx, user.Email, code, s.ttl); err != nil {
		s.log.Error().Err(err).Str("email", user.Email).Msg("failed to send reset code")
		return err
	}

	s.log.Info().Str("email", user.Email).Msg("password reset code issued")
	return nil
}

// VerifyCode checks a code without consuming it.
func (s *PasswordResetService) VerifyCode(ctx context.Context, email, code string) error {
	_, err := s.check(ctx, strings.ToLower(strings.TrimSpace(email)), code)
	return err
}

// ResetPassword verifies the code, consumes it, and replaces the password.
func (s *PasswordResetService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(newPassword) < 8 {
		return domain.ErrInvalidCredentials
	}

	otp, err := s.check(ctx, email, code)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, email, string(hash)); err != nil {
		return err
	}

	if err := s.otps.Delete(ctx, otp.ID); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("failed to consume reset code")
	}

	s.log.Info().Str("email", email).Msg("password reset completed")
	return nil
}

// check validates the code against the stored hash, counting failed attempts.
func (s *PasswordResetService) check(ctx context.Context, email, code string) (*domain.PasswordResetOTP, error) {
	otp, err := s.otps.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if otp.Expired(time.Now().UTC()) {
		return nil, domain.ErrOTPExpired
	}
	if otp.Attempts >= domain.MaxOTPAttempts {
		return nil, domain.ErrOTPAttemptsExceeded
	}

	if bcrypt.CompareHashAndPassword([]byte(otp.CodeHash), []byte(code)) != nil {
		if err := s.otps.IncrementAttempts(ctx, otp.ID); err != nil {
			s.log.Warn().Err(err).Str("email", email).Msg("failed to count reset attempt")
		}
		return nil, domain.ErrOTPInvalid
	}
	return otp, nil
}

// generateOTPCode returns a uniformly random 6-digit code.
func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
