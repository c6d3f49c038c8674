package ports

import (
	"context"
	"time"

	"github.com/pickmeapp/pickme-api/internal/core/domain"
)

// OTPRepository persists password reset codes, one active code per email.
type OTPRepository interface {
	// Replace stores the code, discarding any previous one for the email.
	Replace(ctx context.Context, otp *domain.PasswordResetOTP) error
	FindByEmail(ctx context.Context, email string) (*domain.PasswordResetOTP, error)
	IncrementAttempts(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes every code past its expiry and returns how many
	// rows went. It is the single idempotent statement run by the cleaner.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Mailer delivers the one-time code to the account's email address.
type Mailer interface {
	SendPasswordResetCode(ctx context.Context, to, code string, ttl time.Duration) error
}

// ResetRateLimiter throttles reset requests per email address.
type ResetRateLimiter interface {
	Allow(ctx context.Context, email string) (bool, error)
}

type PasswordResetService interface {
	// RequestReset issues and emails a code. Unknown emails return nil so the
	// endpoint does not leak which addresses exist.
	RequestReset(ctx context.Context, email string) error
	// VerifyCode checks a code without consuming it (UX pre-check).
	VerifyCode(ctx context.Context, email, code string) error
	// ResetPassword verifies the code, consumes it, and sets the new password.
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}
