package domain

import (
	"errors"
	"time"
)

// MaxOTPAttempts is the number of failed verifications before the code burns.
const MaxOTPAttempts = 5

var ErrOTPNotFound = errors.New("no pending reset code")
var ErrOTPInvalid = errors.New("invalid reset code")
var ErrOTPExpired = errors.New("reset code expired")
var ErrOTPAttemptsExceeded = errors.New("too many failed attempts")
var ErrTooManyRequests = errors.New("too many reset requests")

// PasswordResetOTP is a one-time password issued for a reset request. Only a
// bcrypt hash of the code is stored; the plaintext goes out by email once.
type PasswordResetOTP struct {
	ID        string    `json:"-" db:"id"`
	Email     string    `json:"-" db:"email"`
	CodeHash  string    `json:"-" db:"code_hash"`
	Attempts  int       `json:"-" db:"attempts"`
	ExpiresAt time.Time `json:"-" db:"expires_at"`
	CreatedAt time.Time `json:"-" db:"created_at"`
}

// Expired reports whether the code is past its expiry at the given instant.
func (o *PasswordResetOTP) Expired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}
