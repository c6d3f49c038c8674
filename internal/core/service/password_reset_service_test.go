package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/pickmeapp/pickme-api/internal/core/domain"
)

func newResetSvc(users *stubUserRepo, otps *stubOTPStore, mailer *stubMailer, limiter *stubLimiter) *PasswordResetService {
	return NewPasswordResetService(users, otps, mailer, limiter, 10*time.Minute, zerolog.Nop())
}

func seededOTP(otps *stubOTPStore, email, code string, expiresAt time.Time, attempts int) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	otps.byEmail[email] = &domain.PasswordResetOTP{
		ID:        "otp-1",
		Email:     email,
		CodeHash:  string(hash),
		Attempts:  attempts,
		ExpiresAt: expiresAt,
	}
}

func TestPasswordResetService_RequestReset_HappyPath(t *testing.T) {
	users := newStubUserRepo()
	seedUser(users, "an@example.com", "old-pass", domain.RoleCustomer, true)
	otps := newStubOTPStore()
	mailer := &stubMailer{}

	svc := newResetSvc(users, otps, mailer, &stubLimiter{})
	if err := svc.RequestReset(context.Background(), "An@Example.com"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(mailer.sentTo) != 1 || mailer.sentTo[0] != "an@example.com" {
		t.Fatalf("expected one mail to the account, got: %v", mailer.sentTo)
	}
	if !regexp.MustCompile(`^\d{6}$`).MatchString(mailer.lastCode) {
		t.Errorf("expected 6-digit code, got %q", mailer.lastCode)
	}

	otp, ok := otps.byEmail["an@example.com"]
	if !ok {
		t.Fatal("expected a stored reset code")
	}
	if otp.CodeHash == mailer.lastCode {
		t.Error("code stored in plaintext")
	}
	if bcrypt.CompareHashAndPassword([]byte(otp.CodeHash), []byte(mailer.lastCode)) != nil {
		t.Error("stored hash does not match the emailed code")
	}
}

func TestPasswordResetService_RequestReset_UnknownEmailSilent(t *testing.T) {
	otps := newStubOTPStore()
	mailer := &stubMailer{}

	svc := newResetSvc(newStubUserRepo(), otps, mailer, &stubLimiter{})
	if err := svc.RequestReset(context.Background(), "ghost@example.com"); err != nil {
		t.Fatalf("unknown email must not leak, got: %v", err)
	}
	if len(mailer.sentTo) != 0 || len(otps.byEmail) != 0 {
		t.Error("unknown email must produce no mail and no stored code")
	}
}

func TestPasswordResetService_RequestReset_RateLimited(t *testing.T) {
	users := newStubUserRepo()
	seedUser(users, "an@example.com", "old-pass", domain.RoleCustomer, true)

	svc := newResetSvc(users, newStubOTPStore(), &stubMailer{}, &stubLimiter{denied: true})
	if err := svc.RequestReset(context.Background(), "an@example.com"); !errors.Is(err, domain.ErrTooManyRequests) {
		t.Fatalf("expected ErrTooManyRequests, got: %v", err)
	}
}

func TestPasswordResetService_RequestReset_LimiterOutageAllows(t *testing.T) {
	users := newStubUserRepo()
	seedUser(users, "an@example.com", "old-pass", domain.RoleCustomer, true)
	mailer := &stubMailer{}

	svc := newResetSvc(users, newStubOTPStore(), mailer, &stubLimiter{allowErr: errors.New("redis down")})
	if err := svc.RequestReset(context.Background(), "an@example.com"); err != nil {
		t.Fatalf("limiter outage must not block resets, got: %v", err)
	}
	if len(mailer.sentTo) != 1 {
		t.Error("expected code still sent")
	}
}

func TestPasswordResetService_VerifyCode(t *testing.T) {
	otps := newStubOTPStore()
	seededOTP(otps, "an@example.com", "123456", time.Now().Add(5*time.Minute), 0)
	svc := newResetSvc(newStubUserRepo(), otps, &stubMailer{}, &stubLimiter{})

	if err := svc.VerifyCode(context.Background(), "an@example.com", "123456"); err != nil {
		t.Fatalf("expected valid code, got: %v", err)
	}
	// Non-consuming: a second verify still passes.
	if err := svc.VerifyCode(context.Background(), "an@example.com", "123456"); err != nil {
		t.Fatalf("expected verify to be non-consuming, got: %v", err)
	}

	if err := svc.VerifyCode(context.Background(), "an@example.com", "654321"); !errors.Is(err, domain.ErrOTPInvalid) {
		t.Fatalf("expected ErrOTPInvalid, got: %v", err)
	}
	if otps.byEmail["an@example.com"].Attempts != 1 {
		t.Error("expected failed attempt counted")
	}
}

func TestPasswordResetService_VerifyCode_Expired(t *testing.T) {
	otps := newStubOTPStore()
	seededOTP(otps, "an@example.com", "123456", time.Now().Add(-time.Minute), 0)
	svc := newResetSvc(newStubUserRepo(), otps, &stubMailer{}, &stubLimiter{})

	if err := svc.VerifyCode(context.Background(), "an@example.com", "123456"); !errors.Is(err, domain.ErrOTPExpired) {
		t.Fatalf("expected ErrOTPExpired, got: %v", err)
	}
}

func TestPasswordResetService_VerifyCode_AttemptsExceeded(t *testing.T) {
	otps := newStubOTPStore()
	seededOTP(otps, "an@example.com", "123456", time.Now().Add(5*time.Minute), domain.MaxOTPAttempts)
	svc := newResetSvc(newStubUserRepo(), otps, &stubMailer{}, &stubLimiter{})

	// Even the right code is refused once the attempt budget is burned.
	if err := svc.VerifyCode(context.Background(), "an@example.com", "123456"); !errors.Is(err, domain.ErrOTPAttemptsExceeded) {
		t.Fatalf("expected ErrOTPAttemptsExceeded, got: %v", err)
	}
}

func TestPasswordResetService_ResetPassword_HappyPath(t *testing.T) {
	users := newStubUserRepo()
	seedUser(users, "an@example.com", "old-pass", domain.RoleCustomer, true)
	otps := newStubOTPStore()
	seededOTP(otps, "an@example.com", "123456", time.Now().Add(5*time.Minute), 0)

	svc := newResetSvc(users, otps, &stubMailer{}, &stubLimiter{})
	if err := svc.ResetPassword(context.Background(), "an@example.com", "123456", "new-password"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	newHash := users.passwords["an@example.com"]
	if newHash == "" {
		t.Fatal("expected password updated")
	}
	if bcrypt.CompareHashAndPassword([]byte(newHash), []byte("new-password")) != nil {
		t.Error("stored hash does not match the new password")
	}
	if len(otps.deleted) != 1 {
		t.Error("expected reset code consumed")
	}
}

func TestPasswordResetService_ResetPassword_ShortPassword(t *testing.T) {
	otps := newStubOTPStore()
	seededOTP(otps, "an@example.com", "123456", time.Now().Add(5*time.Minute), 0)
	svc := newResetSvc(newStubUserRepo(), otps, &stubMailer{}, &stubLimiter{})

	if err := svc.ResetPassword(context.Background(), "an@example.com", "123456", "short"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for short password, got: %v", err)
	}
}

func TestPasswordResetService_ResetPassword_WrongCode(t *testing.T) {
	users := newStubUserRepo()
	seedUser(users, "an@example.com", "old-pass", domain.RoleCustomer, true)
	otps := newStubOTPStore()
	seededOTP(otps, "an@example.com", "123456", time.Now().Add(5*time.Minute), 0)

	svc := newResetSvc(users, otps, &stubMailer{}, &stubLimiter{})
	if err := svc.ResetPassword(context.Background(), "an@example.com", "000000", "new-password"); !errors.Is(err, domain.ErrOTPInvalid) {
		t.Fatalf("expected ErrOTPInvalid, got: %v", err)
	}
	if users.passwords["an@example.com"] != "" {
		t.Error("password must not change on a wrong code")
	}
}
