package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pickmeapp/pickme-api/internal/core/domain"
)

type OTPRepository struct {
	db *sqlx.DB
}

func NewOTPRepository(db *sqlx.DB) *OTPRepository {
	return &OTPRepository{db: db}
}

// Replace stores the code, discarding any previous one for the email. The
// upsert keeps the one-active-code-per-email invariant in a single statement.
func (r *OTPRepository) Replace(ctx context.Context, otp *domain.PasswordResetOTP) error {
	const query = `
		INSERT INTO password_reset_otps (id, email, code_hash, attempts, expires_at, created_at)
		VALUES (:id, :email, :code_hash, :attempts, :expires_at, :created_at)
		ON CONFLICT (email) DO UPDATE
		SET id = EXCLUDED.id, code_hash = EXCLUDED.code_hash, attempts = 0,
			expires_at = EXCLUDED.expires_at, created_at = EXCLUDED.created_at`

	if _, err := r.db.NamedExecContext(ctx, query, otp); err != nil {
		return fmt.Errorf("store reset code: %w", err)
	}
	return nil
}

func (r *OTPRepository) FindByEmail(ctx context.Context, email string) (*domain.PasswordResetOTP, error) {
	var otp domain.PasswordResetOTP
	err := r.db.GetContext(ctx, &otp,
		`SELECT * FROM password_reset_otps WHERE email = $1`, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOTPNotFound
		}
		return nil, fmt.Errorf("find reset code: %w", err)
	}
	return &otp, nil
}

func (r *OTPRepository) IncrementAttempts(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE password_reset_otps SET attempts = attempts + 1 WHERE id = $1`, id); err != nil {
		return fmt.Errorf("increment attempts: %w", err)
	}
	return nil
}

func (r *OTPRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM password_reset_otps WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete reset code: %w", err)
	}
	return nil
}

// DeleteExpired removes every code past its expiry in one statement.
func (r *OTPRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM password_reset_otps WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired codes: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired codes: %w", err)
	}
	return n, nil
}
