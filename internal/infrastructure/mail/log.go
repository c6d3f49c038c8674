package mail

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// LogMailer writes codes to the log instead of sending email. Development
// fallback when MAIL_FROM is not configured.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendPasswordResetCode(_ context.Context, to, code string, ttl time.Duration) error {
	m.log.Info().
		Str("to", to).
		Str("code", code).
		Dur("ttl", ttl).
		Msg("password reset code (log sender)")
	return nil
}
