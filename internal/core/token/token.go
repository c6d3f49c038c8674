// Package token encodes user identities into signed, time-bound bearer
// tokens and validates them on the way back in.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pickmeapp/pickme-api/internal/core/domain"
)

// MinSecretLen is the shortest signing secret accepted for HS256. Startup
// validation logs an error for anything shorter but does not abort.
const MinSecretLen = 32

var ErrInvalidToken = errors.New("invalid token")

// Claims is the decoded identity carried by a token.
type Claims struct {
	UserID    string
	Subject   string // login email
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Codec signs and verifies HS256 tokens with a single server-side secret.
// It is immutable after construction and safe for concurrent use.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// Generate issues a signed token for the given user.
func (c *Codec) Generate(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     user.Email,
		"user_id": user.ID,
		"role":    user.Role,
		"iat":     now.Unix(),
		"exp":     now.Add(c.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Parse verifies signature and expiry and returns the decoded claims.
// Any failure (malformed, wrong alg, bad signature, expired) is reported as
// an error wrapping ErrInvalidToken.
func (c *Codec) Parse(raw string) (*Claims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}

	out := &Claims{Subject: sub}
	out.UserID, _ = claims["user_id"].(string)
	out.Role, _ = claims["role"].(string)
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}
