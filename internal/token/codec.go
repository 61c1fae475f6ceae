// Package token issues and verifies the signed, time-limited password reset token.
package token

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"seungpyo.lee/PersonalBlog/internal/domain"
)

// DefaultTTL is the validity window of a reset token.
const DefaultTTL = 1800 * time.Second

// audience keeps session tokens signed with the same secret from being accepted here.
const audience = "password-reset"

type claims struct {
	UserID uint `json:"user_id"`
	jwtlib.RegisteredClaims
}

// Codec signs reset tokens with the process secret.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// NewCodec creates a Codec. now may be nil, in which case time.Now is used.
func NewCodec(secret string, now func() time.Time) *Codec {
	if now == nil {
		now = time.Now
	}
	return &Codec{secret: []byte(secret), now: now}
}

// Issue returns an opaque token for userID that verifies until ttl has elapsed.
// A non-positive ttl falls back to DefaultTTL.
func (c *Codec) Issue(userID uint, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	issuedAt := c.now()
	tok := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims{
		UserID: userID,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Audience:  jwtlib.ClaimStrings{audience},
			IssuedAt:  jwtlib.NewNumericDate(issuedAt),
			ExpiresAt: jwtlib.NewNumericDate(issuedAt.Add(ttl)),
		},
	})
	s, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign reset token: %w", err)
	}
	return s, nil
}

// Verify returns the embedded user id. Failures are domain.ErrTokenExpired when
// only the window has lapsed and domain.ErrTokenInvalid for everything else.
func (c *Codec) Verify(tokenString string) (uint, error) {
	var cl claims
	tok, err := jwtlib.ParseWithClaims(tokenString, &cl, func(*jwtlib.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithAudience(audience),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithIssuedAt(),
		jwtlib.WithStrictDecoding(),
		jwtlib.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return 0, domain.ErrTokenExpired
		}
		return 0, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}
	if !tok.Valid || cl.UserID == 0 {
		return 0, domain.ErrTokenInvalid
	}
	return cl.UserID, nil
}

// ExpiresIn reports how long a token that verified at the current time remains usable.
// It returns 0 for tokens it cannot read.
func (c *Codec) ExpiresIn(tokenString string) time.Duration {
	var cl claims
	_, _, err := jwtlib.NewParser().ParseUnverified(tokenString, &cl)
	if err != nil || cl.ExpiresAt == nil {
		return 0
	}
	d := cl.ExpiresAt.Time.Sub(c.now())
	if d < 0 {
		return 0
	}
	return d
}
