package token

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seungpyo.lee/PersonalBlog/internal/domain"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func TestRoundTrip(t *testing.T) {
	clock := newClock()
	c := NewCodec("s3cret", clock.Now)

	for _, uid := range []uint{1, 2, 42, 1 << 20, ^uint(0) >> 12} {
		tok, err := c.Issue(uid, DefaultTTL)
		require.NoError(t, err)
		got, err := c.Verify(tok)
		require.NoError(t, err)
		assert.Equal(t, uid, got)
	}
}

func TestExpiry(t *testing.T) {
	clock := newClock()
	c := NewCodec("s3cret", clock.Now)

	tok, err := c.Issue(7, time.Second)
	require.NoError(t, err)

	_, err = c.Verify(tok)
	require.NoError(t, err)

	clock.Advance(2 * time.Second)
	_, err = c.Verify(tok)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
	assert.NotErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestDefaultWindow(t *testing.T) {
	clock := newClock()
	c := NewCodec("s3cret", clock.Now)

	tok, err := c.Issue(3, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, c.ExpiresIn(tok))

	clock.Advance(DefaultTTL - time.Second)
	_, err = c.Verify(tok)
	require.NoError(t, err)

	clock.Advance(2 * time.Second)
	_, err = c.Verify(tok)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
	assert.Zero(t, c.ExpiresIn(tok))
}

func TestTamperedTokenIsRejected(t *testing.T) {
	c := NewCodec("s3cret", newClock().Now)
	tok, err := c.Issue(11, DefaultTTL)
	require.NoError(t, err)

	for i := range tok {
		b := []byte(tok)
		if b[i] == 'A' {
			b[i] = 'B'
		} else {
			b[i] = 'A'
		}
		_, err := c.Verify(string(b))
		assert.ErrorIs(t, err, domain.ErrTokenInvalid, "byte %d", i)
	}
}

func TestRejectsForeignTokens(t *testing.T) {
	clock := newClock()
	c := NewCodec("s3cret", clock.Now)

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{"empty", func(*testing.T) string { return "" }},
		{"garbage", func(*testing.T) string { return "not.a.token" }},
		{"wrong secret", func(t *testing.T) string {
			tok, err := NewCodec("other", clock.Now).Issue(1, DefaultTTL)
			require.NoError(t, err)
			return tok
		}},
		{"session token without audience", func(t *testing.T) string {
			tok, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
				"user_id": 1,
				"exp":     clock.Now().Add(time.Hour).Unix(),
				"iat":     clock.Now().Unix(),
			}).SignedString([]byte("s3cret"))
			require.NoError(t, err)
			return tok
		}},
		{"alg none", func(t *testing.T) string {
			tok, err := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, jwtlib.MapClaims{
				"user_id": 1,
				"aud":     audience,
				"exp":     clock.Now().Add(time.Hour).Unix(),
			}).SignedString(jwtlib.UnsafeAllowNoneSignatureType)
			require.NoError(t, err)
			return tok
		}},
		{"issued in the future", func(t *testing.T) string {
			tok, err := NewCodec("s3cret", func() time.Time { return clock.Now().Add(time.Hour) }).Issue(1, DefaultTTL)
			require.NoError(t, err)
			return tok
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Verify(tt.token(t))
			assert.ErrorIs(t, err, domain.ErrTokenInvalid)
		})
	}
}
