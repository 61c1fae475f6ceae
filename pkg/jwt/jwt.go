package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired is returned when a token has expired.
	ErrTokenExpired = errors.New("token is expired")
	// ErrTokenInvalid covers bad signatures, malformed tokens and tokens of the wrong type.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenRevoked is returned for tokens that were revoked on logout or rotation.
	ErrTokenRevoked = errors.New("token is revoked")
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims defines the custom JWT claims structure for session tokens.
type Claims struct {
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	TokenType string `json:"typ"`
	jwtlib.RegisteredClaims
}

// TokenManager provides methods for generating, validating, and revoking session tokens.
type TokenManager interface {
	// accessToken, refreshToken, error
	GenerateToken(userID uint, username string, accessTokenExp, refreshTokenExp time.Duration) (string, string, error)
	RefreshToken(ctx context.Context, refreshToken string, accessTokenExp time.Duration) (string, error)
	ValidateAccessToken(ctx context.Context, tokenString string) (*Claims, error)
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)
	RevokeToken(ctx context.Context, tokenString string) error
	IsTokenRevoked(ctx context.Context, tokenString string) (bool, error)
}

// NewTokenManager creates a new TokenManager with the given secret key and revocation store.
// A nil store disables revocation checks.
func NewTokenManager(secretKey string, store RevocationStore) TokenManager {
	return &tokenManager{secretKey: secretKey, store: store, now: time.Now}
}

type tokenManager struct {
	secretKey string
	store     RevocationStore
	now       func() time.Time
}

// GenerateToken creates a new access and refresh JWT token for a user.
func (j *tokenManager) GenerateToken(userID uint, username string, accessTokenExp, refreshTokenExp time.Duration) (string, string, error) {
	accessTokenStr, err := j.sign(userID, username, TokenTypeAccess, accessTokenExp)
	if err != nil {
		return "", "", err
	}
	refreshTokenStr, err := j.sign(userID, username, TokenTypeRefresh, refreshTokenExp)
	if err != nil {
		return "", "", err
	}
	return accessTokenStr, refreshTokenStr, nil
}

// RefreshToken validates the refresh token and issues a new access token only.
func (j *tokenManager) RefreshToken(ctx context.Context, refreshToken string, accessTokenExp time.Duration) (string, error) {
	claims, err := j.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	return j.sign(claims.UserID, claims.Username, TokenTypeAccess, accessTokenExp)
}

// ValidateAccessToken parses the access token and checks the revocation store.
func (j *tokenManager) ValidateAccessToken(ctx context.Context, tokenString string) (*Claims, error) {
	return j.validate(ctx, tokenString, TokenTypeAccess)
}

// ValidateRefreshToken parses the refresh token and checks the revocation store.
func (j *tokenManager) ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error) {
	return j.validate(ctx, tokenString, TokenTypeRefresh)
}

// RevokeToken stores the token in the revocation store until it would naturally expire.
func (j *tokenManager) RevokeToken(ctx context.Context, tokenString string) error {
	if j.store == nil {
		return errors.New("revocation store not configured")
	}
	claims, err := j.parse(tokenString)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil // already unusable
		}
		return fmt.Errorf("invalid token for revocation: %w", err)
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Time.Sub(j.now())
	if ttl <= 0 {
		return nil
	}
	return j.store.Revoke(ctx, tokenString, ttl)
}

// IsTokenRevoked reports whether the token is in the revocation store.
func (j *tokenManager) IsTokenRevoked(ctx context.Context, tokenString string) (bool, error) {
	if j.store == nil {
		return false, nil
	}
	return j.store.IsRevoked(ctx, tokenString)
}

func (j *tokenManager) sign(userID uint, username, tokenType string, exp time.Duration) (string, error) {
	now := j.now()
	claims := Claims{
		UserID:    userID,
		Username:  username,
		TokenType: tokenType,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(now.Add(exp)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

func (j *tokenManager) parse(tokenString string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenString, &Claims{}, func(token *jwtlib.Token) (interface{}, error) {
		return []byte(j.secretKey), nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}), jwtlib.WithTimeFunc(j.now))
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (j *tokenManager) validate(ctx context.Context, tokenString, tokenType string) (*Claims, error) {
	claims, err := j.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenType {
		return nil, fmt.Errorf("%w: expected %s token", ErrTokenInvalid, tokenType)
	}
	revoked, err := j.IsTokenRevoked(ctx, tokenString)
	if err != nil {
		return nil, fmt.Errorf("failed to check revocation: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}
