package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"seungpyo.lee/PersonalBlog/internal/authz"
	"seungpyo.lee/PersonalBlog/internal/domain"
	"seungpyo.lee/PersonalBlog/internal/metrics"
	"seungpyo.lee/PersonalBlog/internal/util"
	"seungpyo.lee/PersonalBlog/pkg/config"
	"seungpyo.lee/PersonalBlog/pkg/jwt"
	"seungpyo.lee/PersonalBlog/pkg/logger"
)

// authService implements domain.AuthService using a UserRepository.
type authService struct {
	repo         domain.UserRepository
	config       config.GlobalConfig
	TokenManager jwt.TokenManager
	log          *logger.Logger
}

// NewAuthService creates a new AuthService with the given UserRepository.
func NewAuthService(repo domain.UserRepository, tokenManager jwt.TokenManager, conf config.GlobalConfig, log *logger.Logger) domain.AuthService {
	return &authService{repo: repo, config: conf, TokenManager: tokenManager, log: log}
}

// Register creates a new user account. Username and email conflicts are reported per field.
func (s *authService) Register(ctx context.Context, identity *domain.Identity, req domain.RegisterRequest) (*domain.User, error) {
	if err := authz.RequireAnonymous(identity); err != nil {
		return nil, err
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	verr := validateStruct(req)
	if err := checkUnique(ctx, s.repo, verr, req.Username, req.Email); err != nil {
		return nil, err
	}
	if err := verr.ErrOrNil(); err != nil {
		metrics.AuthTotal.WithLabelValues("register", "invalid").Inc()
		return nil, err
	}

	hashedPassword, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &domain.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashedPassword,
		ImageRef: domain.DefaultImageRef,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// lost a race with a concurrent registration; recompute which field clashed
			verr := &domain.ValidationError{}
			if cerr := checkUnique(ctx, s.repo, verr, req.Username, req.Email); cerr == nil && len(verr.Fields) > 0 {
				return nil, verr
			}
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	metrics.AuthTotal.WithLabelValues("register", "ok").Inc()
	s.log.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login authenticates a user by email and password. Every credential failure
// returns the same ErrAuthenticationFailed.
func (s *authService) Login(ctx context.Context, identity *domain.Identity, req domain.LoginRequest) (*domain.LoginResponse, error) {
	if err := authz.RequireAnonymous(identity); err != nil {
		return nil, err
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := validateStruct(req).ErrOrNil(); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			util.BurnPasswordCheck(req.Password)
			metrics.AuthTotal.WithLabelValues("login", "failed").Inc()
			return nil, domain.ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if err := util.CheckPassword(user.Password, req.Password); err != nil {
		metrics.AuthTotal.WithLabelValues("login", "failed").Inc()
		return nil, domain.ErrAuthenticationFailed
	}

	accessTTL := time.Duration(s.config.AccessTokenTTL) * time.Minute
	refreshTTL := time.Duration(s.config.RefreshTokenTTL) * time.Minute
	if req.Remember {
		refreshTTL = time.Duration(s.config.RememberTokenTTL) * time.Minute
	}
	accessToken, refreshToken, err := s.TokenManager.GenerateToken(user.ID, user.Username, accessTTL, refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	metrics.AuthTotal.WithLabelValues("login", "ok").Inc()
	return &domain.LoginResponse{
		Token:        accessToken,
		ExpiresAt:    time.Now().Add(accessTTL).Unix(),
		RefreshToken: refreshToken,
		User:         *user,
	}, nil
}

// Logout revokes the access token and, when given, the refresh token.
func (s *authService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if accessToken == "" {
		return domain.ErrUnauthenticated
	}
	if err := s.TokenManager.RevokeToken(ctx, accessToken); err != nil {
		return fmt.Errorf("failed to revoke access token: %w", err)
	}
	if refreshToken != "" {
		if err := s.TokenManager.RevokeToken(ctx, refreshToken); err != nil {
			// the session is already over for this client; a bad refresh token changes nothing
			s.log.Warn("refresh token not revoked", "error", err)
		}
	}
	metrics.AuthTotal.WithLabelValues("logout", "ok").Inc()
	return nil
}

// RefreshToken issues a new access token for a valid, unrevoked refresh token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, int64, error) {
	accessTTL := time.Duration(s.config.AccessTokenTTL) * time.Minute
	access, err := s.TokenManager.RefreshToken(ctx, refreshToken, accessTTL)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenInvalid) || errors.Is(err, jwt.ErrTokenExpired) || errors.Is(err, jwt.ErrTokenRevoked) {
			return "", 0, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
		}
		return "", 0, fmt.Errorf("failed to refresh token: %w", err)
	}
	return access, time.Now().Add(accessTTL).Unix(), nil
}
